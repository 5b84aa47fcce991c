package ecc608

import "errors"

// Zone is a logical region of the device memory map.
type Zone uint8

// Device zones as encoded in command parameters.
const (
	ZoneConfig Zone = 0x00
	ZoneOTP    Zone = 0x01
	ZoneData   Zone = 0x02
)

func (z Zone) String() string {
	switch z {
	case ZoneConfig:
		return "config"
	case ZoneOTP:
		return "otp"
	case ZoneData:
		return "data"
	default:
		return "unknown"
	}
}

// MaxSlot is the highest key slot on the device.
const MaxSlot = 15

// Config zone geometry: 128 bytes as 4 blocks of 8 four-byte words.
const (
	configZoneBlocks = 4
	blockWords       = 8
)

// Byte offsets of the paired 16-bit configuration registers within the
// configuration zone. See datasheet section 2.2.
const (
	slotConfigOffset = 20
	keyConfigOffset  = 96
)

// Address resolution errors. Both are raised before any I/O happens.
var (
	ErrInvalidSlot    = errors.New("ecc608: slot must be 0-15")
	ErrInvalidAddress = errors.New("ecc608: address outside zone")
)

// Address is a resolved location in the device memory map.
//
// Addresses are transient values computed per call; the zero value is not a
// valid address.
type Address struct {
	zone Zone
	word uint16
}

// ConfigAddress resolves a word address in the configuration zone.
func ConfigAddress(block, offset uint8) (Address, error) {
	if block >= configZoneBlocks || offset >= blockWords {
		return Address{}, ErrInvalidAddress
	}
	return Address{ZoneConfig, uint16(block)<<3 | uint16(offset)}, nil
}

// DataAddress resolves a word address within a data zone slot.
func DataAddress(slot, block, offset uint8) (Address, error) {
	if slot > MaxSlot {
		return Address{}, ErrInvalidSlot
	}
	if offset >= blockWords {
		return Address{}, ErrInvalidAddress
	}
	word := uint16(slot)<<3 | uint16(offset) | uint16(block)<<8
	return Address{ZoneData, word}, nil
}

// SlotConfigAddress resolves the configuration word that holds the
// SlotConfig register for slot. Slots share words pairwise: slot and
// slot^1 resolve to the same address.
func SlotConfigAddress(slot uint8) (Address, error) {
	return pairedConfigAddress(slot, slotConfigOffset)
}

// KeyConfigAddress resolves the configuration word that holds the KeyConfig
// register for slot. The same pairing rule as SlotConfigAddress applies.
func KeyConfigAddress(slot uint8) (Address, error) {
	return pairedConfigAddress(slot, keyConfigOffset)
}

func pairedConfigAddress(slot uint8, base uint16) (Address, error) {
	if slot > MaxSlot {
		return Address{}, ErrInvalidSlot
	}
	pos := base + 2*uint16(slot)
	return ConfigAddress(uint8(pos/32), uint8(pos%32/4))
}
