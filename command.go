package ecc608

import "errors"

// General device command opcodes.
//
//nolint unused commands
const (
	opCheckMac    = 0x28 // CheckMac command op-code
	opDeriveKey   = 0x1c // DeriveKey command op-code
	opInfo        = 0x30 // Info command op-code
	opGenDig      = 0x15 // GenDig command op-code
	opGenKey      = 0x40 // GenKey command op-code
	opLock        = 0x17 // Lock command op-code
	opMAC         = 0x08 // MAC command op-code
	opNonce       = 0x16 // Nonce command op-code
	opPrivWrite   = 0x46 // PrivWrite command op-code
	opRandom      = 0x1b // Random command op-code
	opRead        = 0x02 // Read command op-code
	opSign        = 0x41 // Sign command op-code
	opUpdateExtra = 0x20 // UpdateExtra command op-code
	opVerify      = 0x45 // Verify command op-code
	opWrite       = 0x12 // Write command op-code
	opECDH        = 0x43 // ECDH command op-code
	opCounter     = 0x24 // Counter command op-code
	opSHA         = 0x47 // SHA command op-code
	opAES         = 0x51 // AES command op-code
	opKDF         = 0x56 // KDF command op-code
	opSelfTest    = 0x77 // Self test command op-code
)

// zoneReadWrite32 is zone bit 7: access 32 bytes instead of 4.
const zoneReadWrite32 = 0x80

// DataBuffer selects a volatile buffer internal to the device.
//
// Buffer contents persist only until the device sleeps or power-cycles.
type DataBuffer uint8

// Device buffers.
const (
	BufferTempKey DataBuffer = iota
	BufferMessageDigest
	BufferAltKey
)

// nonceTarget returns the Nonce command target encoding of the buffer.
func (b DataBuffer) nonceTarget() uint8 {
	switch b {
	case BufferMessageDigest:
		return 0x40
	case BufferAltKey:
		return 0x80
	default:
		return 0x00
	}
}

// signSource returns the Sign command source encoding of the buffer.
//
// Sign can only use TempKey or the message digest buffer.
func (b DataBuffer) signSource() uint8 {
	if b == BufferMessageDigest {
		return 0x20
	}
	return 0x00
}

// KeyType selects what GenKey computes for a slot.
type KeyType uint8

const (
	// KeyTypePublic computes the public key of the private key stored in
	// the slot.
	KeyTypePublic KeyType = 0x00
	// KeyTypePrivate generates a new random private key in the slot and
	// returns its public key.
	KeyTypePrivate KeyType = 0x04
)

type infoMode uint8

const (
	infoModeRevision infoMode = 0x0
)

func infoCommand(mode infoMode) (*Command, error) {
	return newCommand(opInfo, uint8(mode), 0, nil)
}

type randomMode uint8

//nolint unused
const (
	randomModeUpdateSeed   randomMode = 0x00
	randomModeNoUpdateSeed randomMode = 0x01
)

func randomCommand(mode randomMode) (*Command, error) {
	return newCommand(opRandom, uint8(mode), 0, nil)
}

func genKeyCommand(keyType KeyType, slot uint8) (*Command, error) {
	if slot > MaxSlot {
		return nil, ErrInvalidSlot
	}
	return newCommand(opGenKey, uint8(keyType), uint16(slot), nil)
}

// Nonce modes.
//
//nolint unused
const (
	nonceModeSeedUpdate  = 0x00 // combine input with RNG, update seed
	nonceModePassthrough = 0x03 // load input into the target buffer as-is

	nonceModeInputLen32 = 0x00 // input size is 32 bytes
	nonceModeInputLen64 = 0x20 // input size is 64 bytes
)

func nonceCommand(target DataBuffer, data []byte) (*Command, error) {
	param1 := uint8(nonceModePassthrough) | target.nonceTarget()
	switch len(data) {
	case 32:
		param1 |= nonceModeInputLen32
	case 64:
		param1 |= nonceModeInputLen64
	default:
		return nil, errors.New("ecc608: nonce input must be 32 or 64 bytes")
	}
	return newCommand(opNonce, param1, 0, data)
}

// Sign modes.
//
//nolint unused
const (
	signModeInternal = 0x00 // sign an internally generated digest
	signModeExternal = 0x80 // sign an externally supplied digest
)

func signCommand(source DataBuffer, slot uint8) (*Command, error) {
	if slot > MaxSlot {
		return nil, ErrInvalidSlot
	}
	return newCommand(opSign, signModeExternal|source.signSource(), uint16(slot), nil)
}

func ecdhCommand(x, y []byte, slot uint8) (*Command, error) {
	if slot > MaxSlot {
		return nil, ErrInvalidSlot
	}
	if len(x) != 32 || len(y) != 32 {
		return nil, errors.New("ecc608: ecdh coordinates must be 32 bytes each")
	}
	data := make([]byte, 0, 64)
	data = append(data, x...)
	data = append(data, y...)
	return newCommand(opECDH, 0, uint16(slot), data)
}

func readCommand(block32 bool, addr Address) (*Command, error) {
	param1 := uint8(addr.zone)
	if block32 {
		param1 |= zoneReadWrite32
	}
	return newCommand(opRead, param1, addr.word, nil)
}

func writeCommand(addr Address, data []byte) (*Command, error) {
	param1 := uint8(addr.zone)
	switch len(data) {
	case wordSize:
	case blockSize:
		param1 |= zoneReadWrite32
	default:
		return nil, errors.New("ecc608: write data must be one word or one block")
	}
	return newCommand(opWrite, param1, addr.word, data)
}

type lockMode uint8

// Lock modes.
//
//nolint unused
const (
	lockModeNoCRC = lockMode(0x80) // skip zone summary CRC check
)

func lockCommand(zone Zone, mode lockMode) (*Command, error) {
	var param1 uint8
	switch zone {
	case ZoneConfig:
		param1 = 0x00
	case ZoneData:
		param1 = 0x01
	default:
		return nil, errors.New("ecc608: zone cannot be locked")
	}
	return newCommand(opLock, param1|uint8(mode), 0, nil)
}
