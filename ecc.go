package ecc608

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
)

// cmdRetries is the default retry budget for a command exchange.
const cmdRetries = 10

// Ecc drives one secure element through a Transport.
//
// Ecc owns the transport exclusively for its lifetime and provides no
// internal locking: the device processes one command at a time, so calls
// from multiple goroutines must be serialized by the caller.
type Ecc struct {
	tr Transport
}

// New returns a controller for the device behind tr.
//
// The controller takes ownership of the transport; Close releases it.
func New(tr Transport) *Ecc {
	return &Ecc{tr: tr}
}

// OpenI2CDev opens the named I²C bus and returns a controller for the
// device at addr.
func OpenI2CDev(name string, addr uint16) (*Ecc, error) {
	tr, err := OpenI2C(name, addr)
	if err != nil {
		return nil, err
	}
	return New(tr), nil
}

// Close releases the transport.
func (e *Ecc) Close() error {
	return e.tr.Close()
}

// Info returns the device revision info.
func (e *Ecc) Info() ([]byte, error) {
	c, err := infoCommand(infoModeRevision)
	if err != nil {
		return nil, err
	}
	return e.sendCommand(c)
}

// Serial returns the 9 byte serial number of the device.
//
// Per section 2.2.6 of the datasheet the first two and the last byte are
// always 0x01, 0x23 and 0xEE.
func (e *Ecc) Serial() ([]byte, error) {
	addr, err := ConfigAddress(0, 0)
	if err != nil {
		return nil, err
	}
	b, err := e.Read(true, addr)
	if err != nil {
		return nil, err
	}
	if len(b) < 13 {
		return nil, errShortResponse
	}

	serial := make([]byte, 0, 9)
	serial = append(serial, b[0:4]...)
	serial = append(serial, b[8:13]...)
	return serial, nil
}

// GenKey runs the GenKey command on slot and returns the 64 byte public key.
//
// KeyTypePrivate replaces the slot's private key with a fresh random one;
// KeyTypePublic only computes the public key of the stored one.
func (e *Ecc) GenKey(keyType KeyType, slot uint8) ([]byte, error) {
	c, err := genKeyCommand(keyType, slot)
	if err != nil {
		return nil, err
	}
	return e.sendCommand(c)
}

// SlotConfig reads the slot's access-control register.
func (e *Ecc) SlotConfig(slot uint8) (SlotConfig, error) {
	addr, err := SlotConfigAddress(slot)
	if err != nil {
		return SlotConfig{}, err
	}
	bits, err := e.readPairedRegister(addr, slot)
	return SlotConfig{Bits: bits}, err
}

// SetSlotConfig writes the slot's access-control register.
//
// The paired slot's register shares the same device word and is preserved
// byte for byte. Only valid before the configuration zone is locked.
func (e *Ecc) SetSlotConfig(slot uint8, config SlotConfig) error {
	addr, err := SlotConfigAddress(slot)
	if err != nil {
		return err
	}
	return e.writePairedRegister(addr, slot, config.Bits)
}

// KeyConfig reads the slot's key-usage register.
func (e *Ecc) KeyConfig(slot uint8) (KeyConfig, error) {
	addr, err := KeyConfigAddress(slot)
	if err != nil {
		return KeyConfig{}, err
	}
	bits, err := e.readPairedRegister(addr, slot)
	return KeyConfig{Bits: bits}, err
}

// SetKeyConfig writes the slot's key-usage register, preserving the paired
// slot's half of the shared word.
func (e *Ecc) SetKeyConfig(slot uint8, config KeyConfig) error {
	addr, err := KeyConfigAddress(slot)
	if err != nil {
		return err
	}
	return e.writePairedRegister(addr, slot, config.Bits)
}

// Locked reports whether the zone is locked.
func (e *Ecc) Locked(zone Zone) (bool, error) {
	// The word at config block 2 offset 5 holds UserExtra, Selector,
	// LockValue and LockConfig. 0x55 means unlocked.
	addr, err := ConfigAddress(lockWordBlock, lockWordOffset)
	if err != nil {
		return false, err
	}
	b, err := e.Read(false, addr)
	if err != nil {
		return false, err
	}
	if len(b) < wordSize {
		return false, errShortResponse
	}

	switch zone {
	case ZoneConfig:
		return b[3] != zoneUnlocked, nil
	case ZoneData:
		return b[2] != zoneUnlocked, nil
	default:
		return false, errors.New("ecc608: zone has no lock state")
	}
}

// Lock locks the zone. This is irreversible.
func (e *Ecc) Lock(zone Zone) error {
	c, err := lockCommand(zone, lockModeNoCRC)
	if err != nil {
		return err
	}
	_, err = e.sendCommand(c)
	return err
}

// Sign signs data with the private key in slot and returns the raw 64 byte
// R and S signature in big-endian format.
//
// Signing chains three device commands that share volatile on-chip state:
// a Random to reseed the RNG, a Nonce that loads the SHA-256 digest of data
// into the message digest buffer, and the Sign itself. The device must not
// sleep between them, so each step runs with a single attempt and sleep
// suppressed until the sequence completes. Any failure aborts the whole
// operation; restart it from the beginning.
func (e *Ecc) Sign(slot uint8, data []byte) ([]byte, error) {
	if slot > MaxSlot {
		return nil, ErrInvalidSlot
	}

	c, err := randomCommand(randomModeUpdateSeed)
	if err != nil {
		return nil, err
	}
	if _, err := e.sendCommandRetries(c, false, 1); err != nil {
		return nil, fmt.Errorf("ecc608: sign reseed: %w", err)
	}

	digest := sha256.Sum256(data)
	if c, err = nonceCommand(BufferMessageDigest, digest[:]); err != nil {
		return nil, err
	}
	if _, err := e.sendCommandRetries(c, false, 1); err != nil {
		return nil, fmt.Errorf("ecc608: sign digest load: %w", err)
	}

	if c, err = signCommand(BufferMessageDigest, slot); err != nil {
		return nil, err
	}
	return e.sendCommandRetries(c, true, 1)
}

// ECDH computes a shared secret between the private key in slot and the
// peer public key given by its x and y coordinates.
func (e *Ecc) ECDH(slot uint8, x, y []byte) ([]byte, error) {
	c, err := ecdhCommand(x, y, slot)
	if err != nil {
		return nil, err
	}
	return e.sendCommand(c)
}

// Random returns 32 bytes from the device RNG.
func (e *Ecc) Random() ([]byte, error) {
	c, err := randomCommand(randomModeUpdateSeed)
	if err != nil {
		return nil, err
	}
	return e.sendCommand(c)
}

// Nonce loads data into the selected device buffer.
//
// The buffer persists only until the device sleeps or power-cycles.
func (e *Ecc) Nonce(target DataBuffer, data []byte) error {
	c, err := nonceCommand(target, data)
	if err != nil {
		return err
	}
	_, err = e.sendCommand(c)
	return err
}

// Read reads one word, or one block when block32 is set, at addr.
func (e *Ecc) Read(block32 bool, addr Address) ([]byte, error) {
	c, err := readCommand(block32, addr)
	if err != nil {
		return nil, err
	}
	return e.sendCommand(c)
}

// Write writes one word or one block at addr.
func (e *Ecc) Write(addr Address, data []byte) error {
	c, err := writeCommand(addr, data)
	if err != nil {
		return err
	}
	_, err = e.sendCommand(c)
	return err
}

// Lock byte layout within the configuration zone.
const (
	lockWordBlock  = 2
	lockWordOffset = 5
	zoneUnlocked   = 0x55
)

// readPairedRegister reads the 16-bit register for slot out of the shared
// four-byte word at addr.
func (e *Ecc) readPairedRegister(addr Address, slot uint8) (uint16, error) {
	b, err := e.Read(false, addr)
	if err != nil {
		return 0, err
	}
	if len(b) < wordSize {
		return 0, errShortResponse
	}

	if slot&1 == 0 {
		return binary.LittleEndian.Uint16(b[0:2]), nil
	}
	return binary.LittleEndian.Uint16(b[2:4]), nil
}

// writePairedRegister replaces slot's half of the shared four-byte word at
// addr and writes the word back whole; the device only supports full word
// writes. The read-modify-write is not atomic on the bus: nothing else may
// touch the paired register concurrently.
func (e *Ecc) writePairedRegister(addr Address, slot uint8, value uint16) error {
	b, err := e.Read(false, addr)
	if err != nil {
		return err
	}
	if len(b) < wordSize {
		return errShortResponse
	}

	word := make([]byte, wordSize)
	copy(word, b[:wordSize])
	binary.LittleEndian.PutUint16(word[uint(slot&1)*2:], value)
	return e.Write(addr, word)
}

// sendCommand performs one command exchange with the default retry budget,
// sleeping the device afterwards.
func (e *Ecc) sendCommand(c *Command) ([]byte, error) {
	return e.sendCommandRetries(c, true, cmdRetries)
}

// sendCommandRetries performs one command exchange with bounded retry.
//
// Each attempt frames the command behind the transport's flag byte, wakes
// the device and waits out the command's execution latency. Transport
// failures and recoverable device errors consume attempts; a malformed
// response or a fatal device error surfaces immediately. With sleep unset
// the device stays awake after a data response so volatile buffers survive
// into a follow-up command.
func (e *Ecc) sendCommandRetries(c *Command, sleep bool, retries int) ([]byte, error) {
	frame := make([]byte, 0, cmdSizeMax+1)
	recv := make([]byte, rspSizeMax)

	for attempt := 0; attempt < retries; attempt++ {
		frame = append(frame[:0], e.tr.CommandFlag())
		frame = c.appendTo(frame)

		if err := e.tr.Wake(); err != nil {
			return nil, err
		}

		n, err := e.tr.SendRecv(e.tr.CommandDuration(c.Opcode()), frame, recv)
		if err != nil {
			continue
		}

		data, err := decodeResponse(recv[:n])
		var derr DeviceError
		switch {
		case err == nil:
			if sleep {
				e.tr.Sleep()
			}
			return append([]byte(nil), data...), nil
		case errors.As(err, &derr):
			if derr.Recoverable() && attempt+1 < retries {
				continue
			}
			return nil, err
		default:
			// Response bytes we could not make sense of. Retrying
			// would hide a host-side bug, not a transient fault.
			return nil, err
		}
	}
	return nil, ErrTimeout
}
