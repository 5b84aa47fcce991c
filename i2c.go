package ecc608

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
)

// I²C protocol word addresses. The word address is the first byte of every
// write and selects how the device interprets the rest.
const (
	i2cFlagReset   = 0x00
	i2cFlagSleep   = 0x01
	i2cFlagIdle    = 0x02
	i2cFlagCommand = 0x03
)

const (
	// i2cWakeDelay is tWHI + tWLO, the time the device needs after the
	// wake pulse before it accepts commands.
	i2cWakeDelay = 1500 * time.Microsecond

	// i2cPollInterval is the pause between response read attempts while
	// the device is still busy and NAKs its address.
	i2cPollInterval = 500 * time.Microsecond
	i2cPollRetries  = 20
)

// i2cWakeToken is the status frame the device emits after a wake pulse.
var i2cWakeToken = []byte{0x04, 0x11, 0x33, 0x43}

// I2CTransport talks to a device over an I²C bus.
type I2CTransport struct {
	bus    i2c.BusCloser
	dev    i2c.Dev
	closer bool
}

var _ Transport = (*I2CTransport)(nil)

// OpenI2C opens the named I²C bus and returns a transport for the device at
// addr. An empty name selects the first available bus. Call host.Init before
// using this on bare hardware.
func OpenI2C(name string, addr uint16) (*I2CTransport, error) {
	bus, err := i2creg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("ecc608: failed to open bus: %w", err)
	}
	t := NewI2C(bus, addr)
	t.closer = true
	return t, nil
}

// NewI2C returns a transport for the device at addr on an already open bus.
//
// The caller keeps ownership of the bus and must close it.
func NewI2C(bus i2c.BusCloser, addr uint16) *I2CTransport {
	return &I2CTransport{
		bus: bus,
		dev: i2c.Dev{Bus: bus, Addr: addr},
	}
}

// CommandFlag returns the command word address.
func (t *I2CTransport) CommandFlag() byte {
	return i2cFlagCommand
}

// Wake generates a wake pulse and verifies the device's wake token.
//
// The pulse is emulated by addressing 0x00 at bus speed, which holds SDA low
// long enough for the device to detect it. The NAK this produces is
// expected.
func (t *I2CTransport) Wake() error {
	zero := i2c.Dev{Bus: t.bus, Addr: 0x00}
	_ = zero.Tx([]byte{i2cFlagReset}, nil)

	time.Sleep(i2cWakeDelay)

	var token [4]byte
	if err := t.dev.Tx(nil, token[:]); err != nil {
		return fmt.Errorf("ecc608: no wake response: %w", err)
	}
	if !bytes.Equal(token[:], i2cWakeToken) {
		return errors.New("ecc608: unexpected wake response")
	}
	return nil
}

// Sleep puts the device into its low-power state.
func (t *I2CTransport) Sleep() {
	_ = t.dev.Tx([]byte{i2cFlagSleep}, nil)
}

// Idle puts the device into idle state, preserving volatile buffers but
// stopping the watchdog.
func (t *I2CTransport) Idle() {
	_ = t.dev.Tx([]byte{i2cFlagIdle}, nil)
}

// CommandDuration returns the datasheet execution latency for opcode.
func (t *I2CTransport) CommandDuration(opcode uint8) time.Duration {
	return commandDuration(opcode)
}

// SendRecv writes frame, waits d for execution and reads the response.
//
// The device NAKs its address while busy, so the read is polled a bounded
// number of times past the nominal execution latency.
func (t *I2CTransport) SendRecv(d time.Duration, frame []byte, recv []byte) (int, error) {
	if err := t.dev.Tx(frame, nil); err != nil {
		return 0, fmt.Errorf("ecc608: send failed: %w", err)
	}

	time.Sleep(d)

	var err error
	for i := 0; i < i2cPollRetries; i++ {
		if err = t.dev.Tx(nil, recv); err == nil {
			n := int(recv[0])
			if n < rspSizeStatus || n > len(recv) {
				return len(recv), nil // let the decoder reject it
			}
			return n, nil
		}
		time.Sleep(i2cPollInterval)
	}
	return 0, fmt.Errorf("ecc608: no response: %w", err)
}

// Close closes the bus if this transport opened it.
func (t *I2CTransport) Close() error {
	if !t.closer {
		return nil
	}
	return t.bus.Close()
}
