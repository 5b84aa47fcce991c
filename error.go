package ecc608

import "errors"

// DeviceError is a status code reported by the device.
//
// Every code has a fixed recoverability: recoverable codes are transient and
// safe to retry, the rest indicate the command itself is bad or the device
// refused it. See the datasheet for the full specification.
type DeviceError uint8

// Device status codes.
const (
	deviceStatusSuccess DeviceError = 0x00

	ErrCheckMacFailed  DeviceError = 0x01 // CheckMac or Verify miscompare
	ErrParse           DeviceError = 0x03 // illegal length, opcode or parameter
	ErrFault           DeviceError = 0x05 // ECC processing fault
	ErrSelfTestFailed  DeviceError = 0x07
	ErrHealthTest      DeviceError = 0x08
	ErrExecution       DeviceError = 0x0f // command could not be executed in current state
	ErrAfterWake       DeviceError = 0x11 // first response after wake, command must be resent
	ErrWatchdogExpires DeviceError = 0xee // watchdog about to expire, command must be resent
	ErrComms           DeviceError = 0xff // bad CRC or command not properly received
)

func (e DeviceError) Error() string {
	switch e {
	case ErrCheckMacFailed:
		return "ecc608: check mac or verify failed"
	case ErrParse:
		return "ecc608: command not understood"
	case ErrFault:
		return "ecc608: ecc processing fault"
	case ErrSelfTestFailed:
		return "ecc608: self-test failed"
	case ErrHealthTest:
		return "ecc608: health test failed"
	case ErrExecution:
		return "ecc608: execution error"
	case ErrAfterWake:
		return "ecc608: device woke up"
	case ErrWatchdogExpires:
		return "ecc608: watchdog about to expire"
	case ErrComms:
		return "ecc608: crc or communication error"
	default:
		return "ecc608: unknown device error"
	}
}

// Recoverable reports whether the command may be retried as-is.
func (e DeviceError) Recoverable() bool {
	switch e {
	case ErrAfterWake, ErrWatchdogExpires, ErrComms:
		return true
	default:
		return false
	}
}

// Package errors.
var (
	// ErrTimeout is returned when every retry attempt failed at the
	// transport level.
	ErrTimeout = errors.New("ecc608: timed out waiting for device")

	// errShortResponse is used when a response is too short to carry a
	// count, status and CRC.
	errShortResponse = errors.New("ecc608: response too short")

	// errResponseCRC is used when a response fails its CRC check. This is
	// a decode failure on the host side, distinct from ErrComms which the
	// device reports about the command it received.
	errResponseCRC = errors.New("ecc608: response crc mismatch")
)
