package ecc608

import "time"

// Transport is the physical channel to one device.
//
// Implementations represent exactly one device, which processes one command
// at a time. The Ecc controller owns its Transport exclusively; concurrent
// use must be serialized by the caller.
type Transport interface {
	// CommandFlag returns the flag byte prefixed to every command frame.
	CommandFlag() byte

	// Wake signals the device to leave its low-power state.
	Wake() error

	// Sleep puts the device to sleep, discarding its volatile buffers.
	//
	// Sleep is best-effort.
	Sleep()

	// CommandDuration returns the expected execution latency for opcode.
	CommandDuration(opcode uint8) time.Duration

	// SendRecv writes frame, waits d for the device to execute, then
	// reads the response into recv. It returns the number of response
	// bytes read.
	SendRecv(d time.Duration, frame []byte, recv []byte) (int, error)

	// Close releases the underlying bus or device handle.
	Close() error
}
