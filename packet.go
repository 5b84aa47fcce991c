package ecc608

import (
	"encoding/binary"
	"errors"
)

// Command size definitions.
const (
	// cmdSizeMin is the size of a command with no data.
	//
	// It includes count, opcode, param1, param2 and crc.
	cmdSizeMin = 7
	// cmdSizeMax bounds a command carrying the largest payload (Verify
	// with signature and public key).
	cmdSizeMax = 4*36 + 7

	// rspSizeMax bounds a response: count, 64 byte payload and crc.
	rspSizeMax = 64 + 3
	// rspSizeStatus is the size of a pure status response.
	rspSizeStatus = 4
)

const (
	// blockSize is the size of a device block.
	blockSize = 32
	// wordSize is the size of a device word.
	wordSize = 4
)

// Command is an outbound device command.
//
// Commands are built fresh per exchange by the constructors in command.go
// and are not modified after construction.
type Command struct {
	opcode uint8
	param1 uint8
	param2 uint16
	data   []byte
}

func newCommand(opcode, param1 uint8, param2 uint16, data []byte) (*Command, error) {
	if cmdSizeMin+len(data) > cmdSizeMax {
		return nil, errors.New("ecc608: command data exceeds maximum size")
	}
	return &Command{
		opcode: opcode,
		param1: param1,
		param2: param2,
		data:   data,
	}, nil
}

// Opcode returns the device opcode of the command.
//
// Transports use it to look up the command's execution latency.
func (c *Command) Opcode() uint8 {
	return c.opcode
}

func (c *Command) size() uint8 {
	return uint8(cmdSizeMin + len(c.data))
}

// appendTo appends the wire encoding of the command to b.
//
// The encoding is count, opcode, param1, param2 little-endian, data and a
// trailing CRC over everything before it.
func (c *Command) appendTo(b []byte) []byte {
	start := len(b)
	b = append(b, c.size())
	b = append(b, c.opcode)
	b = append(b, c.param1)
	b = binary.LittleEndian.AppendUint16(b, c.param2)
	b = append(b, c.data...)
	return binary.LittleEndian.AppendUint16(b, crc16(b[start:]))
}

// decodeResponse parses raw response bytes into the response payload.
//
// A response is count, payload and a trailing CRC; a count of four means the
// payload is a single status byte. A non-success status is returned as a
// DeviceError. A malformed frame (short buffer, bad count, CRC mismatch) is
// a plain decode error and must not be retried.
func decodeResponse(buf []byte) ([]byte, error) {
	if len(buf) < rspSizeStatus {
		return nil, errShortResponse
	}
	count := int(buf[0])
	if count < rspSizeStatus || count > len(buf) {
		return nil, errShortResponse
	}

	body, crc := buf[:count-2], buf[count-2:count]
	if crc16(body) != binary.LittleEndian.Uint16(crc) {
		return nil, errResponseCRC
	}

	if count == rspSizeStatus {
		if status := DeviceError(body[1]); status != deviceStatusSuccess {
			return nil, status
		}
	}
	return body[1:], nil
}
