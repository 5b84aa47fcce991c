package ecc608

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"reflect"
	"testing"
	"time"
)

// fakeDevice is a Transport that emulates just enough of the device to
// exercise the controller: a configuration zone backed by a byte array and
// canned responses for the crypto commands. It records command opcodes and
// sleeps in order.
type fakeDevice struct {
	t      *testing.T
	config [128]byte
	events []string
	wakes  int
	nonce  []byte
}

var _ Transport = (*fakeDevice)(nil)

func (d *fakeDevice) CommandFlag() byte { return i2cFlagCommand }

func (d *fakeDevice) Wake() error {
	d.wakes++
	return nil
}

func (d *fakeDevice) Sleep() {
	d.events = append(d.events, "sleep")
}

func (d *fakeDevice) CommandDuration(opcode uint8) time.Duration { return 0 }

func (d *fakeDevice) Close() error { return nil }

func (d *fakeDevice) SendRecv(_ time.Duration, frame []byte, recv []byte) (int, error) {
	d.t.Helper()
	if frame[0] != i2cFlagCommand {
		d.t.Fatalf("frame flag %#02x, want %#02x", frame[0], i2cFlagCommand)
	}
	cmd := frame[1:]
	if int(cmd[0]) != len(cmd) {
		d.t.Fatalf("frame count %d, want %d", cmd[0], len(cmd))
	}
	if crc16(cmd[:len(cmd)-2]) != binary.LittleEndian.Uint16(cmd[len(cmd)-2:]) {
		d.t.Fatal("frame crc mismatch")
	}

	var (
		opcode = cmd[1]
		param1 = cmd[2]
		param2 = binary.LittleEndian.Uint16(cmd[3:5])
		data   = cmd[5 : len(cmd)-2]
		rsp    []byte
	)
	switch opcode {
	case opRead:
		d.events = append(d.events, "read")
		off := configByteOffset(param2)
		size := wordSize
		if param1&zoneReadWrite32 != 0 {
			size = blockSize
		}
		rsp = rspFrame(d.config[off : off+size])
	case opWrite:
		d.events = append(d.events, "write")
		copy(d.config[configByteOffset(param2):], data)
		rsp = rspFrame([]byte{0x00})
	case opRandom:
		d.events = append(d.events, "random")
		rsp = rspFrame(bytes.Repeat([]byte{0xa5}, 32))
	case opNonce:
		d.events = append(d.events, "nonce")
		d.nonce = append([]byte(nil), data...)
		rsp = rspFrame([]byte{0x00})
	case opSign:
		d.events = append(d.events, "sign")
		rsp = rspFrame(bytes.Repeat([]byte{0x51}, 64))
	case opGenKey:
		d.events = append(d.events, "genkey")
		rsp = rspFrame(bytes.Repeat([]byte{0x6b}, 64))
	case opECDH:
		d.events = append(d.events, "ecdh")
		rsp = rspFrame(bytes.Repeat([]byte{0xd4, 0x11}, 16))
	case opInfo:
		d.events = append(d.events, "info")
		rsp = rspFrame([]byte{0x00, 0x00, 0x60, 0x02})
	case opLock:
		d.events = append(d.events, "lock")
		rsp = rspFrame([]byte{0x00})
	default:
		d.t.Fatalf("unexpected opcode %#02x", opcode)
	}
	return copy(recv, rsp), nil
}

// configByteOffset converts a config zone word address to a byte offset.
func configByteOffset(word uint16) int {
	return int(word>>3)*blockSize + int(word&7)*wordSize
}

func (d *fakeDevice) exchanges() int {
	n := 0
	for _, ev := range d.events {
		if ev != "sleep" {
			n++
		}
	}
	return n
}

func TestSerial(t *testing.T) {
	d := &fakeDevice{t: t}
	copy(d.config[0:4], []byte{0x01, 0x23, 0x9f, 0x44})
	copy(d.config[8:13], []byte{0x5a, 0x81, 0x02, 0x7c, 0xee})

	ecc := New(d)
	serial, err := ecc.Serial()
	if err != nil {
		t.Fatal(err)
	}

	want := []byte{0x01, 0x23, 0x9f, 0x44, 0x5a, 0x81, 0x02, 0x7c, 0xee}
	if !bytes.Equal(serial, want) {
		t.Fatalf("serial %x, want %x", serial, want)
	}
	if serial[0] != 0x01 || serial[1] != 0x23 || serial[8] != 0xee {
		t.Errorf("fixed serial bytes wrong: %x", serial)
	}
}

func TestSlotConfigRoundTrip(t *testing.T) {
	d := &fakeDevice{t: t}
	ecc := New(d)

	for slot := uint8(0); slot <= MaxSlot; slot++ {
		want := SlotConfig{Bits: 0x8300 | uint16(slot)}
		if err := ecc.SetSlotConfig(slot, want); err != nil {
			t.Fatalf("slot %d: %v", slot, err)
		}
		got, err := ecc.SlotConfig(slot)
		if err != nil {
			t.Fatalf("slot %d: %v", slot, err)
		}
		if got != want {
			t.Errorf("slot %d: %#04x, want %#04x", slot, got.Bits, want.Bits)
		}
	}
}

func TestSetSlotConfigPreservesPair(t *testing.T) {
	for slot := uint8(0); slot <= MaxSlot; slot++ {
		d := &fakeDevice{t: t}
		for i := range d.config {
			d.config[i] = byte(i)
		}
		ecc := New(d)

		if err := ecc.SetSlotConfig(slot, SlotConfig{Bits: 0xbeef}); err != nil {
			t.Fatal(err)
		}

		// Verify against the raw four-byte register.
		off := slotConfigOffset + 2*int(slot)
		if got := binary.LittleEndian.Uint16(d.config[off : off+2]); got != 0xbeef {
			t.Errorf("slot %d: register %#04x, want 0xbeef", slot, got)
		}
		pairOff := slotConfigOffset + 2*int(slot^1)
		want := []byte{byte(pairOff), byte(pairOff + 1)}
		if got := d.config[pairOff : pairOff+2]; !bytes.Equal(got, want) {
			t.Errorf("slot %d: paired register %x, want %x", slot, got, want)
		}
	}
}

func TestKeyConfigRoundTrip(t *testing.T) {
	d := &fakeDevice{t: t}
	ecc := New(d)

	for slot := uint8(0); slot <= MaxSlot; slot++ {
		want := KeyConfig{Bits: 0x3300 | uint16(slot)}
		if err := ecc.SetKeyConfig(slot, want); err != nil {
			t.Fatalf("slot %d: %v", slot, err)
		}
		got, err := ecc.KeyConfig(slot)
		if err != nil {
			t.Fatalf("slot %d: %v", slot, err)
		}
		if got != want {
			t.Errorf("slot %d: %#04x, want %#04x", slot, got.Bits, want.Bits)
		}
	}
}

func TestLocked(t *testing.T) {
	testCases := []struct {
		name       string
		lockValue  byte
		lockConfig byte
		data       bool
		config     bool
	}{
		{"both unlocked", 0x55, 0x55, false, false},
		{"both locked", 0x00, 0x00, true, true},
		{"data locked", 0x00, 0x55, true, false},
		{"config locked", 0x55, 0x87, false, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d := &fakeDevice{t: t}
			d.config[86] = tc.lockValue
			d.config[87] = tc.lockConfig
			ecc := New(d)

			if got, err := ecc.Locked(ZoneData); err != nil {
				t.Fatal(err)
			} else if got != tc.data {
				t.Errorf("data locked %v, want %v", got, tc.data)
			}
			if got, err := ecc.Locked(ZoneConfig); err != nil {
				t.Fatal(err)
			} else if got != tc.config {
				t.Errorf("config locked %v, want %v", got, tc.config)
			}
		})
	}
}

func TestSignSequence(t *testing.T) {
	d := &fakeDevice{t: t}
	ecc := New(d)

	msg := []byte("the message to sign")
	sig, err := ecc.Sign(3, msg)
	if err != nil {
		t.Fatal(err)
	}
	if len(sig) != 64 {
		t.Fatalf("signature %d bytes, want 64", len(sig))
	}

	// Exactly three exchanges in order, sleep only after the last one.
	want := []string{"random", "nonce", "sign", "sleep"}
	if !reflect.DeepEqual(d.events, want) {
		t.Fatalf("events %v, want %v", d.events, want)
	}

	digest := sha256.Sum256(msg)
	if !bytes.Equal(d.nonce, digest[:]) {
		t.Errorf("loaded digest %x, want %x", d.nonce, digest[:])
	}
}

func TestSignNoRetryMidSequence(t *testing.T) {
	// A recoverable error inside the sequence must abort it, not retry.
	s := &scriptTransport{steps: []scriptStep{
		{rsp: rspFrame([]byte{byte(ErrComms)})},
	}}
	ecc := New(s)

	_, err := ecc.Sign(0, []byte("data"))
	if !errors.Is(err, ErrComms) {
		t.Fatalf("err %v, want ErrComms", err)
	}
	if s.calls != 1 {
		t.Errorf("%d exchanges, want 1", s.calls)
	}
}

func TestSingleShotSleeps(t *testing.T) {
	d := &fakeDevice{t: t}
	ecc := New(d)

	if _, err := ecc.Random(); err != nil {
		t.Fatal(err)
	}
	want := []string{"random", "sleep"}
	if !reflect.DeepEqual(d.events, want) {
		t.Fatalf("events %v, want %v", d.events, want)
	}
}

func TestInvalidSlotBeforeIO(t *testing.T) {
	d := &fakeDevice{t: t}
	ecc := New(d)

	testCases := []struct {
		name string
		call func() error
	}{
		{"slot config read", func() error { _, err := ecc.SlotConfig(16); return err }},
		{"slot config write", func() error { return ecc.SetSlotConfig(16, SlotConfig{}) }},
		{"key config read", func() error { _, err := ecc.KeyConfig(16); return err }},
		{"key config write", func() error { return ecc.SetKeyConfig(16, KeyConfig{}) }},
		{"genkey", func() error { _, err := ecc.GenKey(KeyTypePrivate, 16); return err }},
		{"sign", func() error { _, err := New(&scriptTransport{}).Sign(16, nil); return err }},
		{"ecdh", func() error {
			_, err := ecc.ECDH(16, make([]byte, 32), make([]byte, 32))
			return err
		}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.call(); !errors.Is(err, ErrInvalidSlot) {
				t.Errorf("err %v, want ErrInvalidSlot", err)
			}
		})
	}
	if n := d.exchanges(); n != 0 {
		t.Errorf("%d exchanges, want none", n)
	}
}

// scriptTransport replays a fixed list of exchange outcomes.
type scriptTransport struct {
	steps  []scriptStep
	calls  int
	wakes  int
	sleeps int
}

type scriptStep struct {
	rsp []byte
	err error
}

var _ Transport = (*scriptTransport)(nil)

func (s *scriptTransport) CommandFlag() byte { return i2cFlagCommand }

func (s *scriptTransport) Wake() error {
	s.wakes++
	return nil
}

func (s *scriptTransport) Sleep() { s.sleeps++ }

func (s *scriptTransport) CommandDuration(opcode uint8) time.Duration { return 0 }

func (s *scriptTransport) Close() error { return nil }

func (s *scriptTransport) SendRecv(_ time.Duration, frame []byte, recv []byte) (int, error) {
	if len(s.steps) == 0 {
		return 0, errors.New("unexpected exchange")
	}
	step := s.steps[len(s.steps)-1]
	if s.calls < len(s.steps) {
		step = s.steps[s.calls]
	}
	s.calls++
	if step.err != nil {
		return 0, step.err
	}
	return copy(recv, step.rsp), nil
}

func TestRetryTimeout(t *testing.T) {
	s := &scriptTransport{steps: []scriptStep{
		{err: errors.New("bus error")},
	}}
	ecc := New(s)

	_, err := ecc.Random()
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("err %v, want ErrTimeout", err)
	}
	if s.calls != cmdRetries {
		t.Errorf("%d attempts, want %d", s.calls, cmdRetries)
	}
	if s.sleeps != 0 {
		t.Errorf("%d sleeps, want none", s.sleeps)
	}
}

func TestRetryRecoverableThenData(t *testing.T) {
	payload := bytes.Repeat([]byte{0xa5}, 32)
	s := &scriptTransport{steps: []scriptStep{
		{err: errors.New("no response")},
		{rsp: rspFrame([]byte{byte(ErrComms)})},
		{rsp: rspFrame(payload)},
	}}
	ecc := New(s)

	got, err := ecc.Random()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("payload %x", got)
	}
	if s.calls != 3 {
		t.Errorf("%d attempts, want 3", s.calls)
	}
	if s.sleeps != 1 {
		t.Errorf("%d sleeps, want 1", s.sleeps)
	}
}

func TestFatalErrorNotRetried(t *testing.T) {
	s := &scriptTransport{steps: []scriptStep{
		{rsp: rspFrame([]byte{byte(ErrExecution)})},
	}}
	ecc := New(s)

	_, err := ecc.Random()
	if !errors.Is(err, ErrExecution) {
		t.Fatalf("err %v, want ErrExecution", err)
	}
	if s.calls != 1 {
		t.Errorf("%d attempts, want 1", s.calls)
	}
}

func TestRecoverableExhaustsBudget(t *testing.T) {
	s := &scriptTransport{steps: []scriptStep{
		{rsp: rspFrame([]byte{byte(ErrComms)})},
	}}
	ecc := New(s)

	_, err := ecc.Random()
	if !errors.Is(err, ErrComms) {
		t.Fatalf("err %v, want ErrComms", err)
	}
	if s.calls != cmdRetries {
		t.Errorf("%d attempts, want %d", s.calls, cmdRetries)
	}
}

func TestMalformedResponseNotRetried(t *testing.T) {
	s := &scriptTransport{steps: []scriptStep{
		{rsp: []byte{0x04, 0x00, 0x00, 0x00}}, // bad crc
	}}
	ecc := New(s)

	_, err := ecc.Random()
	if !errors.Is(err, errResponseCRC) {
		t.Fatalf("err %v, want crc decode failure", err)
	}
	if s.calls != 1 {
		t.Errorf("%d attempts, want 1", s.calls)
	}
}
