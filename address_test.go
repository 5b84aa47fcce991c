package ecc608

import (
	"errors"
	"testing"
)

func TestConfigAddress(t *testing.T) {
	testCases := []struct {
		block, offset uint8
		word          uint16
		err           error
	}{
		{0, 0, 0x0000, nil},
		{0, 5, 0x0005, nil},
		{2, 5, 0x0015, nil},
		{3, 7, 0x001f, nil},
		{4, 0, 0, ErrInvalidAddress},
		{0, 8, 0, ErrInvalidAddress},
	}

	for _, tc := range testCases {
		addr, err := ConfigAddress(tc.block, tc.offset)
		if !errors.Is(err, tc.err) {
			t.Fatalf("config(%d, %d): err %v, want %v", tc.block, tc.offset, err, tc.err)
		}
		if err == nil && addr.word != tc.word {
			t.Errorf("config(%d, %d): word %#04x, want %#04x", tc.block, tc.offset, addr.word, tc.word)
		}
		if err == nil && addr.zone != ZoneConfig {
			t.Errorf("config(%d, %d): zone %v", tc.block, tc.offset, addr.zone)
		}
	}
}

func TestDataAddress(t *testing.T) {
	addr, err := DataAddress(9, 1, 3)
	if err != nil {
		t.Fatal(err)
	}
	if want := uint16(9)<<3 | 3 | 1<<8; addr.word != want {
		t.Errorf("word %#04x, want %#04x", addr.word, want)
	}
	if addr.zone != ZoneData {
		t.Errorf("zone %v, want data", addr.zone)
	}

	if _, err := DataAddress(16, 0, 0); !errors.Is(err, ErrInvalidSlot) {
		t.Errorf("slot 16: err %v, want ErrInvalidSlot", err)
	}
}

func TestSlotConfigAddress(t *testing.T) {
	// SlotConfig registers start at config byte 20, two bytes per slot.
	testCases := []struct {
		slot          uint8
		block, offset uint8
	}{
		{0, 0, 5},
		{1, 0, 5},
		{2, 0, 6},
		{5, 0, 7},
		{6, 1, 0},
		{14, 1, 4},
		{15, 1, 4},
	}

	for _, tc := range testCases {
		addr, err := SlotConfigAddress(tc.slot)
		if err != nil {
			t.Fatalf("slot %d: %v", tc.slot, err)
		}
		want := uint16(tc.block)<<3 | uint16(tc.offset)
		if addr.word != want {
			t.Errorf("slot %d: word %#04x, want %#04x", tc.slot, addr.word, want)
		}
	}
}

func TestKeyConfigAddress(t *testing.T) {
	// KeyConfig registers start at config byte 96.
	testCases := []struct {
		slot          uint8
		block, offset uint8
	}{
		{0, 3, 0},
		{1, 3, 0},
		{2, 3, 1},
		{15, 3, 7},
	}

	for _, tc := range testCases {
		addr, err := KeyConfigAddress(tc.slot)
		if err != nil {
			t.Fatalf("slot %d: %v", tc.slot, err)
		}
		want := uint16(tc.block)<<3 | uint16(tc.offset)
		if addr.word != want {
			t.Errorf("slot %d: word %#04x, want %#04x", tc.slot, addr.word, want)
		}
	}
}

func TestPairedSlotsShareAddress(t *testing.T) {
	for slot := uint8(0); slot <= MaxSlot; slot += 2 {
		even, err := SlotConfigAddress(slot)
		if err != nil {
			t.Fatal(err)
		}
		odd, err := SlotConfigAddress(slot + 1)
		if err != nil {
			t.Fatal(err)
		}
		if even != odd {
			t.Errorf("slots %d and %d resolve to %v and %v", slot, slot+1, even, odd)
		}
	}
}

func TestInvalidSlotAddresses(t *testing.T) {
	if _, err := SlotConfigAddress(16); !errors.Is(err, ErrInvalidSlot) {
		t.Errorf("slot config: err %v, want ErrInvalidSlot", err)
	}
	if _, err := KeyConfigAddress(255); !errors.Is(err, ErrInvalidSlot) {
		t.Errorf("key config: err %v, want ErrInvalidSlot", err)
	}
}
