package ecc608

import (
	"encoding/json"
	"testing"
)

func TestSlotConfigBits(t *testing.T) {
	// ReadKey 0x2, NoMac, IsSecret, WriteKey 0x3, WriteConfig 0x6.
	c := SlotConfig{Bits: 0x6392}

	if got := c.ReadKey(); got != 0x2 {
		t.Errorf("ReadKey %#x, want 0x2", got)
	}
	if !c.NoMac() {
		t.Error("NoMac false, want true")
	}
	if c.LimitedUse() {
		t.Error("LimitedUse true, want false")
	}
	if c.EncryptRead() {
		t.Error("EncryptRead true, want false")
	}
	if !c.IsSecret() {
		t.Error("IsSecret false, want true")
	}
	if got := c.WriteKey(); got != 0x3 {
		t.Errorf("WriteKey %#x, want 0x3", got)
	}
	if got := c.WriteConfig(); got != 0x6 {
		t.Errorf("WriteConfig %#x, want 0x6", got)
	}
}

func TestKeyConfigBits(t *testing.T) {
	// Private, PubInfo, KeyType P256, Lockable, ReqRandom, AuthKey 0x5,
	// X509ID 0x2.
	c := KeyConfig{Bits: 0x8573}

	if !c.Private() {
		t.Error("Private false, want true")
	}
	if !c.PubInfo() {
		t.Error("PubInfo false, want true")
	}
	if got := c.KeyType(); got != KeyTypeP256 {
		t.Errorf("KeyType %d, want %d", got, KeyTypeP256)
	}
	if !c.Lockable() {
		t.Error("Lockable false, want true")
	}
	if !c.ReqRandom() {
		t.Error("ReqRandom false, want true")
	}
	if c.ReqAuth() {
		t.Error("ReqAuth true, want false")
	}
	if got := c.AuthKey(); got != 0x5 {
		t.Errorf("AuthKey %#x, want 0x5", got)
	}
	if c.PersistentDisable() {
		t.Error("PersistentDisable true, want false")
	}
	if got := c.X509ID(); got != 0x2 {
		t.Errorf("X509ID %#x, want 0x2", got)
	}
}

func TestSlotConfigJSON(t *testing.T) {
	b, err := json.Marshal(SlotConfig{Bits: 0x0080})
	if err != nil {
		t.Fatal(err)
	}

	var got map[string]interface{}
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatal(err)
	}
	if got["is_secret"] != true {
		t.Errorf("is_secret %v, want true", got["is_secret"])
	}
	if got["read_key"] != float64(0) {
		t.Errorf("read_key %v, want 0", got["read_key"])
	}
}
