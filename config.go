package ecc608

import "encoding/json"

// SlotConfig is the 16-bit access-control register of a key slot.
//
// Two slots share one four-byte configuration word: the even slot occupies
// the low two bytes, the odd slot the high two bytes. Reading and writing
// through Ecc.SlotConfig and Ecc.SetSlotConfig keeps the paired half intact.
type SlotConfig struct {
	// Bits consists of:
	// * ReadKey     4
	// * NoMac       1
	// * LimitedUse  1
	// * EncryptRead 1
	// * IsSecret    1
	// * WriteKey    4
	// * WriteConfig 4
	Bits uint16
}

type slotConfigBits struct {
	ReadKey     uint8 `json:"read_key"`
	NoMac       bool  `json:"no_mac"`
	LimitedUse  bool  `json:"limited_use"`
	EncryptRead bool  `json:"encrypt_read"`
	IsSecret    bool  `json:"is_secret"`
	WriteKey    uint8 `json:"write_key"`
	WriteConfig uint8 `json:"write_config"`
}

func (c SlotConfig) ReadKey() uint8 {
	return uint8(c.Bits & 0x000f)
}

func (c SlotConfig) NoMac() bool {
	return c.Bits&0x0010 != 0
}

func (c SlotConfig) LimitedUse() bool {
	return c.Bits&0x0020 != 0
}

func (c SlotConfig) EncryptRead() bool {
	return c.Bits&0x0040 != 0
}

func (c SlotConfig) IsSecret() bool {
	return c.Bits&0x0080 != 0
}

func (c SlotConfig) WriteKey() uint8 {
	return uint8(c.Bits & 0x0f00 >> 8)
}

func (c SlotConfig) WriteConfig() uint8 {
	return uint8(c.Bits & 0xf000 >> 12)
}

func (c SlotConfig) MarshalJSON() ([]byte, error) {
	return json.Marshal(slotConfigBits{
		ReadKey:     c.ReadKey(),
		NoMac:       c.NoMac(),
		LimitedUse:  c.LimitedUse(),
		EncryptRead: c.EncryptRead(),
		IsSecret:    c.IsSecret(),
		WriteKey:    c.WriteKey(),
		WriteConfig: c.WriteConfig(),
	})
}

// KeyConfig is the 16-bit key-usage register of a key slot.
//
// It shares the pairing rule of SlotConfig in a separate register bank.
type KeyConfig struct {
	// Bits consists of:
	// * Private           1
	// * PubInfo           1
	// * KeyType           3
	// * Lockable          1
	// * ReqRandom         1
	// * ReqAuth           1
	// * AuthKey           4
	// * PersistentDisable 1
	// * Reserved          1
	// * X509ID            2
	Bits uint16
}

type keyConfigBits struct {
	Private           bool  `json:"private"`
	PubInfo           bool  `json:"pub_info"`
	KeyType           uint8 `json:"key_type"`
	Lockable          bool  `json:"lockable"`
	ReqRandom         bool  `json:"req_random"`
	ReqAuth           bool  `json:"req_auth"`
	AuthKey           uint8 `json:"auth_key"`
	PersistentDisable bool  `json:"persistent_disable"`
	X509ID            uint8 `json:"x509_id"`
}

// KeyTypeP256 is the KeyType field value for a P-256 ECC key.
const KeyTypeP256 = 4

func (c KeyConfig) Private() bool {
	return c.Bits&0x0001 != 0
}

func (c KeyConfig) PubInfo() bool {
	return c.Bits&0x0002 != 0
}

func (c KeyConfig) KeyType() uint8 {
	return uint8(c.Bits & 0x001c >> 2)
}

func (c KeyConfig) Lockable() bool {
	return c.Bits&0x0020 != 0
}

func (c KeyConfig) ReqRandom() bool {
	return c.Bits&0x0040 != 0
}

func (c KeyConfig) ReqAuth() bool {
	return c.Bits&0x0080 != 0
}

func (c KeyConfig) AuthKey() uint8 {
	return uint8(c.Bits & 0x0f00 >> 8)
}

func (c KeyConfig) PersistentDisable() bool {
	return c.Bits&0x1000 != 0
}

func (c KeyConfig) X509ID() uint8 {
	return uint8(c.Bits & 0xc000 >> 14)
}

func (c KeyConfig) MarshalJSON() ([]byte, error) {
	return json.Marshal(keyConfigBits{
		Private:           c.Private(),
		PubInfo:           c.PubInfo(),
		KeyType:           c.KeyType(),
		Lockable:          c.Lockable(),
		ReqRandom:         c.ReqRandom(),
		ReqAuth:           c.ReqAuth(),
		AuthKey:           c.AuthKey(),
		PersistentDisable: c.PersistentDisable(),
		X509ID:            c.X509ID(),
	})
}
