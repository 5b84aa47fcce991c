package ecc608

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"errors"
	"math/big"

	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"
)

// ASN1Signature encodes a raw 64 byte R and S signature as ASN.1 DER.
//
// The device returns signatures as two big-endian 32 byte integers; most of
// the crypto ecosystem expects the DER sequence form.
func ASN1Signature(sig []byte) ([]byte, error) {
	if len(sig) != 64 {
		return nil, errors.New("ecc608: signature must be 64 bytes")
	}

	var r, s big.Int
	var b cryptobyte.Builder
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1BigInt(r.SetBytes(sig[:32]))
		b.AddASN1BigInt(s.SetBytes(sig[32:]))
	})
	return b.Bytes()
}

// RawSignature decodes an ASN.1 DER signature into the device's raw 64 byte
// form.
func RawSignature(der []byte) ([]byte, error) {
	var (
		r, s  big.Int
		inner cryptobyte.String
	)
	input := cryptobyte.String(der)
	if !input.ReadASN1(&inner, asn1.SEQUENCE) ||
		!input.Empty() ||
		!inner.ReadASN1Integer(&r) ||
		!inner.ReadASN1Integer(&s) ||
		!inner.Empty() {
		return nil, errors.New("ecc608: invalid signature")
	}

	sig := make([]byte, 64)
	r.FillBytes(sig[:32])
	s.FillBytes(sig[32:])
	return sig, nil
}

// ECDSAPublicKey converts the device's raw 64 byte X and Y coordinate form
// into an ecdsa.PublicKey on P-256.
func ECDSAPublicKey(pub []byte) (*ecdsa.PublicKey, error) {
	if len(pub) != 64 {
		return nil, errors.New("ecc608: public key must be 64 bytes")
	}

	var x, y big.Int
	return &ecdsa.PublicKey{
		Curve: elliptic.P256(),
		X:     x.SetBytes(pub[:32]),
		Y:     y.SetBytes(pub[32:]),
	}, nil
}

// PublicKeyCoordinates converts an ecdsa.PublicKey into the two 32 byte
// coordinate strings the ECDH command takes.
func PublicKeyCoordinates(pub *ecdsa.PublicKey) (x, y []byte, err error) {
	if pub.Curve != elliptic.P256() {
		return nil, nil, errors.New("ecc608: public key must be on P-256")
	}
	x = make([]byte, 32)
	y = make([]byte, 32)
	pub.X.FillBytes(x)
	pub.Y.FillBytes(y)
	return x, y, nil
}
