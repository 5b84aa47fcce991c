// Package ecc608 is a driver for the MicrochipTech ATECC608 secure element.
//
// The device performs key generation, ECDSA signing and ECDH key agreement
// on-chip; private keys never leave it. This package translates those
// operations into the device's opcode-based command protocol, with the
// wake/sleep power-state handling, per-command execution latencies and
// bounded retry the datasheet requires.
//
// It supports communication using I²C and the Microchip kit protocol over
// USB HID.
//
// # Datasheets
//
// Find all datasheets in the Trust Platform Design Suite git repository.
// https://github.com/MicrochipTech/cryptoauth_trustplatform_designsuite/
package ecc608
