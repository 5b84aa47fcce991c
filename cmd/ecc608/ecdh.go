package main

import (
	"context"
	"crypto/ecdsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/nebulabs/go-ecc608"
	"github.com/peterbourgon/ff/v3/ffcli"
)

type ecdhConfig struct {
	rootConfig *rootConfig
	out        io.Writer
	err        io.Writer
	slot       int
	peer       string
}

func (c *ecdhConfig) Exec(ctx context.Context, _ []string) error {
	if c.peer == "" {
		return errors.New("ecdh: -peer public key file is required")
	}

	pub, err := readPeerKey(c.peer)
	if err != nil {
		return err
	}
	x, y, err := ecc608.PublicKeyCoordinates(pub)
	if err != nil {
		return err
	}

	d, err := newEcc(c.rootConfig)
	if err != nil {
		return err
	}
	defer d.Close()

	secret, err := d.ECDH(uint8(c.slot), x, y)
	if err != nil {
		return err
	}

	fmt.Fprintln(c.out, "Shared Secret:")
	fmt.Fprintln(c.out, prettyHex(secret))
	return nil
}

func readPeerKey(path string) (*ecdsa.PublicKey, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	block, _ := pem.Decode(b)
	if block == nil || block.Type != "PUBLIC KEY" {
		return nil, errors.New("ecdh: expected a PEM public key")
	}
	key, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, err
	}
	pub, ok := key.(*ecdsa.PublicKey)
	if !ok {
		return nil, errors.New("ecdh: peer key is not an ECDSA key")
	}
	return pub, nil
}

func newECDHCmd(rootConfig *rootConfig, out io.Writer, err io.Writer) *ffcli.Command {
	cfg := ecdhConfig{
		rootConfig: rootConfig,
		out:        out,
		err:        err,
	}

	fs := flag.NewFlagSet("ecc608 ecdh", flag.ExitOnError)
	fs.IntVar(&cfg.slot, "slot", 0, "key slot")
	fs.StringVar(&cfg.peer, "peer", "", "peer public key in PEM format")
	rootConfig.registerFlags(fs)

	return &ffcli.Command{
		Name:       "ecdh",
		ShortUsage: "ecdh -peer key.pem [-slot n]",
		ShortHelp:  "Computes a shared secret with a device key and a peer public key.",
		FlagSet:    fs,
		Exec:       cfg.Exec,
	}
}
