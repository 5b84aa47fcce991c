package main

import (
	"context"
	"crypto/x509"
	"encoding/pem"
	"flag"
	"fmt"
	"io"

	"github.com/nebulabs/go-ecc608"
	"github.com/peterbourgon/ff/v3/ffcli"
)

type keyConfig struct {
	rootConfig *rootConfig
	out        io.Writer
	err        io.Writer
	slot       int
	generate   bool
}

func (c *keyConfig) Exec(ctx context.Context, _ []string) error {
	d, err := newEcc(c.rootConfig)
	if err != nil {
		return err
	}
	defer d.Close()

	keyType := ecc608.KeyTypePublic
	if c.generate {
		keyType = ecc608.KeyTypePrivate
		fmt.Fprintf(c.err, "generating a new key in slot %d\n", c.slot)
	}

	raw, err := d.GenKey(keyType, uint8(c.slot))
	if err != nil {
		return err
	}

	pub, err := ecc608.ECDSAPublicKey(raw)
	if err != nil {
		return err
	}
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return err
	}
	return pem.Encode(c.out, &pem.Block{
		Type:  "PUBLIC KEY",
		Bytes: der,
	})
}

func newKeyCmd(rootConfig *rootConfig, out io.Writer, err io.Writer) *ffcli.Command {
	cfg := keyConfig{
		rootConfig: rootConfig,
		out:        out,
		err:        err,
	}

	fs := flag.NewFlagSet("ecc608 key", flag.ExitOnError)
	fs.IntVar(&cfg.slot, "slot", 0, "key slot")
	fs.BoolVar(&cfg.generate, "generate", false, "generate a new private key in the slot")
	rootConfig.registerFlags(fs)

	return &ffcli.Command{
		Name:       "key",
		ShortUsage: "key [-slot n] [-generate]",
		ShortHelp:  "Prints the slot's public key, optionally generating a new key first.",
		FlagSet:    fs,
		Exec:       cfg.Exec,
	}
}
