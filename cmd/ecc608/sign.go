package main

import (
	"context"
	"crypto/ecdsa"
	"crypto/sha256"
	"flag"
	"fmt"
	"io"

	"github.com/nebulabs/go-ecc608"
	"github.com/peterbourgon/ff/v3/ffcli"
)

type signConfig struct {
	rootConfig *rootConfig
	in         io.Reader
	out        io.Writer
	err        io.Writer
	key        int
	verify     bool
}

func (c *signConfig) Exec(ctx context.Context, _ []string) error {
	if c.rootConfig.verbose {
		fmt.Fprintf(c.err, "sign\n")
	}

	d, err := newEcc(c.rootConfig)
	if err != nil {
		return err
	}
	defer d.Close()

	if locked, err := d.Locked(ecc608.ZoneConfig); err != nil {
		return err
	} else if !locked {
		return fmt.Errorf("sign: device needs to be locked before using it")
	}

	msg, err := io.ReadAll(c.in)
	if err != nil {
		return err
	}

	digest := sha256.Sum256(msg)
	fmt.Fprintln(c.out, "Message Digest:")
	fmt.Fprintln(c.out, prettyHex(digest[:]))

	sig, err := d.Sign(uint8(c.key), msg)
	if err != nil {
		return err
	}
	der, err := ecc608.ASN1Signature(sig)
	if err != nil {
		return err
	}

	fmt.Fprintln(c.out, "\nSignature:")
	fmt.Fprintln(c.out, prettyHex(der))

	if !c.verify {
		return nil
	}

	raw, err := d.GenKey(ecc608.KeyTypePublic, uint8(c.key))
	if err != nil {
		return err
	}
	pub, err := ecc608.ECDSAPublicKey(raw)
	if err != nil {
		return err
	}

	fmt.Fprintln(c.out, "\nVerifying the signature:")
	if ecdsa.VerifyASN1(pub, digest[:], der) {
		fmt.Fprintln(c.out, "    Signature is valid")
	} else {
		fmt.Fprintln(c.out, "    Signature is invalid")
	}
	return nil
}

func newSignCmd(
	rootConfig *rootConfig, in io.Reader, out io.Writer, err io.Writer,
) *ffcli.Command {
	cfg := signConfig{
		rootConfig: rootConfig,
		in:         in,
		out:        out,
		err:        err,
	}

	fs := flag.NewFlagSet("ecc608 sign", flag.ExitOnError)
	fs.IntVar(&cfg.key, "key", 0, "key id (slot number)")
	fs.BoolVar(&cfg.verify, "verify", true, "verify the signature on the host")
	rootConfig.registerFlags(fs)

	return &ffcli.Command{
		Name:       "sign",
		ShortUsage: "sign",
		ShortHelp:  "Signs stdin with a device key and verifies the signature.",
		FlagSet:    fs,
		Exec:       cfg.Exec,
	}
}
