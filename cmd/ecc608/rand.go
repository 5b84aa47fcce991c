package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/peterbourgon/ff/v3/ffcli"
)

type randConfig struct {
	rootConfig *rootConfig
	out        io.Writer
	err        io.Writer
	bytes      int
}

func (c *randConfig) Exec(ctx context.Context, _ []string) error {
	if c.rootConfig.verbose {
		fmt.Fprintln(c.err, "random")
	}

	d, err := newEcc(c.rootConfig)
	if err != nil {
		return err
	}
	defer d.Close()

	// The device hands out 32 bytes at a time.
	var written int
	for written < c.bytes {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		b, err := d.Random()
		if err != nil {
			return err
		}
		if left := c.bytes - written; left < len(b) {
			b = b[:left]
		}
		n, err := c.out.Write(b)
		if err != nil {
			return err
		}
		written += n
	}
	if c.rootConfig.verbose {
		fmt.Fprintln(c.err, "wrote", written)
	}

	return nil
}

func newRandCmd(rootConfig *rootConfig, out io.Writer, err io.Writer) *ffcli.Command {
	cfg := randConfig{
		rootConfig: rootConfig,
		out:        out,
		err:        err,
	}

	fs := flag.NewFlagSet("ecc608 random", flag.ExitOnError)
	fs.IntVar(&cfg.bytes, "bytes", 32, "number of bytes to read")
	rootConfig.registerFlags(fs)

	return &ffcli.Command{
		Name:       "random",
		ShortUsage: "random",
		ShortHelp:  "Reads random bytes from the device and outputs on stdout.",
		FlagSet:    fs,
		Exec:       cfg.Exec,
	}
}
