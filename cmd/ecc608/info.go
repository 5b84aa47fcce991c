package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/peterbourgon/ff/v3/ffcli"
)

type infoConfig struct {
	rootConfig *rootConfig
	out        io.Writer
	err        io.Writer
}

func (c *infoConfig) Exec(ctx context.Context, _ []string) error {
	d, err := newEcc(c.rootConfig)
	if err != nil {
		return err
	}
	defer d.Close()

	info, err := d.Info()
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Revision: %x\n", info)

	serial, err := d.Serial()
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Serial:   %x\n", serial)

	return nil
}

func newInfoCmd(rootConfig *rootConfig, out io.Writer, err io.Writer) *ffcli.Command {
	cfg := infoConfig{
		rootConfig: rootConfig,
		out:        out,
		err:        err,
	}

	fs := flag.NewFlagSet("ecc608 info", flag.ExitOnError)
	rootConfig.registerFlags(fs)

	return &ffcli.Command{
		Name:       "info",
		ShortUsage: "info",
		ShortHelp:  "Prints the device revision and serial number.",
		FlagSet:    fs,
		Exec:       cfg.Exec,
	}
}
