package main

import (
	"context"
	"flag"

	"github.com/peterbourgon/ff/v3/ffcli"
)

type rootConfig struct {
	verbose     bool
	iface       string
	bus         string
	addr        string
	devIndex    int
	devIdentity string
}

func (c *rootConfig) registerFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.verbose, "v", false, "increase log verbosity")
	fs.StringVar(&c.iface, "i", "i2c", "interface type, hid or i2c")
	fs.StringVar(&c.bus, "bus", "", "i2c bus to use, empty picks the first")
	fs.StringVar(&c.addr, "addr", "", "i2c address in hex")
	fs.IntVar(&c.devIndex, "dev-index", 0, "device index when enumerating hid bridges")
	fs.StringVar(&c.devIdentity, "dev-identity", "", "i2c address of the element behind a hid bridge")
}

func (c *rootConfig) Exec(context.Context, []string) error {
	return flag.ErrHelp
}

func newRootCmd() (*ffcli.Command, *rootConfig) {
	var cfg rootConfig

	fs := flag.NewFlagSet("ecc608", flag.ExitOnError)
	cfg.registerFlags(fs)

	return &ffcli.Command{
		Name:       "ecc608",
		ShortUsage: "ecc608 [flags] <subcommand>",
		ShortHelp:  "Utilities to provision and use your ECC608 device.",
		FlagSet:    fs,
		Exec:       cfg.Exec,
	}, &cfg
}
