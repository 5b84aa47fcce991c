package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/nebulabs/go-ecc608"
	"github.com/peterbourgon/ff/v3/ffcli"
)

type lockConfig struct {
	rootConfig *rootConfig
	out        io.Writer
	err        io.Writer
	zone       string
	yes        bool
}

func (c *lockConfig) Exec(ctx context.Context, _ []string) error {
	var zone ecc608.Zone
	switch c.zone {
	case "config":
		zone = ecc608.ZoneConfig
	case "data":
		zone = ecc608.ZoneData
	default:
		return errors.New("lock: zone must be config or data")
	}

	if !c.yes {
		return errors.New("lock: locking is permanent, pass -yes to confirm")
	}

	d, err := newEcc(c.rootConfig)
	if err != nil {
		return err
	}
	defer d.Close()

	if locked, err := d.Locked(zone); err != nil {
		return err
	} else if locked {
		fmt.Fprintf(c.out, "%s zone is already locked\n", c.zone)
		return nil
	}

	if err := d.Lock(zone); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "%s zone locked\n", c.zone)
	return nil
}

func newLockCmd(rootConfig *rootConfig, out io.Writer, err io.Writer) *ffcli.Command {
	cfg := lockConfig{
		rootConfig: rootConfig,
		out:        out,
		err:        err,
	}

	fs := flag.NewFlagSet("ecc608 lock", flag.ExitOnError)
	fs.StringVar(&cfg.zone, "zone", "", "zone to lock, config or data")
	fs.BoolVar(&cfg.yes, "yes", false, "confirm the permanent lock")
	rootConfig.registerFlags(fs)

	return &ffcli.Command{
		Name:       "lock",
		ShortUsage: "lock -zone config|data -yes",
		ShortHelp:  "Permanently locks a device zone.",
		FlagSet:    fs,
		Exec:       cfg.Exec,
	}
}
