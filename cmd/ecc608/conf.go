package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"flag"
	"io"

	"github.com/nebulabs/go-ecc608"
	"github.com/peterbourgon/ff/v3/ffcli"
)

type confConfig struct {
	rootConfig *rootConfig
	out        io.Writer
	err        io.Writer
}

type slotDump struct {
	Slot       uint8             `json:"slot"`
	SlotConfig ecc608.SlotConfig `json:"slot_config"`
	KeyConfig  ecc608.KeyConfig  `json:"key_config"`
}

type confDump struct {
	Serial       string     `json:"serial"`
	ConfigLocked bool       `json:"config_locked"`
	DataLocked   bool       `json:"data_locked"`
	Slots        []slotDump `json:"slots"`
}

func (c *confConfig) Exec(ctx context.Context, _ []string) error {
	d, err := newEcc(c.rootConfig)
	if err != nil {
		return err
	}
	defer d.Close()

	var dump confDump

	serial, err := d.Serial()
	if err != nil {
		return err
	}
	dump.Serial = hex.EncodeToString(serial)

	if dump.ConfigLocked, err = d.Locked(ecc608.ZoneConfig); err != nil {
		return err
	}
	if dump.DataLocked, err = d.Locked(ecc608.ZoneData); err != nil {
		return err
	}

	for slot := uint8(0); slot <= ecc608.MaxSlot; slot++ {
		sc, err := d.SlotConfig(slot)
		if err != nil {
			return err
		}
		kc, err := d.KeyConfig(slot)
		if err != nil {
			return err
		}
		dump.Slots = append(dump.Slots, slotDump{slot, sc, kc})
	}

	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(dump)
}

func newConfCmd(rootConfig *rootConfig, out io.Writer, err io.Writer) *ffcli.Command {
	cfg := confConfig{
		rootConfig: rootConfig,
		out:        out,
		err:        err,
	}

	fs := flag.NewFlagSet("ecc608 conf", flag.ExitOnError)
	rootConfig.registerFlags(fs)

	return &ffcli.Command{
		Name:       "conf",
		ShortUsage: "conf",
		ShortHelp:  "Dumps serial, lock state and slot configuration as JSON.",
		FlagSet:    fs,
		Exec:       cfg.Exec,
	}
}
