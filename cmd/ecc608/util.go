package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/nebulabs/go-ecc608"
	"periph.io/x/host/v3"
)

const defaultI2CAddress = 0x60

func newEcc(c *rootConfig) (*ecc608.Ecc, error) {
	tr, err := newTransport(c)
	if err != nil {
		return nil, err
	}
	if c.verbose {
		tr = ecc608.DebugTransport("ecc", newLogger(), tr)
	}
	return ecc608.New(tr), nil
}

func newTransport(c *rootConfig) (ecc608.Transport, error) {
	switch c.iface {
	case "i2c":
		addr, err := parseHexAddr(c.addr, defaultI2CAddress)
		if err != nil {
			return nil, err
		}
		if _, err := host.Init(); err != nil {
			return nil, err
		}
		return ecc608.OpenI2C(c.bus, addr)
	case "hid":
		identity, err := parseHexAddr(c.devIdentity, 0)
		if err != nil {
			return nil, err
		}
		cfg := ecc608.KitConfig{
			DevIndex:    c.devIndex,
			DevIdentity: uint8(identity),
		}
		if c.verbose {
			cfg.Debug = newLogger()
		}
		return ecc608.OpenKitHID(cfg)
	default:
		return nil, errors.New("unknown interface")
	}
}

func newLogger() ecc608.Logger {
	return log.New(os.Stderr, "", log.Lmicroseconds)
}

func parseHexAddr(s string, def uint16) (uint16, error) {
	if s == "" {
		return def, nil
	}
	addr, err := strconv.ParseUint(strings.TrimPrefix(s, "0x"), 16, 16)
	if err != nil {
		return 0, err
	}
	return uint16(addr), nil
}

func prettyHex(data []byte) string {
	return prettyHexIndent(data, "    ", "")
}

func prettyHexIndent(data []byte, prefix string, space string) string {
	var buf strings.Builder

	// prefix and space every 16 byte, and 2 hex, and one space/newline
	cols := 16
	size := (len(data)/cols+1)*(len(prefix)+len(space)+1) + len(data)*3
	buf.Grow(size)

	for i := range data {
		if i > 0 {
			switch i % cols {
			case 0:
				buf.WriteByte('\n')
			case cols / 2:
				buf.WriteByte(' ')
				buf.WriteString(space)
			default:
				buf.WriteByte(' ')
			}
		}
		if i%cols == 0 {
			buf.WriteString(prefix)
		}

		buf.WriteString(fmt.Sprintf("%02X", data[i:i+1]))
	}

	return buf.String()
}
