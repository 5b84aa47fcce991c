package ecc608

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/karalabe/usb"
)

// ErrUSBNotSupported is returned when the USB support is missing.
//
// When building, CGO is required for USB support. If CGO is not enabled, the
// kit HID transport will not be available.
var ErrUSBNotSupported = errors.New("ecc608: usb support is missing")

const (
	vendorAtmel          = 0x03eb
	productTrustPlatform = 0x2312

	kitPacketSize   = 64
	kitMaxScanCount = 8

	// kitRxWrapSize is the textual overhead around a hex-encoded response.
	kitRxWrapSize = 38
)

var errNoKitDevice = errors.New("ecc608: no device found")

// KitConfig selects a device attached through a kit protocol bridge.
type KitConfig struct {
	// DevIndex is the HID enumeration index to use unless DevIdentity is
	// set.
	DevIndex int

	// DevIdentity is the I²C target address of the secure element behind
	// the bridge. Zero picks the first one found.
	DevIdentity uint8

	// VendorID and ProductID identify the bridge. Zero values select the
	// Microchip Trust Platform kit.
	VendorID  uint16
	ProductID uint16

	// Debug is used for debug output.
	Debug Logger
}

// KitTransport talks to a device through the Microchip kit protocol over
// USB HID.
//
// The kit firmware owns the physical bus: it generates the wake pulse,
// prepends the bus word address and enforces command execution delays
// itself.
type KitTransport struct {
	phy usb.Device
	buf []byte
	log Logger
}

var _ Transport = (*KitTransport)(nil)

// OpenKitHID enumerates HID bridges and returns a transport for the first
// matching device.
func OpenKitHID(cfg KitConfig) (*KitTransport, error) {
	if !usb.Supported() {
		return nil, ErrUSBNotSupported
	}
	vendor, product := cfg.VendorID, cfg.ProductID
	if vendor == 0 {
		vendor, product = vendorAtmel, productTrustPlatform
	}

	infos, err := usb.EnumerateHid(vendor, product)
	if err != nil {
		return nil, fmt.Errorf("ecc608: failed to get hid devices: %w", err)
	}
	for _, di := range infos {
		phy, e := di.Open()
		if e != nil {
			err = e
			continue
		}

		t := &KitTransport{
			phy: phy,
			buf: make([]byte, kitPacketSize),
			log: cfg.Debug,
		}
		if t.log == nil {
			t.log = nullLogger
		}
		if err := t.init(cfg); err != nil {
			_ = phy.Close()
			return nil, err
		}
		return t, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ecc608: %w", err)
	}
	return nil, errors.New("ecc608: no hid devices found")
}

// init scans the bridge for the target element and selects it.
func (t *KitTransport) init(cfg KitConfig) error {
	for i := 0; i < kitMaxScanCount; i++ {
		dev, err := t.kitDeviceByIndex(i)
		if errors.Is(err, errNoKitDevice) {
			continue
		} else if err != nil {
			return err
		}

		if cfg.DevIndex != 0 && cfg.DevIndex != i {
			continue
		}
		if cfg.DevIdentity != 0 && cfg.DevIdentity != dev.address {
			continue
		}

		return t.selectDevice(dev.address)
	}
	return errors.New("ecc608: failed to discover device")
}

// CommandFlag returns zero: the kit firmware prepends the bus word address
// on its own, so frames carry no flag byte on this transport.
func (t *KitTransport) CommandFlag() byte {
	return 0
}

func (t *KitTransport) Wake() error {
	var data [10]byte
	n, err := t.executeResponse([]byte("e:w()\n"), data[:])
	if err != nil {
		return err
	}
	if n < 4 || !bytes.Equal(data[:4], i2cWakeToken) {
		return errors.New("ecc608: unexpected wake response")
	}
	return nil
}

func (t *KitTransport) Sleep() {
	_ = t.execute([]byte("e:s()\n"))
}

func (t *KitTransport) CommandDuration(opcode uint8) time.Duration {
	return commandDuration(opcode)
}

// SendRecv transmits the command frame and reads the device response.
//
// The flag byte is dropped and the rest is hex-encoded into a kit talk
// command. The bridge blocks for the execution latency itself, so d is not
// waited out on the host.
func (t *KitTransport) SendRecv(d time.Duration, frame []byte, recv []byte) (int, error) {
	payload := strings.ToUpper(hex.EncodeToString(frame[1:]))
	command := fmt.Sprintf("e:t(%s)\n", payload)

	msg := hex.EncodedLen(len(recv)) + kitRxWrapSize
	buf := make([]byte, (msg/kitPacketSize+1)*kitPacketSize)

	if _, err := t.phySend([]byte(command)); err != nil {
		return 0, err
	}
	n, err := t.phyRecv(buf)
	if err != nil {
		return 0, err
	}
	return kitParseRsp(buf[:n], recv)
}

func (t *KitTransport) Close() error {
	return t.phy.Close()
}

func (t *KitTransport) execute(command []byte) error {
	var data [10]byte
	_, err := t.executeResponse(command, data[:])
	return err
}

func (t *KitTransport) executeResponse(command []byte, data []byte) (int, error) {
	if _, err := t.phySend(command); err != nil {
		return 0, err
	}

	n, err := t.phyRecv(t.buf)
	if err != nil {
		return 0, err
	}
	return kitParseRsp(t.buf[:n], data)
}

type kitDevice struct {
	id      string
	iface   string
	address uint8
}

func (t *KitTransport) kitDeviceByIndex(index int) (kitDevice, error) {
	command := fmt.Sprintf("board:device(%02X)\n", index)
	if _, err := t.phySend([]byte(command)); err != nil {
		return kitDevice{}, err
	}

	n, err := t.phyRecv(t.buf)
	if err != nil {
		return kitDevice{}, err
	}
	return parseKitDevice(t.buf[:n])
}

func (t *KitTransport) selectDevice(address uint8) error {
	command := fmt.Sprintf("e:physical:select(%02X)\n", address)
	return t.execute([]byte(command))
}

func parseKitDevice(buf []byte) (kitDevice, error) {
	if bytes.HasPrefix(buf, []byte("no_device")) {
		return kitDevice{}, errNoKitDevice
	}

	var (
		dev   kitDevice
		index uint8
	)
	_, err := fmt.Sscanf(
		string(buf), "%s %s %02X(%02X)", &dev.id, &dev.iface, &index, &dev.address,
	)
	if err != nil {
		return kitDevice{}, fmt.Errorf("ecc608: invalid kit device: %w", err)
	}
	if !strings.HasPrefix(dev.id, "ECC6") {
		return kitDevice{}, errors.New("ecc608: unsupported kit device type")
	}
	return dev, nil
}

// kitParseRsp decodes a kit response of the form "SS(HEX...)" into dst.
func kitParseRsp(reply []byte, dst []byte) (int, error) {
	if len(reply) < 4 {
		return 0, errors.New("ecc608: kit response too short")
	}

	var status [1]byte
	if _, err := hex.Decode(status[:], reply[0:2]); err != nil {
		return 0, err
	} else if status[0] != 0 {
		return 0, fmt.Errorf("ecc608: kit status %#02x", status[0])
	}

	index := bytes.IndexByte(reply[3:], ')')
	if index == -1 {
		return 0, errors.New("ecc608: failed to find end of frame")
	}
	if hex.DecodedLen(index) > len(dst) {
		return 0, errors.New("ecc608: recv buffer too small")
	}

	body := reply[3 : 3+index]
	return hex.Decode(dst, body)
}

func (t *KitTransport) phySend(txData []byte) (int, error) {
	left := len(txData)
	sent := 0
	for left > 0 {
		n := copy(t.buf, txData[sent:])
		for ; n < cap(t.buf); n++ {
			t.buf[n] = 0
		}

		n, err := t.phy.Write(t.buf)
		if err != nil {
			return sent, err
		}

		left -= n
		sent += n
	}

	return sent, nil
}

func (t *KitTransport) phyRecv(data []byte) (int, error) {
	left := len(data)
	read := 0
	for left > 0 {
		n, err := t.phy.Read(t.buf)
		if err != nil {
			return read, err
		}

		// end early on response end
		if index := bytes.IndexByte(t.buf, '\n'); index != -1 {
			copy(data[read:], t.buf[:index]) // ignore return for overflow check below
			read += index
			break
		}

		copy(data[read:], t.buf) // ignore return for overflow check below
		read += n
		left -= n
	}

	// error out to make sure we never lose any data
	if read > cap(data) {
		return read, errors.New("ecc608: buffer overflow")
	}

	return read, nil
}
