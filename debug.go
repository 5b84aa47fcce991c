package ecc608

import (
	"encoding/hex"
	"strings"
	"time"
)

// Logger is the interface used for debug messages.
//
// Some messages will be multiple lines.
type Logger interface {
	Printf(format string, args ...interface{})
}

type nullLoggerImpl struct{}

func (nullLoggerImpl) Printf(format string, args ...interface{}) {}

// nullLogger is a logger that does nothing.
var nullLogger = nullLoggerImpl{}

// hexDump lazily formats binary data, matching `hexdump -C`.
//
// hexDump implements fmt.Stringer interface, allowing it to lazily dump
// binary data as hex when needed. The format of the dump matches the output
// of `hexdump -C` on the command line.
type hexDump []byte

func (h hexDump) String() string {
	var buf strings.Builder
	buf.WriteByte('\n')
	d := hex.Dumper(&buf)
	_, _ = d.Write([]byte(h))
	_ = d.Close()
	buf.WriteByte('\n')
	return buf.String()
}

// DebugTransport wraps a Transport and traces every call to a Logger.
func DebugTransport(id string, l Logger, next Transport) Transport {
	if l == nil {
		l = nullLogger
	}
	return &debugTransport{id, l, next}
}

type debugTransport struct {
	id   string
	l    Logger
	next Transport
}

func (t *debugTransport) CommandFlag() byte {
	return t.next.CommandFlag()
}

func (t *debugTransport) Wake() error {
	t.l.Printf("%5s >>  wake", t.id)
	err := t.next.Wake()
	t.l.Printf("%5s <<  wake %+v", t.id, err)
	return err
}

func (t *debugTransport) Sleep() {
	t.l.Printf("%5s >>  sleep", t.id)
	t.next.Sleep()
}

func (t *debugTransport) CommandDuration(opcode uint8) time.Duration {
	return t.next.CommandDuration(opcode)
}

func (t *debugTransport) SendRecv(d time.Duration, frame []byte, recv []byte) (int, error) {
	t.l.Printf("%5s >>  send %v", t.id, d)
	if len(frame) > 0 {
		t.l.Printf("%s", hexDump(frame))
	}
	n, err := t.next.SendRecv(d, frame, recv)
	t.l.Printf("%5s <<  recv %d(%d) %+v", t.id, n, len(recv), err)
	if n > 0 {
		t.l.Printf("%s", hexDump(recv[:n]))
	}
	return n, err
}

func (t *debugTransport) Close() error {
	t.l.Printf("%5s >>  close", t.id)
	err := t.next.Close()
	t.l.Printf("%5s <<  close %+v", t.id, err)
	return err
}
