package ecc608

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestHexDump(t *testing.T) {
	want := "h -> \n00000000  66 6f 6f 62 61 72                                 |foobar|\n\n <- h"
	got := fmt.Sprintf("h -> %s <- h", hexDump([]byte("foobar")))
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

type recordLogger struct {
	lines []string
}

func (l *recordLogger) Printf(format string, args ...interface{}) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func TestDebugTransportTraces(t *testing.T) {
	var log recordLogger
	inner := &scriptTransport{steps: []scriptStep{
		{rsp: rspFrame([]byte{0x00})},
	}}
	tr := DebugTransport("test", &log, inner)

	if err := tr.Wake(); err != nil {
		t.Fatal(err)
	}
	var recv [rspSizeMax]byte
	if _, err := tr.SendRecv(time.Millisecond, []byte{0x03, 0x07}, recv[:]); err != nil {
		t.Fatal(err)
	}
	tr.Sleep()

	if len(log.lines) == 0 {
		t.Fatal("no trace output")
	}
	joined := strings.Join(log.lines, "\n")
	for _, want := range []string{"wake", "send", "recv", "sleep"} {
		if !strings.Contains(joined, want) {
			t.Errorf("trace missing %q:\n%s", want, joined)
		}
	}
}
