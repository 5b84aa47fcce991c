package ecc608

import "time"

// cmdDuration holds the datasheet execution latencies for an ATECC608
// running with the default M0 clock divider. Transports wait this long
// between sending a command and reading its response.
var cmdDuration = map[uint8]time.Duration{
	opAES:         27 * time.Millisecond,
	opCheckMac:    40 * time.Millisecond,
	opCounter:     25 * time.Millisecond,
	opDeriveKey:   50 * time.Millisecond,
	opECDH:        75 * time.Millisecond,
	opGenDig:      25 * time.Millisecond,
	opGenKey:      115 * time.Millisecond,
	opInfo:        5 * time.Millisecond,
	opKDF:         165 * time.Millisecond,
	opLock:        35 * time.Millisecond,
	opMAC:         55 * time.Millisecond,
	opNonce:       20 * time.Millisecond,
	opPrivWrite:   50 * time.Millisecond,
	opRandom:      23 * time.Millisecond,
	opRead:        5 * time.Millisecond,
	opSelfTest:    250 * time.Millisecond,
	opSHA:         36 * time.Millisecond,
	opSign:        115 * time.Millisecond,
	opUpdateExtra: 10 * time.Millisecond,
	opVerify:      105 * time.Millisecond,
	opWrite:       45 * time.Millisecond,
}

// cmdDurationDefault covers opcodes missing from the table. Generous on
// purpose: waiting too long is slow, not waiting long enough reads garbage.
const cmdDurationDefault = 250 * time.Millisecond

func commandDuration(opcode uint8) time.Duration {
	if d, ok := cmdDuration[opcode]; ok {
		return d
	}
	return cmdDurationDefault
}
