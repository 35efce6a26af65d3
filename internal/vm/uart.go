package vm

import (
	"io"

	"marv32/internal/log"
)

// UART register offsets from UARTBase, the subset of a 16550 MARV32 implements.
const (
	uartTHR = Word(0x00) // write: transmit holding register
	uartRBR = Word(0x00) // read: receive buffer register
	uartLSR = Word(0x05) // read: line status register
)

// Line status register bits.
const (
	lsrDR   = byte(1 << 0) // data ready
	lsrTHRE = byte(1 << 5) // transmitter holding register empty
	lsrTEMT = byte(1 << 6) // transmitter empty
)

// KeyboardSource is a non-blocking source of host keystrokes, implemented by the host TTY adapter
// (and by a slice-backed fake in tests).
type KeyboardSource interface {
	// TryReadByte returns the next queued byte, or false if none is available. It never blocks.
	TryReadByte() (byte, bool)
}

// UART is the 16550 MMIO subset: a one-byte transmit path to the host console, and a one-byte,
// unbuffered receive path fed by a non-blocking keyboard source.
type UART struct {
	out io.Writer
	in  KeyboardSource

	pending  byte
	haveByte bool

	log *log.Logger
}

// NewUART creates a UART writing to out and polling in for keystrokes. in may be nil, in which case
// the receive side never has data ready, matching a disconnected serial line.
func NewUART(out io.Writer, in KeyboardSource) *UART {
	return &UART{out: out, in: in, log: log.DefaultLogger()}
}

func (u *UART) poll() {
	if u.haveByte || u.in == nil {
		return
	}

	if b, ok := u.in.TryReadByte(); ok {
		u.pending = b
		u.haveByte = true
	}
}

// Load reads one byte from the given UART register address.
func (u *UART) Load(addr Word) byte {
	switch addr - UARTBase {
	case uartRBR:
		u.poll()

		if !u.haveByte {
			return 0
		}

		b := u.pending
		u.haveByte = false

		return b
	case uartLSR:
		u.poll()

		lsr := lsrTHRE | lsrTEMT
		if u.haveByte {
			lsr |= lsrDR
		}

		return lsr
	default:
		return 0
	}
}

// Store writes one byte to the given UART register address.
func (u *UART) Store(addr Word, val byte) {
	switch addr - UARTBase {
	case uartTHR:
		if _, err := u.out.Write([]byte{val}); err != nil {
			u.log.Error("uart write", "err", err)
		}
	default:
		// LCR, IER, FCR, and friends are accepted and ignored; MARV32 never changes the UART's
		// operating mode from its fixed 8N1-polled configuration.
	}
}
