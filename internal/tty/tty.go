// Package tty adapts the host terminal for use as the guest's serial console.
package tty

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// Console is a simulated serial console built on Unix terminal I/O. It puts the host terminal into
// raw mode and exposes stdin as a non-blocking byte source for the UART's RBR register. The UART's
// THR output does not pass through the Console.
type Console struct {
	in    *os.File
	out   *term.Terminal
	fd    int
	state *term.State
	keyCh chan byte
}

var (
	// ErrNoTTY is returned if standard input is not a terminal.
	ErrNoTTY error = errors.New("console: not a TTY")
)

// WithConsole creates a Console attached to the standard streams and starts reading keystrokes in
// the background. Calling the returned cancel func restores the terminal state.
func WithConsole(parent Context) (Context, *Console, ConsoleDoneFunc) {
	ctx, cause := context.WithCancelCause(parent)

	console, err := NewConsole(os.Stdin, os.Stdout, os.Stderr)
	if err != nil {
		cause(err)
		return ctx, console, func() { cause(context.Canceled) }
	}

	go console.readTerminal(ctx, console.Restore)

	return ctx, console, console.Restore
}

// NewConsole creates a Console using the provided streams. If the input stream is not a terminal,
// ErrNoTTY is returned. Callers are responsible for calling [Console.Restore] to return the terminal
// to its initial state.
func NewConsole(sin, sout, serr *os.File) (*Console, error) {
	fd := int(sin.Fd())

	if !term.IsTerminal(fd) {
		return nil, ErrNoTTY
	}

	saved, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNoTTY, err)
	}

	cons := Console{
		fd:    fd,
		in:    sin,
		out:   term.NewTerminal(sout, ""),
		state: saved,
		keyCh: make(chan byte, 16),
	}

	if err := cons.setTerminalParams(1, 0); err != nil {
		return nil, err
	}

	return &cons, nil
}

// TryReadByte implements the non-blocking byte source the UART polls whenever the guest reads RBR.
// It never blocks: if no keystroke is queued, it reports false.
func (c *Console) TryReadByte() (byte, bool) {
	select {
	case b := <-c.keyCh:
		return b, true
	default:
		return 0, false
	}
}

// Press injects a byte as though it were typed, primarily for tests.
func (c *Console) Press(key byte) {
	c.keyCh <- key
}

// Writer returns an io.Writer that writes to the terminal.
func (c *Console) Writer() io.Writer {
	return c.out
}

// Restore returns the terminal to its initial state and cancels in-progress reads.
func (c *Console) Restore() {
	_ = os.Stdin.SetReadDeadline(time.Now())
	_ = term.Restore(c.fd, c.state)
}

func (c *Console) setTerminalParams(vmin, vtime byte) error {
	_ = syscall.SetNonblock(c.fd, true)

	termIO, err := unix.IoctlGetTermios(c.fd, getTermiosIoctl)
	if err != nil {
		return err
	}

	termIO.Cc[unix.VMIN] = vmin
	termIO.Cc[unix.VTIME] = vtime

	if err := unix.IoctlSetTermios(c.fd, setTermiosIoctl, termIO); err != nil {
		return err
	}

	_ = os.Stdin.SetReadDeadline(time.Time{})

	return nil
}

func (c *Console) readTerminal(ctx Context, cancel ConsoleDoneFunc) {
	buf := bufio.NewReader(c.in)

	_ = syscall.SetNonblock(c.fd, false)

	for {
		select {
		case <-ctx.Done():
			return
		default:
			b, err := buf.ReadByte()
			if err != nil {
				cancel()
				return
			}

			c.keyCh <- b
		}
	}
}

// Type aliases to reduce symbol stutter.
type (
	Context         = context.Context
	ConsoleDoneFunc = context.CancelFunc
)
