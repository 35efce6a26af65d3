package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"marv32/internal/cli"
	"marv32/internal/log"
	"marv32/internal/tty"
	"marv32/internal/vm"
)

func Run() cli.Command {
	return &runner{log: log.DefaultLogger()}
}

type runner struct {
	logLevel slog.Level
	timeout  time.Duration
	log      *log.Logger
}

func (runner) Description() string {
	return "boot a kernel image"
}

func (runner) Usage(out io.Writer) error {
	_, err := fmt.Fprintln(out, `run dtb.bin kernel.bin

Boots kernel.bin on the emulated hart, with dtb.bin at a fixed offset near the top of RAM.`)

	return err
}

func (r *runner) FlagSet() *cli.FlagSet {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	fs.Func("loglevel", "set log `level`", func(s string) error {
		return r.logLevel.UnmarshalText([]byte(s))
	})
	fs.DurationVar(&r.timeout, "timeout", 0, "stop after `duration` (0 = run until halt)")

	return fs
}

// Run boots the two images named in args[0] and args[1] (device tree, then kernel) and runs the
// hart until it halts, the context is cancelled, or an optional timeout elapses.
func (r *runner) Run(ctx context.Context, args []string, stdout io.Writer, logger *log.Logger) int {
	log.LogLevel.Set(r.logLevel)

	if len(args) < 2 {
		logger.Error("run requires a device-tree path and a kernel path")
		return 1
	}

	dtb, err := os.ReadFile(args[0])
	if err != nil {
		logger.Error("reading device tree", "err", err)
		return 1
	}

	kernel, err := os.ReadFile(args[1])
	if err != nil {
		logger.Error("reading kernel", "err", err)
		return 1
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	console, consoleCancel, err := r.console(ctx)

	var kbd vm.KeyboardSource

	if err != nil {
		logger.Warn("no TTY console available, running headless", "err", err)
	} else {
		defer consoleCancel()

		kbd = console
	}

	clint := vm.NewCLINT()
	mem := vm.NewMemory(vm.NewUART(stdout, kbd), clint)

	machine := vm.New(
		vm.WithLogger(logger),
		vm.WithMemory(mem, clint),
	)

	if err := vm.NewLoader().Load(machine, kernel, dtb); err != nil {
		logger.Error("loading boot image", "err", err)
		return 1
	}

	err = machine.Run(ctx)

	switch {
	case err == nil, errors.Is(err, context.Canceled):
		return 0
	case errors.Is(err, context.DeadlineExceeded):
		return 0
	default:
		logger.Error("machine stopped", "err", err)
		return 1
	}
}

// console sets up the host TTY as the guest's serial console; it returns a nil console and
// tty.ErrNoTTY when stdin is not attached to a terminal, and Run then continues headlessly (e.g.
// in CI) without a keyboard source.
func (r *runner) console(ctx context.Context) (*tty.Console, tty.ConsoleDoneFunc, error) {
	_, console, cancel := tty.WithConsole(ctx)
	if console == nil {
		return nil, cancel, tty.ErrNoTTY
	}

	return console, cancel, nil
}
