package vm

import (
	"context"

	"marv32/internal/log"
)

// Hart is the state of the single RISC-V hart MARV32 emulates: its register file, program
// counter, current privilege level, CSR file, and the memory/peripherals it is wired to.
type Hart struct {
	Regs RegisterFile
	PC   Word
	Priv Privilege

	CSR   *CSRFile
	Mem   *Memory
	CLINT *CLINT

	log *log.Logger
}

// OptionFn configures a Hart at construction time.
type OptionFn func(*Hart)

// New creates a Hart in the machine-mode reset state: pc at the configured entry point (zero
// unless WithEntry is used; the boot loader overwrites it), privilege Machine, and an empty CSR
// file.
func New(opts ...OptionFn) *Hart {
	h := &Hart{
		CSR:  newCSRFile(),
		Priv: Machine,
		log:  log.DefaultLogger(),
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// WithLogger sets the Hart's logger, and the Memory's too when a Memory is already wired (WithMemory
// appears earlier in the option list). The UART's logger is not changed.
func WithLogger(l *log.Logger) OptionFn {
	return func(h *Hart) {
		h.log = l

		if h.Mem != nil {
			h.Mem.log = l
		}
	}
}

// WithMemory wires the Hart to a Memory (and, through it, the CLINT peripheral it ticks directly).
func WithMemory(mem *Memory, clint *CLINT) OptionFn {
	return func(h *Hart) {
		h.Mem = mem
		h.CLINT = clint
	}
}

// WithEntry sets the initial program counter.
func WithEntry(pc Word) OptionFn {
	return func(h *Hart) { h.PC = pc }
}

// timerInterruptBit is the mip/mie bit position for the machine timer interrupt.
const timerInterruptBit = uint(MachineTimerInterrupt)

// Run executes instructions until ctx is cancelled or a trap handler directs the hart to stop
// making progress entirely (never, in the current implementation: every trap is either handled or
// re-raised against a vector, matching real hardware's refusal to simply die on a bad instruction
// stream).
func (h *Hart) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		h.Cycle()
	}
}

// Cycle executes exactly one tick of the cooperative loop: service a pending interrupt if one is
// enabled and pending, otherwise fetch-decode-execute one instruction; then advance the timer and
// resample its pending bit. This is the full per-tick control flow: interrupts are only taken
// between instructions, never mid-instruction, matching the single-threaded cooperative model.
func (h *Hart) Cycle() {
	if intr := h.checkInterrupts(); intr != nil {
		intr.take(h)
	} else if t := h.step(); t != nil {
		t.take(h)
	}

	if h.CLINT != nil {
		h.CLINT.Tick()
		h.syncTimerPending()
	}
}

func (h *Hart) syncTimerPending() {
	mip := h.CSR.Get(CSRMip)

	if h.CLINT.Pending() {
		mip |= Word(1) << timerInterruptBit
	} else {
		mip &^= Word(1) << timerInterruptBit
	}

	h.CSR.Set(CSRMip, mip)
}

// step fetches, decodes, and executes one instruction, returning any trap it raises. The program
// counter is advanced to pc+4 before Execute runs, so control-flow instructions (and trap returns)
// only need to overwrite it when they redirect execution; AUIPC and JAL/JALR are given the
// instruction's own pc explicitly, so neither needs to "undo" the advance. When Execute raises a
// trap, the program counter is set back to pc before returning.
func (h *Hart) step() *Trap {
	pc := h.PC

	if pc&0x3 != 0 {
		return &Trap{Cause: InstrAddrMisaligned, Tval: pc}
	}

	raw, t := h.Mem.LoadWord(pc)
	if t != nil {
		return &Trap{Cause: InstrAccessFault, Tval: pc}
	}

	op, t := Decode(Instruction(raw))
	if t != nil {
		return t
	}

	h.PC = pc + 4

	if t := op.Execute(h, pc); t != nil {
		// Trap entry records the faulting instruction's address, not the one after it.
		h.PC = pc
		return t
	}

	return nil
}
