package vm

import (
	"errors"
	"fmt"

	"marv32/internal/log"
)

// ErrBootLoader is returned when a kernel or device-tree image cannot be placed in guest memory.
var ErrBootLoader = errors.New("boot loader")

// Loader implements the boot protocol MARV32 hands control to the guest with: the kernel image is
// placed at RAMBase, the device tree blob is placed near the top of RAM, and a0/a1/pc are seeded
// the way the RISC-V Linux boot convention expects. Reading dtb and kernel off disk, and any
// decision about which files to boot, is the caller's job; the loader only ever sees bytes already
// in memory.
type Loader struct {
	log *log.Logger
}

// NewLoader creates a Loader.
func NewLoader() *Loader {
	return &Loader{log: log.DefaultLogger()}
}

// Load places kernel at RAMBase and dtb near the top of the 4 GiB address space, then
// seeds the hart's registers for the RISC-V Linux boot protocol: a0 = hart ID (0), a1 = device tree
// address, pc = the kernel's load address. It also resets the CLINT's mtimecmp to all-ones, so the
// timer interrupt does not fire before the guest has programmed a real comparator value.
func (l *Loader) Load(h *Hart, kernel, dtb []byte) error {
	if len(kernel) == 0 {
		return fmt.Errorf("%w: empty kernel image", ErrBootLoader)
	}

	h.Mem.WriteBytes(RAMBase, kernel)

	var dtbAddr Word

	if len(dtb) > 0 {
		// The address space wraps at 2^32, so this is exactly "RAM_SIZE - dtb_len - 0x1000": 4 KiB
		// below the top of the full 32-bit range.
		dtbAddr = Word(0) - Word(len(dtb)) - 0x1000
		h.Mem.WriteBytes(dtbAddr, dtb)
	}

	h.Regs.Set(10, 0)       // a0: hart ID
	h.Regs.Set(11, dtbAddr) // a1: device tree address
	h.PC = RAMBase
	h.Priv = Machine

	if h.CLINT != nil {
		h.CLINT.Reset()
	}

	l.log.Debug("loaded boot image",
		"kernel_bytes", len(kernel), "dtb_bytes", len(dtb), "dtb_addr", dtbAddr)

	return nil
}
