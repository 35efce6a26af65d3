package vm

import "testing"

func TestLoader_PlacesKernelAndDTB(t *testing.T) {
	hh := newHarness(t)
	h := hh.machine()

	kernel := []byte{0x01, 0x02, 0x03, 0x04}
	dtb := []byte{0xaa, 0xbb}

	l := NewLoader()
	if err := l.Load(h, kernel, dtb); err != nil {
		t.Fatal(err)
	}

	if h.PC != RAMBase {
		t.Errorf("pc = %#x, want RAMBase", h.PC)
	}

	if got := h.Regs.Get(10); got != 0 {
		t.Errorf("a0 = %d, want 0 (hart ID)", got)
	}

	wantDTBAddr := Word(0) - Word(len(dtb)) - 0x1000

	if got := h.Regs.Get(11); got != wantDTBAddr {
		t.Errorf("a1 = %#x, want %#x", got, wantDTBAddr)
	}

	if got, tr := h.Mem.LoadByte(wantDTBAddr); tr != nil || got != 0xaa {
		t.Errorf("dtb[0] = (%#x, %+v), want (0xaa, nil)", got, tr)
	}

	if h.Priv != Machine {
		t.Errorf("priv = %v, want Machine", h.Priv)
	}
}

func TestLoader_EmptyKernelRejected(t *testing.T) {
	hh := newHarness(t)
	h := hh.machine()

	l := NewLoader()
	if err := l.Load(h, nil, nil); err == nil {
		t.Error("expected an error loading an empty kernel image")
	}
}

func TestLoader_ResetsCLINT(t *testing.T) {
	hh := newHarness(t)
	h := hh.machine()

	h.CLINT.Store32(CLINTMTimeCmp, 5)
	h.CLINT.Store32(CLINTMTimeCmp+4, 0)

	l := NewLoader()
	if err := l.Load(h, []byte{0x13, 0x00, 0x00, 0x00}, nil); err != nil {
		t.Fatal(err)
	}

	if h.CLINT.Pending() {
		t.Error("Load must reset mtimecmp so the timer interrupt isn't already pending at boot")
	}
}
