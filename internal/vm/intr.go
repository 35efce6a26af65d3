package vm

// checkInterrupts scans for a pending, enabled interrupt and returns it as a Trap ready to be taken,
// or nil if none is pending. Candidate interrupt bits are checked in the fixed priority order
// 11, 9, 7, 5, 3, 1 (external, then timer, then software, for machine then supervisor), matching
// the platform-defined priority RISC-V machines use when multiple interrupts are pending at once.
func (h *Hart) checkInterrupts() *Trap {
	mstatus := h.CSR.Get(CSRMstatus)
	sstatus := h.CSR.Get(CSRSstatus)

	mideleg := h.CSR.Get(CSRMideleg)
	pendingM := h.CSR.Get(CSRMie) & h.CSR.Get(CSRMip) &^ mideleg
	pendingS := h.CSR.Get(CSRSie) & h.CSR.Get(CSRSip) & mideleg

	mEnabled := mstatus&statusMIE != 0
	sEnabled := sstatus&statusSIE != 0

	for bit := 11; bit >= 1; bit -= 2 {
		mask := Word(1) << uint(bit)

		if mEnabled && pendingM&mask != 0 {
			return &Trap{Cause: Cause(bit), Interrupt: true}
		}

		if sEnabled && pendingS&mask != 0 {
			return &Trap{Cause: Cause(bit), Interrupt: true}
		}
	}

	return nil
}
