package vm

import "testing"

func TestCheckInterrupts_PriorityOrder(t *testing.T) {
	hh := newHarness(t)
	h := hh.machine()

	h.CSR.Set(CSRMstatus, statusMIE)
	h.CSR.Set(CSRMie, Word(1)<<uint(MachineTimerInterrupt)|Word(1)<<uint(MachineExternalInterrupt))
	h.CSR.Set(CSRMip, Word(1)<<uint(MachineTimerInterrupt)|Word(1)<<uint(MachineExternalInterrupt))

	tr := h.checkInterrupts()
	if tr == nil {
		t.Fatal("expected a pending interrupt")
	}

	if tr.Cause != MachineExternalInterrupt {
		t.Errorf("cause = %v, want MachineExternalInterrupt (highest priority)", tr.Cause)
	}
}

func TestCheckInterrupts_DisabledAtCurrentPrivilege(t *testing.T) {
	hh := newHarness(t)
	h := hh.machine()

	h.CSR.Set(CSRMstatus, 0) // MIE clear
	h.CSR.Set(CSRMie, Word(1)<<uint(MachineTimerInterrupt))
	h.CSR.Set(CSRMip, Word(1)<<uint(MachineTimerInterrupt))

	if tr := h.checkInterrupts(); tr != nil {
		t.Errorf("expected no interrupt while MIE is clear in M-mode, got %+v", tr)
	}
}

func TestCheckInterrupts_SupervisorGatedOnSIE_RegardlessOfPrivilege(t *testing.T) {
	hh := newHarness(t)
	h := hh.machine()

	h.Priv = User
	h.CSR.Set(CSRMideleg, Word(1)<<uint(SupervisorTimerInterrupt))
	h.CSR.Set(CSRSie, Word(1)<<uint(SupervisorTimerInterrupt))
	h.CSR.Set(CSRSip, Word(1)<<uint(SupervisorTimerInterrupt))
	h.CSR.Set(CSRSstatus, 0) // SIE clear

	if tr := h.checkInterrupts(); tr != nil {
		t.Errorf("expected no interrupt while sstatus.SIE is clear, got %+v", tr)
	}

	h.CSR.Set(CSRSstatus, statusSIE)

	tr := h.checkInterrupts()
	if tr == nil {
		t.Fatal("expected the delegated interrupt to be taken once sstatus.SIE is set")
	}

	if tr.Cause != SupervisorTimerInterrupt {
		t.Errorf("cause = %v, want SupervisorTimerInterrupt", tr.Cause)
	}
}
