package vm

// AMO funct5 codes (instr bits [31:27]).
const (
	amoADD   = 0x00
	amoSWAP  = 0x01
	amoLR    = 0x02
	amoSC    = 0x03
	amoXOR   = 0x04
	amoOR    = 0x08
	amoAND   = 0x0c
	amoMIN   = 0x10
	amoMAX   = 0x14
	amoMINU  = 0x18
	amoMAXU  = 0x1c
)

func decodeAMO(i Instruction) (Op, *Trap) {
	if i.Funct3() != 0x2 { // only .W is implemented
		return nil, illegalInstruction(Word(i))
	}

	return &opAMO{funct5: i.Funct5(), rd: i.Rd(), rs1: i.Rs1(), rs2: i.Rs2()}, nil
}

// opAMO implements the RV32A word-sized load-reserved/store-conditional and read-modify-write
// instructions. MARV32 has one hart, so there is nothing to reserve against: LR.W behaves as an
// ordinary load and SC.W always succeeds, matching the original single-hart implementation this was
// built from.
type opAMO struct {
	funct5       uint32
	rd, rs1, rs2 GPR
}

func (o *opAMO) Execute(h *Hart, pc Word) *Trap {
	addr := h.Regs.Get(o.rs1)

	if o.funct5 == amoLR {
		v, t := h.Mem.LoadWord(addr)
		if t != nil {
			return t
		}

		h.Regs.Set(o.rd, v)

		return nil
	}

	if o.funct5 == amoSC {
		if t := h.Mem.StoreWord(addr, h.Regs.Get(o.rs2)); t != nil {
			return t
		}

		h.Regs.Set(o.rd, 0)

		return nil
	}

	old, t := h.Mem.LoadWord(addr)
	if t != nil {
		return t
	}

	rhs := h.Regs.Get(o.rs2)

	var next Word

	switch o.funct5 {
	case amoADD:
		next = old + rhs
	case amoSWAP:
		next = rhs
	case amoXOR:
		next = old ^ rhs
	case amoOR:
		next = old | rhs
	case amoAND:
		next = old & rhs
	case amoMIN:
		if int32(rhs) < int32(old) {
			next = rhs
		} else {
			next = old
		}
	case amoMAX:
		if int32(rhs) > int32(old) {
			next = rhs
		} else {
			next = old
		}
	case amoMINU:
		if rhs < old {
			next = rhs
		} else {
			next = old
		}
	case amoMAXU:
		if rhs > old {
			next = rhs
		} else {
			next = old
		}
	default:
		return illegalInstruction(Word(0))
	}

	if t := h.Mem.StoreWord(addr, next); t != nil {
		return t
	}

	h.Regs.Set(o.rd, old)

	return nil
}
