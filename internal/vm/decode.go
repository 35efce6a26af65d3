package vm

// Op is one decoded instruction, ready to execute against a Hart. pc is the address the
// instruction was fetched from; Execute receives it explicitly rather than reading h.PC, since by
// the time Execute runs h.PC has already been advanced to pc+4.
type Op interface {
	Execute(h *Hart, pc Word) *Trap
}

// Decode turns a raw instruction word into an executable Op, or returns an illegal-instruction trap
// for an unknown opcode or one of the few field values checked here (JALR funct3, AMO width, SYSTEM
// funct12). Other unimplemented funct3/funct7 values decode to an Op whose Execute raises the
// illegal-instruction trap. This is the one decode path
// in the emulator; every instruction, across every extension, passes through here exactly once.
func Decode(i Instruction) (Op, *Trap) {
	switch i.Opcode() {
	case OpLUI:
		return &opLUI{rd: i.Rd(), imm: i.ImmU()}, nil

	case OpAUIPC:
		return &opAUIPC{rd: i.Rd(), imm: i.ImmU()}, nil

	case OpJAL:
		return &opJAL{rd: i.Rd(), imm: i.ImmJ()}, nil

	case OpJALR:
		if i.Funct3() != 0 {
			return nil, illegalInstruction(Word(i))
		}

		return &opJALR{rd: i.Rd(), rs1: i.Rs1(), imm: i.ImmI()}, nil

	case OpBranch:
		return &opBranch{funct3: i.Funct3(), rs1: i.Rs1(), rs2: i.Rs2(), imm: i.ImmB()}, nil

	case OpLoad:
		return &opLoad{funct3: i.Funct3(), rd: i.Rd(), rs1: i.Rs1(), imm: i.ImmI()}, nil

	case OpStore:
		return &opStore{funct3: i.Funct3(), rs1: i.Rs1(), rs2: i.Rs2(), imm: i.ImmS()}, nil

	case OpImm:
		return &opImm{
			funct3: i.Funct3(), rd: i.Rd(), rs1: i.Rs1(),
			imm: i.ImmI(), shamt: i.Shamt(), funct7: i.Funct7(),
		}, nil

	case OpOp:
		if i.Funct7() == 0x01 {
			return decodeM(i)
		}

		return &opReg{funct3: i.Funct3(), funct7: i.Funct7(), rd: i.Rd(), rs1: i.Rs1(), rs2: i.Rs2()}, nil

	case OpMiscMem:
		// FENCE, FENCE.TSO, and PAUSE (a FENCE encoding) are all no-ops: MARV32 is a single hart
		// with no store buffering to order.
		return opFence{}, nil

	case OpAMO:
		return decodeAMO(i)

	case OpSystem:
		return decodeSystem(i)

	default:
		return nil, illegalInstruction(Word(i))
	}
}
