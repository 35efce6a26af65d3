package vm

// Instruction is a raw 32-bit RISC-V instruction word with accessors for each of the standard
// encoding fields. Which fields are meaningful depends on the instruction's format (R/I/S/B/U/J);
// callers extract only the fields their opcode/funct3/funct7 combination defines.
type Instruction uint32

// Opcode groups, bits [6:0].
const (
	OpLoad     = 0b0000011
	OpMiscMem  = 0b0001111
	OpImm      = 0b0010011
	OpAUIPC    = 0b0010111
	OpStore    = 0b0100011
	OpAMO      = 0b0101111
	OpOp       = 0b0110011
	OpLUI      = 0b0110111
	OpBranch   = 0b1100011
	OpJALR     = 0b1100111
	OpJAL      = 0b1101111
	OpSystem   = 0b1110011
)


func (i Instruction) Opcode() uint32 { return uint32(i) & 0x7f }
func (i Instruction) Funct3() uint32 { return (uint32(i) >> 12) & 0x7 }
func (i Instruction) Funct7() uint32 { return (uint32(i) >> 25) & 0x7f }
func (i Instruction) Funct5() uint32 { return (uint32(i) >> 27) & 0x1f } // AMO operation field
func (i Instruction) Aq() bool       { return (uint32(i)>>26)&1 != 0 }
func (i Instruction) Rl() bool       { return (uint32(i)>>25)&1 != 0 }

func (i Instruction) Rd() GPR  { return GPR((uint32(i) >> 7) & 0x1f) }
func (i Instruction) Rs1() GPR { return GPR((uint32(i) >> 15) & 0x1f) }
func (i Instruction) Rs2() GPR { return GPR((uint32(i) >> 20) & 0x1f) }

// Shamt is the shift amount for the immediate-shift instructions.
func (i Instruction) Shamt() uint32 { return (uint32(i) >> 20) & 0x1f }

// Csr is the 12-bit CSR address field used by the Zicsr instructions.
func (i Instruction) Csr() uint32 { return (uint32(i) >> 20) & 0xfff }

// ImmI sign-extends the I-type immediate, bits [31:20].
func (i Instruction) ImmI() int32 {
	return SignExtend(uint32(i)>>20, 12)
}

// ImmS sign-extends the S-type immediate, assembled from bits [31:25] and [11:7].
func (i Instruction) ImmS() int32 {
	v := ((uint32(i) >> 25) << 5) | ((uint32(i) >> 7) & 0x1f)
	return SignExtend(v, 12)
}

// ImmB sign-extends the B-type (branch) immediate.
func (i Instruction) ImmB() int32 {
	u := uint32(i)
	v := (((u >> 31) & 0x1) << 12) |
		(((u >> 7) & 0x1) << 11) |
		(((u >> 25) & 0x3f) << 5) |
		(((u >> 8) & 0xf) << 1)

	return SignExtend(v, 13)
}

// ImmU returns the U-type immediate: the upper 20 bits, already shifted into place.
func (i Instruction) ImmU() int32 {
	return int32(uint32(i) & 0xfffff000)
}

// ImmJ sign-extends the J-type (jal) immediate.
func (i Instruction) ImmJ() int32 {
	u := uint32(i)
	v := (((u >> 31) & 0x1) << 20) |
		(((u >> 12) & 0xff) << 12) |
		(((u >> 20) & 0x1) << 11) |
		(((u >> 21) & 0x3ff) << 1)

	return SignExtend(v, 21)
}
