package vm

import "testing"

func encodeR(opcode, funct3, funct7 uint32, rd, rs1, rs2 GPR) Instruction {
	return Instruction(funct7<<25 | uint32(rs2)<<20 | uint32(rs1)<<15 | funct3<<12 | uint32(rd)<<7 | opcode)
}

func encodeI(opcode, funct3 uint32, rd, rs1 GPR, imm int32) Instruction {
	return Instruction(uint32(imm)<<20 | uint32(rs1)<<15 | funct3<<12 | uint32(rd)<<7 | opcode)
}

func TestInstruction_RTypeFields(t *testing.T) {
	i := encodeR(OpOp, f3ADD, funct7Alt, 10, 11, 12)

	if got := i.Opcode(); got != OpOp {
		t.Errorf("Opcode() = %#x, want %#x", got, OpOp)
	}

	if got := i.Rd(); got != 10 {
		t.Errorf("Rd() = %d, want 10", got)
	}

	if got := i.Rs1(); got != 11 {
		t.Errorf("Rs1() = %d, want 11", got)
	}

	if got := i.Rs2(); got != 12 {
		t.Errorf("Rs2() = %d, want 12", got)
	}

	if got := i.Funct7(); got != funct7Alt {
		t.Errorf("Funct7() = %#x, want %#x", got, funct7Alt)
	}
}

func TestInstruction_ImmI_SignExtends(t *testing.T) {
	i := encodeI(OpImm, f3ADDI, 1, 0, -1)

	if got := i.ImmI(); got != -1 {
		t.Errorf("ImmI() = %d, want -1", got)
	}

	i = encodeI(OpImm, f3ADDI, 1, 0, 5)
	if got := i.ImmI(); got != 5 {
		t.Errorf("ImmI() = %d, want 5", got)
	}
}

func TestInstruction_ImmB(t *testing.T) {
	// Branch immediates are even and span [-4096, 4094]; scatter one into the B-type fields and read
	// it back with ImmB.
	raw := uint32(OpBranch)
	raw |= uint32(f3BEQ) << 12
	raw |= uint32(1) << 15 // rs1
	raw |= uint32(2) << 20 // rs2

	imm := int32(16)
	u := uint32(imm)
	raw |= ((u >> 12) & 0x1) << 31
	raw |= ((u >> 11) & 0x1) << 7
	raw |= ((u >> 5) & 0x3f) << 25
	raw |= ((u >> 1) & 0xf) << 8

	i := Instruction(raw)
	if got := i.ImmB(); got != imm {
		t.Errorf("ImmB() = %d, want %d", got, imm)
	}
}

func TestInstruction_ImmU(t *testing.T) {
	i := Instruction(0xdeadb000 | OpLUI)
	if got := i.ImmU(); uint32(got) != 0xdeadb000 {
		t.Errorf("ImmU() = %#x, want %#x", uint32(got), uint32(0xdeadb000))
	}
}
