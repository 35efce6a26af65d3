package vm

const (
	f3CSRRW  = 0x1
	f3CSRRS  = 0x2
	f3CSRRC  = 0x3
	f3CSRRWI = 0x5
	f3CSRRSI = 0x6
	f3CSRRCI = 0x7
)

type opCSR struct {
	funct3 uint32
	rd, rs1 GPR
	csr    Word
	zimm   Word
}

func (o *opCSR) Execute(h *Hart, pc Word) *Trap {
	switch o.funct3 {
	case f3CSRRW:
		var old Word

		if o.rd != 0 {
			v, t := h.CSR.Read(o.csr, h.Priv)
			if t != nil {
				return t
			}

			old = v
		}

		if t := h.CSR.Write(o.csr, h.Regs.Get(o.rs1), h.Priv); t != nil {
			return t
		}

		h.Regs.Set(o.rd, old)

	case f3CSRRS:
		old, t := h.CSR.Read(o.csr, h.Priv)
		if t != nil {
			return t
		}

		h.Regs.Set(o.rd, old)

		if o.rs1 != 0 {
			if t := h.CSR.Write(o.csr, old|h.Regs.Get(o.rs1), h.Priv); t != nil {
				return t
			}
		}

	case f3CSRRC:
		old, t := h.CSR.Read(o.csr, h.Priv)
		if t != nil {
			return t
		}

		h.Regs.Set(o.rd, old)

		if o.rs1 != 0 {
			if t := h.CSR.Write(o.csr, old&^h.Regs.Get(o.rs1), h.Priv); t != nil {
				return t
			}
		}

	case f3CSRRWI:
		if o.rd != 0 {
			v, t := h.CSR.Read(o.csr, h.Priv)
			if t != nil {
				return t
			}

			h.Regs.Set(o.rd, v)
		}
		// Unlike CSRRSI/CSRRCI, CSRRWI always performs its write, even when the immediate is zero:
		// zero is as meaningful a value to write as any other.
		if t := h.CSR.Write(o.csr, o.zimm, h.Priv); t != nil {
			return t
		}

	case f3CSRRSI:
		old, t := h.CSR.Read(o.csr, h.Priv)
		if t != nil {
			return t
		}

		h.Regs.Set(o.rd, old)

		if o.zimm != 0 {
			if t := h.CSR.Write(o.csr, old|o.zimm, h.Priv); t != nil {
				return t
			}
		}

	case f3CSRRCI:
		old, t := h.CSR.Read(o.csr, h.Priv)
		if t != nil {
			return t
		}

		h.Regs.Set(o.rd, old)

		if o.zimm != 0 {
			if t := h.CSR.Write(o.csr, old&^o.zimm, h.Priv); t != nil {
				return t
			}
		}

	default:
		return illegalInstruction(Word(0))
	}

	return nil
}
