package vm

import "marv32/internal/log"

// LogValue renders the hart's state as a structured log group: pc and privilege (the integer
// registers are not included). Pass a *Hart as a slog attribute value to get this instead of a default struct dump.
func (h *Hart) LogValue() log.Value {
	return log.GroupValue(
		log.String("pc", formatHex(Word(h.PC))),
		log.Any("priv", h.Priv),
	)
}

func formatHex(w Word) string {
	const hexDigits = "0123456789abcdef"

	buf := [10]byte{'0', 'x'}
	for i := 0; i < 8; i++ {
		buf[9-i] = hexDigits[(w>>(4*i))&0xf]
	}

	return string(buf[:])
}
