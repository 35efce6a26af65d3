// Package vm implements a single-hart RISC-V 32-bit processor: RV32I, the M and A extensions,
// Zicsr, and the M/S/U privilege levels, sufficient to boot an unmodified Linux kernel.
//
// The package is organized around one authoritative decode/execute path. Raw instruction words are
// turned into a small tagged union of op structs by Decode, and each op knows how to execute itself
// against a *Hart. There is exactly one copy of this path; earlier drafts of this emulator kept
// several, and they drifted out of sync with each other.
package vm
