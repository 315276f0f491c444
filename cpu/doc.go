// Package cpu implements the register machine core of the CHIP-8 style
// emulator.
//
// The CPU consists of sixteen 8-bit general-purpose registers (v0-vF),
// a program counter, 4096 bytes of byte-addressed memory, and a call
// stack of up to sixteen return addresses. Instructions are 16-bit
// big-endian words. The top nibble selects the instruction family, and
// families that overload their low nibble dispatch a second time on it.
//
// Only the control group (HALT, RETURN), CALL, and the register ALU
// group (MOVE, OR, AND, XOR, ADD, SUB) are implemented. Every other
// word fails with ErrUnsupported rather than being guessed at.
package cpu
