package cpu

import (
	"fmt"
)

// CodeFamily is the top nibble of an instruction word.
type CodeFamily int

const (
	FAMILY_SYS  = CodeFamily(0x0) // sys
	FAMILY_CALL = CodeFamily(0x2) // call
	FAMILY_ALU  = CodeFamily(0x8) // alu
)

var familyNames = map[CodeFamily]string{
	FAMILY_SYS:  "sys",
	FAMILY_CALL: "call",
	FAMILY_ALU:  "alu",
}

func (cf CodeFamily) String() string {
	name, ok := familyNames[cf]
	if !ok {
		return fmt.Sprintf("family%x", int(cf))
	}
	return name
}

// CodeAluOp is the sub-opcode of the register ALU family.
type CodeAluOp int

const (
	ALU_OP_MOVE = CodeAluOp(0x0) // move
	ALU_OP_OR   = CodeAluOp(0x1) // or
	ALU_OP_AND  = CodeAluOp(0x2) // and
	ALU_OP_XOR  = CodeAluOp(0x3) // xor
	ALU_OP_ADD  = CodeAluOp(0x4) // add
	ALU_OP_SUB  = CodeAluOp(0x5) // sub
)

var aluNames = map[CodeAluOp]string{
	ALU_OP_MOVE: "move",
	ALU_OP_OR:   "or",
	ALU_OP_AND:  "and",
	ALU_OP_XOR:  "xor",
	ALU_OP_ADD:  "add",
	ALU_OP_SUB:  "sub",
}

func (op CodeAluOp) String() string {
	name, ok := aluNames[op]
	if !ok {
		return fmt.Sprintf("op%x", int(op))
	}
	return name
}

// Control group words. The whole word selects the operation.
const (
	CODE_HALT   = Code(0x0000)
	CODE_RETURN = Code(0x00EE)
)

// Code is a single 16-bit instruction word.
type Code uint16

// MakeCodeHalt creates the instruction that stops the run loop.
func MakeCodeHalt() Code {
	return CODE_HALT
}

// MakeCodeReturn creates a return-from-subroutine instruction.
func MakeCodeReturn() Code {
	return CODE_RETURN
}

// MakeCodeCall creates a call to the 12-bit absolute address.
func MakeCodeCall(addr uint16) Code {
	return Code((uint16(FAMILY_CALL) << 12) | (addr & 0x0fff))
}

// MakeCodeAlu creates a register ALU instruction: vX = vX op vY.
func MakeCodeAlu(op CodeAluOp, x, y uint8) Code {
	return Code((uint16(FAMILY_ALU) << 12) | (uint16(x&0xf) << 8) | (uint16(y&0xf) << 4) | uint16(op&0xf))
}

// Family returns bits 15-12.
func (code Code) Family() CodeFamily {
	return CodeFamily((code >> 12) & 0xf)
}

// X returns bits 11-8, usually a register index.
func (code Code) X() uint8 {
	return uint8((code >> 8) & 0xf)
}

// Y returns bits 7-4, usually a register index.
func (code Code) Y() uint8 {
	return uint8((code >> 4) & 0xf)
}

// Op returns bits 3-0, the sub-opcode within a family.
func (code Code) Op() uint8 {
	return uint8(code & 0xf)
}

// Addr returns bits 11-0, the 12-bit immediate address.
func (code Code) Addr() uint16 {
	return uint16(code & 0x0fff)
}

// Decode splits the word into all of its addressing fields.
func (code Code) Decode() (family CodeFamily, x, y, op uint8, addr uint16) {
	return code.Family(), code.X(), code.Y(), code.Op(), code.Addr()
}

// String returns a short mnemonic for the instruction word.
func (code Code) String() (out string) {
	switch code.Family() {
	case FAMILY_SYS:
		switch code {
		case CODE_HALT:
			out = "halt"
		case CODE_RETURN:
			out = "ret"
		default:
			out = fmt.Sprintf("sys 0x%03x", code.Addr())
		}
	case FAMILY_CALL:
		out = fmt.Sprintf("%v 0x%03x", code.Family(), code.Addr())
	case FAMILY_ALU:
		out = fmt.Sprintf("%v v%X, v%X", CodeAluOp(code.Op()), code.X(), code.Y())
	default:
		out = fmt.Sprintf("word 0x%04x", uint16(code))
	}

	return
}
