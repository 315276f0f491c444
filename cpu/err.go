package cpu

import (
	"errors"

	"github.com/ezrec/chip8/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrStackOverflow  = errors.New(f("stack overflow"))
	ErrStackUnderflow = errors.New(f("stack underflow"))
)

// ErrUnsupported is returned when an instruction word has no handler,
// either by family or by family and sub-opcode.
type ErrUnsupported struct {
	Ip   uint16 // Address the word was fetched from.
	Code Code   // Offending instruction word.
}

func (eu *ErrUnsupported) Error() string {
	return f("unsupported instruction 0x%04x at 0x%03x", uint16(eu.Code), eu.Ip)
}

// ErrOutOfBounds is returned for a memory access outside the address space.
type ErrOutOfBounds struct {
	Addr int
}

func (eo *ErrOutOfBounds) Error() string {
	return f("address 0x%x out of bounds", eo.Addr)
}

// ErrFault locates a fatal condition raised while executing an instruction.
type ErrFault struct {
	Ip   uint16
	Code Code
	Err  error
}

func (ef *ErrFault) Error() string {
	return f("0x%03x: %v %v", ef.Ip, ef.Code.String(), ef.Err)
}

func (ef *ErrFault) Unwrap() error {
	return ef.Err
}
