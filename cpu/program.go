package cpu

import (
	"iter"

	"github.com/ezrec/chip8/internal"
)

const (
	REGISTER_COUNT = 16 // General purpose registers v0-vF.
)

// Image is a run of instruction words loaded contiguously from Base.
type Image struct {
	Base  uint16
	Codes []Code
}

// Words iterates over the image words and the address each loads to.
func (img *Image) Words() iter.Seq2[int, Code] {
	return func(yield func(addr int, code Code) bool) {
		for n, code := range img.Codes {
			if !yield(int(img.Base)+n*CODE_SIZE, code) {
				return
			}
		}
	}
}

// Program is a set of memory images plus the initial register state.
type Program struct {
	Entry     uint16                // Initial program counter.
	Registers [REGISTER_COUNT]uint8 // Initial register values.
	Images    []Image               // Images, loaded in order.
}

// Codes iterates over every word of every image, in load order.
func (prog *Program) Codes() iter.Seq2[int, Code] {
	seqs := make([]iter.Seq2[int, Code], 0, len(prog.Images))
	for n := range prog.Images {
		seqs = append(seqs, prog.Images[n].Words())
	}

	return internal.IterSeq2Concat(seqs...)
}

// Binary returns the big-endian byte layout of the image.
func (img *Image) Binary() (bins []byte) {
	bins = make([]byte, 0, len(img.Codes)*CODE_SIZE)
	for _, code := range img.Codes {
		bins = append(bins, byte(code>>8), byte(code))
	}

	return
}

// Debug returns the image containing ip, and the word index within it.
// Images are loaded in order, so when images overlap the last one wins.
func (prog *Program) Debug(ip uint16) (img *Image, index int) {
	for n := len(prog.Images) - 1; n >= 0; n-- {
		im := &prog.Images[n]
		if ip >= im.Base && int(ip) < int(im.Base)+len(im.Codes)*CODE_SIZE {
			return im, int(ip-im.Base) / CODE_SIZE
		}
	}

	return nil, -1
}

// Load writes the images into memory and seeds the registers and
// program counter. The stack and the rest of memory are left untouched.
func (prog *Program) Load(cpu *Cpu) (err error) {
	for addr, code := range prog.Codes() {
		err = cpu.Memory.Store(addr, code)
		if err != nil {
			return
		}
	}

	cpu.Register = prog.Registers
	cpu.Pc = prog.Entry

	return
}
