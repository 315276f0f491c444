// Package loader builds cpu.Program values from files.
//
// Two formats are understood. Raw images are big-endian instruction
// words loaded contiguously from a base address. Manifests are Starlark
// scripts that describe the images, entry point, and initial registers:
//
//	entry = 0x000
//	registers = {0: 5, 1: 10}
//	images = {
//	    0x000: [call(0x100), call(0x100), halt()],
//	    0x100: [add(0, 1), sub(0, 1), ret()],
//	}
package loader

import (
	"bytes"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/chip8/cpu"
)

const (
	MANIFEST_EXT = ".star" // File extension selecting the manifest format.
)

// aluBuiltins are the two-register encoders, by Starlark name.
// 'or' and 'and' are reserved words, hence the bit_ prefix.
var aluBuiltins = map[string]cpu.CodeAluOp{
	"move":    cpu.ALU_OP_MOVE,
	"bit_or":  cpu.ALU_OP_OR,
	"bit_and": cpu.ALU_OP_AND,
	"bit_xor": cpu.ALU_OP_XOR,
	"add":     cpu.ALU_OP_ADD,
	"sub":     cpu.ALU_OP_SUB,
}

// codeValue converts an encoded instruction to a Starlark value.
func codeValue(code cpu.Code) starlark.Value {
	return starlark.MakeInt(int(code))
}

// asInt converts a Starlark value to an int in [0, limit].
func asInt(name string, value starlark.Value, limit int) (n int, err error) {
	n, err = starlark.AsInt32(value)
	if err != nil || n < 0 || n > limit {
		err = &ErrManifestValue{Name: name, Value: value.String()}
		return
	}

	return
}

// predeclared returns the builtins and constants visible to manifests.
func predeclared() (pred starlark.StringDict) {
	pred = starlark.StringDict{
		"MEMORY_SIZE": starlark.MakeInt(cpu.MEMORY_SIZE),
		"STACK_LIMIT": starlark.MakeInt(cpu.STACK_LIMIT),
		"VF":          starlark.MakeInt(cpu.FLAG_REGISTER),
	}

	pred["halt"] = starlark.NewBuiltin("halt", func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		if err := starlark.UnpackArgs(b.Name(), args, kwargs); err != nil {
			return nil, err
		}
		return codeValue(cpu.MakeCodeHalt()), nil
	})

	pred["ret"] = starlark.NewBuiltin("ret", func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		if err := starlark.UnpackArgs(b.Name(), args, kwargs); err != nil {
			return nil, err
		}
		return codeValue(cpu.MakeCodeReturn()), nil
	})

	pred["call"] = starlark.NewBuiltin("call", func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var addr starlark.Value
		if err := starlark.UnpackArgs(b.Name(), args, kwargs, "addr", &addr); err != nil {
			return nil, err
		}
		n, err := asInt(b.Name(), addr, 0xfff)
		if err != nil {
			return nil, err
		}
		return codeValue(cpu.MakeCodeCall(uint16(n))), nil
	})

	pred["word"] = starlark.NewBuiltin("word", func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var value starlark.Value
		if err := starlark.UnpackArgs(b.Name(), args, kwargs, "value", &value); err != nil {
			return nil, err
		}
		n, err := asInt(b.Name(), value, 0xffff)
		if err != nil {
			return nil, err
		}
		return codeValue(cpu.Code(n)), nil
	})

	// alu(op, x, y) encodes any sub-opcode, implemented or not.
	pred["alu"] = starlark.NewBuiltin("alu", func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var op, x, y starlark.Value
		if err := starlark.UnpackArgs(b.Name(), args, kwargs, "op", &op, "x", &x, "y", &y); err != nil {
			return nil, err
		}
		return aluValue(b.Name(), op, x, y)
	})

	for name, op := range aluBuiltins {
		pred[name] = starlark.NewBuiltin(name, func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var x, y starlark.Value
			if err := starlark.UnpackArgs(b.Name(), args, kwargs, "x", &x, "y", &y); err != nil {
				return nil, err
			}
			return aluValue(b.Name(), starlark.MakeInt(int(op)), x, y)
		})
	}

	return
}

// aluValue encodes a register ALU instruction.
func aluValue(name string, op, x, y starlark.Value) (value starlark.Value, err error) {
	var fields [3]int
	for n, arg := range []starlark.Value{op, x, y} {
		fields[n], err = asInt(name, arg, 0xf)
		if err != nil {
			return
		}
	}

	value = codeValue(cpu.MakeCodeAlu(cpu.CodeAluOp(fields[0]), uint8(fields[1]), uint8(fields[2])))
	return
}

// ParseManifest executes a Starlark manifest and returns its program.
func ParseManifest(name string, input io.Reader) (prog *cpu.Program, err error) {
	defer func() {
		if err != nil {
			err = &ErrManifest{File: name, Err: err}
		}
	}()

	src, err := io.ReadAll(input)
	if err != nil {
		return
	}

	thread := &starlark.Thread{
		Name: name,
		Print: func(_ *starlark.Thread, msg string) {
			log.Printf("%v: %v", name, msg)
		},
	}
	opts := syntax.FileOptions{}

	globals, err := starlark.ExecFileOptions(&opts, thread, name, src, predeclared())
	if err != nil {
		return
	}

	prog = &cpu.Program{}

	if entry, ok := globals["entry"]; ok {
		var n int
		n, err = asInt("entry", entry, cpu.MEMORY_SIZE-cpu.CODE_SIZE)
		if err != nil {
			return
		}
		prog.Entry = uint16(n)
	}

	if regs, ok := globals["registers"]; ok {
		err = parseRegisters(prog, regs)
		if err != nil {
			return
		}
	}

	images, ok := globals["images"]
	if !ok {
		err = ErrImagesMissing
		return
	}
	err = parseImages(prog, images)
	if err != nil {
		return
	}

	return
}

// parseRegisters reads the 'registers' global, a dict of index to value.
func parseRegisters(prog *cpu.Program, value starlark.Value) (err error) {
	dict, ok := value.(*starlark.Dict)
	if !ok {
		err = &ErrManifestValue{Name: "registers", Value: value.String()}
		return
	}

	for _, item := range dict.Items() {
		var index, reg int
		index, err = asInt("registers", item[0], cpu.REGISTER_COUNT-1)
		if err != nil {
			return
		}
		reg, err = asInt("registers", item[1], 0xff)
		if err != nil {
			return
		}
		prog.Registers[index] = uint8(reg)
	}

	return
}

// parseImages reads the 'images' global, a dict of base to word list.
func parseImages(prog *cpu.Program, value starlark.Value) (err error) {
	dict, ok := value.(*starlark.Dict)
	if !ok {
		err = &ErrManifestValue{Name: "images", Value: value.String()}
		return
	}

	if dict.Len() == 0 {
		err = ErrImagesMissing
		return
	}

	for _, item := range dict.Items() {
		var base int
		base, err = asInt("images", item[0], cpu.MEMORY_SIZE-cpu.CODE_SIZE)
		if err != nil {
			return
		}

		words, ok := item[1].(starlark.Indexable)
		if !ok {
			err = &ErrManifestValue{Name: "images", Value: item[1].String()}
			return
		}

		img := cpu.Image{Base: uint16(base), Codes: make([]cpu.Code, 0, words.Len())}
		for n := range words.Len() {
			var word int
			word, err = asInt("images", words.Index(n), 0xffff)
			if err != nil {
				return
			}
			img.Codes = append(img.Codes, cpu.Code(word))
		}

		prog.Images = append(prog.Images, img)
	}

	return
}

// ReadImage reads a raw big-endian image to be loaded at base.
func ReadImage(input io.Reader, base uint16) (img cpu.Image, err error) {
	data, err := io.ReadAll(input)
	if err != nil {
		return
	}

	if len(data)%cpu.CODE_SIZE != 0 {
		err = ErrImageOdd
		return
	}

	img.Base = base
	img.Codes = make([]cpu.Code, 0, len(data)/cpu.CODE_SIZE)
	for n := 0; n < len(data); n += cpu.CODE_SIZE {
		img.Codes = append(img.Codes, cpu.Code(uint16(data[n])<<8|uint16(data[n+1])))
	}

	return
}

// Open loads a program from path. Manifests are selected by extension,
// and anything else is read as a raw image at base, which is also the
// entry point.
func Open(path string, base uint16) (prog *cpu.Program, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}

	if strings.EqualFold(filepath.Ext(path), MANIFEST_EXT) {
		return ParseManifest(path, bytes.NewReader(data))
	}

	img, err := ReadImage(bytes.NewReader(data), base)
	if err != nil {
		return
	}

	prog = &cpu.Program{
		Entry:  base,
		Images: []cpu.Image{img},
	}

	return
}
