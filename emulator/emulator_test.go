package emulator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/chip8/cpu"
)

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	assert.False(emu.Verbose)
	assert.NotNil(emu.Cpu)
	assert.NotNil(emu.Program)
	assert.Equal(0, emu.TickLimit)
}

// subroutineProgram calls an ADD/SUB subroutine at 0x100 'calls' times.
func subroutineProgram(calls int, a, b uint8) (prog *cpu.Program) {
	var main []cpu.Code
	for range calls {
		main = append(main, cpu.MakeCodeCall(0x100))
	}
	main = append(main, cpu.MakeCodeHalt())

	prog = &cpu.Program{
		Images: []cpu.Image{
			{Base: 0x000, Codes: main},
			{Base: 0x100, Codes: []cpu.Code{
				cpu.MakeCodeAlu(cpu.ALU_OP_ADD, 0, 1),
				cpu.MakeCodeAlu(cpu.ALU_OP_SUB, 0, 1),
				cpu.MakeCodeReturn(),
			}},
		},
	}
	prog.Registers[0] = a
	prog.Registers[1] = b

	return
}

func TestEmulatorSubroutine(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	emu.Program = subroutineProgram(2, 5, 10)

	err := emu.Reset()
	assert.NoError(err)
	assert.Equal(uint8(5), emu.Cpu.Register[0])

	err = emu.Run()
	assert.NoError(err)

	assert.Equal(uint8(5), emu.Cpu.Register[0])
	assert.Equal(uint8(10), emu.Cpu.Register[1])
	assert.Equal(uint8(1), emu.Cpu.Register[cpu.FLAG_REGISTER])
	assert.Equal(0, emu.Cpu.Stack.Sp)
	assert.True(emu.Cpu.Halted)
	assert.Equal(9, emu.Ticks())
}

func TestEmulatorStep(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	emu.Program = subroutineProgram(1, 5, 10)
	assert.NoError(emu.Reset())

	// ip, code about to execute, v0 after it executes
	steps := [](struct {
		ip   int
		code cpu.Code
		v0   uint8
		vf   uint8
	}){
		{0x000, cpu.MakeCodeCall(0x100), 5, 0},
		{0x100, cpu.MakeCodeAlu(cpu.ALU_OP_ADD, 0, 1), 15, 0},
		{0x102, cpu.MakeCodeAlu(cpu.ALU_OP_SUB, 0, 1), 5, 1},
		{0x104, cpu.MakeCodeReturn(), 5, 1},
	}

	for _, step := range steps {
		assert.Equal(step.ip, emu.Ip())
		code, err := emu.Code()
		assert.NoError(err)
		assert.Equal(step.code, code)
		done, err := emu.Tick()
		assert.NoError(err)
		assert.False(done)
		assert.Equal(step.v0, emu.Cpu.Register[0], step.code.String())
		assert.Equal(step.vf, emu.Cpu.Register[cpu.FLAG_REGISTER], step.code.String())
	}

	assert.Equal(0x002, emu.Ip())
	done, err := emu.Tick()
	assert.NoError(err)
	assert.True(done)
}

func TestEmulatorUnsupported(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	emu.Program = &cpu.Program{
		Images: []cpu.Image{
			{Base: 0x000, Codes: []cpu.Code{cpu.MakeCodeCall(0x010)}},
			{Base: 0x010, Codes: []cpu.Code{0x1234}},
		},
	}
	assert.NoError(emu.Reset())

	err := emu.Run()

	var rt *ErrRuntime
	if assert.True(errors.As(err, &rt)) {
		assert.Equal(1, rt.Tick)
		assert.Equal(uint16(0x010), rt.Ip)
	}

	var eu *cpu.ErrUnsupported
	if assert.True(errors.As(err, &eu)) {
		assert.Equal(cpu.Code(0x1234), eu.Code)
		assert.Equal(uint16(0x010), eu.Ip)
	}
}

func TestEmulatorStackOverflow(t *testing.T) {
	assert := assert.New(t)

	// Unbounded recursion: the subroutine calls itself.
	emu := NewEmulator()
	emu.Program = &cpu.Program{
		Entry: 0x200,
		Images: []cpu.Image{
			{Base: 0x200, Codes: []cpu.Code{cpu.MakeCodeCall(0x200)}},
		},
	}
	assert.NoError(emu.Reset())

	err := emu.Run()
	assert.ErrorIs(err, cpu.ErrStackOverflow)
	assert.Equal(cpu.STACK_LIMIT, emu.Ticks())
	assert.Equal(cpu.STACK_LIMIT, emu.Cpu.Stack.Sp)
}

func TestEmulatorTickLimit(t *testing.T) {
	assert := assert.New(t)

	codes := make([]cpu.Code, 200)
	for n := range codes {
		codes[n] = cpu.MakeCodeAlu(cpu.ALU_OP_MOVE, 2, 0)
	}
	codes = append(codes, cpu.MakeCodeHalt())

	emu := NewEmulator()
	emu.TickLimit = 100
	emu.Program = &cpu.Program{
		Images: []cpu.Image{{Base: 0x000, Codes: codes}},
	}
	assert.NoError(emu.Reset())

	err := emu.Run()
	assert.ErrorIs(err, ErrTickLimit)
	assert.Equal(100, emu.Ticks())
	assert.Equal(200, emu.Ip())

	var rt *ErrRuntime
	if assert.True(errors.As(err, &rt)) {
		assert.Equal(100, rt.Tick)
	}

	// Lifting the limit resumes to HALT.
	emu.TickLimit = 0
	assert.NoError(emu.Run())
	assert.Equal(201, emu.Ticks())
}

func TestEmulatorLoadOutOfBounds(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	emu.Program = &cpu.Program{
		Images: []cpu.Image{
			{Base: 0xffe, Codes: []cpu.Code{cpu.MakeCodeHalt(), cpu.MakeCodeHalt()}},
		},
	}

	err := emu.Reset()
	var eob *cpu.ErrOutOfBounds
	assert.True(errors.As(err, &eob))
}

func TestEmulatorCodeOverlap(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	emu.Program = &cpu.Program{
		Images: []cpu.Image{
			{Base: 0x000, Codes: []cpu.Code{0x1234}},
			{Base: 0x000, Codes: []cpu.Code{cpu.MakeCodeHalt()}},
		},
	}
	assert.NoError(emu.Reset())

	code, err := emu.Code()
	assert.NoError(err)
	assert.Equal(cpu.MakeCodeHalt(), code)

	img, index := emu.Program.Debug(0x000)
	if assert.NotNil(img) {
		assert.Equal(code, img.Codes[index])
	}

	assert.NoError(emu.Run())
	assert.True(emu.Cpu.Halted)

	// Outside every image the word still comes from memory.
	emu.Cpu.Pc = 0x400
	code, err = emu.Code()
	assert.NoError(err)
	assert.Equal(cpu.Code(0), code)

	emu.Cpu.Pc = cpu.MEMORY_SIZE
	_, err = emu.Code()
	var eob *cpu.ErrOutOfBounds
	assert.True(errors.As(err, &eob))
}

func TestErrRuntimeMessage(t *testing.T) {
	assert := assert.New(t)

	err := &ErrRuntime{Tick: 12345, Ip: 0x010, Err: ErrTickLimit}
	assert.Contains(err.Error(), "tick 12345 ip 0x010")
	assert.NotContains(err.Error(), "12,345")
}
