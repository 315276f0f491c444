// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"log"

	"github.com/ezrec/chip8/cpu"
)

// Emulator state. CPU + loaded program.
type Emulator struct {
	Verbose   bool         // If set, enables verbose logging.
	*cpu.Cpu               // Reference to the CPU simulation.
	Program   *cpu.Program // Reference to the currently loaded program.
	TickLimit int          // If non-zero, maximum ticks for Run.
}

// NewEmulator creates a new emulator with an empty program.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(),
		Program: &cpu.Program{},
	}

	return
}

// Reset the emulator state, and load the program.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Verbose = emu.Verbose

	emu.Cpu.Reset()

	err = emu.Program.Load(emu.Cpu)
	if err != nil {
		return
	}

	if emu.Verbose {
		log.Printf("emulator: %v images, entry 0x%03x", len(emu.Program.Images), emu.Program.Entry)
	}

	return
}

// Ticks returns the total ticks since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// Ip returns current instruction pointer.
func (emu *Emulator) Ip() int {
	return int(emu.Cpu.Pc)
}

// Code returns the word in memory at the current instruction pointer.
func (emu *Emulator) Code() (code cpu.Code, err error) {
	return emu.Cpu.Fetch()
}

// Tick performs a single tick of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	tick := emu.Cpu.Ticks
	ip := emu.Cpu.Pc
	defer func() {
		if err != nil {
			err = &ErrRuntime{Tick: tick, Ip: ip, Err: err}
		}
	}()

	done, err = emu.Cpu.Tick()

	return
}

// Run ticks the emulator until HALT, a fatal error, or the tick limit.
func (emu *Emulator) Run() (err error) {
	for done := false; !done; {
		if emu.TickLimit > 0 && emu.Cpu.Ticks >= emu.TickLimit {
			err = &ErrRuntime{Tick: emu.Cpu.Ticks, Ip: emu.Cpu.Pc, Err: ErrTickLimit}
			return
		}

		done, err = emu.Tick()
		if err != nil {
			return
		}
	}

	if emu.Verbose {
		log.Printf("emulator: halted after %v ticks", emu.Cpu.Ticks)
	}

	return
}
