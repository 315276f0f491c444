package cpu

import (
	"errors"
	"fmt"
	"log"
)

const (
	FLAG_REGISTER = 0xf // Carry/borrow output of the ADD and SUB operations.
)

// errUnsupported is raised by handlers, and converted by Execute into an
// ErrUnsupported carrying the fetch address.
var errUnsupported = errors.New("unsupported")

// familyHandler executes one decoded instruction of a family.
type familyHandler func(cpu *Cpu, code Code) error

// familyTable dispatches on the top nibble of the instruction word.
var familyTable = [16]familyHandler{
	FAMILY_SYS:  (*Cpu).execSys,
	FAMILY_CALL: (*Cpu).execCall,
	FAMILY_ALU:  (*Cpu).execAlu,
}

// sysTable dispatches the control group on the whole instruction word.
var sysTable = map[Code]func(cpu *Cpu) error{
	CODE_HALT:   (*Cpu).halt,
	CODE_RETURN: (*Cpu).ret,
}

// aluHandler computes vX op vY. If flagged is set, flag is written to vF.
type aluHandler func(a, b uint8) (out uint8, flag uint8, flagged bool)

// aluTable dispatches the register ALU family on the low nibble.
var aluTable = [16]aluHandler{
	ALU_OP_MOVE: func(a, b uint8) (uint8, uint8, bool) { return b, 0, false },
	ALU_OP_OR:   func(a, b uint8) (uint8, uint8, bool) { return a | b, 0, false },
	ALU_OP_AND:  func(a, b uint8) (uint8, uint8, bool) { return a & b, 0, false },
	ALU_OP_XOR:  func(a, b uint8) (uint8, uint8, bool) { return a ^ b, 0, false },
	ALU_OP_ADD:  aluAdd,
	ALU_OP_SUB:  aluSub,
}

// aluAdd sets the flag to 1 on unsigned 8-bit overflow.
func aluAdd(a, b uint8) (out uint8, flag uint8, flagged bool) {
	sum := uint16(a) + uint16(b)
	out = uint8(sum)
	if sum > 0xff {
		flag = 1
	}
	return out, flag, true
}

// aluSub sets the flag to 1 when no borrow occurred (a >= b).
func aluSub(a, b uint8) (out uint8, flag uint8, flagged bool) {
	out = a - b
	if a >= b {
		flag = 1
	}
	return out, flag, true
}

// State is a snapshot of the externally observable machine state.
type State struct {
	Register [REGISTER_COUNT]uint8
	Pc       uint16
	Sp       int
	Stack    []uint16
	Halted   bool
	Ticks    int
}

// Cpu is the simulation context for the register machine.
//
// A Cpu is owned by a single run loop. Concurrent calls into one Cpu
// are not supported.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Register [REGISTER_COUNT]uint8 // Register bank, v0-vF.
	Pc       uint16                // Address of the next instruction word.
	Memory   Memory                // Addressable memory.
	Stack    Stack                 // Return address stack.
	Halted   bool                  // Set once HALT has executed.

	Ticks int // Instructions executed since reset.
}

// NewCpu creates a new CPU with cleared state.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{}

	return
}

// Reset the CPU state.
// - Clears the registers, memory, and stack.
// - Sets the program counter to 0x000.
// - Zeros the tick counter.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	clear(cpu.Register[:])
	cpu.Memory.Reset()
	cpu.Stack.Reset()
	cpu.Pc = 0
	cpu.Halted = false
	cpu.Ticks = 0
}

// State returns a copy of the current CPU state.
func (cpu *Cpu) State() State {
	return State{
		Register: cpu.Register,
		Pc:       cpu.Pc,
		Sp:       cpu.Stack.Sp,
		Stack:    cpu.Stack.Addresses(),
		Halted:   cpu.Halted,
		Ticks:    cpu.Ticks,
	}
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	text += fmt.Sprintf("% 5s: 0x%03x\n", "pc", cpu.Pc)
	text += fmt.Sprintf("% 5s: %d\n", "sp", cpu.Stack.Sp)

	top := "-----"
	if val, ok := cpu.Stack.Peek(); ok {
		top = fmt.Sprintf("0x%03x", val)
	}
	text += fmt.Sprintf("% 5s: %v\n", "stack", top)

	for n, val := range cpu.Register {
		text += fmt.Sprintf("% 5s: 0x%02x\n", fmt.Sprintf("v%X", n), val)
	}

	return
}

// Fetch reads the instruction word at the program counter.
func (cpu *Cpu) Fetch() (code Code, err error) {
	return cpu.Memory.Word(int(cpu.Pc))
}

// Tick executes a single fetch, decode, and execute cycle.
// The program counter is advanced past the fetched word before the
// instruction executes.
func (cpu *Cpu) Tick() (halted bool, err error) {
	if cpu.Halted {
		halted = true
		return
	}

	ip := cpu.Pc
	code, err := cpu.Fetch()
	if err != nil {
		return
	}
	cpu.Pc += CODE_SIZE

	if cpu.Verbose {
		log.Printf("%03x: %04x %v", ip, uint16(code), code)
	}

	err = cpu.Execute(ip, code)
	if err != nil {
		return
	}

	cpu.Ticks++
	halted = cpu.Halted

	return
}

// Run ticks the CPU until HALT or a fatal error.
func (cpu *Cpu) Run() (err error) {
	for halted := false; !halted; {
		halted, err = cpu.Tick()
		if err != nil {
			return
		}
	}

	return
}

// Execute executes a single decoded instruction that was fetched from ip.
// The program counter must already point past the instruction.
func (cpu *Cpu) Execute(ip uint16, code Code) (err error) {
	defer func() {
		switch {
		case err == nil:
		case errors.Is(err, errUnsupported):
			err = &ErrUnsupported{Ip: ip, Code: code}
		default:
			err = &ErrFault{Ip: ip, Code: code, Err: err}
		}
	}()

	handler := familyTable[code.Family()]
	if handler == nil {
		err = errUnsupported
		return
	}

	err = handler(cpu, code)
	return
}

// execSys executes the control group, selected by the whole word.
func (cpu *Cpu) execSys(code Code) (err error) {
	op, ok := sysTable[code]
	if !ok {
		err = errUnsupported
		return
	}

	err = op(cpu)
	return
}

func (cpu *Cpu) halt() (err error) {
	cpu.Halted = true
	return
}

func (cpu *Cpu) ret() (err error) {
	addr, ok := cpu.Stack.Pop()
	if !ok {
		err = ErrStackUnderflow
		return
	}

	cpu.Pc = addr
	return
}

// execCall pushes the address following the CALL word, then jumps.
func (cpu *Cpu) execCall(code Code) (err error) {
	if !cpu.Stack.Push(cpu.Pc) {
		err = ErrStackOverflow
		return
	}

	cpu.Pc = code.Addr()
	return
}

// execAlu executes vX = vX op vY. When X is vF, the flag output wins.
func (cpu *Cpu) execAlu(code Code) (err error) {
	op := aluTable[code.Op()]
	if op == nil {
		err = errUnsupported
		return
	}

	x, y := code.X(), code.Y()
	out, flag, flagged := op(cpu.Register[x], cpu.Register[y])
	cpu.Register[x] = out
	if flagged {
		cpu.Register[FLAG_REGISTER] = flag
	}

	return
}
