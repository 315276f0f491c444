package cpu

const (
	MEMORY_SIZE = 0x1000 // Addressable bytes, 0x000-0xFFF.
	CODE_SIZE   = 2      // Bytes per instruction word.
)

// Memory is the fixed byte-addressed address space.
type Memory [MEMORY_SIZE]byte

// Word reads the big-endian instruction word at addr.
func (mem *Memory) Word(addr int) (code Code, err error) {
	if addr < 0 || addr+1 >= len(mem) {
		err = &ErrOutOfBounds{Addr: addr}
		return
	}

	code = Code(uint16(mem[addr])<<8 | uint16(mem[addr+1]))
	return
}

// Store writes code big-endian at addr, high byte first.
func (mem *Memory) Store(addr int, code Code) (err error) {
	if addr < 0 || addr+1 >= len(mem) {
		err = &ErrOutOfBounds{Addr: addr}
		return
	}

	mem[addr] = byte(code >> 8)
	mem[addr+1] = byte(code)
	return
}

// Reset zeroes all of memory.
func (mem *Memory) Reset() {
	clear(mem[:])
}
