package cpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemory_Word(t *testing.T) {
	assert := assert.New(t)

	mem := &Memory{}
	mem[0x100] = 0x80
	mem[0x101] = 0x14

	code, err := mem.Word(0x100)
	assert.NoError(err)
	assert.Equal(Code(0x8014), code)

	// Last complete word in memory.
	mem[MEMORY_SIZE-2] = 0x00
	mem[MEMORY_SIZE-1] = 0xEE
	code, err = mem.Word(MEMORY_SIZE - 2)
	assert.NoError(err)
	assert.Equal(CODE_RETURN, code)
}

func TestMemory_Bounds(t *testing.T) {
	assert := assert.New(t)

	mem := &Memory{}

	for _, addr := range []int{-1, MEMORY_SIZE - 1, MEMORY_SIZE, 0xffff} {
		_, err := mem.Word(addr)
		var eob *ErrOutOfBounds
		assert.True(errors.As(err, &eob), "%#x", addr)
		assert.Equal(addr, eob.Addr)

		err = mem.Store(addr, CODE_RETURN)
		assert.True(errors.As(err, &eob), "%#x", addr)
	}
}

func TestMemory_Store(t *testing.T) {
	assert := assert.New(t)

	mem := &Memory{}
	assert.NoError(mem.Store(0x0, MakeCodeCall(0x100)))
	assert.Equal(byte(0x21), mem[0])
	assert.Equal(byte(0x00), mem[1])

	mem.Reset()
	assert.Equal(byte(0x00), mem[0])
}
