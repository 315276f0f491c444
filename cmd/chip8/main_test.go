package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/chip8/loader"
)

func TestDemoManifest(t *testing.T) {
	assert := assert.New(t)

	prog, err := loader.ParseManifest("demo.star", strings.NewReader(demoManifest))
	assert.NoError(err)
	if err != nil {
		return
	}

	opts := &options{limit: 100}
	emu, err := opts.execute(prog)
	assert.NoError(err)
	assert.Equal(uint8(5), emu.Cpu.Register[0])
	assert.Equal(uint8(10), emu.Cpu.Register[1])
	assert.Equal(0, emu.Cpu.Stack.Sp)
}

func TestParseUint(t *testing.T) {
	assert := assert.New(t)

	value, err := parseUint("0x100", 12)
	assert.NoError(err)
	assert.Equal(uint64(0x100), value)

	value, err = parseUint(" 10 ", 8)
	assert.NoError(err)
	assert.Equal(uint64(10), value)

	_, err = parseUint("0x1000", 12)
	assert.Error(err)

	_, err = parseUint("256", 8)
	assert.Error(err)
}

func TestParseRegister(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name  string
		index uint8
	}){
		{"v0", 0},
		{"v9", 9},
		{"vA", 10},
		{"va", 10},
		{"vf", 15},
		{"VF", 15},
		{" v3 ", 3},
	}

	for _, entry := range table {
		index, err := parseRegister(entry.name)
		assert.NoError(err, entry.name)
		assert.Equal(entry.index, index, entry.name)
	}

	for _, name := range []string{"v10", "vg", "v", "x1"} {
		_, err := parseRegister(name)
		assert.Error(err, name)
	}

	// --reg vf=1,vA=0x0a
	value, err := parseUint("1", 8)
	assert.NoError(err)
	assert.Equal(uint64(1), value)

	value, err = parseUint("0x0a", 8)
	assert.NoError(err)
	assert.Equal(uint64(10), value)
}
