package emulator

import (
	"errors"
	"strconv"

	"github.com/ezrec/chip8/translate"
)

var f = translate.From

var (
	ErrTickLimit = errors.New(f("tick limit reached"))
)

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	Tick int    // Instructions completed before the failure.
	Ip   uint16 // Program counter at the failing tick.
	Err  error
}

func (err *ErrRuntime) Error() string {
	// The tick count is pre-formatted to avoid locale digit grouping.
	return f("tick %v ip 0x%03x %v", strconv.Itoa(err.Tick), err.Ip, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
