package loader

import (
	"errors"

	"github.com/ezrec/chip8/translate"
)

var f = translate.From

var (
	// Loader errors
	ErrImagesMissing = errors.New(f("manifest defines no images"))
	ErrImageOdd      = errors.New(f("image length is odd"))
)

// ErrManifestValue reports a manifest global or element of the wrong
// type or range.
type ErrManifestValue struct {
	Name  string // Global or builtin the value belongs to.
	Value string // Starlark representation of the value.
}

func (err *ErrManifestValue) Error() string {
	return f("%v: invalid value %v", err.Name, err.Value)
}

// ErrManifest locates a failure in a manifest file.
type ErrManifest struct {
	File string
	Err  error
}

func (err *ErrManifest) Error() string {
	return f("%v: %v", err.File, err.Err)
}

func (err *ErrManifest) Unwrap() error {
	return err.Err
}
