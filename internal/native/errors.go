package native

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by Load and the typed entry points.
var (
	ErrModuleNotFound      = errors.New("module not found")
	ErrABIMismatch         = errors.New("module ABI version not supported")
	ErrUnsupportedPlatform = errors.New("native call signature not supported on this platform")
	ErrNativeCall          = errors.New("native call returned an invalid result")
	ErrWrongRole           = errors.New("operation not exported by this module")
	ErrClosed              = errors.New("module already closed")
)

// SymbolError reports a required export that could not be resolved.
type SymbolError struct {
	Path   string
	Symbol string
	Err    error
}

func (e *SymbolError) Error() string {
	return fmt.Sprintf("%s: missing export %q: %v", e.Path, e.Symbol, e.Err)
}

func (e *SymbolError) Unwrap() error { return e.Err }

// MarshalError reports a value that cannot cross the boundary: a Go string
// with an embedded NUL, or bytes from the engine that are not valid UTF-8.
type MarshalError struct {
	Field  string
	Reason string
}

func (e *MarshalError) Error() string {
	return "marshal " + e.Field + ": " + e.Reason
}
