package native

import (
	"fmt"
	"strings"
	"unicode/utf8"
	"unsafe"
)

// maxCString bounds the scan for a terminating NUL so a corrupt pointer
// cannot walk arbitrarily far.
const maxCString = 1 << 16

// checkCString verifies that s can be handed to the engine as a C string.
func checkCString(field, s string) error {
	if i := strings.IndexByte(s, 0); i >= 0 {
		return &MarshalError{Field: field, Reason: fmt.Sprintf("contains NUL at byte %d", i)}
	}
	if !utf8.ValidString(s) {
		return &MarshalError{Field: field, Reason: "not valid UTF-8"}
	}
	return nil
}

// cString returns a NUL-terminated copy of s for a call that cannot take a
// Go string directly.
func cString(s string) *byte {
	b := make([]byte, len(s)+1)
	copy(b, s)
	return &b[0]
}

// goString copies the NUL-terminated string at p into Go memory.
func goString(field string, p *byte) (string, error) {
	if p == nil {
		return "", fmt.Errorf("%w: %s is null", ErrNativeCall, field)
	}
	base := unsafe.Pointer(p)
	n := 0
	for *(*byte)(unsafe.Add(base, n)) != 0 {
		n++
		if n >= maxCString {
			return "", &MarshalError{Field: field, Reason: "unterminated string"}
		}
	}
	s := string(unsafe.Slice(p, n))
	if !utf8.ValidString(s) {
		return "", &MarshalError{Field: field, Reason: "not valid UTF-8"}
	}
	return s, nil
}
