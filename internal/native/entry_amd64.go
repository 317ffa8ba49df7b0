//go:build linux || freebsd || windows

package native

import (
	"unsafe"

	"github.com/ebitengine/purego"
)

// The 32-byte generator result does not fit in registers on SysV or Win64.
// The caller passes a pointer to the result slot as a hidden first integer
// argument and the engine fills it in.
func bindGenerate(sym uintptr) (generateFunc, error) {
	return func(input string, aggressiveness int32, invert bool, progress uintptr) GeneratorResult {
		res := new(GeneratorResult)
		purego.SyscallN(sym,
			uintptr(unsafe.Pointer(res)),
			uintptr(unsafe.Pointer(cString(input))),
			uintptr(uint32(aggressiveness)),
			boolArg(invert),
			progress)
		return *res
	}, nil
}

func boolArg(v bool) uintptr {
	if v {
		return 1
	}
	return 0
}
