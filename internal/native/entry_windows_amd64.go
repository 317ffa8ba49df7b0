package native

import (
	"unsafe"

	"github.com/ebitengine/purego"
)

// Win64 passes a 16-byte cut_list by reference to a caller-owned copy.
func bindRender(sym uintptr) (renderFunc, error) {
	return func(token, output string, cuts CutList, quality int32, progress uintptr) {
		list := cuts
		purego.SyscallN(sym,
			uintptr(unsafe.Pointer(cString(token))),
			uintptr(unsafe.Pointer(cString(output))),
			uintptr(unsafe.Pointer(&list)),
			uintptr(uint32(quality)),
			progress)
	}, nil
}
