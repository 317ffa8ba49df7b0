//go:build linux || freebsd

package native

import (
	"unsafe"

	"github.com/ebitengine/purego"
)

// A cut_list is two INTEGER eightbytes, so SysV splits it across two
// consecutive registers.
func bindRender(sym uintptr) (renderFunc, error) {
	return func(token, output string, cuts CutList, quality int32, progress uintptr) {
		purego.SyscallN(sym,
			uintptr(unsafe.Pointer(cString(token))),
			uintptr(unsafe.Pointer(cString(output))),
			uintptr(cuts.Length),
			uintptr(unsafe.Pointer(cuts.Cuts)),
			uintptr(uint32(quality)),
			progress)
	}, nil
}
