package native

import (
	"path/filepath"
	"runtime"
)

// LibraryName returns the platform-specific file name of a role's library.
func LibraryName(role Role, goos string) string {
	switch goos {
	case "windows":
		return string(role) + ".dll"
	case "darwin":
		return "lib" + string(role) + ".dylib"
	default:
		return "lib" + string(role) + ".so"
	}
}

// LibraryPath joins dir with the library name for the running platform.
func LibraryPath(dir string, role Role) string {
	return filepath.Join(dir, LibraryName(role, runtime.GOOS))
}
