package modules

import (
	"fmt"
	"os"
	"path/filepath"
)

// ResolveDir returns the absolute modules directory. An empty dir means the
// directory of the running executable, with symlinks resolved so an
// installed symlink finds the libraries next to the real binary.
func ResolveDir(dir string) (string, error) {
	if dir != "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return "", fmt.Errorf("modules directory %s: %w", dir, err)
		}
		return abs, nil
	}
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locate executable: %w", err)
	}
	if real, err := filepath.EvalSymlinks(exe); err == nil {
		exe = real
	}
	return filepath.Dir(exe), nil
}
