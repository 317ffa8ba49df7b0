// Package check provides the --check diagnostics and the pre-pipeline module
// preflight (CheckModules).
package check

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/gamer92000/lecturecut/internal/config"
	"github.com/gamer92000/lecturecut/internal/modules"
	"github.com/gamer92000/lecturecut/internal/native"
)

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(bool, string, ...interface{})
}

// RunCheck prints where the engines are expected, then loads each one and
// reports its version and ABI revision. It returns true when every engine
// loaded.
func RunCheck(cfg *config.Config, log Logger) bool {
	log.Info("=== System Check ===")

	dir, err := modules.ResolveDir(cfg.ModulesDir)
	if err != nil {
		log.Error("%v", err)
		return false
	}
	log.Info("Modules directory: %s", dir)
	log.Info("Platform: %s/%s", runtime.GOOS, runtime.GOARCH)

	ok := true
	for _, role := range native.Roles {
		if !checkRole(dir, role, log) {
			ok = false
		}
	}
	if ok {
		log.Success("All modules loaded")
	}
	return ok
}

// checkRole loads one engine, logs what it finds and unloads it again.
func checkRole(dir string, role native.Role, log Logger) bool {
	path := native.LibraryPath(dir, role)
	if _, err := os.Stat(path); err != nil {
		log.Error("%s: %s not found", role, native.LibraryName(role, runtime.GOOS))
		return false
	}
	log.Debug(true, "%s: found %s", role, path)

	m, err := native.Load(dir, role, hclog.NewNullLogger())
	if err != nil {
		log.Error("%s: %v", role, err)
		return false
	}
	defer m.Close()

	version, err := m.Version()
	if err != nil {
		log.Warn("%s: loaded but version() failed: %v", role, err)
		return true
	}
	abi := "not exported"
	if v, ok := m.ABIVersion(); ok {
		abi = fmt.Sprint(v)
	}
	log.Success("%s: %s (ABI %s)", role, version, abi)
	return true
}

// CheckModules is the pre-pipeline validation: it verifies that every engine
// library exists in dir before anything is loaded. The error wraps
// native.ErrModuleNotFound and names all missing files.
func CheckModules(dir string) error {
	var missing []string
	for _, role := range native.Roles {
		path := native.LibraryPath(dir, role)
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				missing = append(missing, native.LibraryName(role, runtime.GOOS))
				continue
			}
			return fmt.Errorf("stat %s: %w", path, err)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w in %s: %s (compile the modules first)",
			native.ErrModuleNotFound, dir, strings.Join(missing, ", "))
	}
	return nil
}
