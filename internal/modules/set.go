package modules

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/gamer92000/lecturecut/internal/native"
)

// Engine is the surface of a loaded engine library. *native.Module
// implements it.
type Engine interface {
	Version() (string, error)
	Prepare(input string, sink native.ProgressSink) (string, error)
	Generate(input string, aggressiveness int, invert bool, sink native.ProgressSink) (native.GeneratorResult, error)
	Render(token, output string, cuts native.CutList, quality int, sink native.ProgressSink) error
	Close() error
}

type loadFunc func(path string, role native.Role, log hclog.Logger) (Engine, error)

func loadNative(path string, role native.Role, log hclog.Logger) (Engine, error) {
	m, err := native.LoadFile(path, role, log)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Swap describes one engine reload.
type Swap struct {
	Role native.Role
	From string // Version before the reload.
	To   string // Version after the reload; empty on failure.
	Err  error
}

// Set holds one engine per role. Calls take a read lock for their whole
// duration, so a reload waits for the call in flight.
type Set struct {
	dir  string
	log  hclog.Logger
	load loadFunc

	mu      sync.RWMutex
	engines map[native.Role]Engine
	shadows map[native.Role]string
}

// Load opens every engine in native.Roles from dir. On failure the engines
// already opened are closed again.
func Load(dir string, log hclog.Logger) (*Set, error) {
	return load(dir, log, loadNative)
}

func load(dir string, log hclog.Logger, fn loadFunc) (*Set, error) {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	s := &Set{
		dir:     dir,
		log:     log,
		load:    fn,
		engines: make(map[native.Role]Engine, len(native.Roles)),
		shadows: make(map[native.Role]string),
	}
	for _, role := range native.Roles {
		e, err := fn(native.LibraryPath(dir, role), role, log.Named(string(role)))
		if err != nil {
			_ = s.Close()
			return nil, err
		}
		s.engines[role] = e
	}
	return s, nil
}

// Dir returns the directory the engines were loaded from.
func (s *Set) Dir() string { return s.dir }

func (s *Set) engine(role native.Role) (Engine, error) {
	e, ok := s.engines[role]
	if !ok {
		return nil, fmt.Errorf("%s: %w", role, native.ErrClosed)
	}
	return e, nil
}

// Version returns the display version of role's engine.
func (s *Set) Version(role native.Role) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, err := s.engine(role)
	if err != nil {
		return "", err
	}
	return e.Version()
}

// Prepare delegates to the render engine.
func (s *Set) Prepare(input string, sink native.ProgressSink) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, err := s.engine(native.RoleRender)
	if err != nil {
		return "", err
	}
	return e.Prepare(input, sink)
}

// Generate delegates to the generator engine.
func (s *Set) Generate(input string, aggressiveness int, invert bool, sink native.ProgressSink) (native.GeneratorResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, err := s.engine(native.RoleGenerator)
	if err != nil {
		return native.GeneratorResult{}, err
	}
	return e.Generate(input, aggressiveness, invert, sink)
}

// Render delegates to the render engine.
func (s *Set) Render(token, output string, cuts native.CutList, quality int, sink native.ProgressSink) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, err := s.engine(native.RoleRender)
	if err != nil {
		return err
	}
	return e.Render(token, output, cuts, quality, sink)
}

// Refresh reloads each role from its library file. A role whose reload
// fails keeps its current engine. Must only be called between files.
func (s *Set) Refresh(roles []native.Role) []Swap {
	swaps := make([]Swap, 0, len(roles))
	for _, role := range roles {
		swaps = append(swaps, s.reload(role))
	}
	return swaps
}

// reload loads role from a private copy of its library. The dynamic loader
// hands back the already-mapped object for a path that is still open, so the
// new engine cannot be opened from the original path before the old one is
// closed.
func (s *Set) reload(role native.Role) Swap {
	sw := Swap{Role: role}
	src := native.LibraryPath(s.dir, role)
	shadow, err := shadowCopy(src, role)
	if err != nil {
		sw.Err = err
		return sw
	}
	e, err := s.load(filepath.Join(shadow, filepath.Base(src)), role, s.log.Named(string(role)))
	if err != nil {
		_ = os.RemoveAll(shadow)
		sw.Err = err
		return sw
	}
	sw.To, _ = e.Version()

	s.mu.Lock()
	old, oldShadow := s.engines[role], s.shadows[role]
	s.engines[role], s.shadows[role] = e, shadow
	s.mu.Unlock()

	if old != nil {
		sw.From, _ = old.Version()
		if err := old.Close(); err != nil {
			s.log.Warn("closing replaced engine failed", "role", role, "error", err)
		}
	}
	if oldShadow != "" {
		_ = os.RemoveAll(oldShadow)
	}
	s.log.Debug("engine reloaded", "role", role, "from", sw.From, "to", sw.To)
	return sw
}

// Close unloads every engine and removes private library copies.
func (s *Set) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var errs []error
	for role, e := range s.engines {
		if err := e.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", role, err))
		}
		delete(s.engines, role)
	}
	for role, dir := range s.shadows {
		_ = os.RemoveAll(dir)
		delete(s.shadows, role)
	}
	return errors.Join(errs...)
}

// shadowCopy copies src into a fresh temporary directory, keeping its name.
func shadowCopy(src string, role native.Role) (dir string, err error) {
	in, err := os.Open(src)
	if err != nil {
		return "", err
	}
	defer in.Close()

	dir, err = os.MkdirTemp("", "lecturecut-"+string(role)+"-*")
	if err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			_ = os.RemoveAll(dir)
		}
	}()

	out, err := os.OpenFile(filepath.Join(dir, filepath.Base(src)), os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o755)
	if err != nil {
		return "", err
	}
	if _, err = io.Copy(out, in); err != nil {
		_ = out.Close()
		return "", err
	}
	if err = out.Close(); err != nil {
		return "", err
	}
	return dir, nil
}
