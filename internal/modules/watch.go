package modules

import (
	"fmt"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/hashicorp/go-hclog"

	"github.com/gamer92000/lecturecut/internal/native"
)

// Watcher marks a role stale when its library file in the modules directory
// is written, created or renamed. It never reloads anything itself.
type Watcher struct {
	fw    *fsnotify.Watcher
	log   hclog.Logger
	names map[string]native.Role

	mu    sync.Mutex
	stale map[native.Role]bool

	wg sync.WaitGroup
}

// NewWatcher starts watching dir.
func NewWatcher(dir string, log hclog.Logger) (*Watcher, error) {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	w := &Watcher{
		fw:    fw,
		log:   log,
		names: make(map[string]native.Role, len(native.Roles)),
		stale: make(map[native.Role]bool),
	}
	for _, role := range native.Roles {
		w.names[native.LibraryName(role, runtime.GOOS)] = role
	}

	w.wg.Add(1)
	go w.loop()
	log.Debug("watching modules directory", "dir", dir)
	return w, nil
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.log.Error("file watcher error", "error", err)
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	role, ok := w.names[filepath.Base(ev.Name)]
	if !ok {
		return
	}
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return
	}
	w.log.Debug("library changed", "role", role, "op", ev.Op.String())
	w.MarkStale(role)
}

// MarkStale flags role for reload.
func (w *Watcher) MarkStale(role native.Role) {
	w.mu.Lock()
	w.stale[role] = true
	w.mu.Unlock()
}

// TakeStale returns the stale roles in load order and clears them.
func (w *Watcher) TakeStale() []native.Role {
	w.mu.Lock()
	defer w.mu.Unlock()
	var out []native.Role
	for _, role := range native.Roles {
		if w.stale[role] {
			out = append(out, role)
		}
	}
	clear(w.stale)
	return out
}

// Close stops watching and waits for the event loop to exit.
func (w *Watcher) Close() error {
	err := w.fw.Close()
	w.wg.Wait()
	return err
}

// RefreshStale reloads every role w marked stale. Roles whose reload failed
// are marked stale again so the next refresh retries them.
func (s *Set) RefreshStale(w *Watcher) []Swap {
	swaps := s.Refresh(w.TakeStale())
	for _, sw := range swaps {
		if sw.Err != nil {
			w.MarkStale(sw.Role)
		}
	}
	return swaps
}
