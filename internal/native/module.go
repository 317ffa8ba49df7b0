package native

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"sync"
	"time"

	"github.com/ebitengine/purego"
	"github.com/hashicorp/go-hclog"
)

const (
	// QuietLogLevel is passed to init so the engines suppress their own
	// verbose output.
	QuietLogLevel = "quiet"

	// SupportedABI is the engine ABI revision this orchestrator speaks.
	// Engines that do not export abi_version are assumed to speak it.
	SupportedABI = 1

	abiSymbol = "abi_version"
)

// Module owns one loaded engine library. It must outlive every CutList it
// returned and every callback its engine may still raise, so it is closed
// only after all pipelines using it have finished.
type Module struct {
	role Role
	path string
	log  hclog.Logger

	mu     sync.Mutex
	handle uintptr
	closed bool
	abi    int
	hasABI bool

	initFn     func(level string)
	versionFn  func() *byte
	abiFn      func() int32
	prepareFn  func(input string, progress uintptr) *byte
	generateFn generateFunc
	renderFn   renderFunc
}

// generateFunc and renderFunc are the struct-valued entry points. How they
// reach the engine depends on the platform calling convention; see the
// entry_*.go files.
type (
	generateFunc func(input string, aggressiveness int32, invert bool, progress uintptr) GeneratorResult
	renderFunc   func(token, output string, cuts CutList, quality int32, progress uintptr)
)

// Load opens the library for role in dir, resolves the role's exports,
// checks the ABI revision and initializes the engine. The returned error
// wraps ErrModuleNotFound when the file is absent, and is a *SymbolError when
// a required export is missing.
func Load(dir string, role Role, log hclog.Logger) (*Module, error) {
	return LoadFile(LibraryPath(dir, role), role, log)
}

// LoadFile is Load for an explicit library path.
func LoadFile(path string, role Role, log hclog.Logger) (*Module, error) {
	if _, ok := requiredSymbols[role]; !ok {
		return nil, fmt.Errorf("unknown module role %q", role)
	}
	if log == nil {
		log = hclog.NewNullLogger()
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s (compile the %s module first)", ErrModuleNotFound, path, role)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	handle, err := openLibrary(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	m := &Module{role: role, path: path, log: log, handle: handle}
	if err := m.resolve(); err != nil {
		_ = closeLibrary(handle)
		return nil, err
	}
	if err := m.checkABI(); err != nil {
		_ = closeLibrary(handle)
		return nil, err
	}

	m.initFn(QuietLogLevel)
	log.Debug("module loaded", "role", role, "path", path, "abi", m.abi)
	return m, nil
}

// resolve binds every export the role requires plus the optional
// abi_version export.
func (m *Module) resolve() error {
	for _, name := range requiredSymbols[m.role] {
		sym, err := lookupSymbol(m.handle, name)
		if err == nil && sym == 0 {
			err = errors.New("null address")
		}
		if err != nil {
			return &SymbolError{Path: m.path, Symbol: name, Err: err}
		}
		if err := m.bindSymbol(name, sym); err != nil {
			return fmt.Errorf("%s: bind %q: %w", m.path, name, err)
		}
	}

	if sym, err := lookupSymbol(m.handle, abiSymbol); err == nil && sym != 0 {
		if err := register(&m.abiFn, sym); err != nil {
			return fmt.Errorf("%s: bind %q: %w", m.path, abiSymbol, err)
		}
	}
	return nil
}

func (m *Module) bindSymbol(name string, sym uintptr) error {
	var err error
	switch name {
	case "init":
		err = register(&m.initFn, sym)
	case "version":
		err = register(&m.versionFn, sym)
	case "prepare":
		err = register(&m.prepareFn, sym)
	case "generate":
		m.generateFn, err = bindGenerate(sym)
	case "render":
		m.renderFn, err = bindRender(sym)
	default:
		err = fmt.Errorf("no binding for export %q", name)
	}
	return err
}

func (m *Module) checkABI() error {
	if m.abiFn == nil {
		m.abi = SupportedABI
		m.log.Warn("module does not export abi_version, assuming current ABI", "role", m.role, "abi", SupportedABI)
		return nil
	}
	m.abi = int(m.abiFn())
	m.hasABI = true
	if m.abi != SupportedABI {
		return fmt.Errorf("%w: %s declares ABI %d, expected %d", ErrABIMismatch, m.path, m.abi, SupportedABI)
	}
	return nil
}

// register binds fptr to the C function at sym. purego panics on signatures
// it cannot express on the current platform; that becomes an error here.
// Struct-valued signatures go through bindGenerate and bindRender instead.
func register(fptr any, sym uintptr) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrUnsupportedPlatform, r)
		}
	}()
	purego.RegisterFunc(fptr, sym)
	return nil
}

// Role returns the engine role.
func (m *Module) Role() Role { return m.role }

// Path returns the library file the module was loaded from.
func (m *Module) Path() string { return m.path }

// ABIVersion returns the engine's ABI revision and whether the engine
// declared it explicitly.
func (m *Module) ABIVersion() (int, bool) { return m.abi, m.hasABI }

// Version returns the engine's display version. It carries no compatibility
// meaning; see ABIVersion.
func (m *Module) Version() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return "", ErrClosed
	}
	return goString("version", m.versionFn())
}

// Prepare asks the render engine to stage input and returns the opaque
// staging token that Render consumes.
func (m *Module) Prepare(input string, sink ProgressSink) (string, error) {
	if err := checkCString("input path", input); err != nil {
		return "", err
	}
	var token string
	err := m.call("prepare", m.prepareFn != nil, sink, func(cb uintptr) error {
		var err error
		token, err = goString("staging token", m.prepareFn(input, cb))
		return err
	})
	return token, err
}

// Generate runs cut detection on input. The returned cut list is borrowed
// from the generator and is valid until the matching Render returns.
func (m *Module) Generate(input string, aggressiveness int, invert bool, sink ProgressSink) (GeneratorResult, error) {
	if err := checkCString("input path", input); err != nil {
		return GeneratorResult{}, err
	}
	if aggressiveness < 0 || aggressiveness > math.MaxInt32 {
		return GeneratorResult{}, &MarshalError{Field: "aggressiveness", Reason: fmt.Sprintf("%d out of range", aggressiveness)}
	}
	var res GeneratorResult
	err := m.call("generate", m.generateFn != nil, sink, func(cb uintptr) error {
		res = m.generateFn(input, int32(aggressiveness), invert, cb)
		return res.Cuts.Validate()
	})
	return res, err
}

// Render consumes token and cuts and writes output. All engine resources tied
// to token are released when it returns.
func (m *Module) Render(token, output string, cuts CutList, quality int, sink ProgressSink) error {
	if err := checkCString("staging token", token); err != nil {
		return err
	}
	if err := checkCString("output path", output); err != nil {
		return err
	}
	if err := cuts.Validate(); err != nil {
		return err
	}
	if quality < 0 || quality > math.MaxInt32 {
		return &MarshalError{Field: "quality", Reason: fmt.Sprintf("%d out of range", quality)}
	}
	return m.call("render", m.renderFn != nil, sink, func(cb uintptr) error {
		m.renderFn(token, output, cuts, int32(quality), cb)
		return nil
	})
}

// call runs fn with the progress trampoline bound to sink. Events whose stage
// name cannot be read are dropped and logged.
func (m *Module) call(op string, exported bool, sink ProgressSink, fn func(cb uintptr) error) error {
	if !exported {
		return fmt.Errorf("%s %s: %w", m.role, op, ErrWrongRole)
	}
	cb, err := callbackPointer()
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}

	callMu.Lock()
	defer callMu.Unlock()
	b, release := bind(sink)
	start := time.Now()
	err = fn(cb)
	release()

	m.log.Debug("native call finished", "role", m.role, "op", op, "elapsed", time.Since(start))
	if n, reason := b.drops(); n > 0 {
		m.log.Warn("dropped progress events", "role", m.role, "op", op, "count", n, "error", reason)
	}
	if err != nil {
		return fmt.Errorf("%s %s: %w", m.role, op, err)
	}
	return nil
}

// Close unloads the library. The caller guarantees that no cut list from this
// module is still in use.
func (m *Module) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	m.log.Debug("module unloaded", "role", m.role, "path", m.path)
	return closeLibrary(m.handle)
}
