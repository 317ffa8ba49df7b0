package native

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/ebitengine/purego"
)

// ProgressSink receives progress events raised by an engine. advance is a
// percentage-point increment, or -1 when the stage has finished.
type ProgressSink interface {
	Report(stage string, advance float64)
}

// The C callback type carries no user data pointer, so every engine shares
// one trampoline. purego callbacks are never freed.
var (
	trampolineOnce sync.Once
	trampolinePtr  uintptr
	trampolineErr  error

	// callMu serializes bound native calls across all modules; the engines
	// are not assumed to be reentrant.
	callMu sync.Mutex
	active atomic.Pointer[binding]
)

// binding connects the trampoline to the sink of the call in flight.
type binding struct {
	sink ProgressSink

	mu        sync.Mutex
	dropped   int
	firstDrop error
}

func callbackPointer() (uintptr, error) {
	trampolineOnce.Do(func() {
		defer func() {
			if r := recover(); r != nil {
				trampolineErr = fmt.Errorf("%w: progress callback: %v", ErrUnsupportedPlatform, r)
			}
		}()
		trampolinePtr = purego.NewCallback(trampoline)
	})
	return trampolinePtr, trampolineErr
}

// trampoline is the function the engines call. It may run on a thread the
// orchestrator does not own.
func trampoline(stage *byte, advance float64) {
	if b := active.Load(); b != nil {
		b.deliver(stage, advance)
	}
}

func (b *binding) deliver(stage *byte, advance float64) {
	name, err := goString("progress stage name", stage)
	if err != nil {
		b.drop(err)
		return
	}
	if b.sink != nil {
		b.sink.Report(name, advance)
	}
}

// drop skips an event whose stage name cannot be read. A bad label never
// fails the call it was raised from.
func (b *binding) drop(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dropped++
	if b.firstDrop == nil {
		b.firstDrop = err
	}
}

// drops returns the number of skipped events and the first reason.
func (b *binding) drops() (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped, b.firstDrop
}

// bind routes trampoline events to sink until release is called. Events the
// engine raises after release are dropped.
func bind(sink ProgressSink) (b *binding, release func()) {
	b = &binding{sink: sink}
	active.Store(b)
	return b, func() { active.CompareAndSwap(b, nil) }
}
