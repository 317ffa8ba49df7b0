package progress

import (
	"fmt"
	"math"
	"sync"
)

const (
	// Basis is the position of a finished bar.
	Basis int64 = 1000

	// Done is the advance value that snaps a stage to Basis.
	Done = -1

	// scale maps percentage points onto the basis.
	scale = 10

	labelWidth = 12
)

// stageBar is one live registry entry.
type stageBar struct {
	bar Bar
	pos float64
}

// Aggregator merges progress events into one bar per stage name. It is safe
// for concurrent use; engines may report from threads the caller does not own.
type Aggregator struct {
	mu      sync.Mutex
	display Display
	bars    map[string]*stageBar
	order   []string
}

// NewAggregator returns an aggregator drawing on d. A nil d records bars
// without output.
func NewAggregator(d Display) *Aggregator {
	if d == nil {
		d = NewHeadlessDisplay(nil)
	}
	return &Aggregator{display: d, bars: make(map[string]*stageBar)}
}

// Label formats a stage name as a bar label.
func Label(stage string) string {
	return fmt.Sprintf("%-*s", labelWidth, stage)
}

// Report applies one event. The first event for a stage creates its bar.
// Positions never decrease: negative advances other than Done are ignored.
func (a *Aggregator) Report(stage string, advance float64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	sb, ok := a.bars[stage]
	if !ok {
		sb = &stageBar{bar: a.display.AddBar(Label(stage), Basis)}
		a.bars[stage] = sb
		a.order = append(a.order, stage)
	}

	switch {
	case advance == Done:
		sb.pos = float64(Basis)
	case advance < 0 || math.IsNaN(advance):
		return
	default:
		sb.pos = math.Min(sb.pos+advance*scale, float64(Basis))
	}
	sb.bar.SetCurrent(position(sb.pos))
}

// Finalize completes every live bar, empties the registry and lets the
// display flush. Call it once per file, after the last native call returned.
func (a *Aggregator) Finalize() {
	a.mu.Lock()
	for _, name := range a.order {
		sb := a.bars[name]
		sb.pos = float64(Basis)
		sb.bar.SetCurrent(Basis)
	}
	clear(a.bars)
	a.order = a.order[:0]
	a.mu.Unlock()

	a.display.Flush()
}

// Snapshot returns the current position of every live stage.
func (a *Aggregator) Snapshot() map[string]int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make(map[string]int64, len(a.bars))
	for name, sb := range a.bars {
		out[name] = position(sb.pos)
	}
	return out
}

// Stages returns the live stage names in order of first sighting.
func (a *Aggregator) Stages() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.order...)
}

// Len returns the number of live stages.
func (a *Aggregator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.bars)
}

func position(p float64) int64 {
	return int64(math.Round(p))
}
