package progress

import (
	"bytes"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type event struct {
	stage   string
	advance float64
}

func TestAggregator_Accumulates(t *testing.T) {
	tests := []struct {
		name   string
		events []event
		want   map[string]int64
	}{
		{
			name:   "single stage",
			events: []event{{"Analyzing", 10}, {"Analyzing", 15.5}, {"Analyzing", 4.5}},
			want:   map[string]int64{"Analyzing": 300},
		},
		{
			name:   "interleaved stages",
			events: []event{{"Analyzing", 50}, {"Rendering", 1}, {"Analyzing", 25}, {"Rendering", 2}},
			want:   map[string]int64{"Analyzing": 750, "Rendering": 30},
		},
		{
			name:   "clamped at basis",
			events: []event{{"Encoding", 80}, {"Encoding", 80}},
			want:   map[string]int64{"Encoding": 1000},
		},
		{
			name:   "first event sets position",
			events: []event{{"Scanning", 42}},
			want:   map[string]int64{"Scanning": 420},
		},
		{
			name: "fractional increments accumulate",
			events: []event{
				{"Detecting", 0.05}, {"Detecting", 0.05}, {"Detecting", 0.05}, {"Detecting", 0.05}, {"Detecting", 0.05},
				{"Detecting", 0.05}, {"Detecting", 0.05}, {"Detecting", 0.05}, {"Detecting", 0.05}, {"Detecting", 0.05},
			},
			want: map[string]int64{"Detecting": 5},
		},
		{
			name:   "negative advance ignored",
			events: []event{{"Encoding", 30}, {"Encoding", -5}},
			want:   map[string]int64{"Encoding": 300},
		},
		{
			name:   "zero advance creates bar",
			events: []event{{"Waiting", 0}},
			want:   map[string]int64{"Waiting": 0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAggregator(nil)
			for _, e := range tt.events {
				a.Report(e.stage, e.advance)
			}
			assert.Equal(t, tt.want, a.Snapshot())
		})
	}
}

func TestAggregator_DoneSnapsToBasis(t *testing.T) {
	for _, prior := range []float64{0, 12.3, 99.9, 100} {
		a := NewAggregator(nil)
		if prior > 0 {
			a.Report("Rendering", prior)
		}
		a.Report("Rendering", Done)
		assert.Equal(t, Basis, a.Snapshot()["Rendering"], "prior %v", prior)
	}
}

func TestAggregator_OneBarPerStage(t *testing.T) {
	d := NewHeadlessDisplay(nil)
	a := NewAggregator(d)
	a.Report("Analyzing", 10)
	a.Report("Rendering", 10)
	a.Report("Analyzing", 10)

	bars := d.Bars()
	require.Len(t, bars, 2)
	assert.Equal(t, Label("Analyzing"), bars[0].Label)
	assert.Equal(t, Basis, bars[0].Total)
	assert.Equal(t, int64(200), bars[0].Current())
	assert.Equal(t, []string{"Analyzing", "Rendering"}, a.Stages())
}

func TestAggregator_MonotonicPositions(t *testing.T) {
	d := NewHeadlessDisplay(nil)
	a := NewAggregator(d)
	last := int64(0)
	for _, adv := range []float64{5, -3, 0, 20, -1, 7} {
		a.Report("Encoding", adv)
		cur := d.Bars()[0].Current()
		assert.GreaterOrEqual(t, cur, last)
		last = cur
	}
	assert.Equal(t, Basis, last)
}

func TestAggregator_FinalizeEmptiesRegistry(t *testing.T) {
	d := NewHeadlessDisplay(nil)
	a := NewAggregator(d)
	a.Report("Analyzing", 30)
	a.Report("Rendering", 60)

	a.Finalize()
	assert.Equal(t, 0, a.Len())
	assert.Empty(t, a.Snapshot())
	assert.Equal(t, 1, d.Flushes())
	for _, b := range d.Bars() {
		assert.Equal(t, Basis, b.Current(), b.Label)
	}
}

func TestAggregator_ReuseAcrossFiles(t *testing.T) {
	d := NewHeadlessDisplay(nil)
	a := NewAggregator(d)
	run := func() map[string]int64 {
		a.Report("Analyzing", 40)
		a.Report("Rendering", 15)
		snap := a.Snapshot()
		a.Finalize()
		return snap
	}

	first := run()
	second := run()
	assert.Equal(t, first, second)
	assert.Len(t, d.Bars(), 4)
	assert.Equal(t, 0, a.Len())
}

func TestAggregator_ConcurrentReports(t *testing.T) {
	a := NewAggregator(nil)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				a.Report("Encoding", 1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(800), a.Snapshot()["Encoding"])
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Rendering   ", Label("Rendering"))
	assert.Equal(t, "Silence detection", Label("Silence detection"))
}

func TestHeadlessDisplay_FlushWrites(t *testing.T) {
	var buf bytes.Buffer
	a := NewAggregator(NewHeadlessDisplay(&buf))
	a.Report("Rendering", 50)
	a.Finalize()
	assert.Equal(t, "Rendering    100%\n", buf.String())
}

func TestTerminalDisplay_Flush(t *testing.T) {
	a := NewAggregator(NewTerminalDisplay(io.Discard, 80))
	a.Report("Analyzing", 50)
	a.Report("Rendering", Done)
	a.Finalize()
	assert.Equal(t, 0, a.Len())

	// A second file gets a fresh container.
	a.Report("Analyzing", 10)
	a.Finalize()
}

func TestSinkFunc(t *testing.T) {
	var got []event
	var s Sink = SinkFunc(func(stage string, advance float64) {
		got = append(got, event{stage, advance})
	})
	s.Report("x", 1)
	Discard.Report("y", 2)
	assert.Equal(t, []event{{"x", 1}}, got)
}
