package progress

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// Display renders bars. Flush is called after every bar added since the
// previous Flush has been set to its total.
type Display interface {
	AddBar(label string, total int64) Bar
	Flush()
}

// Bar is one rendered bar.
type Bar interface {
	SetCurrent(current int64)
}

// TerminalDisplay draws live bars with mpb. Each file gets its own bar
// container so log lines between files are not interleaved with bars.
type TerminalDisplay struct {
	out   io.Writer
	width int

	mu sync.Mutex
	p  *mpb.Progress
}

// NewTerminalDisplay returns a display writing to out. width is the terminal
// width in columns.
func NewTerminalDisplay(out io.Writer, width int) *TerminalDisplay {
	return &TerminalDisplay{out: out, width: barWidth(width)}
}

func barWidth(termWidth int) int {
	w := termWidth - labelWidth - 12
	if w < 20 {
		return 20
	}
	return w
}

// AddBar creates a bar in the current container.
func (d *TerminalDisplay) AddBar(label string, total int64) Bar {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.p == nil {
		d.p = mpb.New(
			mpb.WithOutput(d.out),
			mpb.WithWidth(d.width),
			mpb.WithRefreshRate(120*time.Millisecond),
		)
	}
	return d.p.AddBar(total,
		mpb.PrependDecorators(decor.Name(label)),
		mpb.AppendDecorators(decor.Percentage(decor.WC{W: 6})),
	)
}

// Flush waits for the current container to render its completed bars.
func (d *TerminalDisplay) Flush() {
	d.mu.Lock()
	p := d.p
	d.p = nil
	d.mu.Unlock()
	if p != nil {
		p.Wait()
	}
}

// HeadlessBar is a bar recorded by HeadlessDisplay.
type HeadlessBar struct {
	Label string
	Total int64

	mu      sync.Mutex
	current int64
}

// SetCurrent records the position.
func (b *HeadlessBar) SetCurrent(current int64) {
	b.mu.Lock()
	b.current = current
	b.mu.Unlock()
}

// Current returns the last recorded position.
func (b *HeadlessBar) Current() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

// HeadlessDisplay records bars without drawing them. With a non-nil writer it
// prints one line per finished stage on Flush.
type HeadlessDisplay struct {
	w io.Writer

	mu      sync.Mutex
	bars    []*HeadlessBar
	pending []*HeadlessBar
	flushes int
}

// NewHeadlessDisplay returns a recording display. w may be nil.
func NewHeadlessDisplay(w io.Writer) *HeadlessDisplay {
	return &HeadlessDisplay{w: w}
}

// AddBar records a new bar.
func (d *HeadlessDisplay) AddBar(label string, total int64) Bar {
	b := &HeadlessBar{Label: label, Total: total}
	d.mu.Lock()
	d.bars = append(d.bars, b)
	d.pending = append(d.pending, b)
	d.mu.Unlock()
	return b
}

// Flush prints the bars added since the previous Flush.
func (d *HeadlessDisplay) Flush() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.flushes++
	if d.w != nil {
		for _, b := range d.pending {
			pct := int64(100)
			if b.Total > 0 {
				pct = b.Current() * 100 / b.Total
			}
			fmt.Fprintf(d.w, "%s %3d%%\n", b.Label, pct)
		}
	}
	d.pending = d.pending[:0]
}

// Bars returns every bar created so far, in creation order.
func (d *HeadlessDisplay) Bars() []*HeadlessBar {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*HeadlessBar(nil), d.bars...)
}

// Flushes returns how often Flush was called.
func (d *HeadlessDisplay) Flushes() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.flushes
}
