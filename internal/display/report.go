package display

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/gamer92000/lecturecut/internal/term"
)

// ReportRow is one file in the final report.
type ReportRow struct {
	Input       string
	Output      string
	PreCut      float64 // Seconds.
	PostCut     float64 // Seconds.
	InputBytes  int64
	OutputBytes int64
	Skipped     bool
	Err         error
}

func (r ReportRow) status() string {
	switch {
	case r.Err != nil:
		return "failed"
	case r.Skipped:
		return "skipped"
	default:
		return "ok"
	}
}

type column struct {
	title string
	right bool
	style *color.Color
}

var reportColumns = []column{
	{title: "Input File", style: term.Yellow},
	{title: "Size Changes", right: true, style: term.Magenta},
	{title: "Duration Changes", right: true, style: term.Cyan},
	{title: "Duration %", right: true, style: term.Magenta},
	{title: "Status"},
}

const (
	colGap       = "  "
	minNameWidth = 12
)

// PrintReport writes the end-of-run table and the closing summary line. The
// input column shrinks to fit width; longer names are truncated.
func PrintReport(w io.Writer, rows []ReportRow, elapsed time.Duration, width int) {
	cells := make([][]string, 0, len(rows)+1)
	var total ReportRow
	processed := 0
	for _, r := range rows {
		cells = append(cells, rowCells(filepath.Base(r.Input), r))
		if r.Err != nil || r.Skipped {
			continue
		}
		processed++
		total.PreCut += r.PreCut
		total.PostCut += r.PostCut
		total.InputBytes += r.InputBytes
		total.OutputBytes += r.OutputBytes
	}
	if processed > 1 {
		cells = append(cells, rowCells("Total", total))
	}

	widths := columnWidths(cells, width)

	fmt.Fprintln(w)
	header := make([]string, len(reportColumns))
	for i, c := range reportColumns {
		header[i] = pad(c.title, widths[i], c.right)
	}
	fmt.Fprintln(w, strings.TrimRight(strings.Join(header, colGap), " "))
	fmt.Fprintln(w, strings.Repeat("─", sum(widths)+len(colGap)*(len(widths)-1)))

	for i, row := range cells {
		out := make([]string, len(row))
		for j, cell := range row {
			c := reportColumns[j]
			text := pad(Truncate(cell, widths[j]), widths[j], c.right)
			style := c.style
			if j == len(row)-1 && i < len(rows) && rows[i].Err != nil {
				style = term.Red
			}
			if style != nil {
				text = style.Sprint(text)
			}
			out[j] = text
		}
		fmt.Fprintln(w, strings.TrimRight(strings.Join(out, colGap), " "))
	}

	fmt.Fprintln(w)
	summary := fmt.Sprintf("Processed %s %s in %s.",
		term.Cyan.Sprint(processed), Plural(processed, "video"), term.Cyan.Sprint(FormatElapsed(elapsed)))
	fmt.Fprintln(w, term.Green.Sprint(summary))
	for _, r := range rows {
		if r.Err != nil {
			fmt.Fprintf(w, "%s %s: %v\n", term.Red.Sprint("failed"), r.Input, r.Err)
		}
	}
	fmt.Fprintln(w)
}

func rowCells(name string, r ReportRow) []string {
	if r.Err != nil || r.Skipped {
		return []string{name, "-", "-", "-", r.status()}
	}
	return []string{
		name,
		FormatBytes(r.InputBytes) + " -> " + FormatBytes(r.OutputBytes),
		FormatMinutes(r.PreCut) + " -> " + FormatMinutes(r.PostCut),
		FormatPercent(r.PostCut, r.PreCut),
		r.status(),
	}
}

// columnWidths sizes every column to its widest cell, then shrinks the name
// column so the table fits termWidth.
func columnWidths(cells [][]string, termWidth int) []int {
	widths := make([]int, len(reportColumns))
	for i, c := range reportColumns {
		widths[i] = utf8.RuneCountInString(c.title)
	}
	for _, row := range cells {
		for i, cell := range row {
			if n := utf8.RuneCountInString(cell); n > widths[i] {
				widths[i] = n
			}
		}
	}
	rest := sum(widths[1:]) + len(colGap)*(len(widths)-1)
	if avail := termWidth - rest; widths[0] > avail {
		widths[0] = max(avail, minNameWidth)
	}
	return widths
}

func pad(s string, width int, right bool) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	if right {
		return strings.Repeat(" ", width-n) + s
	}
	return s + strings.Repeat(" ", width-n)
}

func sum(xs []int) int {
	t := 0
	for _, x := range xs {
		t += x
	}
	return t
}
