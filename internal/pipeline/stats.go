package pipeline

import (
	"time"

	"github.com/gamer92000/lecturecut/internal/display"
	"github.com/gamer92000/lecturecut/internal/native"
)

// FileResult is the outcome of one file. Stats is a copy taken from the
// generator result; nothing else from the engines outlives the file.
type FileResult struct {
	RunID       string
	Input       string
	Output      string
	Stats       native.GeneratorStats
	InputBytes  int64
	OutputBytes int64
	Elapsed     time.Duration
	Skipped     bool
	Err         error
}

// RunStats tracks aggregate counters across a batch run.
type RunStats struct {
	Total       int
	Processed   int
	Skipped     int
	Failed      int
	Interrupted bool
	Results     []FileResult
}

func (s *RunStats) add(r FileResult) {
	s.Results = append(s.Results, r)
	switch {
	case r.Err != nil:
		s.Failed++
	case r.Skipped:
		s.Skipped++
	default:
		s.Processed++
	}
}

// Removed returns the seconds cut across all processed files.
func (s *RunStats) Removed() float64 {
	var t float64
	for _, r := range s.Results {
		if r.Err == nil && !r.Skipped {
			t += r.Stats.Removed()
		}
	}
	return t
}

// Rows converts the results for display.PrintReport.
func (s *RunStats) Rows() []display.ReportRow {
	rows := make([]display.ReportRow, 0, len(s.Results))
	for _, r := range s.Results {
		rows = append(rows, display.ReportRow{
			Input:       r.Input,
			Output:      r.Output,
			PreCut:      r.Stats.LenPreCut,
			PostCut:     r.Stats.LenPostCut,
			InputBytes:  r.InputBytes,
			OutputBytes: r.OutputBytes,
			Skipped:     r.Skipped,
			Err:         r.Err,
		})
	}
	return rows
}
