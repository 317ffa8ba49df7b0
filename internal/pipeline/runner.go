package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/gamer92000/lecturecut/internal/config"
	"github.com/gamer92000/lecturecut/internal/display"
	"github.com/gamer92000/lecturecut/internal/media"
	"github.com/gamer92000/lecturecut/internal/native"
	"github.com/gamer92000/lecturecut/internal/progress"
)

// Generator produces the cut list for an input.
type Generator interface {
	Generate(input string, aggressiveness int, invert bool, sink native.ProgressSink) (native.GeneratorResult, error)
}

// Renderer stages an input and writes the cut output.
type Renderer interface {
	Prepare(input string, sink native.ProgressSink) (string, error)
	Render(token, output string, cuts native.CutList, quality int, sink native.ProgressSink) error
}

// Logger is the console logger surface the runner needs.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(bool, string, ...interface{})
}

// Runner processes files one at a time. Generator, Renderer and Log are
// required; a nil Progress gets a headless aggregator and a nil Diag
// discards.
type Runner struct {
	Generator Generator
	Renderer  Renderer
	Progress  *progress.Aggregator
	Detector  media.Detector // Per-file MP4 warning; nil skips it.
	Log       Logger
	Diag      hclog.Logger
	Verbose   bool

	// BetweenFiles runs before every file but the first, while no engine
	// call is in flight. Used to swap reloaded engines.
	BetweenFiles func()
}

func (r *Runner) init() {
	if r.Progress == nil {
		r.Progress = progress.NewAggregator(nil)
	}
	if r.Diag == nil {
		r.Diag = hclog.NewNullLogger()
	}
}

// Run processes opts, which must already be validated. A failed file is
// recorded and the batch continues unless failFast is set. Cancelling ctx
// stops the batch before the next file; a running engine call is not
// interrupted.
func (r *Runner) Run(ctx context.Context, opts config.Options, failFast bool) RunStats {
	r.init()
	var stats RunStats

	jobs, skipped, err := Expand(opts, r.Detector)
	if err != nil {
		r.Log.Error("File discovery failed: %v", err)
		stats.add(FileResult{Input: opts.Input, Err: err})
		return stats
	}
	stats.Total = len(jobs) + len(skipped)
	for _, s := range skipped {
		r.Log.Warn("Skip (exists): %s", filepath.Base(s.Output))
		stats.add(s)
	}
	if len(jobs) == 0 {
		r.Log.Warn("No videos to process in %s", opts.Input)
		return stats
	}
	if len(jobs) > 1 {
		r.Log.Info("Found %d %s", len(jobs), display.Plural(len(jobs), "video"))
	}

	for i, job := range jobs {
		if ctx.Err() != nil {
			r.Log.Warn("Interrupted, %d %s not started", len(jobs)-i, display.Plural(len(jobs)-i, "file"))
			stats.Interrupted = true
			break
		}
		if i > 0 && r.BetweenFiles != nil {
			r.BetweenFiles()
		}

		if len(jobs) > 1 {
			r.Log.Info("[%d/%d] %s", i+1, len(jobs), filepath.Base(job.Input))
			if r.Detector != nil && !media.IsMP4(r.Detector, job.Input) {
				r.Log.Warn("%s: %s", filepath.Base(job.Input), config.WarnNotMP4)
			}
		}
		r.Log.Debug(r.Verbose, "  -> %s", job.Output)

		res := r.RunFile(ctx, job)
		stats.add(res)
		if res.Err != nil {
			r.Log.Error("%v", res.Err)
			if failFast {
				r.Log.Warn("Stopping after the first failure (--fail-fast)")
				break
			}
			continue
		}
		r.Log.Success("%s: %s -> %s in %s",
			filepath.Base(job.Input),
			display.FormatMinutes(res.Stats.LenPreCut),
			display.FormatMinutes(res.Stats.LenPostCut),
			display.FormatElapsed(res.Elapsed))
	}
	return stats
}

// RunFile takes one file from Idle to Rendered. Every bar it created is
// finalized before it returns, whatever the outcome.
func (r *Runner) RunFile(ctx context.Context, opts config.Options) (res FileResult) {
	r.init()
	res = FileResult{RunID: uuid.NewString(), Input: opts.Input, Output: opts.Output}
	diag := r.Diag.With("run_id", res.RunID, "input", opts.Input)
	start := time.Now()
	defer func() { res.Elapsed = time.Since(start) }()

	if err := ctx.Err(); err != nil {
		res.Err = &StageError{Reached: Idle, Input: opts.Input, Err: err}
		return res
	}
	if fi, err := os.Stat(opts.Input); err == nil {
		res.InputBytes = fi.Size()
	}
	if err := os.MkdirAll(filepath.Dir(opts.Output), 0o755); err != nil {
		res.Err = &StageError{Reached: Idle, Input: opts.Input, Err: fmt.Errorf("create output directory: %w", err)}
		return res
	}

	state, stats, err := r.advance(opts, diag)
	res.Stats = stats
	if err != nil {
		res.Err = &StageError{Reached: state, Input: opts.Input, Err: err}
		diag.Error("pipeline failed", "state", state, "error", err)
		if state == Generated {
			_ = os.Remove(opts.Output)
		}
		return res
	}

	if fi, err := os.Stat(opts.Output); err == nil {
		res.OutputBytes = fi.Size()
	}
	diag.Debug("pipeline finished", "pre_cut", stats.LenPreCut, "post_cut", stats.LenPostCut)
	return res
}

// advance runs the engine calls in order and returns the last state reached.
func (r *Runner) advance(opts config.Options, diag hclog.Logger) (State, native.GeneratorStats, error) {
	defer func() {
		diag.Trace("progress before finalize", "stages", r.Progress.Stages(), "positions", r.Progress.Snapshot())
		r.Progress.Finalize()
	}()

	state := Idle
	token, err := r.Renderer.Prepare(opts.Input, r.Progress)
	if err != nil {
		return state, native.GeneratorStats{}, err
	}
	state = Prepared
	diag.Debug("input prepared")

	result, err := r.Generator.Generate(opts.Input, opts.Aggressiveness, opts.Invert, r.Progress)
	if err != nil {
		return state, native.GeneratorStats{}, err
	}
	state = Generated
	stats := result.Stats
	diag.Debug("cuts generated", "cuts", result.Cuts.Len(), "cut_seconds", cutSeconds(result.Cuts),
		"removed", stats.Removed(), "kept_ratio", stats.KeptRatio())
	if stats.LenPostCut > stats.LenPreCut {
		diag.Warn("generator reported a longer output than input", "pre_cut", stats.LenPreCut, "post_cut", stats.LenPostCut)
	}

	if err := r.Renderer.Render(token, opts.Output, result.Cuts, opts.Quality, r.Progress); err != nil {
		return state, stats, err
	}
	return Rendered, stats, nil
}

// cutSeconds sums the cut intervals without copying the engine's array.
func cutSeconds(cuts native.CutList) float64 {
	view, err := cuts.View()
	if err != nil {
		return 0
	}
	var total float64
	for _, c := range view {
		total += c.Duration()
	}
	return total
}
