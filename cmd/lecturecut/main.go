// Command lecturecut is the CLI entrypoint for LectureCut.
//
// It resolves configuration, validates the input, loads the generator and
// render engines, and either runs the engine check (--check) or cuts the
// silence out of one video or a directory of videos.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gamer92000/lecturecut/internal/check"
	"github.com/gamer92000/lecturecut/internal/config"
	"github.com/gamer92000/lecturecut/internal/display"
	"github.com/gamer92000/lecturecut/internal/logging"
	"github.com/gamer92000/lecturecut/internal/media"
	"github.com/gamer92000/lecturecut/internal/modules"
	"github.com/gamer92000/lecturecut/internal/native"
	"github.com/gamer92000/lecturecut/internal/pipeline"
	"github.com/gamer92000/lecturecut/internal/progress"
	"github.com/gamer92000/lecturecut/internal/term"
)

// version is injected at build time via -ldflags "-X main.version=...".
var version = "2.0.0"

// sniffCacheSize bounds the MIME cache; one entry per file seen in a run.
const sniffCacheSize = 1024

func main() {
	os.Exit(run())
}

func run() int {
	// Phase 1: Bootstrap. The logger doesn't exist yet, so errors go
	// directly to stderr via fmt.
	cfg := config.DefaultConfig()
	code := 0
	cmd := config.NewCommand(&cfg, version, func() error {
		code = execute(&cfg)
		return nil
	})
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "lecturecut: %v\n", err)
		return 1
	}
	return code
}

func execute(cfg *config.Config) int {
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "lecturecut: %v\n", err)
		return 1
	}

	log, err := logging.NewLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lecturecut: %v\n", err)
		return 1
	}
	defer log.Close()

	// Phase 2: Logger available. All output goes through log from here on.
	if cfg.CheckOnly {
		if !check.RunCheck(cfg, log) {
			return 1
		}
		return 0
	}

	sniffer, err := media.NewSniffer(sniffCacheSize)
	if err != nil {
		log.Error("%v", err)
		return 1
	}
	opts, warnings, err := config.ValidateOptions(cfg.Options, sniffer)
	if err != nil {
		log.Error("%v", err)
		return 1
	}
	for _, w := range warnings {
		log.Warn("%s", w)
	}

	// Phase 3: Engines. Missing libraries are reported before any is loaded.
	dir, err := modules.ResolveDir(cfg.ModulesDir)
	if err != nil {
		log.Error("%v", err)
		return 1
	}
	if err := check.CheckModules(dir); err != nil {
		log.Error("%v", err)
		return 1
	}
	set, err := modules.Load(dir, log.Diagnostic("native"))
	if err != nil {
		log.Error("%v", err)
		return 1
	}
	defer set.Close()

	width := term.Width(os.Stdout)
	generatorVersion, renderVersion := engineVersion(set, native.RoleGenerator), engineVersion(set, native.RoleRender)
	display.PrintBanner(os.Stdout, width, generatorVersion, renderVersion)
	log.Debug(log.Verbose(), "Modules: %s", dir)
	log.Debug(log.Verbose(), "Terminal: %d columns, colors %v", width, term.Enabled())

	var betweenFiles func()
	if cfg.WatchModules {
		w, err := modules.NewWatcher(dir, log.Diagnostic("modules.watch"))
		if err != nil {
			log.Warn("Module watching disabled: %v", err)
		} else {
			defer w.Close()
			betweenFiles = func() { refresh(set, w, log) }
		}
	}

	// Phase 4: Signal handling. Cancel on SIGINT/SIGTERM so the batch stops
	// between files; a running engine call always completes.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			log.Warn("Received interrupt, finishing current file…")
			cancel()
		case <-ctx.Done():
		}
	}()

	// Phase 5: Run the pipeline and report.
	var bars progress.Display = progress.NewHeadlessDisplay(nil)
	if cfg.Progress && term.IsTerminal(os.Stdout) {
		bars = progress.NewTerminalDisplay(os.Stdout, width)
	}
	runner := &pipeline.Runner{
		Generator:    set,
		Renderer:     set,
		Progress:     progress.NewAggregator(bars),
		Detector:     sniffer,
		Log:          log,
		Diag:         log.Diagnostic("pipeline"),
		Verbose:      log.Verbose(),
		BetweenFiles: betweenFiles,
	}

	start := time.Now()
	stats := runner.Run(ctx, opts, cfg.FailFast)
	if len(stats.Results) > 0 {
		display.PrintReport(os.Stdout, stats.Rows(), time.Since(start), width)
	}

	if stats.Failed > 0 || stats.Interrupted {
		return 1
	}
	return 0
}

func engineVersion(set *modules.Set, role native.Role) string {
	v, err := set.Version(role)
	if err != nil {
		return "unknown"
	}
	return v
}

// refresh swaps in every engine whose library changed since the last file.
func refresh(set *modules.Set, w *modules.Watcher, log *logging.Logger) {
	for _, sw := range set.RefreshStale(w) {
		if sw.Err != nil {
			log.Warn("Reloading the %s module failed, keeping the loaded one: %v", sw.Role, sw.Err)
			continue
		}
		log.Info("Reloaded %s module: %s -> %s", sw.Role, sw.From, sw.To)
	}
}
