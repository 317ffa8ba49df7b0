package config

// This file binds the command-line interface. Flag values land in a separate
// struct and are copied into Config only when the user passed them, so values
// from the config file and environment survive unless overridden.

import (
	"github.com/spf13/cobra"
)

const longDescription = `LectureCut removes silence from lecture recordings.

Cut detection and re-encoding run in two native engines (generator and
render) loaded at runtime from the modules directory. Only the segments
around each cut are transcoded, so processing is fast at a slight quality
cost for those segments.

The input may be a single video or a directory; in directory mode every
video directly inside it is processed.`

// flagValues holds raw flag values until they are applied to Config.
type flagValues struct {
	input          string
	output         string
	quality        int
	aggressiveness int
	reencode       string
	invert         bool
	modulesDir     string
	logFile        string
	color          bool
	noColor        bool
	verbose        bool
	check          bool
	configFile     string
	failFast       bool
	watchModules   bool
	noProgress     bool
}

// NewCommand returns the root command. Before run is called, cfg has been
// overlaid with the config file, the environment and the passed flags.
func NewCommand(cfg *Config, version string, run func() error) *cobra.Command {
	fv := flagValues{
		quality:        cfg.Quality,
		aggressiveness: cfg.Aggressiveness,
	}

	cmd := &cobra.Command{
		Use:           "lecturecut -i <input> [-o <output>]",
		Short:         "Remove silence from lecture recordings",
		Long:          longDescription,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return resolve(cmd, cfg, &fv)
		},
		RunE: func(*cobra.Command, []string) error {
			return run()
		},
	}
	cmd.SetVersionTemplate("lecturecut v{{.Version}}\n")

	f := cmd.Flags()
	f.SortFlags = false

	// Input and output.
	f.StringVarP(&fv.input, "input", "i", "", "The video file or directory to process")
	f.StringVarP(&fv.output, "output", "o", "", "Output file (or directory for directory input); generated when omitted")

	// Engine parameters.
	f.IntVarP(&fv.quality, "quality", "q", fv.quality, "Quality of re-encoded segments, 0-51, lower is better")
	f.IntVarP(&fv.aggressiveness, "aggressiveness", "a", fv.aggressiveness, "Silence detection aggressiveness, 0-3")
	f.StringVarP(&fv.reencode, "reencode", "r", "", "Re-encode override passed to the render engine (unchecked)")
	f.BoolVar(&fv.invert, "invert", false, "Cut speech instead of silence")

	// Modules.
	f.StringVar(&fv.modulesDir, "modules-dir", "", "Directory holding the generator and render libraries")
	f.BoolVar(&fv.watchModules, "watch-modules", false, "Reload engine libraries between files when they change")

	// Behavior and display.
	f.BoolVar(&fv.failFast, "fail-fast", false, "Stop the batch at the first failed file")
	f.BoolVar(&fv.noProgress, "no-progress", false, "Disable live progress bars")
	f.BoolVar(&fv.color, "color", false, "Force colored logs")
	f.BoolVar(&fv.noColor, "no-color", false, "Disable colored logs")
	f.BoolVarP(&fv.verbose, "verbose", "v", false, "Verbose output")

	// Utility.
	f.StringVarP(&fv.logFile, "log", "l", "", "Append logs to file")
	f.StringVar(&fv.configFile, "config", "", "Config file (default: "+FileName+" beside the executable)")
	f.BoolVarP(&fv.check, "check", "c", false, "Check that the engine libraries load, then exit")
	f.BoolP("version", "V", false, "Print version and exit")

	return cmd
}

// resolve overlays the config file, the environment and the passed flags.
func resolve(cmd *cobra.Command, cfg *Config, fv *flagValues) error {
	path, required := fv.configFile, true
	if path == "" {
		path, required = DefaultConfigFile(), false
	}
	if err := LoadFile(cfg, path, required); err != nil {
		return err
	}
	cfg.ConfigFile = fv.configFile
	LoadEnv(cfg)
	applyFlags(cmd, cfg, fv)
	return nil
}

// applyFlags copies every flag the user passed into cfg.
func applyFlags(cmd *cobra.Command, cfg *Config, fv *flagValues) {
	changed := cmd.Flags().Changed

	if changed("input") {
		cfg.Input = fv.input
	}
	if changed("output") {
		cfg.Output = fv.output
	}
	if changed("quality") {
		cfg.Quality = fv.quality
	}
	if changed("aggressiveness") {
		cfg.Aggressiveness = fv.aggressiveness
	}
	if changed("reencode") {
		cfg.Reencode = fv.reencode
	}
	if changed("invert") {
		cfg.Invert = fv.invert
	}
	if changed("modules-dir") {
		cfg.ModulesDir = fv.modulesDir
	}
	if changed("watch-modules") {
		cfg.WatchModules = fv.watchModules
	}
	if changed("fail-fast") {
		cfg.FailFast = fv.failFast
	}
	if changed("no-progress") {
		cfg.Progress = !fv.noProgress
	}
	if changed("verbose") {
		cfg.Verbose = fv.verbose
	}
	if changed("log") {
		cfg.LogFile = fv.logFile
	}
	if changed("check") {
		cfg.CheckOnly = fv.check
	}
	if fv.noColor {
		cfg.ColorMode = ColorNever
	} else if fv.color {
		cfg.ColorMode = ColorAlways
	}
}
