// Package config holds runtime configuration: defaults, command-line flags,
// the optional YAML config file, environment overrides, and validation of the
// options handed to the pipeline.
//
// Precedence, lowest first: [DefaultConfig], config file, environment,
// flags the user actually passed.
package config

import (
	"errors"
	"fmt"
	"strings"
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// ParseColorMode accepts auto, always or never in any case.
func ParseColorMode(s string) (ColorMode, error) {
	switch m := ColorMode(strings.ToLower(strings.TrimSpace(s))); m {
	case ColorAuto, ColorAlways, ColorNever:
		return m, nil
	default:
		return "", fmt.Errorf("invalid color mode %q (use 'auto', 'always' or 'never')", s)
	}
}

// Quality and aggressiveness bounds accepted by the engines.
const (
	MinQuality        = 0
	MaxQuality        = 51
	MinAggressiveness = 0
	MaxAggressiveness = 3
)

// Options is the request for one pipeline run. After [ValidateOptions] it is
// read-only; batch mode derives one copy per file with new Input and Output.
type Options struct {
	Input          string
	Output         string // Empty until validation fills it for file input.
	Quality        int    // Default: 20. Lower is better.
	Aggressiveness int    // Default: 1. Silence detection aggressiveness.
	Reencode       string // Passed through unchecked; warns when set.
	Invert         bool   // Cut speech instead of silence.
}

// Config holds all runtime settings. It is populated by [DefaultConfig],
// overlaid by [LoadFile] and [LoadEnv], and finally by the flags bound in
// [NewCommand].
type Config struct {
	Options

	// Modules.
	ModulesDir   string // Directory holding the engine libraries. Default: beside the executable.
	WatchModules bool   // Reload engines between files when their library changes.

	// Batch behavior.
	FailFast bool // Abort the batch on the first failed file.

	// Display and logging.
	Verbose    bool
	ColorMode  ColorMode // Default: "auto".
	Progress   bool      // Default: true. Live progress bars when stdout is a TTY.
	LogFile    string    // Optional log file path.
	CheckOnly  bool      // Run --check diagnostics and exit.
	ConfigFile string    // Explicit --config path.
}

// DefaultConfig returns a Config with the documented defaults.
func DefaultConfig() Config {
	return Config{
		Options: Options{
			Quality:        20,
			Aggressiveness: 1,
		},
		ColorMode: ColorAuto,
		Progress:  true,
	}
}

// Validate checks the settings that do not depend on the filesystem. Path
// checks happen in [ValidateOptions].
func (c *Config) Validate() error {
	if _, err := ParseColorMode(string(c.ColorMode)); err != nil {
		return err
	}
	if c.CheckOnly {
		return nil
	}
	if strings.TrimSpace(c.Input) == "" {
		return errors.New("need an input file or directory (-i/--input)")
	}
	return nil
}
