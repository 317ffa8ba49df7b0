package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up beside the executable.
const FileName = "lecturecut.yaml"

// Environment variables read by [LoadEnv].
const (
	EnvModulesDir = "LECTURECUT_MODULES_DIR"
	EnvLogFile    = "LECTURECUT_LOG_FILE"
	EnvNoColor    = "NO_COLOR"
)

// fileConfig mirrors the YAML keys. Pointers distinguish "absent" from zero.
type fileConfig struct {
	Quality        *int   `yaml:"quality"`
	Aggressiveness *int   `yaml:"aggressiveness"`
	ModulesDir     string `yaml:"modules_dir"`
	LogFile        string `yaml:"log_file"`
	Color          string `yaml:"color"`
	FailFast       *bool  `yaml:"fail_fast"`
	WatchModules   *bool  `yaml:"watch_modules"`
	Progress       *bool  `yaml:"progress"`
}

// DefaultConfigFile returns FileName beside the running executable, or ""
// when the executable path is unknown.
func DefaultConfigFile() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	return filepath.Join(filepath.Dir(exe), FileName)
}

// LoadFile overlays the YAML file at path onto cfg. A missing file is an
// error only when required is set.
func LoadFile(cfg *Config, path string, required bool) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config file: %w", err)
	}
	if err := ParseFile(cfg, data); err != nil {
		return fmt.Errorf("config file %s: %w", path, err)
	}
	return nil
}

// ParseFile overlays YAML data onto cfg. Unknown keys are rejected. Relative
// paths are kept as written.
func ParseFile(cfg *Config, data []byte) error {
	var fc fileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	if fc.Quality != nil {
		cfg.Quality = *fc.Quality
	}
	if fc.Aggressiveness != nil {
		cfg.Aggressiveness = *fc.Aggressiveness
	}
	if fc.ModulesDir != "" {
		cfg.ModulesDir = fc.ModulesDir
	}
	if fc.LogFile != "" {
		cfg.LogFile = fc.LogFile
	}
	if fc.Color != "" {
		mode, err := ParseColorMode(fc.Color)
		if err != nil {
			return err
		}
		cfg.ColorMode = mode
	}
	if fc.FailFast != nil {
		cfg.FailFast = *fc.FailFast
	}
	if fc.WatchModules != nil {
		cfg.WatchModules = *fc.WatchModules
	}
	if fc.Progress != nil {
		cfg.Progress = *fc.Progress
	}
	return nil
}

// LoadEnv loads a .env file from the working directory, if present, and
// overlays the LECTURECUT_* variables onto cfg. NO_COLOR
// (https://no-color.org) turns automatic color off.
func LoadEnv(cfg *Config) {
	_ = godotenv.Load()

	if v := strings.TrimSpace(os.Getenv(EnvModulesDir)); v != "" {
		cfg.ModulesDir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.LogFile = v
	}
	if os.Getenv(EnvNoColor) != "" && cfg.ColorMode == ColorAuto {
		cfg.ColorMode = ColorNever
	}
}
