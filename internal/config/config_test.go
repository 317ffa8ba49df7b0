package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_SaneDefaults(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 20, cfg.Quality)
	assert.Equal(t, 1, cfg.Aggressiveness)
	assert.Equal(t, ColorAuto, cfg.ColorMode)
	assert.True(t, cfg.Progress)
	assert.False(t, cfg.FailFast)
	assert.False(t, cfg.Invert)
	assert.Empty(t, cfg.Output)
}

func TestValidate_ColorMode(t *testing.T) {
	tests := []struct {
		name    string
		mode    ColorMode
		wantErr bool
	}{
		{"auto is valid", ColorAuto, false},
		{"always is valid", ColorAlways, false},
		{"never is valid", ColorNever, false},
		{"empty is invalid", "", true},
		{"unknown is invalid", "rainbow", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Input = "lecture.mp4"
			cfg.ColorMode = tt.mode
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_RequiresInput(t *testing.T) {
	cfg := DefaultConfig()
	assert.Error(t, cfg.Validate())
	cfg.Input = "   "
	assert.Error(t, cfg.Validate())
}

func TestValidate_CheckOnlySkipsInput(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CheckOnly = true
	assert.NoError(t, cfg.Validate())
}

func TestParseColorMode(t *testing.T) {
	m, err := ParseColorMode(" Always ")
	require.NoError(t, err)
	assert.Equal(t, ColorAlways, m)
	_, err = ParseColorMode("sometimes")
	assert.Error(t, err)
}

func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvModulesDir, "")
	t.Setenv(EnvLogFile, "")
	t.Setenv(EnvNoColor, "")
}

func execute(t *testing.T, cfg *Config, args ...string) (ran bool, out string, err error) {
	t.Helper()
	var buf bytes.Buffer
	cmd := NewCommand(cfg, "1.2.3", func() error {
		ran = true
		return nil
	})
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return ran, buf.String(), err
}

func TestNewCommand_Flags(t *testing.T) {
	isolateEnv(t)
	cfg := DefaultConfig()
	ran, _, err := execute(t, &cfg,
		"-i", "talk.mp4", "-o", "out.mp4", "-q", "30", "-a", "3",
		"--invert", "-r", "h264", "--modules-dir", "/opt/lc", "--fail-fast",
		"--watch-modules", "--no-progress", "--no-color", "-v", "-l", "run.log",
	)
	require.NoError(t, err)
	assert.True(t, ran)

	assert.Equal(t, Options{
		Input: "talk.mp4", Output: "out.mp4", Quality: 30, Aggressiveness: 3,
		Reencode: "h264", Invert: true,
	}, cfg.Options)
	assert.Equal(t, "/opt/lc", cfg.ModulesDir)
	assert.True(t, cfg.FailFast)
	assert.True(t, cfg.WatchModules)
	assert.False(t, cfg.Progress)
	assert.Equal(t, ColorNever, cfg.ColorMode)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, "run.log", cfg.LogFile)
}

func TestNewCommand_DefaultsKept(t *testing.T) {
	isolateEnv(t)
	cfg := DefaultConfig()
	_, _, err := execute(t, &cfg, "--input", "talk.mp4")
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.Quality)
	assert.Equal(t, 1, cfg.Aggressiveness)
	assert.True(t, cfg.Progress)
	assert.Equal(t, ColorAuto, cfg.ColorMode)
}

func TestNewCommand_Version(t *testing.T) {
	isolateEnv(t)
	cfg := DefaultConfig()
	ran, out, err := execute(t, &cfg, "-V")
	require.NoError(t, err)
	assert.False(t, ran)
	assert.Equal(t, "lecturecut v1.2.3\n", out)
}

func TestNewCommand_RejectsPositionalArgs(t *testing.T) {
	isolateEnv(t)
	cfg := DefaultConfig()
	ran, _, err := execute(t, &cfg, "talk.mp4")
	assert.Error(t, err)
	assert.False(t, ran)
}

func TestNewCommand_Precedence(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	file := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(file, []byte("quality: 35\naggressiveness: 2\nmodules_dir: /from/file\nlog_file: file.log\n"), 0o644))
	t.Setenv(EnvModulesDir, "/from/env")

	cfg := DefaultConfig()
	_, _, err := execute(t, &cfg, "-i", "talk.mp4", "--config", file, "-a", "0")
	require.NoError(t, err)

	assert.Equal(t, 35, cfg.Quality, "file overrides default")
	assert.Equal(t, 0, cfg.Aggressiveness, "flag overrides file")
	assert.Equal(t, "/from/env", cfg.ModulesDir, "env overrides file")
	assert.Equal(t, "file.log", cfg.LogFile)
	assert.Equal(t, file, cfg.ConfigFile)
}

func TestNewCommand_MissingExplicitConfig(t *testing.T) {
	isolateEnv(t)
	cfg := DefaultConfig()
	ran, _, err := execute(t, &cfg, "-i", "talk.mp4", "--config", filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
	assert.False(t, ran)
}

func TestParseFile(t *testing.T) {
	cfg := DefaultConfig()
	err := ParseFile(&cfg, []byte(`
quality: 18
color: always
fail_fast: true
watch_modules: true
progress: false
`))
	require.NoError(t, err)
	assert.Equal(t, 18, cfg.Quality)
	assert.Equal(t, 1, cfg.Aggressiveness)
	assert.Equal(t, ColorAlways, cfg.ColorMode)
	assert.True(t, cfg.FailFast)
	assert.True(t, cfg.WatchModules)
	assert.False(t, cfg.Progress)
}

func TestParseFile_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unknown key", "qualty: 18\n"},
		{"bad color", "color: rainbow\n"},
		{"wrong type", "quality: high\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			assert.Error(t, ParseFile(&cfg, []byte(tt.data)))
		})
	}
}

func TestParseFile_Empty(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, ParseFile(&cfg, nil))
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadFile_OptionalMissing(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, LoadFile(&cfg, filepath.Join(t.TempDir(), FileName), false))
	assert.NoError(t, LoadFile(&cfg, "", true))
}

func TestLoadEnv(t *testing.T) {
	isolateEnv(t)
	t.Setenv(EnvModulesDir, "/env/modules")
	t.Setenv(EnvLogFile, "/env/lecturecut.log")
	t.Setenv(EnvNoColor, "1")

	cfg := DefaultConfig()
	LoadEnv(&cfg)
	assert.Equal(t, "/env/modules", cfg.ModulesDir)
	assert.Equal(t, "/env/lecturecut.log", cfg.LogFile)
	assert.Equal(t, ColorNever, cfg.ColorMode)

	cfg = DefaultConfig()
	cfg.ColorMode = ColorAlways
	LoadEnv(&cfg)
	assert.Equal(t, ColorAlways, cfg.ColorMode, "NO_COLOR only affects auto")
}
