package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDetector maps base names to MIME types.
type fakeDetector map[string]string

func (f fakeDetector) Detect(path string) (string, error) {
	mt, ok := f[filepath.Base(path)]
	if !ok {
		return "", errors.New("unknown file")
	}
	return mt, nil
}

var detector = fakeDetector{
	"lecture.mp4": "video/mp4",
	"talk.mkv":    "video/x-matroska",
	"notes.txt":   "text/plain",
}

func touch(t *testing.T, path string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	return path
}

func baseOptions(input string) Options {
	return Options{Input: input, Quality: 20, Aggressiveness: 1}
}

func validationField(t *testing.T, err error) string {
	t.Helper()
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	return ve.Field
}

func TestValidateOptions_AutomaticOutput(t *testing.T) {
	dir := t.TempDir()
	in := touch(t, filepath.Join(dir, "lecture.mp4"))

	got, warns, err := ValidateOptions(baseOptions(in), detector)
	require.NoError(t, err)
	assert.Empty(t, warns)
	assert.Equal(t, filepath.Join(dir, "lecture_lecturecut.mp4"), got.Output)

	opts := baseOptions(in)
	opts.Invert = true
	got, _, err = ValidateOptions(opts, detector)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "lecture_inverted_lecturecut.mp4"), got.Output)
}

func TestValidateOptions_AutomaticOutputExists(t *testing.T) {
	dir := t.TempDir()
	in := touch(t, filepath.Join(dir, "lecture.mp4"))
	touch(t, filepath.Join(dir, "lecture_lecturecut.mp4"))

	_, _, err := ValidateOptions(baseOptions(in), detector)
	assert.Equal(t, "output", validationField(t, err))
}

func TestValidateOptions_InputErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"missing", filepath.Join(dir, "absent.mp4")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ValidateOptions(baseOptions(tt.input), detector)
			assert.Equal(t, "input", validationField(t, err))
		})
	}
}

func TestValidateOptions_Ranges(t *testing.T) {
	dir := t.TempDir()
	in := touch(t, filepath.Join(dir, "lecture.mp4"))
	tests := []struct {
		name           string
		quality        int
		aggressiveness int
		field          string
	}{
		{"quality too high", 52, 1, "quality"},
		{"quality negative", -1, 1, "quality"},
		{"aggressiveness too high", 20, 4, "aggressiveness"},
		{"aggressiveness negative", 20, -1, "aggressiveness"},
		{"bounds ok", 51, 3, ""},
		{"zero ok", 0, 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := baseOptions(in)
			opts.Quality = tt.quality
			opts.Aggressiveness = tt.aggressiveness
			_, _, err := ValidateOptions(opts, detector)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.field, validationField(t, err))
		})
	}
}

func TestValidateOptions_FileOutput(t *testing.T) {
	dir := t.TempDir()
	in := touch(t, filepath.Join(dir, "lecture.mp4"))

	opts := baseOptions(in)
	opts.Output = filepath.Join(dir, "cut.mp4")
	got, _, err := ValidateOptions(opts, detector)
	require.NoError(t, err)
	assert.Equal(t, opts.Output, got.Output)

	touch(t, opts.Output)
	_, _, err = ValidateOptions(opts, detector)
	assert.Equal(t, "output", validationField(t, err))

	opts.Output = filepath.Join(dir, "bad\x00name.mp4")
	_, _, err = ValidateOptions(opts, detector)
	assert.Equal(t, "output", validationField(t, err))
}

func TestValidateOptions_DirectoryOutput(t *testing.T) {
	root := t.TempDir()
	in := filepath.Join(root, "in")
	touch(t, filepath.Join(in, "lecture.mp4"))

	t.Run("created when missing", func(t *testing.T) {
		opts := baseOptions(in)
		opts.Output = filepath.Join(root, "out", "nested")
		got, warns, err := ValidateOptions(opts, detector)
		require.NoError(t, err)
		assert.Empty(t, warns)
		assert.DirExists(t, got.Output)
	})

	t.Run("non-empty warns", func(t *testing.T) {
		out := filepath.Join(root, "full")
		touch(t, filepath.Join(out, "old.mp4"))
		opts := baseOptions(in)
		opts.Output = out
		_, warns, err := ValidateOptions(opts, detector)
		require.NoError(t, err)
		require.Len(t, warns, 1)
		assert.Equal(t, WarnOutputNotEmpty, warns[0].Message)
	})

	t.Run("file is rejected", func(t *testing.T) {
		opts := baseOptions(in)
		opts.Output = touch(t, filepath.Join(root, "file.mp4"))
		_, _, err := ValidateOptions(opts, detector)
		assert.Equal(t, "output", validationField(t, err))
	})

	t.Run("no output leaves it empty", func(t *testing.T) {
		got, _, err := ValidateOptions(baseOptions(in), detector)
		require.NoError(t, err)
		assert.Empty(t, got.Output)
	})
}

func TestValidateOptions_Warnings(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name     string
		file     string
		reencode string
		want     []string
	}{
		{"mp4 is clean", "lecture.mp4", "", nil},
		{"matroska may cause issues", "talk.mkv", "", []string{WarnNotMP4}},
		{"text is not a video", "notes.txt", "", []string{WarnNotVideo}},
		{"unknown counts as not a video", "blob.bin", "", []string{WarnNotVideo}},
		{"reencode is unchecked", "lecture.mp4", "h264", []string{WarnReencode}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := touch(t, filepath.Join(dir, tt.name, tt.file))
			opts := baseOptions(in)
			opts.Reencode = tt.reencode
			_, warns, err := ValidateOptions(opts, detector)
			require.NoError(t, err)
			var got []string
			for _, w := range warns {
				got = append(got, w.String())
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckPathChars(t *testing.T) {
	tests := []struct {
		path    string
		goos    string
		wantErr bool
	}{
		{"out/video.mp4", "linux", false},
		{"out/vid:eo.mp4", "linux", false},
		{"out/vid\x00eo.mp4", "linux", true},
		{`C:\out\video.mp4`, "windows", false},
		{`out\vid:eo.mp4`, "windows", true},
		{`out\vid?eo.mp4`, "windows", true},
		{"out\\vid\teo.mp4", "windows", true},
		{`out\video.mp4`, "windows", false},
	}
	for _, tt := range tests {
		err := checkPathChars(tt.path, tt.goos)
		assert.Equal(t, tt.wantErr, err != nil, "%s on %s", tt.path, tt.goos)
	}
}
