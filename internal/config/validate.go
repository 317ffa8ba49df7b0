package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/gamer92000/lecturecut/internal/media"
	"github.com/gamer92000/lecturecut/internal/naming"
)

// ValidationError reports an option that prevents the run from starting.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Warning is a non-fatal finding; the run continues after it is reported.
type Warning struct {
	Field   string
	Message string
}

func (w Warning) String() string { return w.Message }

// Warning messages shown to the user.
const (
	WarnNotVideo       = "Input file is not a video file."
	WarnNotMP4         = "The input file is not an MP4 file. This may cause issues."
	WarnOutputNotEmpty = "The output directory is not empty. Existing files will be skipped."
	WarnReencode       = "The reencode value is currently not checked. This may result in unpredictable behavior."
)

const windowsIllegal = `<>:"|?*`

// ValidateOptions checks opts against the filesystem and returns the
// resolved copy: for file input without an output, Output is set to the
// automatic name. For directory input a missing output directory is
// created. det may be nil, which skips content checks.
func ValidateOptions(opts Options, det media.Detector) (Options, []Warning, error) {
	var warns []Warning

	if strings.TrimSpace(opts.Input) == "" {
		return opts, nil, &ValidationError{Field: "input", Message: "no input given"}
	}
	fi, err := os.Stat(opts.Input)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return opts, nil, &ValidationError{Field: "input", Message: "input file or directory does not exist"}
		}
		return opts, nil, &ValidationError{Field: "input", Message: err.Error()}
	}
	isDir := fi.IsDir()
	if !isDir && !fi.Mode().IsRegular() {
		return opts, nil, &ValidationError{Field: "input", Message: "input needs to be a file or a directory"}
	}
	if !isDir && det != nil {
		warns = append(warns, ContentWarnings(det, opts.Input)...)
	}

	if opts.Output != "" {
		if err := checkPathChars(opts.Output, runtime.GOOS); err != nil {
			return opts, nil, err
		}
		if isDir {
			w, err := prepareOutputDir(opts.Output)
			if err != nil {
				return opts, nil, err
			}
			warns = append(warns, w...)
		} else if exists(opts.Output) {
			return opts, nil, &ValidationError{Field: "output", Message: "output file already exists"}
		}
	} else if !isDir {
		opts.Output = naming.AutomaticPath(opts.Input, opts.Invert)
		if exists(opts.Output) {
			return opts, nil, &ValidationError{Field: "output", Message: fmt.Sprintf("output file %s already exists", opts.Output)}
		}
	}

	if opts.Quality < MinQuality || opts.Quality > MaxQuality {
		return opts, nil, &ValidationError{Field: "quality", Message: fmt.Sprintf("must be between %d and %d", MinQuality, MaxQuality)}
	}
	if opts.Aggressiveness < MinAggressiveness || opts.Aggressiveness > MaxAggressiveness {
		return opts, nil, &ValidationError{Field: "aggressiveness", Message: fmt.Sprintf("must be between %d and %d", MinAggressiveness, MaxAggressiveness)}
	}
	if opts.Reencode != "" {
		warns = append(warns, Warning{Field: "reencode", Message: WarnReencode})
	}
	return opts, warns, nil
}

// ContentWarnings sniffs a single input and reports a non-video or non-MP4
// type.
func ContentWarnings(det media.Detector, path string) []Warning {
	mt, err := det.Detect(path)
	switch {
	case err != nil || !media.IsVideoType(mt):
		return []Warning{{Field: "input", Message: WarnNotVideo}}
	case mt != media.MP4:
		return []Warning{{Field: "input", Message: WarnNotMP4}}
	}
	return nil
}

// checkPathChars rejects NUL everywhere and, on Windows, the reserved
// characters and control codes. A leading drive letter is allowed.
func checkPathChars(path, goos string) error {
	if goos == "windows" && hasDriveLetter(path) {
		path = path[2:]
	}
	bad := func(r rune) bool {
		if r == 0 {
			return true
		}
		return goos == "windows" && (r < 32 || strings.ContainsRune(windowsIllegal, r))
	}
	if strings.IndexFunc(path, bad) >= 0 {
		return &ValidationError{Field: "output", Message: "output path contains illegal characters"}
	}
	return nil
}

func hasDriveLetter(path string) bool {
	if len(path) < 2 || path[1] != ':' {
		return false
	}
	c := path[0] | 0x20
	return c >= 'a' && c <= 'z'
}

// prepareOutputDir ensures dir is a directory, creating it when missing.
func prepareOutputDir(dir string) ([]Warning, error) {
	fi, err := os.Stat(dir)
	if errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, &ValidationError{Field: "output", Message: "could not create output directory: " + err.Error()}
		}
		return nil, nil
	}
	if err != nil {
		return nil, &ValidationError{Field: "output", Message: err.Error()}
	}
	if !fi.IsDir() {
		return nil, &ValidationError{Field: "output", Message: "output path needs to be a directory"}
	}
	empty, err := isEmptyDir(dir)
	if err != nil {
		return nil, &ValidationError{Field: "output", Message: err.Error()}
	}
	if !empty {
		return []Warning{{Field: "output", Message: WarnOutputNotEmpty}}, nil
	}
	return nil, nil
}

func isEmptyDir(dir string) (bool, error) {
	f, err := os.Open(dir)
	if err != nil {
		return false, err
	}
	defer f.Close()
	_, err = f.Readdirnames(1)
	if errors.Is(err, io.EOF) {
		return true, nil
	}
	return false, err
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
