package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/gamer92000/lecturecut/internal/config"
	"github.com/gamer92000/lecturecut/internal/media"
	"github.com/gamer92000/lecturecut/internal/naming"
)

// Discover returns the regular files directly inside dir whose sniffed type
// is a video, sorted by name. Subdirectories are not entered.
func Discover(dir string, det media.Detector) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if media.IsVideo(det, path) {
			files = append(files, path)
		}
	}
	sort.Strings(files)
	return files, nil
}

// DeriveOptions returns the Options for one file of a batch. With a batch
// output directory the output keeps the file's own name inside it; without
// one the automatic name is used.
func DeriveOptions(base config.Options, file string) config.Options {
	opts := base
	opts.Input = file
	if base.Output != "" {
		opts.Output = filepath.Join(base.Output, filepath.Base(file))
	} else {
		opts.Output = naming.AutomaticPath(file, base.Invert)
	}
	return opts
}

// Expand turns validated Options into the list of files to run. A file input
// yields opts itself. For a directory input, children that are earlier
// outputs are ignored when writing next to the inputs, outputs that would
// clash by letter case are numbered, and files whose output already exists
// come back as skipped results.
func Expand(opts config.Options, det media.Detector) ([]config.Options, []FileResult, error) {
	fi, err := os.Stat(opts.Input)
	if err != nil {
		return nil, nil, err
	}
	if !fi.IsDir() {
		return []config.Options{opts}, nil, nil
	}

	files, err := Discover(opts.Input, det)
	if err != nil {
		return nil, nil, fmt.Errorf("list %s: %w", opts.Input, err)
	}
	claims := naming.NewClaims()
	var jobs []config.Options
	var skipped []FileResult
	for _, f := range files {
		if opts.Output == "" && naming.HasSuffix(f) {
			continue
		}
		job := DeriveOptions(opts, f)
		job.Output = claims.Claim(job.Input, job.Output)
		if _, err := os.Stat(job.Output); err == nil {
			skipped = append(skipped, FileResult{Input: job.Input, Output: job.Output, Skipped: true})
			continue
		}
		jobs = append(jobs, job)
	}
	return jobs, skipped, nil
}
