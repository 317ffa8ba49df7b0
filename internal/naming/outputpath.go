package naming

import (
	"path/filepath"
	"strings"
)

// Suffixes inserted before the extension of an automatically named output.
const (
	Suffix         = "_lecturecut"
	InvertedSuffix = "_inverted_lecturecut"
)

// SuffixFor returns the suffix used for the given invert mode.
func SuffixFor(invert bool) string {
	if invert {
		return InvertedSuffix
	}
	return Suffix
}

// AutomaticPath returns input with the suffix inserted before its extension:
//
//	a/b/video.mp4 → a/b/video_lecturecut.mp4
//	video.mp4 (invert) → video_inverted_lecturecut.mp4
//
// Names without an extension, and dotfiles, get the suffix appended.
func AutomaticPath(input string, invert bool) string {
	dir, file := filepath.Split(input)
	stem, ext := splitExt(file)
	return dir + stem + SuffixFor(invert) + ext
}

// StripSuffix removes an automatic suffix from path. ok is false when path
// does not carry one.
func StripSuffix(path string) (original string, ok bool) {
	dir, file := filepath.Split(path)
	stem, ext := splitExt(file)
	for _, s := range []string{InvertedSuffix, Suffix} {
		if base, found := strings.CutSuffix(stem, s); found && base != "" {
			return dir + base + ext, true
		}
	}
	return path, false
}

// HasSuffix reports whether path looks like an automatically named output.
func HasSuffix(path string) bool {
	_, ok := StripSuffix(path)
	return ok
}

func splitExt(file string) (stem, ext string) {
	ext = filepath.Ext(file)
	stem = strings.TrimSuffix(file, ext)
	if stem == "" {
		return file, ""
	}
	return stem, ext
}
