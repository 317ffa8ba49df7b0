package media

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/hashicorp/golang-lru/v2"
)

// MP4 is the container the engines are built for.
const MP4 = "video/mp4"

const defaultCacheSize = 512

// Detector reports the MIME type of a file.
type Detector interface {
	Detect(path string) (string, error)
}

type cacheKey struct {
	path  string
	size  int64
	mtime time.Time
}

// Sniffer detects MIME types from file content. Results are cached per path,
// size and modification time, so a file that changes is sniffed again.
type Sniffer struct {
	cache *lru.Cache[cacheKey, string]
}

// NewSniffer returns a Sniffer caching up to size results; size <= 0 uses a
// default.
func NewSniffer(size int) (*Sniffer, error) {
	if size <= 0 {
		size = defaultCacheSize
	}
	cache, err := lru.New[cacheKey, string](size)
	if err != nil {
		return nil, err
	}
	return &Sniffer{cache: cache}, nil
}

// Detect returns the MIME type of path without parameters, e.g. "video/mp4".
func (s *Sniffer) Detect(path string) (string, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if !fi.Mode().IsRegular() {
		return "", fmt.Errorf("%s: not a regular file", path)
	}
	key := cacheKey{path: path, size: fi.Size(), mtime: fi.ModTime()}
	if mt, ok := s.cache.Get(key); ok {
		return mt, nil
	}
	m, err := mimetype.DetectFile(path)
	if err != nil {
		return "", fmt.Errorf("sniff %s: %w", path, err)
	}
	mt := baseType(m.String())
	s.cache.Add(key, mt)
	return mt, nil
}

// Len returns the number of cached results.
func (s *Sniffer) Len() int { return s.cache.Len() }

func baseType(mt string) string {
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = mt[:i]
	}
	return strings.TrimSpace(strings.ToLower(mt))
}

// IsVideoType reports whether mt is a video type.
func IsVideoType(mt string) bool { return strings.HasPrefix(mt, "video") }

// IsVideo reports whether d identifies path as a video. Detection errors
// count as not a video.
func IsVideo(d Detector, path string) bool {
	mt, err := d.Detect(path)
	return err == nil && IsVideoType(mt)
}

// IsMP4 reports whether d identifies path as an MP4 video.
func IsMP4(d Detector, path string) bool {
	mt, err := d.Detect(path)
	return err == nil && mt == MP4
}
