package naming

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Claims hands out output paths within one batch. Two inputs whose outputs
// differ only in letter case would overwrite each other on a case-insensitive
// filesystem, so paths are compared case-folded and a later claimant gets a
// numbered variant ("name_2.mp4"). Not safe for concurrent use; batches run
// one file at a time.
type Claims struct {
	owners map[string]string // folded output path → input that owns it
}

// NewClaims returns an empty claim set.
func NewClaims() *Claims {
	return &Claims{owners: make(map[string]string)}
}

// Claim returns the output path input may write. The first claim of a path
// gets it unchanged, as does a repeated claim by the same input.
func (c *Claims) Claim(input, output string) string {
	if c.take(input, output) {
		return output
	}
	dir, file := filepath.Split(output)
	stem, ext := splitExt(file)
	for n := 2; ; n++ {
		candidate := dir + fmt.Sprintf("%s_%d%s", stem, n, ext)
		if c.take(input, candidate) {
			return candidate
		}
	}
}

func (c *Claims) take(input, output string) bool {
	key := strings.ToLower(filepath.Clean(output))
	if owner, ok := c.owners[key]; ok && owner != input {
		return false
	}
	c.owners[key] = input
	return true
}
