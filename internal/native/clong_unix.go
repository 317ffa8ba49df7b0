//go:build !windows

package native

// cLong mirrors C long on LP64 platforms.
type cLong = int64
