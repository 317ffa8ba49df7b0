//go:build windows

package native

// cLong mirrors C long, which stays 32 bits wide on LLP64 Windows.
type cLong = int32
