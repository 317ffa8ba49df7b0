// Package naming derives output file names. [AutomaticPath] inserts a fixed
// suffix before the extension; [StripSuffix] reverses it. Both are pure path
// manipulation and never touch the filesystem. [Claims] keeps the outputs of
// one batch distinct.
package naming
