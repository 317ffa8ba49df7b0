// Package media identifies input files by content. Validation uses it to warn
// about non-video inputs and batch discovery uses it to keep only videos.
package media
