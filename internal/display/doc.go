// Package display renders user-facing output that is not a log line: the
// greeting banner, the end-of-run report table, and size and duration
// formatting shared with the pipeline logs.
package display
