// Package pipeline drives the engines over one input file or a directory of
// videos and collects per-file statistics for the final report.
//
// Each file runs the sequence prepare, generate, render to completion before
// the next file starts. One progress aggregator is shared by all files and
// is finalized after every file, so stage names can repeat across files.
package pipeline
