// Package modules owns the pair of engine libraries used by a run.
//
// A [Set] loads the generator and render engines from one directory and
// serves the pipeline's calls. With --watch-modules a [Watcher] marks an
// engine stale when its library file changes; the pipeline then calls
// [Set.Refresh] between files so a rebuilt engine is picked up without
// restarting the batch. An engine is never swapped while a file is in flight.
package modules
