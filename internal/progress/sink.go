package progress

// Sink receives progress events. It is satisfied by *Aggregator and by the
// native package's ProgressSink.
type Sink interface {
	Report(stage string, advance float64)
}

// SinkFunc adapts a plain function to Sink.
type SinkFunc func(stage string, advance float64)

// Report calls f.
func (f SinkFunc) Report(stage string, advance float64) { f(stage, advance) }

// Discard drops every event.
var Discard Sink = SinkFunc(func(string, float64) {})
