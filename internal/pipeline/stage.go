package pipeline

import "fmt"

// State is a position in the per-file state machine.
type State int

const (
	Idle      State = iota // Nothing called yet.
	Prepared               // Render engine staged the input.
	Generated              // Cut list and statistics obtained.
	Rendered               // Output written. Terminal.
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Prepared:
		return "prepared"
	case Generated:
		return "generated"
	case Rendered:
		return "rendered"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// step names the engine call that leaves s.
func (s State) step() string {
	switch s {
	case Idle:
		return "prepare"
	case Prepared:
		return "generate"
	case Generated:
		return "render"
	}
	return ""
}

// StageError reports the engine call that failed for Input. Reached is the
// last state the file got to.
type StageError struct {
	Reached State
	Input   string
	Err     error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Reached.step(), e.Input, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }
