package native

import (
	"fmt"
	"unsafe"
)

// Role names an engine. It doubles as the stem of the library file name.
type Role string

const (
	RoleGenerator Role = "generator"
	RoleRender    Role = "render"
)

// Roles lists every engine the orchestrator needs, in load order.
var Roles = []Role{RoleRender, RoleGenerator}

// requiredSymbols are the exports a library must provide for its role.
var requiredSymbols = map[Role][]string{
	RoleGenerator: {"init", "version", "generate"},
	RoleRender:    {"init", "version", "prepare", "render"},
}

// Cut is one excised interval in seconds. Layout matches struct cut.
type Cut struct {
	Start float64
	End   float64
}

// Duration returns the length of the interval in seconds.
func (c Cut) Duration() float64 { return c.End - c.Start }

// CutList is a non-owning view of a generator-owned array of cuts. Layout
// matches struct cut_list: a C long count followed by the array pointer.
type CutList struct {
	Length cLong
	Cuts   *Cut
}

// CutListOf builds a view over Go memory. Intended for engines implemented
// in Go and for tests; it must never be handed to a native engine.
func CutListOf(cuts []Cut) CutList {
	if len(cuts) == 0 {
		return CutList{}
	}
	return CutList{Length: cLong(len(cuts)), Cuts: &cuts[0]}
}

// Len returns the declared number of cuts.
func (l CutList) Len() int { return int(l.Length) }

// View returns the cuts as a slice aliasing the generator's memory. The slice
// is only valid until the render call that consumes l returns.
func (l CutList) View() ([]Cut, error) {
	switch {
	case l.Length < 0:
		return nil, &MarshalError{Field: "cut list", Reason: fmt.Sprintf("negative length %d", l.Length)}
	case l.Length == 0:
		return nil, nil
	case l.Cuts == nil:
		return nil, &MarshalError{Field: "cut list", Reason: fmt.Sprintf("null array with length %d", l.Length)}
	}
	return unsafe.Slice(l.Cuts, int(l.Length)), nil
}

// Validate checks that the view is well formed without copying it.
func (l CutList) Validate() error {
	_, err := l.View()
	return err
}

// GeneratorStats holds input and output durations in seconds. It is the only
// generator output that outlives a file's pipeline.
type GeneratorStats struct {
	LenPreCut  float64
	LenPostCut float64
}

// Removed returns the number of seconds cut away.
func (s GeneratorStats) Removed() float64 { return s.LenPreCut - s.LenPostCut }

// KeptRatio returns LenPostCut/LenPreCut, or 1 for an empty input.
func (s GeneratorStats) KeptRatio() float64 {
	if s.LenPreCut <= 0 {
		return 1
	}
	return s.LenPostCut / s.LenPreCut
}

// GeneratorResult is the full return value of generate.
type GeneratorResult struct {
	Cuts  CutList
	Stats GeneratorStats
}
