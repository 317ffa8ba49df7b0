// Package progress turns the (stage, advance) events raised by the native
// engines into per-stage progress bars.
//
// An [Aggregator] owns a registry of live bars keyed by stage name. Engines
// report percentage points; the aggregator scales them onto a fixed basis of
// [Basis] units and treats an advance of [Done] as "stage finished". Rendering
// is delegated to a [Display]: [TerminalDisplay] draws live bars with mpb,
// [HeadlessDisplay] only records them.
package progress
