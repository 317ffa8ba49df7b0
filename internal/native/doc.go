// Package native loads the generator and render engines and drives them
// through their C ABI.
//
// Each engine is a shared library located beside the executable
// (lib<role>.so, <role>.dll or lib<role>.dylib). A [Module] owns exactly one
// loaded library; it resolves the role's exports by name, calls init with a
// quiet log level and then exposes typed wrappers around prepare, generate
// and render.
//
// Progress reported by the engines arrives through a single process-wide
// callback trampoline and is forwarded to the [ProgressSink] bound for the
// duration of the call that triggered it.
//
// generate and render pass structs by value. purego handles that only on
// darwin; amd64 builds elsewhere call through purego.SyscallN following the
// platform calling convention, and arm64 builds outside darwin need cgo.
//
// Memory returned by generate belongs to the generator. A [CutList] is a
// borrowed view that stays valid until the matching render call returns and
// must be passed to render unchanged.
package native
