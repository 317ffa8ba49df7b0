//go:build darwin || freebsd || linux

package native

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildEngines compiles testdata/engine.c once per role into a fresh modules
// directory. The test is skipped when no C compiler is installed.
func buildEngines(t *testing.T) string {
	t.Helper()
	cc, err := exec.LookPath("cc")
	if err != nil {
		t.Skipf("no C compiler: %v", err)
	}
	src, err := filepath.Abs(filepath.Join("testdata", "engine.c"))
	require.NoError(t, err)

	dir := t.TempDir()
	for _, role := range Roles {
		out, err := exec.Command(cc, "-shared", "-fPIC", "-o", LibraryPath(dir, role), src).CombinedOutput()
		require.NoError(t, err, "cc: %s", out)
	}
	return dir
}

func loadEngine(t *testing.T, dir string, role Role) *Module {
	t.Helper()
	m, err := Load(dir, role, nil)
	if errors.Is(err, ErrUnsupportedPlatform) {
		t.Skipf("struct-valued calls unavailable here: %v", err)
	}
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

// lookupText binds a fixture export that returns a C string.
func lookupText(t *testing.T, m *Module, name string) func() *byte {
	t.Helper()
	sym, err := lookupSymbol(m.handle, name)
	require.NoError(t, err)
	var fn func() *byte
	require.NoError(t, register(&fn, sym))
	return fn
}

func TestEngine_LoadAndInit(t *testing.T) {
	dir := buildEngines(t)
	m := loadEngine(t, dir, RoleGenerator)

	v, err := m.Version()
	require.NoError(t, err)
	assert.Equal(t, "fixture 1.0", v)

	abi, declared := m.ABIVersion()
	assert.True(t, declared)
	assert.Equal(t, SupportedABI, abi)

	level, err := goString("init level", lookupText(t, m, "init_level")())
	require.NoError(t, err)
	assert.Equal(t, QuietLogLevel, level)
}

func TestEngine_GenerateAndRender(t *testing.T) {
	dir := buildEngines(t)
	gen := loadEngine(t, dir, RoleGenerator)
	ren := loadEngine(t, dir, RoleRender)
	input := "/videos/lecture.mp4"
	output := filepath.Join(t.TempDir(), "lecture_cut.mp4")

	sink := &recordingSink{}
	token, err := ren.Prepare(input, sink)
	require.NoError(t, err)
	assert.Equal(t, "staged:"+input, token)

	res, err := gen.Generate(input, 2, false, sink)
	require.NoError(t, err)
	view, err := res.Cuts.View()
	require.NoError(t, err)
	assert.Equal(t, []Cut{{1, 2.5}, {10, 12}, {30, 31.5}}, view)
	assert.Equal(t, GeneratorStats{LenPreCut: float64(len(input)), LenPostCut: 2}, res.Stats)

	require.NoError(t, ren.Render(token, output, res.Cuts, 23, sink))
	written, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "token=staged:/videos/lecture.mp4 cuts=3 quality=23 removed=5.00\n", string(written))

	assert.Equal(t, []string{"Preparing", "Analyzing", "Analyzing", "Analyzing", "Rendering", "Rendering"}, sink.stages)
	assert.Equal(t, []float64{100, 12.5, 7.5, -1, 50, -1}, sink.advances)
}

func TestEngine_InvertChangesCutList(t *testing.T) {
	gen := loadEngine(t, buildEngines(t), RoleGenerator)

	res, err := gen.Generate("/videos/lecture.mp4", 0, true, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Cuts.Len())
}

func TestEngine_RenderGoOwnedCuts(t *testing.T) {
	ren := loadEngine(t, buildEngines(t), RoleRender)
	output := filepath.Join(t.TempDir(), "out.mp4")

	cuts := []Cut{{Start: 0, End: 4}}
	require.NoError(t, ren.Render("tok", output, CutListOf(cuts), 0, nil))
	written, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "token=tok cuts=1 quality=0 removed=4.00\n", string(written))
}

func TestEngine_BadStageNamesAreDropped(t *testing.T) {
	dir := buildEngines(t)
	gen := loadEngine(t, dir, RoleGenerator)
	ren := loadEngine(t, dir, RoleRender)
	output := filepath.Join(t.TempDir(), "out.mp4")

	sink := &recordingSink{}
	res, err := gen.Generate("/in.mp4", 99, false, sink)
	require.NoError(t, err)
	require.NoError(t, ren.Render("tok", output, res.Cuts, 99, sink))

	assert.FileExists(t, output)
	assert.Equal(t, []string{"Analyzing", "Analyzing", "Analyzing", "Rendering", "Rendering"}, sink.stages)
}

func TestEngine_GoStringFromEngineMemory(t *testing.T) {
	m := loadEngine(t, buildEngines(t), RoleRender)

	_, err := goString("text", lookupText(t, m, "bad_text")())
	var me *MarshalError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, "not valid UTF-8", me.Reason)

	_, err = goString("text", lookupText(t, m, "long_text")())
	require.ErrorAs(t, err, &me)
	assert.Equal(t, "unterminated string", me.Reason)
}

func TestEngine_WrongRole(t *testing.T) {
	gen := loadEngine(t, buildEngines(t), RoleGenerator)

	_, err := gen.Prepare("/in.mp4", nil)
	assert.ErrorIs(t, err, ErrWrongRole)
}

func TestEngine_ClosedModule(t *testing.T) {
	dir := buildEngines(t)
	m, err := Load(dir, RoleRender, nil)
	if errors.Is(err, ErrUnsupportedPlatform) {
		t.Skipf("struct-valued calls unavailable here: %v", err)
	}
	require.NoError(t, err)
	require.NoError(t, m.Close())

	_, err = m.Version()
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, m.Render("tok", "out", CutList{}, 0, nil), ErrClosed)
}
