//go:build arm64 && cgo && (linux || freebsd || windows)

package native

/*
#include <stdbool.h>
#include <stdint.h>
#include <stdlib.h>

typedef struct { double start; double end; } lc_cut;
typedef struct { long length; const lc_cut *cuts; } lc_cut_list;
typedef struct { double len_pre_cut; double len_post_cut; } lc_stats;
typedef struct { lc_cut_list cuts; lc_stats stats; } lc_result;
typedef void (*lc_progress)(const char *, double);
typedef lc_result (*lc_generate_fn)(const char *, int, bool, lc_progress);
typedef void (*lc_render_fn)(const char *, const char *, lc_cut_list, int, lc_progress);

static lc_result lc_generate(uintptr_t fn, const char *input, int aggressiveness, bool invert, uintptr_t progress) {
	return ((lc_generate_fn)fn)(input, aggressiveness, invert, (lc_progress)progress);
}

static void lc_render(uintptr_t fn, const char *token, const char *output, long length, uintptr_t cuts, int quality, uintptr_t progress) {
	lc_cut_list list = { length, (const lc_cut *)cuts };
	((lc_render_fn)fn)(token, output, list, quality, (lc_progress)progress);
}
*/
import "C"

import (
	"runtime"
	"unsafe"
)

// AAPCS64 returns the generator result through x8, which purego cannot set
// outside darwin. Both struct-valued calls go through C trampolines here.

func bindGenerate(sym uintptr) (generateFunc, error) {
	return func(input string, aggressiveness int32, invert bool, progress uintptr) GeneratorResult {
		in := C.CString(input)
		defer C.free(unsafe.Pointer(in))
		r := C.lc_generate(C.uintptr_t(sym), in, C.int(aggressiveness), C.bool(invert), C.uintptr_t(progress))
		return GeneratorResult{
			Cuts: CutList{Length: cLong(r.cuts.length), Cuts: (*Cut)(unsafe.Pointer(r.cuts.cuts))},
			Stats: GeneratorStats{
				LenPreCut:  float64(r.stats.len_pre_cut),
				LenPostCut: float64(r.stats.len_post_cut),
			},
		}
	}, nil
}

func bindRender(sym uintptr) (renderFunc, error) {
	return func(token, output string, cuts CutList, quality int32, progress uintptr) {
		tok := C.CString(token)
		defer C.free(unsafe.Pointer(tok))
		out := C.CString(output)
		defer C.free(unsafe.Pointer(out))

		var pin runtime.Pinner
		defer pin.Unpin()
		if cuts.Cuts != nil {
			pin.Pin(cuts.Cuts)
		}
		C.lc_render(C.uintptr_t(sym), tok, out, C.long(cuts.Length),
			C.uintptr_t(uintptr(unsafe.Pointer(cuts.Cuts))), C.int(quality), C.uintptr_t(progress))
	}, nil
}
