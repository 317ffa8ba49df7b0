//go:build !darwin && !(amd64 && (linux || freebsd || windows)) && !(arm64 && cgo && (linux || freebsd || windows))

package native

import (
	"fmt"
	"runtime"
)

// errStructCall covers every platform without a struct-valued call path.
// arm64 outside darwin has one only when built with cgo.
var errStructCall = fmt.Errorf("%w: struct-valued engine calls on %s/%s", ErrUnsupportedPlatform, runtime.GOOS, runtime.GOARCH)

func bindGenerate(uintptr) (generateFunc, error) { return nil, errStructCall }

func bindRender(uintptr) (renderFunc, error) { return nil, errStructCall }
