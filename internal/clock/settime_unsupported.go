//go:build !(aix || darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris)

package clock

import (
	"fmt"
	"runtime"
)

func settimeofday(sec int64) error {
	return fmt.Errorf("stepping the clock is not supported on %s", runtime.GOOS)
}
