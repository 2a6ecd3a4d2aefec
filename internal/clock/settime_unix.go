//go:build aix || darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris

package clock

import "golang.org/x/sys/unix"

// settimeofday steps the clock to whole seconds. The microsecond field
// stays zero: the exchange only carries one-second resolution, so
// there is nothing finer to write.
func settimeofday(sec int64) error {
	tv := unix.Timeval{Sec: sec}
	return unix.Settimeofday(&tv)
}
