// Error codes for the int returning queries.
//
// The queries report failure as a negative errno. Internally errors are plain
// Go errors, with the errno (if any) somewhere in the wrap chain; the mapping
// below extracts it at the public boundary.

package amicontained_internal

import (
	"errors"
	"fmt"
	"io/fs"
	"syscall"
)

var (
	// Malformed procfs or cgroupfs content:
	ErrInvalidFormat = fmt.Errorf("invalid format: %w", syscall.EINVAL)

	// The query is not available on this platform:
	ErrUnsupportedPlatform = fmt.Errorf("unsupported platform: %w", syscall.ENOSYS)

	// The computed count is not usable, e.g. empty cpuset intersection:
	ErrNoCpus = fmt.Errorf("no usable CPUs: %w", syscall.EINVAL)
)

// ErrorCode maps an error to the negative errno convention: nil -> 0, an
// embedded syscall.Errno -> -errno, a "not exist" error -> -ENOENT and
// anything else -> -EINVAL.
func ErrorCode(err error) int {
	if err == nil {
		return 0
	}
	var errno syscall.Errno
	if errors.As(err, &errno) && errno != 0 {
		return -int(errno)
	}
	if errors.Is(err, fs.ErrNotExist) {
		return -int(syscall.ENOENT)
	}
	return -int(syscall.EINVAL)
}

func invalidFormatError(path string, format string, args ...any) error {
	return fmt.Errorf("%s: %s: %w", path, fmt.Sprintf(format, args...), ErrInvalidFormat)
}
