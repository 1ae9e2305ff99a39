//go:build unix

package amicontained_internal

import (
	"fmt"

	"github.com/tklauser/go-sysconf"
)

// GetOnlineCpuCount returns the number of processors currently online, which
// caps any affinity derived count.
func GetOnlineCpuCount() (int, error) {
	n, err := sysconf.Sysconf(sysconf.SC_NPROCESSORS_ONLN)
	if err != nil {
		return 0, fmt.Errorf("sysconf(SC_NPROCESSORS_ONLN): %w", err)
	}
	return int(n), nil
}
