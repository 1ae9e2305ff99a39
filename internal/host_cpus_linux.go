// The number of CPUs of the host, regardless of any restriction, as listed in
// /proc/stat. This is informational only.

//go:build linux

package amicontained_internal

import (
	"fmt"

	"github.com/mackerelio/go-osstat/cpu"
)

func GetHostCpuCount() (int, error) {
	stats, err := cpu.Get()
	if err != nil {
		return 0, fmt.Errorf("cpu.Get(): %w", err)
	}
	return stats.CPUCount, nil
}
