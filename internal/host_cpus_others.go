//go:build !linux

package amicontained_internal

import (
	"runtime"
)

func GetHostCpuCount() (int, error) {
	return runtime.NumCPU(), nil
}
