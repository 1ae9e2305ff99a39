//go:build !unix

package amicontained_internal

import (
	"runtime"
)

func GetOnlineCpuCount() (int, error) {
	return runtime.NumCPU(), nil
}
