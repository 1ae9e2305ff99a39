//go:build !unix

package amicontained_internal

import (
	"runtime"
)

func GetKernelInfo() (*KernelInfo, error) {
	return &KernelInfo{Name: runtime.GOOS, Machine: runtime.GOARCH}, nil
}
