// Kernel identification for the CPU info report; the cgroup features (e.g. v2
// cpuset, available since 5.0) depend on the kernel release.

//go:build unix

package amicontained_internal

import (
	"bytes"
	"fmt"

	"golang.org/x/sys/unix"
)

func GetKernelInfo() (*KernelInfo, error) {
	zeroSuffixBufToString := func(buf []byte) string {
		i := bytes.IndexByte(buf, 0)
		if i < 0 {
			i = len(buf)
		}
		return string(buf[:i])
	}

	uname := unix.Utsname{}
	err := unix.Uname(&uname)
	if err != nil {
		return nil, fmt.Errorf("unix.Uname(): %w", err)
	}
	return &KernelInfo{
		Name:    zeroSuffixBufToString(uname.Sysname[:]),
		Release: zeroSuffixBufToString(uname.Release[:]),
		Machine: zeroSuffixBufToString(uname.Machine[:]),
	}, nil
}
