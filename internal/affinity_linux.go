// CPU affinity based CPU list

//go:build linux

package amicontained_internal

import (
	"fmt"
	"os"
	"unsafe"

	"github.com/thediveo/cpus"
	"golang.org/x/sys/unix"
)

const (
	// The initial mask size, that of the glibc cpu_set_t; the kernel rejects
	// masks smaller than nr_cpu_ids w/ EINVAL, in which case the size is
	// doubled, up to the max:
	AFFINITY_MASK_INITIAL_NUM_CPUS = 1024
	AFFINITY_MASK_MAX_NUM_CPUS     = 1 << 20
)

func schedGetaffinity(pid int, mask []uint64) (int, error) {
	n, _, errno := unix.RawSyscall(
		unix.SYS_SCHED_GETAFFINITY,
		uintptr(pid),
		uintptr(len(mask)*8),
		uintptr(unsafe.Pointer(&mask[0])),
	)
	if errno != 0 {
		return 0, errno
	}
	return int(n), nil
}

// affinityMaskRanges converts the mask words into CPU ranges.
func affinityMaskRanges(mask []uint64) cpus.List {
	ranges := make(cpus.List, 0)
	inRange := false
	for cpu := uint(0); cpu < uint(len(mask)*64); cpu++ {
		if mask[cpu/64]&(1<<(cpu%64)) == 0 {
			inRange = false
			continue
		}
		if inRange {
			ranges[len(ranges)-1][1] = cpu
		} else {
			ranges = append(ranges, [2]uint{cpu, cpu})
			inRange = true
		}
	}
	return ranges
}

// GetAffinityCpuList returns the CPUs in the affinity mask of the process.
func GetAffinityCpuList() (*CpuList, error) {
	pid := os.Getpid()
	for numCpus := AFFINITY_MASK_INITIAL_NUM_CPUS; ; numCpus *= 2 {
		mask := make([]uint64, numCpus/64)
		n, err := schedGetaffinity(pid, mask)
		if err == unix.EINVAL && numCpus < AFFINITY_MASK_MAX_NUM_CPUS {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("sched_getaffinity(%d, %d cpus): %w", pid, numCpus, err)
		}
		// The kernel copies only as many bytes as needed for nr_cpu_ids:
		return NewCpuList(affinityMaskRanges(mask[:(n+7)/8])), nil
	}
}
