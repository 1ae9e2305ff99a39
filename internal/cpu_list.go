// CPU list, as found in cpuset files and the like:
//
//	0-3,8,10-11
//
// i.e. comma separated CPU numbers or inclusive ranges thereof. The text form
// is handled by github.com/thediveo/cpus; the wrapper keeps the ranges sorted
// and merged, which is what counting and intersecting need.

package amicontained_internal

import (
	"fmt"
	"sort"
	"strings"

	"github.com/thediveo/cpus"
)

// CpuList is a set of logical CPU numbers, stored as sorted, non-overlapping,
// non-adjacent [from, to] ranges.
type CpuList struct {
	ranges cpus.List
}

// NewCpuList builds the list from ranges in any order, possibly overlapping.
func NewCpuList(ranges cpus.List) *CpuList {
	sorted := make(cpus.List, len(ranges))
	copy(sorted, ranges)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i][0] < sorted[j][0] })
	merged := make(cpus.List, 0, len(sorted))
	for _, r := range sorted {
		if n := len(merged); n > 0 && r[0] <= merged[n-1][1]+1 {
			merged[n-1][1] = max(merged[n-1][1], r[1])
			continue
		}
		merged = append(merged, r)
	}
	return &CpuList{ranges: merged}
}

// ParseCpuList parses the kernel list format. White space around the list is
// ignored and an empty list is valid.
func ParseCpuList(s string) (*CpuList, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return &CpuList{}, nil
	}
	ranges, err := cpus.NewList([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("cpu list %q: %v: %w", s, err, ErrInvalidFormat)
	}
	for _, r := range ranges {
		if r[1] < r[0] {
			return nil, fmt.Errorf("cpu list %q: reversed range %d-%d: %w", s, r[0], r[1], ErrInvalidFormat)
		}
	}
	return NewCpuList(ranges), nil
}

func (cl *CpuList) Has(cpu int) bool {
	if cl == nil || cpu < 0 {
		return false
	}
	for _, r := range cl.ranges {
		if uint(cpu) < r[0] {
			break
		}
		if uint(cpu) <= r[1] {
			return true
		}
	}
	return false
}

func (cl *CpuList) Count() int {
	if cl == nil {
		return 0
	}
	count := 0
	for _, r := range cl.ranges {
		count += int(r[1]-r[0]) + 1
	}
	return count
}

// Intersect returns a new list w/ the CPUs common to both.
func (cl *CpuList) Intersect(other *CpuList) *CpuList {
	res := &CpuList{}
	if cl == nil || other == nil {
		return res
	}
	a, b := cl.ranges, other.ranges
	for i, j := 0, 0; i < len(a) && j < len(b); {
		from, to := max(a[i][0], b[j][0]), min(a[i][1], b[j][1])
		if from <= to {
			res.ranges = append(res.ranges, [2]uint{from, to})
		}
		if a[i][1] < b[j][1] {
			i++
		} else {
			j++
		}
	}
	// Pieces of a range split in the other list may be adjacent:
	return NewCpuList(res.ranges)
}

// String returns the canonical list format, w/ ranges for consecutive CPUs.
func (cl *CpuList) String() string {
	if cl == nil {
		return ""
	}
	buf := &strings.Builder{}
	for i, r := range cl.ranges {
		if i > 0 {
			buf.WriteByte(',')
		}
		if r[1] > r[0] {
			fmt.Fprintf(buf, "%d-%d", r[0], r[1])
		} else {
			fmt.Fprintf(buf, "%d", r[0])
		}
	}
	return buf.String()
}
