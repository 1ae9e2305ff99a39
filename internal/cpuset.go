// The hard CPU restriction imposed via cpuset cgroup controller.

package amicontained_internal

import (
	"fmt"
	"path/filepath"
)

const (
	CGROUP2_CPUSET_EFFECTIVE_FILE = "cpuset.cpus.effective"
	CGROUP1_CPUSET_EFFECTIVE_FILE = "cpuset.effective_cpus"
	CGROUP1_CPUSET_CPUS_FILE      = "cpuset.cpus"
)

// The files to look for, in order, by cgroup version:
var cpusetFilesByVersion = map[int][]string{
	2: {CGROUP2_CPUSET_EFFECTIVE_FILE},
	1: {CGROUP1_CPUSET_EFFECTIVE_FILE, CGROUP1_CPUSET_CPUS_FILE},
}

// CgroupCpuset returns the effective cpuset of the task's cgroup. The cgroup
// may not have the controller enabled, in which case the nearest ancestor that
// does determines the set. The search stops at the 1st readable, non-empty
// file. A nil list w/ no error means that no restriction was found.
func (q *Querier) CgroupCpuset(cd *CgroupDir) (*CpuList, string, error) {
	if cd == nil {
		return nil, "", nil
	}
	for _, dir := range cd.Ancestors() {
		for _, fileName := range cpusetFilesByVersion[cd.Version] {
			filePath := filepath.Join(dir, fileName)
			content, err := q.bufPool.ReadFileString(filePath)
			if err != nil {
				cgroupLog.Debugf("cpuset: %v", err)
				continue
			}
			if content == "" {
				cgroupLog.Debugf("cpuset: %s: empty", filePath)
				continue
			}
			cpuList, err := ParseCpuList(content)
			if err != nil {
				return nil, filePath, fmt.Errorf("%s: %w", filePath, err)
			}
			cgroupLog.Debugf("cpuset: %s: %s (%d cpus)", filePath, cpuList, cpuList.Count())
			return cpuList, filePath, nil
		}
	}
	return nil, "", nil
}
