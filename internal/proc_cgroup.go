// The cgroup membership of a task, from /proc/PID/cgroup:
//
//	hierarchy-ID:controller-list:cgroup-path
//
// e.g. for cgroup v2 (unified):
//
//	0::/system.slice/foo.service
//
// and for v1 (or hybrid, where both v1 and v2 lines are present):
//
//	12:cpu,cpuacct:/docker/0123abc
//	7:cpuset:/docker/0123abc
//	1:name=systemd:/docker/0123abc
//	0::/docker/0123abc

package amicontained_internal

import (
	"errors"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/prometheus/procfs"
)

const (
	PROC_SELF_CGROUP_REL_PATH = "self/cgroup"

	// Some kernels append this to the path of a removed cgroup:
	CGROUP_PATH_DELETED_SUFFIX = " (deleted)"
)

type CgroupMembership struct {
	// Whether the task belongs to the unified (v2) hierarchy and its path
	// therein:
	HasUnified  bool
	UnifiedPath string
	// v1 controller -> path. Named hierarchies (name=...) are not included
	// since they have no resource controllers.
	V1Paths map[string]string
}

// ControllerPath returns the path and version of the hierarchy handling the
// controller. In hybrid mode v1 takes precedence, since the controllers are
// bound to at most one hierarchy and the v2 one is typically controller-less.
func (m *CgroupMembership) ControllerPath(controller string) (string, int, bool) {
	if m == nil {
		return "", 0, false
	}
	if p, ok := m.V1Paths[controller]; ok {
		return p, 1, true
	}
	if m.HasUnified {
		return m.UnifiedPath, 2, true
	}
	return "", 0, false
}

func NewCgroupMembership(cgroups []procfs.Cgroup) *CgroupMembership {
	m := &CgroupMembership{V1Paths: make(map[string]string)}
	for _, cgroup := range cgroups {
		cgPath := cleanCgroupPath(cgroup.Path)
		if cgroup.HierarchyID == 0 && len(cgroup.Controllers) == 0 {
			m.HasUnified = true
			m.UnifiedPath = cgPath
			continue
		}
		for _, controller := range cgroup.Controllers {
			if controller == "" || strings.HasPrefix(controller, "name=") {
				continue
			}
			m.V1Paths[controller] = cgPath
		}
	}
	return m
}

func (q *Querier) readProcSelfCgroup() (*CgroupMembership, error) {
	procFs, err := procfs.NewFS(q.procRoot)
	if err != nil {
		return nil, err
	}
	proc, err := procFs.Self()
	if err != nil {
		return nil, err
	}
	cgroups, err := proc.Cgroups()
	if err != nil {
		// Read errors are passed as-is, anything else is a parse error:
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			return nil, err
		}
		return nil, invalidFormatError(filepath.Join(q.procRoot, PROC_SELF_CGROUP_REL_PATH), "%v", err)
	}
	return NewCgroupMembership(cgroups), nil
}

func cleanCgroupPath(p string) string {
	p = strings.TrimSuffix(p, CGROUP_PATH_DELETED_SUFFIX)
	if p == "" {
		return "/"
	}
	return path.Clean("/" + p)
}
