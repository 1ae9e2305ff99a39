// Locate the task's cgroup directory for a given controller.
//
// The directory is <mount point>/<cgroup path relative to the mount root>,
// based on /proc/self/cgroup and /proc/self/mountinfo. Should the latter be
// unusable, the conventional layout under the cgroup root is assumed:
//   - v2: <cgroup root>/<cgroup path>
//   - v1: <cgroup root>/<controller>/<cgroup path>

package amicontained_internal

import (
	"path/filepath"
	"strings"
)

const (
	CPUSET_CONTROLLER = "cpuset"
	CPU_CONTROLLER    = "cpu"
)

var cgroupLog = NewCompLogger("cgroup")

type CgroupDir struct {
	// The task's cgroup directory:
	Dir string
	// The hierarchy mount point, i.e. the top of the walk up:
	Top     string
	Version int
}

// Ancestors returns the task's cgroup dir followed by its parents, up to and
// including the hierarchy mount point.
func (cd *CgroupDir) Ancestors() []string {
	dirs := make([]string, 0)
	dir := filepath.Clean(cd.Dir)
	top := filepath.Clean(cd.Top)
	for {
		dirs = append(dirs, dir)
		if dir == top {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir || !isSubdir(parent, top) {
			break
		}
		dir = parent
	}
	return dirs
}

func isSubdir(dir, top string) bool {
	return dir == top || top == "/" || strings.HasPrefix(dir, top+"/")
}

// relCgroupPath returns the cgroup path relative to the mount root. If the
// path is not under the root, which happens when the mount was made in a
// different cgroup namespace, the path is used as-is.
func relCgroupPath(mountRoot, cgPath string) string {
	switch {
	case mountRoot == "" || mountRoot == "/":
		return cgPath
	case cgPath == mountRoot:
		return "/"
	case strings.HasPrefix(cgPath, mountRoot+"/"):
		return cgPath[len(mountRoot):]
	}
	return cgPath
}

func findCgroupMount(mounts []*CgroupMount, controller string, version int, cgPath string) *CgroupMount {
	var found *CgroupMount
	for _, mount := range mounts {
		if mount.Version != version || (version == 1 && !mount.HasController(controller)) {
			continue
		}
		// The same hierarchy may be mounted more than once; prefer the mount
		// whose root contains the path.
		if mount.Root == "/" || cgPath == mount.Root || strings.HasPrefix(cgPath, mount.Root+"/") {
			return mount
		}
		if found == nil {
			found = mount
		}
	}
	return found
}

// LocateController returns the cgroup dir for the controller or nil if the
// task is not a member of any hierarchy handling it.
func (q *Querier) LocateController(controller string, membership *CgroupMembership, mounts []*CgroupMount) *CgroupDir {
	cgPath, version, ok := membership.ControllerPath(controller)
	if !ok {
		cgroupLog.Debugf("%s: no cgroup membership", controller)
		return nil
	}

	if mount := findCgroupMount(mounts, controller, version, cgPath); mount != nil {
		cd := &CgroupDir{
			Dir:     filepath.Join(mount.MountPoint, relCgroupPath(mount.Root, cgPath)),
			Top:     mount.MountPoint,
			Version: version,
		}
		cgroupLog.Debugf("%s: cgroup v%d dir: %q (mount point: %q)", controller, version, cd.Dir, cd.Top)
		return cd
	}

	top := q.cgroupRoot
	if version == 1 {
		top = filepath.Join(top, controller)
	}
	cd := &CgroupDir{
		Dir:     filepath.Join(top, cgPath),
		Top:     top,
		Version: version,
	}
	cgroupLog.Debugf("%s: no cgroup v%d mount, using default cgroup dir: %q", controller, version, cd.Dir)
	return cd
}
