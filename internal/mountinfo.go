// Locate the cgroup hierarchies via /proc/PID/mountinfo, see proc(5):
//
//	36 35 98:0 /mnt1 /mnt2 rw,noatime master:1 - ext3 /dev/root rw,errors=continue
//	(1)(2)(3)   (4)   (5)      (6)      (7)   (8) (9)   (10)         (11)
//
// (4) is the root of the mount within the filesystem, (5) the mount point,
// (7) zero or more optional fields terminated by "-", (9) the filesystem type
// and (11) the super options, which for cgroup v1 list the controllers.

package amicontained_internal

import (
	"path/filepath"
	"strings"
)

const (
	PROC_SELF_MOUNTINFO_REL_PATH = "self/mountinfo"

	CGROUP2_FS_TYPE = "cgroup2"
	CGROUP1_FS_TYPE = "cgroup"
)

type CgroupMount struct {
	MountPoint string
	// The cgroup path mounted at mount point; not "/" if the task's cgroup
	// namespace is not the one the mount was made in (e.g. a container w/o
	// cgroup namespace getting the host's hierarchy bind mounted):
	Root    string
	Version int
	// v1 only:
	Controllers []string
}

func (cm *CgroupMount) HasController(controller string) bool {
	for _, c := range cm.Controllers {
		if c == controller {
			return true
		}
	}
	return false
}

// The super options of a v1 mount list its controllers, alongside the generic
// flags and the named hierarchy, if any.
func cgroup1Controllers(superOptions string) []string {
	var controllers []string
	for _, opt := range strings.Split(superOptions, ",") {
		switch {
		case opt == "", opt == "rw", opt == "ro":
		case strings.Contains(opt, "="):
		default:
			controllers = append(controllers, opt)
		}
	}
	return controllers
}

func (q *Querier) readProcSelfMountinfo() ([]*CgroupMount, error) {
	source := filepath.Join(q.procRoot, PROC_SELF_MOUNTINFO_REL_PATH)
	b, err := q.bufPool.ReadFile(source)
	if b != nil {
		defer q.bufPool.ReturnBuf(b)
	}
	if err != nil {
		return nil, err
	}
	return ParseMountinfo(b.Bytes(), source)
}
