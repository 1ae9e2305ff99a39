//go:build linux

package amicontained_internal

import (
	"bytes"

	"github.com/moby/sys/mountinfo"
)

// ParseMountinfo returns the cgroup mounts, in the order they appear.
func ParseMountinfo(content []byte, source string) ([]*CgroupMount, error) {
	infos, err := mountinfo.GetMountsFromReader(
		bytes.NewReader(content),
		mountinfo.FSTypeFilter(CGROUP2_FS_TYPE, CGROUP1_FS_TYPE),
	)
	if err != nil {
		return nil, invalidFormatError(source, "%v", err)
	}
	mounts := make([]*CgroupMount, 0, len(infos))
	for _, info := range infos {
		mount := &CgroupMount{
			MountPoint: info.Mountpoint,
			Root:       info.Root,
			Version:    2,
		}
		if info.FSType == CGROUP1_FS_TYPE {
			mount.Version = 1
			mount.Controllers = cgroup1Controllers(info.VFSOptions)
		}
		mounts = append(mounts, mount)
	}
	return mounts, nil
}
