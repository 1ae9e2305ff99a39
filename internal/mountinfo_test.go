//go:build linux

package amicontained_internal

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseMountinfo(t *testing.T) {
	data := strings.Join([]string{
		`22 1 259:2 / / rw,relatime shared:1 - ext4 /dev/nvme0n1p2 rw`,
		`25 22 0:23 / /sys rw,nosuid,nodev,noexec,relatime shared:7 - sysfs sysfs rw`,
		`30 25 0:26 / /sys/fs/cgroup rw,nosuid,nodev,noexec,relatime shared:9 - cgroup2 cgroup2 rw,nsdelegate,memory_recursiveprot`,
		`31 25 0:27 /docker/abc /sys/fs/cgroup/cpu,cpuacct ro,nosuid - cgroup cgroup rw,cpu,cpuacct`,
		`32 25 0:28 / /sys/fs/cgroup/cpuset rw master:3 - cgroup cgroup rw,cpuset`,
		`33 25 0:29 / /sys/fs/cgroup/systemd rw - cgroup cgroup rw,xattr,name=systemd`,
		`34 25 0:30 / /mnt/with\040space rw - cgroup2 cgroup2 rw`,
	}, "\n") + "\n"
	want := []*CgroupMount{
		{MountPoint: "/sys/fs/cgroup", Root: "/", Version: 2},
		{MountPoint: "/sys/fs/cgroup/cpu,cpuacct", Root: "/docker/abc", Version: 1, Controllers: []string{"cpu", "cpuacct"}},
		{MountPoint: "/sys/fs/cgroup/cpuset", Root: "/", Version: 1, Controllers: []string{"cpuset"}},
		{MountPoint: "/sys/fs/cgroup/systemd", Root: "/", Version: 1, Controllers: []string{"xattr"}},
		{MountPoint: "/mnt/with space", Root: "/", Version: 2},
	}
	got, err := ParseMountinfo([]byte(data), "mountinfo")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mounts mismatch (-want +got):\n%s", diff)
	}
	if !got[1].HasController(CPU_CONTROLLER) || got[1].HasController(CPUSET_CONTROLLER) {
		t.Errorf("HasController: unexpected result for %#v", got[1])
	}
}

func TestParseMountinfoEmpty(t *testing.T) {
	got, err := ParseMountinfo(nil, "mountinfo")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("want no mounts, got %#v", got)
	}
}

func TestParseMountinfoMalformed(t *testing.T) {
	for _, data := range []string{
		"30 25 0:26 / /sys/fs/cgroup rw cgroup2 cgroup2 rw\n",
		"30 25 0:26 /\n",
		"30 25 0:26 / /sys/fs/cgroup rw shared:9 - cgroup2\n",
		"34 25 0:30 / /mnt/bad\\0x9 rw - cgroup2 cgroup2 rw\n",
	} {
		if _, err := ParseMountinfo([]byte(data), "mountinfo"); err == nil {
			t.Errorf("ParseMountinfo(%q): want error, got nil", data)
		} else if ErrorCode(err) >= 0 {
			t.Errorf("ErrorCode(%v): want < 0, got %d", err, ErrorCode(err))
		}
	}
}

func TestCgroup1Controllers(t *testing.T) {
	for _, tc := range []struct {
		superOptions string
		want         []string
	}{
		{"rw,cpu,cpuacct", []string{"cpu", "cpuacct"}},
		{"ro,cpuset", []string{"cpuset"}},
		{"rw,name=systemd", nil},
		{"rw,cpuset,clone_children,release_agent=/x", []string{"cpuset", "clone_children"}},
		{"", nil},
	} {
		if diff := cmp.Diff(tc.want, cgroup1Controllers(tc.superOptions)); diff != "" {
			t.Errorf("cgroup1Controllers(%q) mismatch (-want +got):\n%s", tc.superOptions, diff)
		}
	}
}
