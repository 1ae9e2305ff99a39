package amicontained_internal

import (
	"fmt"
	"testing"

	amicontained_testutils "github.com/Netflix/libamicontained/testutils"
)

const (
	TEST_PROC_ROOT   = "proc"
	TEST_CGROUP_ROOT = "sys/fs/cgroup"
	// proc/self -> proc/TEST_PROC_SELF_PID:
	TEST_PROC_SELF_PID = 4242
)

// Fake system for testing the queries:
type TestSystem struct {
	// Files relative to the fake fs root:
	Files map[string]string
	// Whether to generate a mountinfo w/ the cgroup mounts (relative to the
	// root, mount root), otherwise the default layout will be assumed:
	CgroupMounts []*CgroupMount
	Affinity     string
	AffinityErr  error
	OnlineCpus   int
	HostCpus     int
	Kernel       *KernelInfo
}

func (ts *TestSystem) mountinfo(ffs *amicontained_testutils.FakeFs) string {
	content := ""
	for i, mount := range ts.CgroupMounts {
		fsType, superOptions := CGROUP2_FS_TYPE, "rw"
		if mount.Version == 1 {
			fsType = CGROUP1_FS_TYPE
			for _, c := range mount.Controllers {
				superOptions += "," + c
			}
		}
		content += fmt.Sprintf(
			"%d 1 0:%d %s %s rw,nosuid - %s %s %s\n",
			100+i, 30+i, mount.Root, ffs.Path(mount.MountPoint), fsType, fsType, superOptions,
		)
	}
	return content
}

func newTestQuerier(t *testing.T, ts *TestSystem, cfg *AmicontainedConfig) (*Querier, *amicontained_testutils.FakeFs) {
	ffs := amicontained_testutils.NewFakeFs(t)
	ffs.ProcSelf(TEST_PROC_ROOT, TEST_PROC_SELF_PID)
	ffs.MkdirAll(TEST_CGROUP_ROOT)
	ffs.WriteFiles(ts.Files)
	if len(ts.CgroupMounts) > 0 {
		ffs.WriteFile(TEST_PROC_ROOT+"/"+PROC_SELF_MOUNTINFO_REL_PATH, ts.mountinfo(ffs))
	}

	if cfg == nil {
		cfg = DefaultAmicontainedConfig()
	}
	cfg.ProcRoot = ffs.Path(TEST_PROC_ROOT)
	cfg.CgroupRoot = ffs.Path(TEST_CGROUP_ROOT)
	q, err := NewQuerier(cfg)
	if err != nil {
		t.Fatal(err)
	}

	q.affinityCpuList = func() (*CpuList, error) {
		if ts.AffinityErr != nil {
			return nil, ts.AffinityErr
		}
		return ParseCpuList(ts.Affinity)
	}
	q.onlineCpuCount = func() (int, error) { return ts.OnlineCpus, nil }
	q.hostCpuCount = func() (int, error) { return ts.HostCpus, nil }
	q.kernelInfo = func() (*KernelInfo, error) { return ts.Kernel, nil }
	return q, ffs
}
