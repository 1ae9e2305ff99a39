// Build fake procfs/cgroupfs trees for testing, e.g.:
//
//	root := amicontained_testutils.NewFakeFs(t)
//	root.ProcSelf("proc", 4242)
//	root.WriteFiles(map[string]string{
//		"proc/self/cgroup":                        "0::/app\n",
//		"sys/fs/cgroup/app/cpuset.cpus.effective": "0-3\n",
//	})

package amicontained_testutils

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

type FakeFs struct {
	// The root dir, removed automatically at test end:
	Root string
	t    *testing.T
}

func NewFakeFs(t *testing.T) *FakeFs {
	return &FakeFs{Root: t.TempDir(), t: t}
}

// Path returns the absolute path for a path relative to the root.
func (ffs *FakeFs) Path(relPath string) string {
	return filepath.Join(ffs.Root, relPath)
}

func (ffs *FakeFs) WriteFile(relPath, content string) {
	ffs.t.Helper()
	path := ffs.Path(relPath)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		ffs.t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		ffs.t.Fatal(err)
	}
}

func (ffs *FakeFs) WriteFiles(files map[string]string) {
	ffs.t.Helper()
	for relPath, content := range files {
		ffs.WriteFile(relPath, content)
	}
}

func (ffs *FakeFs) MkdirAll(relPath string) {
	ffs.t.Helper()
	if err := os.MkdirAll(ffs.Path(relPath), 0o755); err != nil {
		ffs.t.Fatal(err)
	}
}

// Symlink creates relPath -> target; the target is used as-is, so a relative
// one is resolved from the link's dir.
func (ffs *FakeFs) Symlink(target, relPath string) {
	ffs.t.Helper()
	path := ffs.Path(relPath)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		ffs.t.Fatal(err)
	}
	if err := os.Symlink(target, path); err != nil {
		ffs.t.Fatal(err)
	}
}

// ProcSelf makes <procRelPath>/self a link to the <procRelPath>/<pid> dir, the
// way procfs presents it to the reading process.
func (ffs *FakeFs) ProcSelf(procRelPath string, pid int) {
	ffs.t.Helper()
	ffs.MkdirAll(filepath.Join(procRelPath, strconv.Itoa(pid)))
	ffs.Symlink(strconv.Itoa(pid), filepath.Join(procRelPath, "self"))
}
