package libamicontained

import (
	"testing"

	"github.com/sirupsen/logrus"

	amicontained_testutils "github.com/Netflix/libamicontained/testutils"
)

func TestNumCpusLive(t *testing.T) {
	tlc := amicontained_testutils.NewTestLogCollect(t, GetRootLogger(), nil)
	defer tlc.RestoreLog()

	numCpus, err := GetNumCpus()
	if err != nil {
		if code := ErrorCode(err); code >= 0 {
			t.Fatalf("ErrorCode(%v): want < 0, got %d", err, code)
		}
		t.Skipf("GetNumCpus: %v", err)
	}
	if numCpus < 1 {
		t.Fatalf("GetNumCpus: want >= 1, got %d", numCpus)
	}
	if n := NumCpus(); n < 1 {
		t.Fatalf("NumCpus: want >= 1, got %d", n)
	}

	threads := RecommendedThreads()
	if threads < 1 || threads > numCpus {
		t.Fatalf("RecommendedThreads: want [1..%d], got %d", numCpus, threads)
	}

	info, err := GetCpuInfo()
	if err != nil {
		t.Fatal(err)
	}
	t.Logf("\n%s", info)
	if info.NumCpus > info.AffinityCount {
		t.Fatalf("NumCpus %d > AffinityCount %d", info.NumCpus, info.AffinityCount)
	}
}

func TestSetConfig(t *testing.T) {
	tlc := amicontained_testutils.NewTestLogCollect(t, GetRootLogger(), nil)
	defer tlc.RestoreLog()
	defer SetConfig(nil)

	if _, err := GetNumCpus(); err != nil {
		t.Skipf("GetNumCpus: %v", err)
	}

	// A 1 CPU quota in the task's cgroup, found via the default layout since
	// there is no mountinfo:
	ffs := amicontained_testutils.NewFakeFs(t)
	ffs.ProcSelf("proc", 4242)
	ffs.WriteFiles(map[string]string{
		"proc/self/cgroup":             "0::/app\n",
		"sys/fs/cgroup/app/cpu.max":    "100000 100000\n",
		"sys/fs/cgroup/app/cpu.weight": "100\n",
	})
	cfg := DefaultConfig()
	cfg.ProcRoot = ffs.Path("proc")
	cfg.CgroupRoot = ffs.Path("sys/fs/cgroup")
	if err := SetConfig(cfg); err != nil {
		t.Fatal(err)
	}
	if got := RecommendedThreads(); got != 1 {
		t.Fatalf("RecommendedThreads: want 1, got %d", got)
	}

	cfg.ThreadPolicyConfig.QuotaRounding = "sideways"
	if err := SetConfig(cfg); err == nil {
		t.Fatal("SetConfig: want error for invalid rounding, got nil")
	}
	// The previous querier stays in effect:
	if got := RecommendedThreads(); got != 1 {
		t.Fatalf("RecommendedThreads: want 1, got %d", got)
	}
}

func TestSetLoggerDefault(t *testing.T) {
	defer SetLogger(nil)

	cfg := DefaultConfig()
	cfg.LoggerConfig.Level = "warn"
	if err := SetLogger(cfg); err != nil {
		t.Fatal(err)
	}
	if err := SetLogger(nil); err != nil {
		t.Fatal(err)
	}
	rootLogger := GetRootLogger().(interface{ GetLevel() any })
	if got := rootLogger.GetLevel(); got != any(logrus.InfoLevel) {
		t.Fatalf("level: want %v, got %v", logrus.InfoLevel, got)
	}
}
