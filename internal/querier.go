// The CPU count and thread recommendation queries.
//
// Every query re-reads the system state since the cpuset and the quota may be
// changed at any time (e.g. container update). The querier holds only
// immutable settings and the read buffer pool, so it is safe for concurrent
// use.

package amicontained_internal

import (
	"errors"
	"fmt"
	"io/fs"
	"sync"
)

var querierLog = NewCompLogger("querier")

type Querier struct {
	procRoot     string
	cgroupRoot   string
	threadPolicy *ThreadPolicyConfig
	bufPool      *ReadFileBufPool

	// The system queries, overridable for testing:
	affinityCpuList func() (*CpuList, error)
	onlineCpuCount  func() (int, error)
	hostCpuCount    func() (int, error)
	kernelInfo      func() (*KernelInfo, error)
}

func NewQuerier(cfg *AmicontainedConfig) (*Querier, error) {
	if cfg == nil {
		cfg = DefaultAmicontainedConfig()
	}
	maxReadSize, err := cfg.ParseMaxReadSize()
	if err != nil {
		return nil, fmt.Errorf("NewQuerier: %v", err)
	}
	threadPolicy := cfg.ThreadPolicyConfig
	if threadPolicy == nil {
		threadPolicy = DefaultThreadPolicyConfig()
	}
	if err := threadPolicy.Validate(); err != nil {
		return nil, fmt.Errorf("NewQuerier: %v", err)
	}
	procRoot, cgroupRoot := cfg.ProcRoot, cfg.CgroupRoot
	if procRoot == "" {
		procRoot = AMICONTAINED_CONFIG_PROC_ROOT_DEFAULT
	}
	if cgroupRoot == "" {
		cgroupRoot = AMICONTAINED_CONFIG_CGROUP_ROOT_DEFAULT
	}
	// Clone the policy so that later changes to the config have no effect:
	threadPolicyCopy := *threadPolicy
	return &Querier{
		procRoot:        procRoot,
		cgroupRoot:      cgroupRoot,
		threadPolicy:    &threadPolicyCopy,
		bufPool:         NewReadFileBufPool(READ_FILE_BUF_POOL_MAX_SIZE_DEFAULT, maxReadSize),
		affinityCpuList: GetAffinityCpuList,
		onlineCpuCount:  GetOnlineCpuCount,
		hostCpuCount:    GetHostCpuCount,
		kernelInfo:      GetKernelInfo,
	}, nil
}

// The cgroup state relevant to the queries:
type cgroupState struct {
	cpusetDir *CgroupDir
	cpuDir    *CgroupDir
}

func (q *Querier) loadCgroupState() (*cgroupState, error) {
	membership, err := q.readProcSelfCgroup()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// Kernel w/o cgroup support:
			querierLog.Debugf("no cgroup membership: %v", err)
			return &cgroupState{}, nil
		}
		return nil, err
	}
	mounts, err := q.readProcSelfMountinfo()
	if err != nil {
		querierLog.Warnf("%v, assume default cgroup layout under %q", err, q.cgroupRoot)
		mounts = nil
	}
	return &cgroupState{
		cpusetDir: q.LocateController(CPUSET_CONTROLLER, membership, mounts),
		cpuDir:    q.LocateController(CPU_CONTROLLER, membership, mounts),
	}, nil
}

// inspect builds the snapshot; the limits, which require additional reads, are
// resolved only if needed.
func (q *Querier) inspect(withLimits bool) (*CpuInfo, error) {
	affinity, err := q.affinityCpuList()
	if err != nil {
		return nil, err
	}
	info := &CpuInfo{
		AffinityCpus:  affinity.String(),
		AffinityCount: affinity.Count(),
	}

	cgState, err := q.loadCgroupState()
	if err != nil {
		return nil, err
	}

	usable := affinity
	if cgState.cpusetDir != nil {
		info.CgroupVersion = cgState.cpusetDir.Version
	}
	cpuset, cpusetSource, err := q.CgroupCpuset(cgState.cpusetDir)
	if err != nil {
		return nil, err
	}
	if cpuset != nil {
		info.CpusetCpus = cpuset.String()
		info.CpusetCount = cpuset.Count()
		info.CpusetSource = cpusetSource
		usable = affinity.Intersect(cpuset)
	}
	info.NumCpus = usable.Count()

	onlineCount, err := q.onlineCpuCount()
	if err != nil {
		querierLog.Warn(err)
	} else {
		info.OnlineCpus = onlineCount
		if onlineCount > 0 && info.NumCpus > onlineCount {
			info.NumCpus = onlineCount
		}
	}

	if info.NumCpus <= 0 {
		return nil, fmt.Errorf("affinity: %q, cpuset: %q: %w", info.AffinityCpus, info.CpusetCpus, ErrNoCpus)
	}

	if withLimits {
		if info.Limits, err = q.CgroupCpuLimits(cgState.cpuDir); err != nil {
			return nil, err
		}
		info.RecommendedThreads = RecommendThreads(info.NumCpus, info.Limits, q.threadPolicy)
	}
	return info, nil
}

// NumCpus returns the number of CPUs the task may run on.
func (q *Querier) NumCpus() (int, error) {
	info, err := q.inspect(false)
	if err != nil {
		return 0, err
	}
	return info.NumCpus, nil
}

// RecommendedThreads returns the number of threads the task should use.
func (q *Querier) RecommendedThreads() (int, error) {
	info, err := q.inspect(true)
	if err != nil {
		return 0, err
	}
	return info.RecommendedThreads, nil
}

// CpuInfo returns the full snapshot, including the informational host count
// and kernel info.
func (q *Querier) CpuInfo() (*CpuInfo, error) {
	info, err := q.inspect(true)
	if err != nil {
		return nil, err
	}
	if hostCount, err := q.hostCpuCount(); err != nil {
		querierLog.Warn(err)
	} else {
		info.HostCpus = hostCount
	}
	if info.Kernel, err = q.kernelInfo(); err != nil {
		querierLog.Warn(err)
	}
	return info, nil
}

// The default querier, used by the package level functions:
var defaultQuerier = struct {
	q  *Querier
	mu *sync.RWMutex
}{nil, &sync.RWMutex{}}

func GetDefaultQuerier() (*Querier, error) {
	defaultQuerier.mu.RLock()
	q := defaultQuerier.q
	defaultQuerier.mu.RUnlock()
	if q != nil {
		return q, nil
	}

	defaultQuerier.mu.Lock()
	defer defaultQuerier.mu.Unlock()
	if defaultQuerier.q == nil {
		q, err := NewQuerier(nil)
		if err != nil {
			return nil, err
		}
		defaultQuerier.q = q
	}
	return defaultQuerier.q, nil
}

// SetConfig replaces the default querier w/ one built from the config.
func SetConfig(cfg *AmicontainedConfig) error {
	q, err := NewQuerier(cfg)
	if err != nil {
		return err
	}
	defaultQuerier.mu.Lock()
	defaultQuerier.q = q
	defaultQuerier.mu.Unlock()
	return nil
}
