// The public face of the package.
//
// Two queries, for sizing thread pools, worker groups and the like:
//   - NumCpus: the number of CPUs the process may run on, based on the CPU
//     affinity and the cgroup cpuset
//   - RecommendedThreads: the number of threads to use, which additionally
//     accounts for the cgroup CPU quota
//
// Both return a negative errno on failure, which makes them directly usable
// where a C style contract is expected; the Get... variants return a Go error
// instead. The values are not cached, every call re-evaluates the system
// state.

package libamicontained

import (
	"github.com/sirupsen/logrus"

	amicontained_internal "github.com/Netflix/libamicontained/internal"
)

type AmicontainedConfig = amicontained_internal.AmicontainedConfig
type ThreadPolicyConfig = amicontained_internal.ThreadPolicyConfig
type CpuInfo = amicontained_internal.CpuInfo
type CpuLimits = amicontained_internal.CpuLimits

const (
	QUOTA_ROUNDING_CEIL    = amicontained_internal.QUOTA_ROUNDING_CEIL
	QUOTA_ROUNDING_FLOOR   = amicontained_internal.QUOTA_ROUNDING_FLOOR
	QUOTA_ROUNDING_NEAREST = amicontained_internal.QUOTA_ROUNDING_NEAREST
)

// NumCpus returns the number of CPUs the process has access to, or a negative
// errno on failure.
func NumCpus() int {
	n, err := GetNumCpus()
	if err != nil {
		return ErrorCode(err)
	}
	return n
}

// If the scheduler configuration allows a substantially different number of
// CPUs to be used at different times (quotas vs. strict cpusets), the number of
// threads may be different from the number of CPUs the process has access to
// at this moment. RecommendedThreads returns that number, or a negative errno
// on failure.
func RecommendedThreads() int {
	n, err := GetRecommendedThreads()
	if err != nil {
		return ErrorCode(err)
	}
	return n
}

func GetNumCpus() (int, error) {
	q, err := amicontained_internal.GetDefaultQuerier()
	if err != nil {
		return 0, err
	}
	return q.NumCpus()
}

func GetRecommendedThreads() (int, error) {
	q, err := amicontained_internal.GetDefaultQuerier()
	if err != nil {
		return 0, err
	}
	return q.RecommendedThreads()
}

// GetCpuInfo returns all the values the counts are based upon, useful for
// logging at startup or troubleshooting.
func GetCpuInfo() (*CpuInfo, error) {
	q, err := amicontained_internal.GetDefaultQuerier()
	if err != nil {
		return nil, err
	}
	return q.CpuInfo()
}

// ErrorCode converts an error returned by this package into the negative errno
// returned by the int variants.
func ErrorCode(err error) int {
	return amicontained_internal.ErrorCode(err)
}

func DefaultConfig() *AmicontainedConfig {
	return amicontained_internal.DefaultAmicontainedConfig()
}

// LoadConfig loads the "amicontained_config" section of a YAML file; the rest
// of the file is ignored, so it can be a section of the application's config.
func LoadConfig(cfgFile string) (*AmicontainedConfig, error) {
	return amicontained_internal.LoadConfig(cfgFile, nil)
}

// SetConfig changes the settings used by the package level queries. The
// logger config is not applied, use SetLogger for that.
func SetConfig(cfg *AmicontainedConfig) error {
	return amicontained_internal.SetConfig(cfg)
}

// SetLogger applies the logger part of the config, nil for the default.
func SetLogger(cfg *AmicontainedConfig) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return amicontained_internal.SetLogger(cfg.LoggerConfig)
}

// The root logger. Needed only for tests where the logger is captured (see
// testutils/log_collector.go), its actual type is obscured:
//
//	func TestSomethingWithLogger(t *testing.T) {
//		tlc := amicontained_testutils.NewTestLogCollect(t, libamicontained.GetRootLogger(), nil)
//		defer tlc.RestoreLog()
//		...
//	}
func GetRootLogger() any { return amicontained_internal.RootLogger }

func NewCompLogger(comp string) *logrus.Entry {
	return amicontained_internal.NewCompLogger(comp)
}

// Update build info: version (semver) and git info. This function should be
// called *before* the runner is invoked, typically from an init() function.
func UpdateBuildInfo(version, gitInfo string) {
	amicontained_internal.Version = version
	amicontained_internal.GitInfo = gitInfo
}

// Run is the entry point of the amicontained command, its return value should
// be used as the process exit status.
func Run() int { return amicontained_internal.Run() }
