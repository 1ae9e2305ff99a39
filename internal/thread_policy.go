// Thread count recommendation.
//
// The starting point is the number of usable CPUs. A CFS quota caps the CPU
// time at quota/period CPUs worth, regardless of how many CPUs the task may run
// on, so the recommendation becomes the rounded quota, capped at the number of
// usable CPUs. Weight/shares are relative and only matter under contention;
// they are not factored in.

package amicontained_internal

import (
	"fmt"
)

const (
	QUOTA_ROUNDING_CEIL    = "ceil"
	QUOTA_ROUNDING_FLOOR   = "floor"
	QUOTA_ROUNDING_NEAREST = "nearest"

	THREAD_POLICY_CONFIG_QUOTA_ROUNDING_DEFAULT = QUOTA_ROUNDING_CEIL
	THREAD_POLICY_CONFIG_MIN_THREADS_DEFAULT    = 1
	THREAD_POLICY_CONFIG_MAX_THREADS_DEFAULT    = 0
)

type ThreadPolicyConfig struct {
	// How to convert a fractional quota into a number of threads: ceil, floor
	// or nearest. E.g. a 2.5 CPUs quota yields 3, 2 and 3 respectively.
	QuotaRounding string `yaml:"quota_rounding"`

	// Lower bound for the recommendation; it may exceed the number of usable
	// CPUs, should the application need a minimum level of parallelism.
	MinThreads int `yaml:"min_threads"`

	// Upper bound for the recommendation, if > 0:
	MaxThreads int `yaml:"max_threads"`
}

func DefaultThreadPolicyConfig() *ThreadPolicyConfig {
	return &ThreadPolicyConfig{
		QuotaRounding: THREAD_POLICY_CONFIG_QUOTA_ROUNDING_DEFAULT,
		MinThreads:    THREAD_POLICY_CONFIG_MIN_THREADS_DEFAULT,
		MaxThreads:    THREAD_POLICY_CONFIG_MAX_THREADS_DEFAULT,
	}
}

func (cfg *ThreadPolicyConfig) Validate() error {
	switch cfg.QuotaRounding {
	case QUOTA_ROUNDING_CEIL, QUOTA_ROUNDING_FLOOR, QUOTA_ROUNDING_NEAREST:
	default:
		return fmt.Errorf("invalid quota_rounding %q, want one of %q, %q or %q",
			cfg.QuotaRounding, QUOTA_ROUNDING_CEIL, QUOTA_ROUNDING_FLOOR, QUOTA_ROUNDING_NEAREST)
	}
	if cfg.MinThreads < 1 {
		return fmt.Errorf("invalid min_threads %d, want >= 1", cfg.MinThreads)
	}
	if cfg.MaxThreads < 0 {
		return fmt.Errorf("invalid max_threads %d, want >= 0", cfg.MaxThreads)
	}
	if cfg.MaxThreads > 0 && cfg.MaxThreads < cfg.MinThreads {
		return fmt.Errorf("max_threads %d < min_threads %d", cfg.MaxThreads, cfg.MinThreads)
	}
	return nil
}

// RoundQuota converts quota/period into a whole number of CPUs, using integer
// arithmetic to avoid float artifacts for exact multiples.
func RoundQuota(quotaUs, periodUs int64, rounding string) int {
	if quotaUs <= 0 || periodUs <= 0 {
		return 0
	}
	cpus, rem := quotaUs/periodUs, quotaUs%periodUs
	switch rounding {
	case QUOTA_ROUNDING_FLOOR:
		return int(cpus)
	case QUOTA_ROUNDING_NEAREST:
		if rem >= periodUs-rem {
			cpus++
		}
		return int(cpus)
	}
	if rem > 0 {
		cpus++
	}
	return int(cpus)
}

// RecommendThreads applies the policy to the number of usable CPUs and the
// elastic limits. The result is always >= 1.
func RecommendThreads(numCpus int, limits *CpuLimits, cfg *ThreadPolicyConfig) int {
	if cfg == nil {
		cfg = DefaultThreadPolicyConfig()
	}
	threads := numCpus
	if limits != nil && limits.HasQuota {
		if quotaThreads := RoundQuota(limits.QuotaUs, limits.PeriodUs, cfg.QuotaRounding); quotaThreads < threads {
			threads = quotaThreads
		}
	}
	if cfg.MaxThreads > 0 && threads > cfg.MaxThreads {
		threads = cfg.MaxThreads
	}
	if threads < cfg.MinThreads {
		threads = cfg.MinThreads
	}
	if threads < 1 {
		threads = 1
	}
	return threads
}
