// The elastic CPU controls, i.e. those that cap or weigh the CPU time w/o
// restricting the set of CPUs: the CFS bandwidth quota and the weight (v2) or
// shares (v1).
//
// The quota is enforced at every level of the hierarchy, so the effective
// quota is the tightest one found on the path from the task's cgroup to the
// root. The weight is only meaningful relative to the siblings, so only the
// task's own cgroup is considered.

package amicontained_internal

import (
	"math/bits"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	CGROUP2_CPU_MAX_FILE    = "cpu.max"
	CGROUP2_CPU_WEIGHT_FILE = "cpu.weight"

	CGROUP1_CPU_CFS_QUOTA_FILE  = "cpu.cfs_quota_us"
	CGROUP1_CPU_CFS_PERIOD_FILE = "cpu.cfs_period_us"
	CGROUP1_CPU_SHARES_FILE     = "cpu.shares"

	CGROUP2_CPU_MAX_UNLIMITED  = "max"
	CGROUP_CPU_QUOTA_UNLIMITED = -1
)

type CpuLimits struct {
	// Whether a CFS quota is in effect and, if so, the quota and period in
	// microseconds; QuotaCpus = QuotaUs / PeriodUs.
	HasQuota    bool    `yaml:"has_quota" json:"has_quota"`
	QuotaUs     int64   `yaml:"quota_us,omitempty" json:"quota_us,omitempty"`
	PeriodUs    int64   `yaml:"period_us,omitempty" json:"period_us,omitempty"`
	QuotaCpus   float64 `yaml:"quota_cpus,omitempty" json:"quota_cpus,omitempty"`
	QuotaSource string  `yaml:"quota_source,omitempty" json:"quota_source,omitempty"`

	// v2 cpu.weight [1..10000] or v1 cpu.shares [2..262144], 0 if unknown:
	Weight int `yaml:"weight,omitempty" json:"weight,omitempty"`
	Shares int `yaml:"shares,omitempty" json:"shares,omitempty"`
}

// Whether the quota a/b is tighter than c/d, i.e. a*d < c*b, compared on the
// 128 bit products; all values are positive.
func quotaIsTighter(quotaA, periodA, quotaB, periodB int64) bool {
	hiL, loL := bits.Mul64(uint64(quotaA), uint64(periodB))
	hiR, loR := bits.Mul64(uint64(quotaB), uint64(periodA))
	return hiL < hiR || hiL == hiR && loL < loR
}

func (l *CpuLimits) applyQuota(quotaUs, periodUs int64, source string) {
	if l.HasQuota && !quotaIsTighter(quotaUs, periodUs, l.QuotaUs, l.PeriodUs) {
		return
	}
	l.HasQuota = true
	l.QuotaUs = quotaUs
	l.PeriodUs = periodUs
	l.QuotaCpus = float64(quotaUs) / float64(periodUs)
	l.QuotaSource = source
}

func parseCgroupInt(filePath, content string) (int64, error) {
	val, err := strconv.ParseInt(strings.TrimSpace(content), 10, 64)
	if err != nil {
		return 0, invalidFormatError(filePath, "%q: not an integer", content)
	}
	return val, nil
}

// ParseCpuMax parses the v2 cpu.max content, "$MAX $PERIOD", where $MAX may
// be "max" for no limit. The returned quota is -1 for no limit.
func ParseCpuMax(filePath, content string) (int64, int64, error) {
	fields := strings.Fields(content)
	if len(fields) < 1 || len(fields) > 2 {
		return 0, 0, invalidFormatError(filePath, "%q: want 1 or 2 fields", content)
	}
	periodUs := int64(0)
	if len(fields) == 2 {
		var err error
		if periodUs, err = parseCgroupInt(filePath, fields[1]); err != nil {
			return 0, 0, err
		}
		if periodUs <= 0 {
			return 0, 0, invalidFormatError(filePath, "%q: invalid period", content)
		}
	}
	if fields[0] == CGROUP2_CPU_MAX_UNLIMITED {
		return CGROUP_CPU_QUOTA_UNLIMITED, periodUs, nil
	}
	quotaUs, err := parseCgroupInt(filePath, fields[0])
	if err != nil {
		return 0, 0, err
	}
	if quotaUs <= 0 || periodUs <= 0 {
		return 0, 0, invalidFormatError(filePath, "%q: invalid quota/period", content)
	}
	return quotaUs, periodUs, nil
}

func (q *Querier) cgroup2CpuLimits(cd *CgroupDir, limits *CpuLimits) error {
	for _, dir := range cd.Ancestors() {
		filePath := filepath.Join(dir, CGROUP2_CPU_MAX_FILE)
		content, err := q.bufPool.ReadFileString(filePath)
		if err != nil {
			cgroupLog.Debugf("cpu limits: %v", err)
			continue
		}
		quotaUs, periodUs, err := ParseCpuMax(filePath, content)
		if err != nil {
			return err
		}
		if quotaUs > 0 {
			cgroupLog.Debugf("cpu limits: %s: quota=%dus, period=%dus", filePath, quotaUs, periodUs)
			limits.applyQuota(quotaUs, periodUs, filePath)
		}
	}

	filePath := filepath.Join(cd.Dir, CGROUP2_CPU_WEIGHT_FILE)
	if content, err := q.bufPool.ReadFileString(filePath); err == nil {
		weight, err := parseCgroupInt(filePath, content)
		if err != nil {
			return err
		}
		limits.Weight = int(weight)
	}
	return nil
}

func (q *Querier) cgroup1CpuLimits(cd *CgroupDir, limits *CpuLimits) error {
	for _, dir := range cd.Ancestors() {
		quotaPath := filepath.Join(dir, CGROUP1_CPU_CFS_QUOTA_FILE)
		content, err := q.bufPool.ReadFileString(quotaPath)
		if err != nil {
			cgroupLog.Debugf("cpu limits: %v", err)
			continue
		}
		quotaUs, err := parseCgroupInt(quotaPath, content)
		if err != nil {
			return err
		}
		if quotaUs <= 0 {
			// -1, i.e. unlimited.
			continue
		}
		periodPath := filepath.Join(dir, CGROUP1_CPU_CFS_PERIOD_FILE)
		content, err = q.bufPool.ReadFileString(periodPath)
		if err != nil {
			return err
		}
		periodUs, err := parseCgroupInt(periodPath, content)
		if err != nil {
			return err
		}
		if periodUs <= 0 {
			return invalidFormatError(periodPath, "%q: invalid period", content)
		}
		cgroupLog.Debugf("cpu limits: %s: quota=%dus, period=%dus", dir, quotaUs, periodUs)
		limits.applyQuota(quotaUs, periodUs, quotaPath)
	}

	filePath := filepath.Join(cd.Dir, CGROUP1_CPU_SHARES_FILE)
	if content, err := q.bufPool.ReadFileString(filePath); err == nil {
		shares, err := parseCgroupInt(filePath, content)
		if err != nil {
			return err
		}
		limits.Shares = int(shares)
	}
	return nil
}

// CgroupCpuLimits returns the elastic controls in effect for the task's cgroup.
// Missing files are not an error, they mean no control at that level.
func (q *Querier) CgroupCpuLimits(cd *CgroupDir) (*CpuLimits, error) {
	limits := &CpuLimits{}
	if cd == nil {
		return limits, nil
	}
	var err error
	if cd.Version == 2 {
		err = q.cgroup2CpuLimits(cd, limits)
	} else {
		err = q.cgroup1CpuLimits(cd, limits)
	}
	if err != nil {
		return nil, err
	}
	return limits, nil
}
