package amicontained_internal

import (
	"bytes"
	"fmt"
)

// CpuInfo is the snapshot of everything that went into the counts.
type CpuInfo struct {
	// The version of the hierarchy handling cpuset, 0 if none:
	CgroupVersion int `yaml:"cgroup_version" json:"cgroup_version"`

	AffinityCpus  string `yaml:"affinity_cpus" json:"affinity_cpus"`
	AffinityCount int    `yaml:"affinity_count" json:"affinity_count"`

	// The effective cpuset, if any, and the file it was read from:
	CpusetCpus   string `yaml:"cpuset_cpus,omitempty" json:"cpuset_cpus,omitempty"`
	CpusetCount  int    `yaml:"cpuset_count,omitempty" json:"cpuset_count,omitempty"`
	CpusetSource string `yaml:"cpuset_source,omitempty" json:"cpuset_source,omitempty"`

	OnlineCpus int `yaml:"online_cpus" json:"online_cpus"`
	HostCpus   int `yaml:"host_cpus,omitempty" json:"host_cpus,omitempty"`

	Kernel *KernelInfo `yaml:"kernel,omitempty" json:"kernel,omitempty"`

	Limits *CpuLimits `yaml:"limits,omitempty" json:"limits,omitempty"`

	NumCpus            int `yaml:"num_cpus" json:"num_cpus"`
	RecommendedThreads int `yaml:"recommended_threads,omitempty" json:"recommended_threads,omitempty"`
}

func (info *CpuInfo) String() string {
	buf := &bytes.Buffer{}
	fmt.Fprintf(buf, "num_cpus: %d\n", info.NumCpus)
	fmt.Fprintf(buf, "recommended_threads: %d\n", info.RecommendedThreads)
	fmt.Fprintf(buf, "affinity: %s (%d)\n", info.AffinityCpus, info.AffinityCount)
	if info.CpusetSource != "" {
		fmt.Fprintf(buf, "cpuset: %s (%d) from %s\n", info.CpusetCpus, info.CpusetCount, info.CpusetSource)
	} else {
		fmt.Fprintf(buf, "cpuset: none\n")
	}
	fmt.Fprintf(buf, "cgroup_version: %d\n", info.CgroupVersion)
	if limits := info.Limits; limits != nil {
		if limits.HasQuota {
			fmt.Fprintf(buf, "quota: %.03f cpus (%dus/%dus) from %s\n",
				limits.QuotaCpus, limits.QuotaUs, limits.PeriodUs, limits.QuotaSource)
		} else {
			fmt.Fprintf(buf, "quota: none\n")
		}
		if limits.Weight > 0 {
			fmt.Fprintf(buf, "weight: %d\n", limits.Weight)
		}
		if limits.Shares > 0 {
			fmt.Fprintf(buf, "shares: %d\n", limits.Shares)
		}
	}
	fmt.Fprintf(buf, "online_cpus: %d\n", info.OnlineCpus)
	if info.HostCpus > 0 {
		fmt.Fprintf(buf, "host_cpus: %d\n", info.HostCpus)
	}
	if info.Kernel != nil {
		fmt.Fprintf(buf, "kernel: %s\n", info.Kernel)
	}
	return buf.String()
}
