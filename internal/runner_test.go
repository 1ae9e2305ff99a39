package amicontained_internal

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

func testCpuInfo() *CpuInfo {
	return &CpuInfo{
		CgroupVersion: 2,
		AffinityCpus:  "0-7",
		AffinityCount: 8,
		CpusetCpus:    "0-3",
		CpusetCount:   4,
		CpusetSource:  "/sys/fs/cgroup/app/cpuset.cpus.effective",
		OnlineCpus:    8,
		HostCpus:      8,
		Limits: &CpuLimits{
			HasQuota:    true,
			QuotaUs:     250000,
			PeriodUs:    100000,
			QuotaCpus:   2.5,
			QuotaSource: "/sys/fs/cgroup/app/cpu.max",
			Weight:      100,
		},
		NumCpus:            4,
		RecommendedThreads: 3,
	}
}

func TestWriteCpuInfoText(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := WriteCpuInfo(buf, testCpuInfo(), OUTPUT_FORMAT_TEXT); err != nil {
		t.Fatal(err)
	}
	want := `num_cpus: 4
recommended_threads: 3
affinity: 0-7 (8)
cpuset: 0-3 (4) from /sys/fs/cgroup/app/cpuset.cpus.effective
cgroup_version: 2
quota: 2.500 cpus (250000us/100000us) from /sys/fs/cgroup/app/cpu.max
weight: 100
online_cpus: 8
host_cpus: 8
`
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatalf("text mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteCpuInfoTextNoCgroup(t *testing.T) {
	info := &CpuInfo{
		AffinityCpus:       "0-1",
		AffinityCount:      2,
		OnlineCpus:         2,
		Limits:             &CpuLimits{},
		NumCpus:            2,
		RecommendedThreads: 2,
	}
	want := `num_cpus: 2
recommended_threads: 2
affinity: 0-1 (2)
cpuset: none
cgroup_version: 0
quota: none
online_cpus: 2
`
	if diff := cmp.Diff(want, info.String()); diff != "" {
		t.Fatalf("text mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteCpuInfoStructured(t *testing.T) {
	for _, format := range []string{OUTPUT_FORMAT_JSON, OUTPUT_FORMAT_YAML} {
		t.Run(format, func(t *testing.T) {
			buf := &bytes.Buffer{}
			wantInfo := testCpuInfo()
			if err := WriteCpuInfo(buf, wantInfo, format); err != nil {
				t.Fatal(err)
			}
			t.Logf("\n%s", buf.String())

			gotInfo := &CpuInfo{}
			var err error
			if format == OUTPUT_FORMAT_JSON {
				err = json.Unmarshal(buf.Bytes(), gotInfo)
			} else {
				err = yaml.Unmarshal(buf.Bytes(), gotInfo)
			}
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(wantInfo, gotInfo); diff != "" {
				t.Fatalf("CpuInfo mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWriteCpuInfoInvalidFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := WriteCpuInfo(buf, testCpuInfo(), "xml"); err == nil {
		t.Fatal("want error, got nil")
	}
	if buf.Len() != 0 {
		t.Fatalf("want no output, got %q", buf.String())
	}
}
