package amicontained_internal

import (
	"testing"
)

func TestKernelInfoVersion(t *testing.T) {
	for _, tc := range []struct {
		release string
		want    string
	}{
		{"5.4.0-42-generic", "5.4.0"},
		{"6.1.0", "6.1.0"},
		{"4.14.355-275.570.amzn2.x86_64", "4.14.355"},
		{"rc1", ""},
		{"", ""},
	} {
		ki := &KernelInfo{Release: tc.release}
		if got := ki.Version(); got != tc.want {
			t.Errorf("Version(%q): want %q, got %q", tc.release, tc.want, got)
		}
	}
}

func TestGetKernelInfo(t *testing.T) {
	ki, err := GetKernelInfo()
	if err != nil {
		t.Fatal(err)
	}
	if ki.Name == "" {
		t.Fatalf("empty name: %#v", ki)
	}
	t.Logf("kernel: %s (version %s)", ki, ki.Version())
}
