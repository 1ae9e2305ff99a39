package amicontained_internal

import (
	"strings"
)

type KernelInfo struct {
	Name    string `yaml:"name" json:"name"`       // e.g. Linux
	Release string `yaml:"release" json:"release"` // e.g. 5.4.0-42-generic
	Machine string `yaml:"machine" json:"machine"` // e.g. x86_64
}

// Version returns the leading numeric part of the release, e.g. 5.4.0 for
// 5.4.0-42-generic.
func (ki *KernelInfo) Version() string {
	if i := strings.IndexFunc(ki.Release, func(c rune) bool {
		return c != '.' && (c < '0' || '9' < c)
	}); i >= 0 {
		return ki.Release[:i]
	}
	return ki.Release
}

func (ki *KernelInfo) String() string {
	return strings.TrimSpace(ki.Name + " " + ki.Release + " " + ki.Machine)
}
