//go:build !linux

package amicontained_internal

func GetAffinityCpuList() (*CpuList, error) {
	return nil, ErrUnsupportedPlatform
}
