//go:build !linux

package amicontained_internal

func ParseMountinfo(content []byte, source string) ([]*CgroupMount, error) {
	return nil, ErrUnsupportedPlatform
}
