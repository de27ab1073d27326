//go:build !linux && !darwin && !windows

package volume

import "errors"

func classify(path string) (Kind, error) {
	return KindUnknown, errors.New("volume classification unsupported on this platform")
}
