package volume

import (
	"path/filepath"
	"syscall"

	"golang.org/x/sys/windows"
)

func classify(path string) (Kind, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return KindUnknown, err
	}

	volume := filepath.VolumeName(abs)
	if volume == "" {
		return KindUnknown, nil
	}

	rootPtr, err := syscall.UTF16PtrFromString(volume + `\`)
	if err != nil {
		return KindUnknown, err
	}

	switch windows.GetDriveType(rootPtr) {
	case windows.DRIVE_REMOTE:
		return KindNetwork, nil
	case windows.DRIVE_REMOVABLE:
		return KindRemovable, nil
	case windows.DRIVE_CDROM:
		return KindOptical, nil
	case windows.DRIVE_FIXED, windows.DRIVE_RAMDISK:
		return KindLocal, nil
	default:
		return KindUnknown, nil
	}
}
