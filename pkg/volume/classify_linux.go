package volume

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// networkFilesystemMagics lists statfs f_type values for filesystems that
// indicate network-mounted storage. Values are taken from the Linux kernel's
// magic.h (via golang.org/x/sys/unix); not exhaustive, but covers the
// filesystems an executor is realistically going to see mounted as a backup
// destination.
var networkFilesystemMagics = map[int64]bool{
	int64(unix.NFS_SUPER_MAGIC):   true,
	int64(unix.CIFS_MAGIC_NUMBER): true,
	int64(unix.SMB2_MAGIC_NUMBER): true,
	int64(unix.AFS_SUPER_MAGIC):   true,
	int64(unix.CODA_SUPER_MAGIC):  true,
	int64(unix.FUSE_SUPER_MAGIC):  true,
}

func classify(path string) (Kind, error) {
	var statfs unix.Statfs_t
	if err := unix.Statfs(path, &statfs); err != nil {
		return KindUnknown, errors.Wrap(err, "unable to query filesystem metadata")
	}

	if networkFilesystemMagics[int64(statfs.Type)] {
		return KindNetwork, nil
	}

	return KindLocal, nil
}
