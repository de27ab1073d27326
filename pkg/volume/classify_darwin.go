package volume

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// fstypeMatches checks the null-terminated Fstypename buffer from a
// Statfs_t against a known filesystem type name.
func fstypeMatches(raw [16]int8, name string) bool {
	for i := 0; i < len(name); i++ {
		if i >= len(raw) || byte(raw[i]) != name[i] {
			return false
		}
	}
	return true
}

func classify(path string) (Kind, error) {
	var statfs unix.Statfs_t
	if err := unix.Statfs(path, &statfs); err != nil {
		return KindUnknown, errors.Wrap(err, "unable to query filesystem metadata")
	}

	// MNT_LOCAL is unset for network-mounted filesystems; this is the most
	// reliable cross-filesystem signal on Darwin, more robust than matching
	// individual network filesystem type names.
	if statfs.Flags&unix.MNT_LOCAL == 0 {
		return KindNetwork, nil
	}

	switch {
	case fstypeMatches(statfs.Fstypename, "nfs"),
		fstypeMatches(statfs.Fstypename, "smbfs"),
		fstypeMatches(statfs.Fstypename, "afpfs"),
		fstypeMatches(statfs.Fstypename, "webdav"):
		return KindNetwork, nil
	}

	return KindLocal, nil
}
