// Package volume classifies the filesystem volume underlying a directory so
// that the executor can clamp its IO concurrency when writing to slow or
// single-queue-depth media (network mounts, removable drives, optical
// drives), per the executor's concurrency-cap-reduction rule.
package volume

// Kind categorizes a filesystem volume for the purpose of IO concurrency
// decisions.
type Kind uint8

const (
	// KindUnknown indicates that classification could not be performed; the
	// executor treats this the same as KindLocal (fail open to the
	// configured concurrency limit).
	KindUnknown Kind = iota
	// KindLocal indicates an ordinary local, fixed-media volume.
	KindLocal
	// KindNetwork indicates a network-mounted volume (NFS, SMB/CIFS, AFP,
	// FUSE-backed network filesystems).
	KindNetwork
	// KindRemovable indicates removable media (USB flash storage, memory
	// cards).
	KindRemovable
	// KindOptical indicates optical media (CD/DVD-ROM).
	KindOptical
)

// SingleQueue reports whether volumes of this kind should be treated as
// having an effective IO queue depth of one, which is the executor's trigger
// for clamping concurrency to 1.
func (k Kind) SingleQueue() bool {
	switch k {
	case KindNetwork, KindRemovable, KindOptical:
		return true
	default:
		return false
	}
}

// String returns a human-readable name for the kind, used in log lines when
// the executor clamps concurrency.
func (k Kind) String() string {
	switch k {
	case KindLocal:
		return "local"
	case KindNetwork:
		return "network"
	case KindRemovable:
		return "removable"
	case KindOptical:
		return "optical"
	default:
		return "unknown"
	}
}

// Classify determines the Kind of the volume containing path. If
// classification fails (unsupported platform, stat error, permission
// denied), it returns KindUnknown and a non-nil error; callers should treat
// that as "assume local" per the executor's fail-open rule rather than
// treating it as fatal.
func Classify(path string) (Kind, error) {
	return classify(path)
}
