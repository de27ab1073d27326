package fsops

import (
	"context"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/nalanj/treebackup/pkg/hashing"
	"github.com/nalanj/treebackup/pkg/stream"
)

// preemptCheckInterval bounds how often the hasher checks ctx during a
// streaming read, matching the stream package's interval-based design
// rather than checking on every single buffer write.
const preemptCheckInterval = 4

// Hasher computes SHA-256 digests over buffered sequential reads, honoring
// cooperative cancellation via a preemptable writer decorator.
type Hasher struct {
	algorithm hashing.Algorithm
}

// NewHasher constructs a Hasher pinned to the resolved algorithm (SHA-256
// per the overwrite detector's contract).
func NewHasher() *Hasher {
	return &Hasher{algorithm: hashing.AlgorithmSHA256.Resolve()}
}

func (h *Hasher) SHA256(ctx context.Context, path string) ([32]byte, error) {
	var digest [32]byte

	file, err := os.Open(path)
	if err != nil {
		return digest, errors.Wrap(err, "unable to open file for hashing")
	}
	defer file.Close()

	hasher := h.algorithm.Factory()()
	writer := stream.NewPreemptableWriter(hasher, ctx, preemptCheckInterval)

	buffer := make([]byte, bufferSize)
	if _, err := io.CopyBuffer(writer, file, buffer); err != nil {
		return digest, errors.Wrap(err, "unable to read file for hashing")
	}

	copy(digest[:], hasher.Sum(nil))
	return digest, nil
}
