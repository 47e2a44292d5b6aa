package snapshot

import (
	"errors"
	"fmt"
)

var (
	// ErrCorrupt indicates an encoding that cannot be decoded.
	ErrCorrupt = errors.New("snapshot: corrupt encoding")

	// ErrNotFound indicates a missing store key.
	ErrNotFound = errors.New("snapshot: not found")

	// ErrNoPath indicates a persistent store opened without a directory.
	ErrNoPath = errors.New("snapshot: directory is required for a persistent store")

	// ErrBadKey indicates a malformed key string.
	ErrBadKey = errors.New("snapshot: malformed key")

	// ErrOrder indicates an order the snapshot does not hold.
	ErrOrder = errors.New("snapshot: order out of range")
)

func snapshotErrorf(method string, err error) error {
	return fmt.Errorf("snapshot.%s: %w", method, err)
}
