// SPDX-License-Identifier: MIT

package manager

import (
	"fmt"
	"strings"

	"github.com/katalvlaran/clusterlist/structure"
)

// ListType selects how unordered pairs are stored.
type ListType int

const (
	// Full stores both (i,j) and (j,i).
	Full ListType = iota
	// Half stores only (i,j) with i < j.
	Half
)

// String implements fmt.Stringer.
func (t ListType) String() string {
	switch t {
	case Full:
		return "full"
	case Half:
		return "half"
	default:
		return fmt.Sprintf("ListType(%d)", int(t))
	}
}

// ParseListType accepts "half" or "full", case-insensitive.
func ParseListType(s string) (ListType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "full":
		return Full, nil
	case "half":
		return Half, nil
	default:
		return Full, fmt.Errorf("%q: %w", s, ErrListType)
	}
}

// Key tags a cluster order with the layer at which its indices are valid.
type Key struct {
	Order int
	Layer int
}

// String implements fmt.Stringer.
func (k Key) String() string { return fmt.Sprintf("(order=%d, layer=%d)", k.Order, k.Layer) }

// Atom describes a real atom or a periodic ghost image.
// For real atoms Owner == Index and Image is zero.
type Atom struct {
	Index    int
	Owner    int
	Image    [3]int
	Position structure.Vec3
	Type     int
	Ghost    bool
}
