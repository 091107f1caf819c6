package icopack

import "slices"

// MinSize and MaxSize bound the edge length of a single icon frame.
// The container format stores the edge length in one byte, with 0
// meaning 256.
const (
	MinSize = 1
	MaxSize = 256
)

// DefaultSizes is the standard set of Windows icon sizes.
var DefaultSizes = []int{16, 20, 24, 32, 40, 48, 64, 96, 128, 256}

// cleanSizes returns the working size list: sorted ascending,
// deduplicated and restricted to [MinSize, MaxSize]. Rejected sizes
// are returned separately, also in ascending order.
func cleanSizes(sizes []int) (kept, removed []int) {
	sorted := slices.Clone(sizes)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)
	for _, s := range sorted {
		if s < MinSize || s > MaxSize {
			removed = append(removed, s)
			continue
		}
		kept = append(kept, s)
	}
	return kept, removed
}
