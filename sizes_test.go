package icopack

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCleanSizes(t *testing.T) {
	tests := []struct {
		name        string
		in          []int
		wantKept    []int
		wantRemoved []int
	}{
		{
			name:        "mixed valid and invalid with duplicates",
			in:          []int{64, 16, 300, 0, 16},
			wantKept:    []int{16, 64},
			wantRemoved: []int{0, 300},
		},
		{
			name:     "already clean",
			in:       []int{16, 32},
			wantKept: []int{16, 32},
		},
		{
			name:     "unsorted",
			in:       []int{256, 48, 16},
			wantKept: []int{16, 48, 256},
		},
		{
			name:     "duplicates collapse",
			in:       []int{32, 32, 32},
			wantKept: []int{32},
		},
		{
			name:        "inclusive bounds",
			in:          []int{1, 256, 257},
			wantKept:    []int{1, 256},
			wantRemoved: []int{257},
		},
		{
			name:        "negative",
			in:          []int{-5, 20},
			wantKept:    []int{20},
			wantRemoved: []int{-5},
		},
		{
			name:        "all invalid",
			in:          []int{0, 500},
			wantRemoved: []int{0, 500},
		},
		{
			name: "empty",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kept, removed := cleanSizes(tt.in)
			if diff := cmp.Diff(tt.wantKept, kept); diff != "" {
				t.Errorf("kept mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantRemoved, removed); diff != "" {
				t.Errorf("removed mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
