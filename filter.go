package icopack

import (
	"fmt"
	"slices"
	"strings"

	"github.com/disintegration/imaging"
)

// Filter names a resampling kernel used when scaling the source image
// to each icon size. The names are part of the CLI surface and stay
// stable regardless of the image backend; the mapping to the backend's
// own kernels lives in resample.
type Filter string

const (
	FilterNearest  Filter = "nearest"
	FilterLinear   Filter = "linear"
	FilterCubic    Filter = "cubic" // Catmull-Rom
	FilterGaussian Filter = "gaussian"
	FilterLanczos  Filter = "lanczos" // window 3
)

const DefaultFilter = FilterCubic

var filters = map[Filter]imaging.ResampleFilter{
	FilterNearest:  imaging.NearestNeighbor,
	FilterLinear:   imaging.Linear,
	FilterCubic:    imaging.CatmullRom,
	FilterGaussian: imaging.Gaussian,
	FilterLanczos:  imaging.Lanczos,
}

// ParseFilter resolves a filter name from the command line,
// case-insensitively.
func ParseFilter(s string) (Filter, error) {
	f := Filter(strings.ToLower(s))
	if _, ok := filters[f]; !ok {
		return "", fmt.Errorf("unknown filter %q (available: %s)", s, strings.Join(FilterNames(), ", "))
	}
	return f, nil
}

// FilterNames returns the available filter names, sorted.
func FilterNames() []string {
	names := make([]string, 0, len(filters))
	for f := range filters {
		names = append(names, string(f))
	}
	slices.Sort(names)
	return names
}

func (f Filter) resample() imaging.ResampleFilter {
	r, ok := filters[f]
	if !ok {
		return filters[DefaultFilter]
	}
	return r
}

func (f Filter) String() string {
	return string(f)
}
