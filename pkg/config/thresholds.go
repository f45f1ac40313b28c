package config

import (
	"regexp"
	"sort"

	"github.com/matzehuels/meshview/pkg/errors"
)

// Buckets is the number of colour tiers.
const Buckets = 4

// Saturated is the index of the last bucket, used for values past every
// bound and for channels without bandwidth.
const Saturated = Buckets - 1

// Thresholds maps a numeric value to one of four colours.
// Bounds must be ascending.
type Thresholds struct {
	Bounds  [Buckets]float64
	Colours [Buckets]string
}

// Bucket returns the smallest index i such that Bounds[i] >= v, or the last
// bucket when v exceeds every bound. The result is always in [0, 3] and is
// non-decreasing in v.
func (t Thresholds) Bucket(v float64) int {
	i := sort.SearchFloat64s(t.Bounds[:], v)
	if i >= Buckets {
		return Saturated
	}
	return i
}

// Colour returns the colour of v's bucket.
func (t Thresholds) Colour(v float64) string {
	return t.Colours[t.Bucket(v)]
}

var colourRe = regexp.MustCompile(`^(#[0-9a-fA-F]{3,8}|[a-zA-Z]+|rgba?\([0-9., %]+\))$`)

// ValidColour reports whether c is safe to embed in a stylesheet.
func ValidColour(c string) bool { return colourRe.MatchString(c) }

// NewThresholds validates bounds and colours and builds Thresholds.
func NewThresholds(bounds []float64, colours []string) (Thresholds, error) {
	var t Thresholds
	if len(bounds) != Buckets || len(colours) != Buckets {
		return t, errors.New(errors.ErrCodeInvalidConfig, "colour settings need %d bounds and %d colours, got %d and %d",
			Buckets, Buckets, len(bounds), len(colours))
	}
	for i := range Buckets {
		if i > 0 && bounds[i] < bounds[i-1] {
			return t, errors.New(errors.ErrCodeInvalidConfig, "colour bounds must be ascending, got %v", bounds)
		}
		if !ValidColour(colours[i]) {
			return t, errors.New(errors.ErrCodeInvalidConfig, "invalid colour %q", colours[i])
		}
		t.Bounds[i] = bounds[i]
		t.Colours[i] = colours[i]
	}
	return t, nil
}
