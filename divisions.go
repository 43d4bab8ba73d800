package strata

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-strata/strata/errors"
)

// Divisions is an ordered sequence of boundary values delimiting the
// Partitions of a Collection by index range. Known divisions enable
// range-based partition pruning and alignment; unknown divisions disable
// these optimizations. Partition i covers the half-open interval
// [Bound(i), Bound(i+1)), except for the final partition, whose upper
// boundary is inclusive.
type Divisions struct {
	bounds []int64
	nparts int
}

// NewDivisions validates a sequence of boundary values and produces known
// Divisions. Boundaries must be sorted and may only repeat at the very
// last position.
func NewDivisions(bounds []int64) (Divisions, error) {
	if len(bounds) < 2 {
		return Divisions{}, errors.DivisionsError{Message: fmt.Sprintf("at least 2 boundary values are required, got %d", len(bounds))}
	}
	for i := 1; i < len(bounds); i++ {
		if bounds[i] < bounds[i-1] {
			return Divisions{}, errors.DivisionsError{Message: fmt.Sprintf("boundary values must be sorted, but %d follows %d", bounds[i], bounds[i-1])}
		}
		if bounds[i] == bounds[i-1] && i != len(bounds)-1 {
			return Divisions{}, errors.DivisionsError{Message: fmt.Sprintf("boundary value %d may only repeat at the last position", bounds[i])}
		}
	}
	copied := make([]int64, len(bounds))
	copy(copied, bounds)
	return Divisions{bounds: copied, nparts: len(bounds) - 1}, nil
}

// UnknownDivisions produces all-unknown Divisions for a given partition count
func UnknownDivisions(numPartitions int) Divisions {
	return Divisions{nparts: numPartitions}
}

// Known returns true iff these Divisions carry boundary values
func (d Divisions) Known() bool {
	return d.bounds != nil
}

// NumPartitions returns the number of Partitions these Divisions delimit
func (d Divisions) NumPartitions() int {
	return d.nparts
}

// Bounds returns a copy of the boundary values, or nil if divisions are unknown
func (d Divisions) Bounds() []int64 {
	if d.bounds == nil {
		return nil
	}
	copied := make([]int64, len(d.bounds))
	copy(copied, d.bounds)
	return copied
}

// Bound returns the i-th boundary value
func (d Divisions) Bound(i int) int64 {
	return d.bounds[i]
}

// Interval returns the index range covered by partition i, along with
// whether the upper boundary is inclusive (true only for the final partition)
func (d Divisions) Interval(i int) (lo int64, hi int64, hiInclusive bool) {
	return d.bounds[i], d.bounds[i+1], i == d.nparts-1
}

// Equals returns true iff this and another Divisions are identical,
// including both being known
func (d Divisions) Equals(other Divisions) bool {
	if d.Known() != other.Known() || d.nparts != other.nparts {
		return false
	}
	for i := range d.bounds {
		if d.bounds[i] != other.bounds[i] {
			return false
		}
	}
	return true
}

// SameEndpoints returns true iff this and another known Divisions bound
// the same global index range
func (d Divisions) SameEndpoints(other Divisions) bool {
	if !d.Known() || !other.Known() {
		return false
	}
	return d.bounds[0] == other.bounds[0] && d.bounds[len(d.bounds)-1] == other.bounds[len(other.bounds)-1]
}

// Union merges this and another known Divisions into the sorted union of
// their boundary values
func (d Divisions) Union(other Divisions) (Divisions, error) {
	if !d.Known() || !other.Known() {
		return Divisions{}, errors.DivisionsNotKnownError{Op: "Union"}
	}
	seen := make(map[int64]bool)
	merged := make([]int64, 0, len(d.bounds)+len(other.bounds))
	for _, b := range d.bounds {
		if !seen[b] {
			seen[b] = true
			merged = append(merged, b)
		}
	}
	for _, b := range other.bounds {
		if !seen[b] {
			seen[b] = true
			merged = append(merged, b)
		}
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i] < merged[j] })
	return NewDivisions(merged)
}

// String returns a textual representation of these Divisions
func (d Divisions) String() string {
	if !d.Known() {
		return fmt.Sprintf("Divisions(unknown, %d partitions)", d.nparts)
	}
	strs := make([]string, len(d.bounds))
	for i, b := range d.bounds {
		strs[i] = fmt.Sprintf("%d", b)
	}
	return fmt.Sprintf("Divisions(%s)", strings.Join(strs, ", "))
}
