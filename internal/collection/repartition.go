package collection

import (
	"context"
	"fmt"

	"github.com/go-strata/strata"
	"github.com/go-strata/strata/errors"
	igraph "github.com/go-strata/strata/internal/graph"
	ipartition "github.com/go-strata/strata/internal/partition"
)

// RepartitionByDivisions re-splits this Collection to match new boundary
// values. The result covers exactly the same logical rows: each output
// partition is assembled by boundary-slicing and concatenating the
// overlapping source partitions. All validation happens before any task is
// appended to the graph.
func (c *collectionImpl) RepartitionByDivisions(divisions strata.Divisions, force bool) (strata.Collection, error) {
	if !divisions.Known() {
		return nil, errors.DivisionsError{Message: "target divisions must be known"}
	}
	if !c.divisions.Known() {
		return nil, errors.DivisionsNotKnownError{Op: "RepartitionByDivisions"}
	}
	if divisions.Equals(c.divisions) {
		return c, nil // repartitioning to the current divisions is the identity
	}
	if !force && !divisions.SameEndpoints(c.divisions) {
		return nil, errors.DivisionsError{Message: fmt.Sprintf(
			"new boundaries [%d, %d] do not match the current global range [%d, %d]. Set force to override",
			divisions.Bound(0), divisions.Bound(divisions.NumPartitions()),
			c.divisions.Bound(0), c.divisions.Bound(c.divisions.NumPartitions()))}
	}

	params := make([]string, 0, divisions.NumPartitions()+2)
	for _, b := range divisions.Bounds() {
		params = append(params, fmt.Sprintf("%d", b))
	}
	params = append(params, fmt.Sprintf("force=%t", force))
	name := igraph.TaskName("repartition-divisions", params, c.name)
	schema := c.GetSchema()
	for j := 0; j < divisions.NumPartitions(); j++ {
		lo, hi, hiInclusive := divisions.Interval(j)
		inputs := overlappingKeys(c.divisions, c.name, lo, hi)
		c.graph.AddTask(
			strata.TaskKey{Name: name, Index: j},
			inputs,
			func(ctx context.Context, values []strata.Value) (strata.Value, error) {
				return sliceConcat(schema, values, lo, hi, hiInclusive)
			},
		)
	}
	return FromGraph(c.graph, name, c.meta.EmptyClone(), divisions), nil
}

// RepartitionByCount re-splits this Collection into the given number of
// partitions, deriving new boundaries from the current ones: a smaller count
// subsets the existing boundaries, while a larger count splits intervals by
// linear interpolation
func (c *collectionImpl) RepartitionByCount(numPartitions int) (strata.Collection, error) {
	if numPartitions < 1 {
		return nil, errors.DivisionsError{Message: fmt.Sprintf("partition count must be at least 1, got %d", numPartitions)}
	}
	if !c.divisions.Known() {
		return nil, errors.DivisionsNotKnownError{Op: "RepartitionByCount"}
	}
	if numPartitions == c.NumPartitions() {
		return c, nil
	}
	bounds := c.divisions.Bounds()
	k := len(bounds) - 1
	newBounds := make([]int64, 0, numPartitions+1)
	if numPartitions < k {
		for j := 0; j <= numPartitions; j++ {
			newBounds = append(newBounds, bounds[j*k/numPartitions])
		}
	} else {
		base := numPartitions / k
		rem := numPartitions % k
		newBounds = append(newBounds, bounds[0])
		for i := 0; i < k; i++ {
			splits := base
			if i < rem {
				splits++
			}
			lo, hi := bounds[i], bounds[i+1]
			for s := 1; s <= splits; s++ {
				nb := lo + (hi-lo)*int64(s)/int64(splits)
				// narrow integer intervals cannot always honour the requested
				// count, so interior duplicates collapse into fewer partitions
				if nb > newBounds[len(newBounds)-1] || (i == k-1 && s == splits) {
					newBounds = append(newBounds, nb)
				}
			}
		}
	}
	divisions, err := strata.NewDivisions(newBounds)
	if err != nil {
		return nil, err
	}
	return c.RepartitionByDivisions(divisions, false)
}

// RepartitionBySize re-splits this Collection so that partitions hold
// approximately targetRows rows each. Current partition sizes are sampled
// through the given Scheduler, making this the only repartition flavour
// which computes before returning.
func (c *collectionImpl) RepartitionBySize(ctx context.Context, sched strata.Scheduler, targetRows int) (strata.Collection, error) {
	if targetRows < 1 {
		return nil, errors.DivisionsError{Message: fmt.Sprintf("target partition size must be at least 1 row, got %d", targetRows)}
	}
	if !c.divisions.Known() {
		return nil, errors.DivisionsNotKnownError{Op: "RepartitionBySize"}
	}
	results, err := sched.Run(ctx, c.graph, c.OutputKeys())
	if err != nil {
		return nil, err
	}
	total := 0
	for _, value := range results {
		part, err := ipartition.AsOperable(value)
		if err != nil {
			return nil, err
		}
		total += part.GetNumRows()
	}
	numPartitions := (total + targetRows - 1) / targetRows
	if numPartitions < 1 {
		numPartitions = 1
	}
	return c.RepartitionByCount(numPartitions)
}

// overlappingKeys returns the TaskKeys of the source partitions whose index
// intervals intersect [lo, hi]. Sources which only touch the interval
// endpoint contribute empty slices, which downstream concatenation preserves.
func overlappingKeys(divisions strata.Divisions, name string, lo int64, hi int64) []strata.TaskKey {
	keys := make([]strata.TaskKey, 0)
	for i := 0; i < divisions.NumPartitions(); i++ {
		ilo, ihi, _ := divisions.Interval(i)
		if ilo <= hi && ihi >= lo {
			keys = append(keys, strata.TaskKey{Name: name, Index: i})
		}
	}
	return keys
}

// sliceConcat boundary-slices each input to [lo, hi] and concatenates the
// slices in input order
func sliceConcat(schema strata.Schema, values []strata.Value, lo int64, hi int64, hiInclusive bool) (strata.OperablePartition, error) {
	parts := make([]strata.Partition, 0, len(values))
	for _, value := range values {
		part, err := ipartition.AsOperable(value)
		if err != nil {
			return nil, err
		}
		sliced, err := part.BoundarySlice(lo, hi, true, hiInclusive)
		if err != nil {
			return nil, err
		}
		parts = append(parts, sliced)
	}
	return ipartition.Concat(schema, parts...)
}
