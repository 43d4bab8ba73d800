package collection

import (
	"context"
	"fmt"

	"github.com/go-strata/strata"
	"github.com/go-strata/strata/errors"
	igraph "github.com/go-strata/strata/internal/graph"
	ipartition "github.com/go-strata/strata/internal/partition"
	"github.com/go-strata/strata/logging"
)

// collectionImpl implements Collection internally for Strata. A Collection
// is just {graph, name, metadata sample, divisions}: all transformations
// append tasks to the shared graph and return a new handle.
type collectionImpl struct {
	graph     strata.Graph
	name      string
	meta      strata.OperablePartition
	divisions strata.Divisions
	logger    *logging.Logger
}

// FromGraph wraps a graph, graph name, metadata sample and Divisions into a
// Collection. This function is not intended to be used directly: Collections
// are returned by constructor packages and operations.
func FromGraph(graph strata.Graph, name string, meta strata.OperablePartition, divisions strata.Divisions) strata.Collection {
	return &collectionImpl{
		graph:     graph,
		name:      name,
		meta:      meta,
		divisions: divisions,
		logger:    logging.GetDefaultLogger(),
	}
}

// GetSchema returns the Schema of this Collection
func (c *collectionImpl) GetSchema() strata.Schema {
	return c.meta.GetSchema()
}

// Meta returns the zero-row metadata sample for this Collection
func (c *collectionImpl) Meta() strata.OperablePartition {
	return c.meta
}

// Divisions returns the partition boundaries of this Collection
func (c *collectionImpl) Divisions() strata.Divisions {
	return c.divisions
}

// NumPartitions returns the number of Partitions in this Collection
func (c *collectionImpl) NumPartitions() int {
	return c.divisions.NumPartitions()
}

// GraphName returns the fingerprinted name of this Collection's output tasks
func (c *collectionImpl) GraphName() string {
	return c.name
}

// Graph returns the underlying task graph, shared between derived Collections
func (c *collectionImpl) Graph() strata.Graph {
	return c.graph
}

// OutputKeys returns the TaskKeys producing this Collection's Partitions,
// in ascending partition-index order
func (c *collectionImpl) OutputKeys() []strata.TaskKey {
	keys := make([]strata.TaskKey, c.NumPartitions())
	for i := range keys {
		keys[i] = strata.TaskKey{Name: c.name, Index: i}
	}
	return keys
}

// GetPartition returns a single-partition Collection aliasing partition i,
// failing with a range error if i is not in [0, NumPartitions())
func (c *collectionImpl) GetPartition(i int) (strata.Collection, error) {
	if i < 0 || i >= c.NumPartitions() {
		return nil, errors.RangeError{Index: i, NumPartitions: c.NumPartitions()}
	}
	name := igraph.TaskName("get-partition", []string{fmt.Sprintf("i=%d", i)}, c.name)
	c.graph.AddTask(
		strata.TaskKey{Name: name, Index: 0},
		[]strata.TaskKey{{Name: c.name, Index: i}},
		func(ctx context.Context, inputs []strata.Value) (strata.Value, error) {
			return inputs[0], nil
		},
	)
	divisions := strata.UnknownDivisions(1)
	if c.divisions.Known() {
		var err error
		divisions, err = strata.NewDivisions([]int64{c.divisions.Bound(i), c.divisions.Bound(i + 1)})
		if err != nil {
			return nil, err
		}
	}
	return &collectionImpl{
		graph:     c.graph,
		name:      name,
		meta:      c.meta.EmptyClone(),
		divisions: divisions,
		logger:    c.logger,
	}, nil
}

// To is a "functional operations" factory method for Collections, chaining
// operations onto the current one(s)
func (c *collectionImpl) To(ops ...*strata.CollectionOperation) (strata.Collection, error) {
	var next strata.Collection = c
	for _, op := range ops {
		result, err := op.Do(next)
		if err != nil {
			return nil, err
		}
		next = result
	}
	return next, nil
}

// Compute triggers execution of the graph through the given Scheduler and
// reassembles the result in ascending partition-index order
func (c *collectionImpl) Compute(ctx context.Context, sched strata.Scheduler) (strata.CollectedPartition, error) {
	targets := c.OutputKeys()
	results, err := sched.Run(ctx, c.graph, targets)
	if err != nil {
		return nil, err
	}
	parts := make([]strata.Partition, len(targets))
	for i, key := range targets {
		value, ok := results[key]
		if !ok {
			return nil, errors.MissingKeyError{Key: key.String()}
		}
		part, err := ipartition.AsOperable(value)
		if err != nil {
			return nil, err
		}
		parts[i] = part
	}
	merged, err := ipartition.Concat(c.GetSchema(), parts...)
	if err != nil {
		return nil, err
	}
	collected, ok := merged.(strata.CollectedPartition)
	if !ok {
		return nil, fmt.Errorf("merged result is not collectable")
	}
	return collected, nil
}

// MapPartitions appends a per-partition transformation to a Collection's
// graph, returning a new handle. The operation tag and parameter encoding
// feed the task-name fingerprint, so identical operations on identical
// inputs deduplicate to the same tasks.
func MapPartitions(c strata.Collection, op string, params []string, meta strata.OperablePartition, divisions strata.Divisions, fn strata.PartitionOperation) (strata.Collection, error) {
	name := igraph.TaskName(op, params, c.GraphName())
	graph := c.Graph()
	for i := 0; i < c.NumPartitions(); i++ {
		graph.AddTask(
			strata.TaskKey{Name: name, Index: i},
			[]strata.TaskKey{{Name: c.GraphName(), Index: i}},
			func(ctx context.Context, inputs []strata.Value) (strata.Value, error) {
				part, err := ipartition.AsOperable(inputs[0])
				if err != nil {
					return nil, err
				}
				return fn(part)
			},
		)
	}
	return FromGraph(graph, name, meta, divisions), nil
}
