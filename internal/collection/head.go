package collection

import (
	"context"
	"fmt"

	"github.com/go-strata/strata"
	igraph "github.com/go-strata/strata/internal/graph"
	ipartition "github.com/go-strata/strata/internal/partition"
)

// Head returns a single-partition Collection holding the first n rows of
// this one, read from its first npartitions Partitions (-1 for all). If the
// consulted Partitions turn out to hold fewer than n rows, the materialized
// result carries what was found and a warning is logged.
func (c *collectionImpl) Head(n int, npartitions int) (strata.Collection, error) {
	if n < 0 {
		return nil, fmt.Errorf("Head requires a non-negative row count, got %d", n)
	}
	k := npartitions
	if k == -1 || k > c.NumPartitions() {
		k = c.NumPartitions()
	}
	if k < 1 {
		return nil, fmt.Errorf("Head requires at least one partition, got %d", npartitions)
	}

	name := igraph.TaskName("head", []string{fmt.Sprintf("n=%d", n), fmt.Sprintf("npartitions=%d", k)}, c.name)
	inputs := c.OutputKeys()[:k]
	schema := c.GetSchema()
	logger := c.logger
	spansAll := k == c.NumPartitions()
	c.graph.AddTask(
		strata.TaskKey{Name: name, Index: 0},
		inputs,
		func(ctx context.Context, values []strata.Value) (strata.Value, error) {
			parts := make([]strata.Partition, 0, len(values))
			for _, value := range values {
				part, err := ipartition.AsOperable(value)
				if err != nil {
					return nil, err
				}
				parts = append(parts, part)
			}
			merged, err := ipartition.Concat(schema, parts...)
			if err != nil {
				return nil, err
			}
			if merged.GetNumRows() < n {
				if spansAll {
					logger.Warnf("Head found only %d of %d requested rows", merged.GetNumRows(), n)
				} else {
					logger.Warnf("Head found only %d of %d requested rows in the first %d partitions. Pass -1 to search the whole Collection", merged.GetNumRows(), n, k)
				}
			}
			return takeFirst(merged, n)
		},
	)

	divisions := strata.UnknownDivisions(1)
	if c.divisions.Known() {
		var err error
		divisions, err = strata.NewDivisions([]int64{c.divisions.Bound(0), c.divisions.Bound(k)})
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

// takeFirst copies the leading n rows of part into a fresh Partition,
// returning every available row when the source holds fewer than n
func takeFirst(part strata.OperablePartition, n int) (strata.OperablePartition, error) {
	count := part.GetNumRows()
	if n < count {
		count = n
	}
	result := part.EmptyClone()
	builder, ok := result.(strata.BuildablePartition)
	if !ok {
		return nil, fmt.Errorf("partition is not buildable")
	}
	names := part.GetSchema().ColumnNames()
	for i := 0; i < count; i++ {
		row := part.GetRow(i)
		out, err := builder.AppendEmptyRow(row.Pos())
		if err != nil {
			return nil, err
		}
		for _, colName := range names {
			value, err := row.Get(colName)
			if err != nil {
				return nil, err
			}
			if err := out.Set(colName, value); err != nil {
				return nil, err
			}
		}
	}
	return result, nil
}
