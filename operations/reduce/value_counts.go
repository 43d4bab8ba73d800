package reduce

import (
	"context"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/go-strata/strata"
	icollection "github.com/go-strata/strata/internal/collection"
	igraph "github.com/go-strata/strata/internal/graph"
	ipartition "github.com/go-strata/strata/internal/partition"
	"github.com/go-strata/strata/schema"
)

// ValueCounts reduces a Collection to the distinct values of a column and
// their occurrence counts, as a Collection of splitOut Partitions (0 selects
// 1). Distinct values are hash-sharded across output Partitions, so any
// value's count lives in exactly one of them; splitOut > 1 keeps wide
// results from bottlenecking on a single output Partition.
func ValueCounts(colName string, splitOut int) *strata.CollectionOperation {
	return &strata.CollectionOperation{
		TaskType: strata.ReduceTaskType,
		Do: func(c strata.Collection) (strata.Collection, error) {
			if splitOut == 0 {
				splitOut = 1
			}
			if splitOut < 1 {
				return nil, fmt.Errorf("splitOut must be at least 1, got %d", splitOut)
			}
			col, err := c.GetSchema().GetColumn(colName)
			if err != nil {
				return nil, err
			}
			out := schema.CreateSchema()
			if _, err := out.CreateColumn(colName, col.Type()); err != nil {
				return nil, err
			}
			if _, err := out.CreateColumn("count", &strata.Int64ColumnType{}); err != nil {
				return nil, err
			}

			params := []string{fmt.Sprintf("col=%s", colName), fmt.Sprintf("splitOut=%d", splitOut)}
			graph := c.Graph()
			chunkName := igraph.TaskName("value-counts-chunk", params, c.GraphName())
			for i := 0; i < c.NumPartitions(); i++ {
				graph.AddTask(
					strata.TaskKey{Name: chunkName, Index: i},
					[]strata.TaskKey{{Name: c.GraphName(), Index: i}},
					func(ctx context.Context, values []strata.Value) (strata.Value, error) {
						part, err := ipartition.AsOperable(values[0])
						if err != nil {
							return nil, err
						}
						counts, err := countValues(part, colName, func(row strata.Row) (int64, error) {
							return 1, nil
						})
						if err != nil {
							return nil, err
						}
						return counts.emit(out, 0, 1)
					},
				)
			}

			chunkKeys := make([]strata.TaskKey, c.NumPartitions())
			for i := range chunkKeys {
				chunkKeys[i] = strata.TaskKey{Name: chunkName, Index: i}
			}
			name := igraph.TaskName("value-counts", params, c.GraphName())
			for j := 0; j < splitOut; j++ {
				shard := j
				graph.AddTask(
					strata.TaskKey{Name: name, Index: shard},
					chunkKeys,
					func(ctx context.Context, values []strata.Value) (strata.Value, error) {
						parts := make([]strata.Partition, 0, len(values))
						for _, value := range values {
							part, err := ipartition.AsOperable(value)
							if err != nil {
								return nil, err
							}
							parts = append(parts, part)
						}
						merged, err := ipartition.Concat(out, parts...)
						if err != nil {
							return nil, err
						}
						counts, err := countValues(merged, colName, func(row strata.Row) (int64, error) {
							return row.GetInt64("count")
						})
						if err != nil {
							return nil, err
						}
						return counts.emit(out, shard, splitOut)
					},
				)
			}
			return icollection.FromGraph(graph, name, ipartition.CreatePartition(out), strata.UnknownDivisions(splitOut)), nil
		},
	}
}

// valueCounts accumulates per-value totals, remembering first-seen order so
// that output rows are deterministic
type valueCounts struct {
	colName string
	order   []interface{}
	totals  map[interface{}]int64
}

// countValues tallies the colName column of part, weighting each row by
// weight (1 for raw rows, the "count" cell for pre-counted rows)
func countValues(part strata.OperablePartition, colName string, weight func(row strata.Row) (int64, error)) (*valueCounts, error) {
	counts := &valueCounts{colName: colName, totals: make(map[interface{}]int64)}
	for i := 0; i < part.GetNumRows(); i++ {
		row := part.GetRow(i)
		value, err := row.Get(colName)
		if err != nil {
			return nil, err
		}
		w, err := weight(row)
		if err != nil {
			return nil, err
		}
		if _, seen := counts.totals[value]; !seen {
			counts.order = append(counts.order, value)
		}
		counts.totals[value] += w
	}
	return counts, nil
}

// emit writes the tallies belonging to the given shard into a fresh
// Partition, one row per distinct value in first-seen order
func (counts *valueCounts) emit(out strata.Schema, shard int, splitOut int) (strata.OperablePartition, error) {
	result := ipartition.CreatePartition(out)
	pos := int64(0)
	for _, value := range counts.order {
		if splitOut > 1 && shardOf(value, splitOut) != shard {
			continue
		}
		err := result.AppendRow(pos, map[string]interface{}{
			counts.colName: value,
			"count":        counts.totals[value],
		})
		if err != nil {
			return nil, err
		}
		pos++
	}
	return result, nil
}

// shardOf assigns a distinct value to one of splitOut output Partitions
func shardOf(value interface{}, splitOut int) int {
	return int(xxhash.Sum64String(fmt.Sprintf("%v", value)) % uint64(splitOut))
}
