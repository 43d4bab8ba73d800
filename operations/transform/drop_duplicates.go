package transform

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-strata/strata"
	"github.com/go-strata/strata/errors"
	icollection "github.com/go-strata/strata/internal/collection"
	igraph "github.com/go-strata/strata/internal/graph"
	ipartition "github.com/go-strata/strata/internal/partition"
)

// DropDuplicates removes Rows whose subset columns repeat a combination seen
// elsewhere in the Collection, keeping the "first" or "last" occurrence in
// index order. An empty subset considers all columns. Dropping every
// occurrence of duplicated rows (keep "false") is not supported.
// Duplicates are first removed within each Partition in parallel, then the
// survivors are concatenated and deduplicated into a single output Partition.
func DropDuplicates(keep string, subset ...string) *strata.CollectionOperation {
	return &strata.CollectionOperation{
		TaskType: strata.ReduceTaskType,
		Do: func(c strata.Collection) (strata.Collection, error) {
			switch keep {
			case "first", "last":
			case "false":
				return nil, errors.NotImplementedError{Op: "DropDuplicates", Reason: "keep=false requires comparing every occurrence across partitions"}
			default:
				return nil, fmt.Errorf("keep must be one of first, last or false, got %q", keep)
			}
			cols := subset
			if len(cols) == 0 {
				cols = c.GetSchema().ColumnNames()
			}
			for _, colName := range cols {
				if !c.GetSchema().HasColumn(colName) {
					return nil, errors.MissingColumnError{Name: colName}
				}
			}

			params := append([]string{fmt.Sprintf("keep=%s", keep)}, cols...)
			chunked, err := icollection.MapPartitions(c, "drop-duplicates-chunk", params, c.Meta().EmptyClone(), c.Divisions(),
				func(part strata.OperablePartition) (strata.OperablePartition, error) {
					return dedupPartition(part, cols, keep)
				},
			)
			if err != nil {
				return nil, err
			}

			graph := chunked.Graph()
			name := igraph.TaskName("drop-duplicates", params, chunked.GraphName())
			schema := c.GetSchema()
			graph.AddTask(
				strata.TaskKey{Name: name, Index: 0},
				chunked.OutputKeys(),
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
					return dedupPartition(merged, cols, keep)
				},
			)

			divisions := strata.UnknownDivisions(1)
			if c.Divisions().Known() {
				divisions, err = strata.NewDivisions([]int64{c.Divisions().Bound(0), c.Divisions().Bound(c.NumPartitions())})
				if err != nil {
					return nil, err
				}
			}
			return icollection.FromGraph(graph, name, c.Meta().EmptyClone(), divisions), nil
		},
	}
}

// dedupPartition removes repeated subset-column combinations within a single
// Partition, preserving index order among the survivors
func dedupPartition(part strata.OperablePartition, subset []string, keep string) (strata.OperablePartition, error) {
	keyOf := func(row strata.Row) (string, error) {
		values := make([]string, len(subset))
		for i, colName := range subset {
			value, err := row.Get(colName)
			if err != nil {
				return "", err
			}
			values[i] = fmt.Sprintf("%v", value)
		}
		return strings.Join(values, "\x00"), nil
	}

	kept := make(map[string]int, part.GetNumRows())
	for i := 0; i < part.GetNumRows(); i++ {
		key, err := keyOf(part.GetRow(i))
		if err != nil {
			return nil, err
		}
		if _, seen := kept[key]; !seen || keep == "last" {
			kept[key] = i
		}
	}

	out := part.EmptyClone()
	names := part.GetSchema().ColumnNames()
	for i := 0; i < part.GetNumRows(); i++ {
		row := part.GetRow(i)
		key, err := keyOf(row)
		if err != nil {
			return nil, err
		}
		if kept[key] != i {
			continue
		}
		orow, err := out.AppendEmptyRow(row.Pos())
		if err != nil {
			return nil, err
		}
		for _, colName := range names {
			value, err := row.Get(colName)
			if err != nil {
				return nil, err
			}
			if err := orow.Set(colName, value); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}
