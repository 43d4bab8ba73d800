// Package memory provides an in-memory constructor for Collections, useful
// for tests and for small datasets already materialized elsewhere
package memory

import (
	"context"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/go-strata/strata"
	"github.com/go-strata/strata/errors"
	icollection "github.com/go-strata/strata/internal/collection"
	igraph "github.com/go-strata/strata/internal/graph"
	ipartition "github.com/go-strata/strata/internal/partition"
)

// defaultPartitionSize is the number of rows per Partition when neither
// Divisions nor PartitionSize is configured
const defaultPartitionSize = 1024

// Conf configures an in-memory Collection. Data is supplied column-wise:
// one vector per Schema column, plus a sorted Index vector of the same
// length carrying each row's index value.
type Conf struct {
	Schema        strata.Schema
	Index         []int64
	Columns       map[string][]interface{}
	PartitionSize int              // rows per Partition when Divisions is unset. Defaults to 1024.
	Divisions     strata.Divisions // explicit partitioning; the zero value splits by PartitionSize instead
}

// CreateCollection produces a Collection over the configured data. With
// explicit Divisions, rows are assigned to Partitions by their index values,
// which must all fall within the outermost boundaries. Otherwise rows are
// chunked by PartitionSize, and the result carries known divisions whenever
// the Index is strictly increasing.
func CreateCollection(conf *Conf) (strata.Collection, error) {
	if conf.Schema == nil {
		return nil, fmt.Errorf("a Schema is required")
	}
	for _, colName := range conf.Schema.ColumnNames() {
		values, ok := conf.Columns[colName]
		if !ok {
			return nil, errors.MissingColumnError{Name: colName}
		}
		if len(values) != len(conf.Index) {
			return nil, fmt.Errorf("column %s holds %d values for %d index entries", colName, len(values), len(conf.Index))
		}
	}
	for i := 1; i < len(conf.Index); i++ {
		if conf.Index[i] < conf.Index[i-1] {
			return nil, fmt.Errorf("index values must be sorted, but %d follows %d", conf.Index[i], conf.Index[i-1])
		}
	}

	var starts []int
	divisions := conf.Divisions
	if divisions.Known() {
		var err error
		starts, err = splitByDivisions(conf.Index, divisions)
		if err != nil {
			return nil, err
		}
	} else {
		starts, divisions = splitBySize(conf.Index, conf.PartitionSize)
	}

	graph := igraph.CreateGraph()
	name := igraph.TaskName("extract-memory", contentParams(conf, starts, divisions))
	for i := 0; i < divisions.NumPartitions(); i++ {
		start := starts[i]
		end := len(conf.Index)
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		graph.AddTask(
			strata.TaskKey{Name: name, Index: i},
			nil,
			func(ctx context.Context, inputs []strata.Value) (strata.Value, error) {
				part := ipartition.CreatePartition(conf.Schema)
				for row := start; row < end; row++ {
					values := make(map[string]interface{}, len(conf.Columns))
					for _, colName := range conf.Schema.ColumnNames() {
						values[colName] = conf.Columns[colName][row]
					}
					if err := part.AppendRow(conf.Index[row], values); err != nil {
						return nil, err
					}
				}
				return part, nil
			},
		)
	}
	return icollection.FromGraph(graph, name, ipartition.CreatePartition(conf.Schema), divisions), nil
}

// splitByDivisions locates the first row of each Partition delimited by
// explicit Divisions, rejecting index values outside the outermost
// boundaries
func splitByDivisions(index []int64, divisions strata.Divisions) ([]int, error) {
	last := divisions.NumPartitions() - 1
	starts := make([]int, divisions.NumPartitions())
	row := 0
	for i := 0; i <= last; i++ {
		starts[i] = row
		lo, hi, hiInclusive := divisions.Interval(i)
		if row < len(index) && index[row] < lo {
			return nil, errors.DivisionsError{Message: fmt.Sprintf("index value %d falls below boundary %d", index[row], lo)}
		}
		for row < len(index) && (index[row] < hi || (hiInclusive && index[row] == hi)) {
			row++
		}
	}
	if row != len(index) {
		return nil, errors.DivisionsError{Message: fmt.Sprintf("index value %d falls beyond the last boundary", index[row])}
	}
	return starts, nil
}

// splitBySize chunks rows sequentially, deriving known divisions from the
// leading index value of each chunk when the index is strictly increasing
func splitBySize(index []int64, partitionSize int) ([]int, strata.Divisions) {
	if partitionSize < 1 {
		partitionSize = defaultPartitionSize
	}
	if len(index) == 0 {
		return []int{0}, strata.UnknownDivisions(1)
	}
	starts := make([]int, 0, (len(index)+partitionSize-1)/partitionSize)
	for start := 0; start < len(index); start += partitionSize {
		starts = append(starts, start)
	}

	strictlyIncreasing := true
	for i := 1; i < len(index); i++ {
		if index[i] == index[i-1] {
			strictlyIncreasing = false
			break
		}
	}
	if !strictlyIncreasing {
		return starts, strata.UnknownDivisions(len(starts))
	}
	bounds := make([]int64, 0, len(starts)+1)
	for _, start := range starts {
		bounds = append(bounds, index[start])
	}
	bounds = append(bounds, index[len(index)-1])
	divisions, err := strata.NewDivisions(bounds)
	if err != nil {
		return starts, strata.UnknownDivisions(len(starts))
	}
	return starts, divisions
}

// contentParams fingerprints the configured data and its partitioning, so
// that two Collections built over identical data with identical splits share
// extract tasks
func contentParams(conf *Conf, starts []int, divisions strata.Divisions) []string {
	digest := xxhash.New()
	for _, idx := range conf.Index {
		fmt.Fprintf(digest, "%d\x00", idx)
	}
	for _, colName := range conf.Schema.ColumnNames() {
		fmt.Fprintf(digest, "\x01%s\x00", colName)
		for _, value := range conf.Columns[colName] {
			fmt.Fprintf(digest, "%v\x00", value)
		}
	}
	for _, start := range starts {
		fmt.Fprintf(digest, "\x02%d", start)
	}
	return []string{
		fmt.Sprintf("data=%016x", digest.Sum64()),
		divisions.String(),
	}
}
