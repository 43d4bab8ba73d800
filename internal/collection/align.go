package collection

import (
	"context"
	"fmt"

	"github.com/go-strata/strata"
	"github.com/go-strata/strata/errors"
	igraph "github.com/go-strata/strata/internal/graph"
	ipartition "github.com/go-strata/strata/internal/partition"
)

// Align appends tasks combining two Collections partition-by-partition,
// resolving how their Partitions line up first:
//   - identical known divisions zip partitions pairwise
//   - differing known divisions are both re-sliced to the union of their
//     boundary values, so every output partition sees index-compatible inputs
//   - unknown divisions zip pairwise when partition counts match, but
//     operations declared positional refuse to proceed blind
//
// The combined Collection carries meta as its metadata sample.
func Align(left strata.Collection, right strata.Collection, op string, params []string, meta strata.OperablePartition, positional bool, fn strata.BinaryPartitionOperation) (strata.Collection, error) {
	graph := left.Graph()
	if right.Graph() != graph {
		if err := mergeGraph(graph, right.Graph()); err != nil {
			return nil, err
		}
	}
	name := igraph.TaskName(op, params, left.GraphName(), right.GraphName())

	ldivs := left.Divisions()
	rdivs := right.Divisions()
	switch {
	case ldivs.Known() && rdivs.Known() && ldivs.Equals(rdivs):
		zip(graph, left, right, name, fn)
		return FromGraph(graph, name, meta, ldivs), nil
	case ldivs.Known() && rdivs.Known():
		union, err := ldivs.Union(rdivs)
		if err != nil {
			return nil, err
		}
		lschema := left.GetSchema()
		rschema := right.GetSchema()
		for j := 0; j < union.NumPartitions(); j++ {
			lo, hi, hiInclusive := union.Interval(j)
			linputs := overlappingKeys(ldivs, left.GraphName(), lo, hi)
			rinputs := overlappingKeys(rdivs, right.GraphName(), lo, hi)
			nl := len(linputs)
			graph.AddTask(
				strata.TaskKey{Name: name, Index: j},
				append(linputs, rinputs...),
				func(ctx context.Context, values []strata.Value) (strata.Value, error) {
					lpart, err := sliceConcat(lschema, values[:nl], lo, hi, hiInclusive)
					if err != nil {
						return nil, err
					}
					rpart, err := sliceConcat(rschema, values[nl:], lo, hi, hiInclusive)
					if err != nil {
						return nil, err
					}
					return fn(lpart, rpart)
				},
			)
		}
		return FromGraph(graph, name, meta, union), nil
	default:
		if positional {
			return nil, errors.DivisionsNotKnownError{Op: op}
		}
		if left.NumPartitions() != right.NumPartitions() {
			return nil, errors.AlignmentError{Message: fmt.Sprintf(
				"cannot align %d partitions with %d without known divisions", left.NumPartitions(), right.NumPartitions())}
		}
		zip(graph, left, right, name, fn)
		return FromGraph(graph, name, meta, strata.UnknownDivisions(left.NumPartitions())), nil
	}
}

// zip pairs the i-th Partitions of two equal-length Collections
func zip(graph strata.Graph, left strata.Collection, right strata.Collection, name string, fn strata.BinaryPartitionOperation) {
	for i := 0; i < left.NumPartitions(); i++ {
		graph.AddTask(
			strata.TaskKey{Name: name, Index: i},
			[]strata.TaskKey{
				{Name: left.GraphName(), Index: i},
				{Name: right.GraphName(), Index: i},
			},
			func(ctx context.Context, values []strata.Value) (strata.Value, error) {
				lpart, err := ipartition.AsOperable(values[0])
				if err != nil {
					return nil, err
				}
				rpart, err := ipartition.AsOperable(values[1])
				if err != nil {
					return nil, err
				}
				return fn(lpart, rpart)
			},
		)
	}
}

// mergeGraph copies every task of src into dst. Content-addressed keys make
// this a safe union: identical tasks collide on identical keys and AddTask
// keeps the first.
func mergeGraph(dst strata.Graph, src strata.Graph) error {
	for _, key := range src.Keys() {
		task, err := src.GetTask(key)
		if err != nil {
			return err
		}
		dst.AddTask(key, task.Inputs(), task.Run)
	}
	return nil
}
