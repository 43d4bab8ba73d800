// Package reduce provides apply-concat-apply reductions over Collections,
// along with ready-made aggregations built on top of them
package reduce

import (
	"context"
	"fmt"
	"sort"

	"github.com/go-strata/strata"
	"github.com/go-strata/strata/errors"
	icollection "github.com/go-strata/strata/internal/collection"
	igraph "github.com/go-strata/strata/internal/graph"
	ipartition "github.com/go-strata/strata/internal/partition"
)

// MetaKwarg is injected into phase kwargs while a reduction runs against the
// zero-row metadata sample to infer its output schema. Phase functions which
// are undefined over empty data should return an empty, schema-correct
// Partition when this flag is set instead of failing.
const MetaKwarg = "metaInference"

// defaultSplitEvery is the combine-tree fan-in used when none is configured
const defaultSplitEvery = 8

// Reduction describes an apply-concat-apply reduction: Chunk runs once per
// Partition, Combine collapses groups of SplitEvery concatenated chunk (or
// combine) outputs until few enough remain, and Aggregate produces the final
// single-Partition result. Combine defaults to Aggregate when nil, and must
// be associative over its grouped inputs, as the tree shape is not part of
// the contract.
type Reduction struct {
	Name          string
	Chunk         strata.ChunkOperation
	Combine       strata.CombineOperation
	Aggregate     strata.AggregateOperation
	ChunkArgs     strata.Kwargs
	CombineArgs   strata.Kwargs
	AggregateArgs strata.Kwargs
	SplitEvery    int                      // combine-tree fan-in. 0 selects the default of 8, 1 is invalid.
	Meta          strata.OperablePartition // explicit output sample, overriding schema inference
}

// ApplyConcatApply reduces a Collection to a single Partition. The phase
// functions are opaque, so each call produces a distinct task identity;
// reuse the returned operation value to share tasks between pipelines.
func ApplyConcatApply(r *Reduction) *strata.CollectionOperation {
	return applyConcatApply(r, opToken())
}

// applyConcatApply builds the reduction tasks. identity params distinguish
// reductions whose phase functions share a Name but operate differently, so
// built-ins pass their operated columns and stay deterministic, while
// user-supplied reductions pass an opaque token.
func applyConcatApply(r *Reduction, identity ...string) *strata.CollectionOperation {
	return &strata.CollectionOperation{
		TaskType: strata.ReduceTaskType,
		Do: func(c strata.Collection) (strata.Collection, error) {
			splitEvery := r.SplitEvery
			if splitEvery == 0 {
				splitEvery = defaultSplitEvery
			}
			if splitEvery < 2 {
				return nil, errors.SplitEveryError{Value: splitEvery}
			}
			combine := r.Combine
			if combine == nil {
				if r.CombineArgs != nil {
					return nil, errors.CombineArgsError{}
				}
				combine = strata.CombineOperation(r.Aggregate)
			}

			finalMeta, err := inferMeta(r, c.Meta(), combine)
			if err != nil {
				return nil, err
			}

			params := fingerprint(r, splitEvery, identity)
			graph := c.Graph()

			// chunk phase, one task per partition
			chunkName := igraph.TaskName(r.Name+"-chunk", params, c.GraphName())
			for i := 0; i < c.NumPartitions(); i++ {
				graph.AddTask(
					strata.TaskKey{Name: chunkName, Index: i},
					[]strata.TaskKey{{Name: c.GraphName(), Index: i}},
					func(ctx context.Context, values []strata.Value) (strata.Value, error) {
						part, err := ipartition.AsOperable(values[0])
						if err != nil {
							return nil, err
						}
						return r.Chunk(part, r.ChunkArgs)
					},
				)
			}

			// combine phase, a tree with fan-in splitEvery
			level := make([]strata.TaskKey, c.NumPartitions())
			for i := range level {
				level[i] = strata.TaskKey{Name: chunkName, Index: i}
			}
			depth := 0
			for len(level) > splitEvery {
				depth++
				levelName := igraph.TaskName(fmt.Sprintf("%s-combine-%d", r.Name, depth), params, c.GraphName())
				next := make([]strata.TaskKey, 0, (len(level)+splitEvery-1)/splitEvery)
				for start := 0; start < len(level); start += splitEvery {
					end := start + splitEvery
					if end > len(level) {
						end = len(level)
					}
					key := strata.TaskKey{Name: levelName, Index: len(next)}
					graph.AddTask(key, level[start:end:end], phaseTask(combine, r.CombineArgs))
					next = append(next, key)
				}
				level = next
			}

			// final aggregate over whatever remains
			name := igraph.TaskName(r.Name, params, c.GraphName())
			graph.AddTask(
				strata.TaskKey{Name: name, Index: 0},
				level,
				phaseTask(strata.CombineOperation(r.Aggregate), r.AggregateArgs),
			)
			return icollection.FromGraph(graph, name, finalMeta, strata.UnknownDivisions(1)), nil
		},
	}
}

// phaseTask concatenates task inputs and applies a combine or aggregate
// phase function to the merged Partition. Phase outputs must all share a
// Schema, so the first input's Schema governs the concatenation.
func phaseTask(fn strata.CombineOperation, kwargs strata.Kwargs) strata.TaskFn {
	return func(ctx context.Context, values []strata.Value) (strata.Value, error) {
		parts := make([]strata.Partition, 0, len(values))
		for _, value := range values {
			part, err := ipartition.AsOperable(value)
			if err != nil {
				return nil, err
			}
			parts = append(parts, part)
		}
		merged, err := ipartition.Concat(parts[0].GetSchema(), parts...)
		if err != nil {
			return nil, err
		}
		return fn(merged, kwargs)
	}
}

// inferMeta pushes the zero-row metadata sample through the reduction phases
// to determine the final output sample. An explicit r.Meta bypasses
// inference entirely, for reductions whose phases are undefined over empty
// data.
func inferMeta(r *Reduction, sample strata.OperablePartition, combine strata.CombineOperation) (strata.OperablePartition, error) {
	if r.Meta != nil {
		return r.Meta.EmptyClone(), nil
	}
	chunkMeta, err := r.Chunk(sample.EmptyClone(), withMetaFlag(r.ChunkArgs))
	if err != nil {
		return nil, errors.SchemaInferenceError{Op: r.Name, Cause: err}
	}
	combined, err := combine(chunkMeta.EmptyClone(), withMetaFlag(r.CombineArgs))
	if err != nil {
		return nil, errors.SchemaInferenceError{Op: r.Name, Cause: err}
	}
	finalMeta, err := r.Aggregate(combined.EmptyClone(), withMetaFlag(r.AggregateArgs))
	if err != nil {
		return nil, errors.SchemaInferenceError{Op: r.Name, Cause: err}
	}
	return finalMeta.EmptyClone(), nil
}

func withMetaFlag(kwargs strata.Kwargs) strata.Kwargs {
	flagged := make(strata.Kwargs, len(kwargs)+1)
	for k, v := range kwargs {
		flagged[k] = v
	}
	flagged[MetaKwarg] = true
	return flagged
}

// fingerprint encodes a Reduction's identity for task naming: its structural
// configuration, kwargs, and the caller's identity params. Reductions sharing
// a name must differ in at least one of these, or their tasks collide.
func fingerprint(r *Reduction, splitEvery int, identity []string) []string {
	params := make([]string, 0, len(identity)+1)
	params = append(params, identity...)
	params = append(params, fmt.Sprintf("splitEvery=%d", splitEvery))
	for phase, kwargs := range map[string]strata.Kwargs{"chunk": r.ChunkArgs, "combine": r.CombineArgs, "aggregate": r.AggregateArgs} {
		keys := make([]string, 0, len(kwargs))
		for k := range kwargs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			params = append(params, fmt.Sprintf("%s.%s=%v", phase, k, kwargs[k]))
		}
	}
	sort.Strings(params)
	return params
}
