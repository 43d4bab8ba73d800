package scheduler

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/go-strata/strata"
	"github.com/go-strata/strata/internal/graph"
	"github.com/go-strata/strata/internal/partition"
	"github.com/go-strata/strata/internal/pcache"
	"github.com/go-strata/strata/schema"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestLocalRunsDiamondGraph(t *testing.T) {
	defer goleak.VerifyNone(t)

	g := graph.CreateGraph()
	a := strata.TaskKey{Name: "extract-a", Index: 0}
	b := strata.TaskKey{Name: "map-b", Index: 0}
	c := strata.TaskKey{Name: "map-c", Index: 0}
	d := strata.TaskKey{Name: "merge-d", Index: 0}
	g.AddTask(a, nil, func(ctx context.Context, inputs []strata.Value) (strata.Value, error) {
		return int64(1), nil
	})
	g.AddTask(b, []strata.TaskKey{a}, func(ctx context.Context, inputs []strata.Value) (strata.Value, error) {
		return inputs[0].(int64) + 10, nil
	})
	g.AddTask(c, []strata.TaskKey{a}, func(ctx context.Context, inputs []strata.Value) (strata.Value, error) {
		return inputs[0].(int64) + 100, nil
	})
	g.AddTask(d, []strata.TaskKey{b, c}, func(ctx context.Context, inputs []strata.Value) (strata.Value, error) {
		return inputs[0].(int64) + inputs[1].(int64), nil
	})

	sched := CreateLocal(&LocalOptions{NumWorkers: 4})
	results, err := sched.Run(context.Background(), g, []strata.TaskKey{d})
	require.Nil(t, err)
	require.Equal(t, int64(112), results[d])
}

func TestLocalReturnsValidationErrorBeforeRunning(t *testing.T) {
	defer goleak.VerifyNone(t)

	ran := int32(0)
	g := graph.CreateGraph()
	key := strata.TaskKey{Name: "map-a", Index: 0}
	g.AddTask(key, []strata.TaskKey{{Name: "missing", Index: 0}}, func(ctx context.Context, inputs []strata.Value) (strata.Value, error) {
		atomic.AddInt32(&ran, 1)
		return nil, nil
	})

	sched := CreateLocal(nil)
	_, err := sched.Run(context.Background(), g, []strata.TaskKey{key})
	require.NotNil(t, err)
	require.Equal(t, int32(0), atomic.LoadInt32(&ran))
}

func TestLocalPropagatesTaskErrors(t *testing.T) {
	defer goleak.VerifyNone(t)

	g := graph.CreateGraph()
	a := strata.TaskKey{Name: "extract-a", Index: 0}
	b := strata.TaskKey{Name: "map-b", Index: 0}
	g.AddTask(a, nil, func(ctx context.Context, inputs []strata.Value) (strata.Value, error) {
		return nil, fmt.Errorf("partition task failed")
	})
	g.AddTask(b, []strata.TaskKey{a}, func(ctx context.Context, inputs []strata.Value) (strata.Value, error) {
		return inputs[0], nil
	})

	sched := CreateLocal(&LocalOptions{NumWorkers: 2})
	_, err := sched.Run(context.Background(), g, []strata.TaskKey{b})
	require.NotNil(t, err)
	require.Contains(t, err.Error(), "partition task failed")
}

func TestLocalCancellationLeavesSchedulerReusable(t *testing.T) {
	defer goleak.VerifyNone(t)

	g := graph.CreateGraph()
	a := strata.TaskKey{Name: "extract-a", Index: 0}
	b := strata.TaskKey{Name: "map-b", Index: 0}
	g.AddTask(a, nil, func(ctx context.Context, inputs []strata.Value) (strata.Value, error) {
		return int64(5), nil
	})
	g.AddTask(b, []strata.TaskKey{a}, func(ctx context.Context, inputs []strata.Value) (strata.Value, error) {
		return inputs[0].(int64) * 2, nil
	})

	sched := CreateLocal(&LocalOptions{NumWorkers: 2})

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := sched.Run(cancelled, g, []strata.TaskKey{b})
	require.NotNil(t, err)

	// a fresh Run against the same graph succeeds
	results, err := sched.Run(context.Background(), g, []strata.TaskKey{b})
	require.Nil(t, err)
	require.Equal(t, int64(10), results[b])
}

func TestLocalUsesResultCache(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := schema.CreateSchema()
	_, err := s.CreateColumn("val", &strata.Int64ColumnType{})
	require.Nil(t, err)

	runs := int32(0)
	g := graph.CreateGraph()
	key := strata.TaskKey{Name: "extract-a", Index: 0}
	g.AddTask(key, nil, func(ctx context.Context, inputs []strata.Value) (strata.Value, error) {
		atomic.AddInt32(&runs, 1)
		part := partition.CreatePartition(s)
		if err := part.AppendRow(0, map[string]interface{}{"val": int64(42)}); err != nil {
			return nil, err
		}
		return part, nil
	})

	cache := pcache.NewLRU(&pcache.LRUConfig{Size: 4, CompressedFraction: 0.5})
	defer cache.Destroy()
	sched := CreateLocal(&LocalOptions{NumWorkers: 2, Cache: cache})

	for i := 0; i < 3; i++ {
		results, err := sched.Run(context.Background(), g, []strata.TaskKey{key})
		require.Nil(t, err)
		part := results[key].(strata.Partition)
		val, err := part.GetRow(0).GetInt64("val")
		require.Nil(t, err)
		require.Equal(t, int64(42), val)
	}
	// deterministic task keys mean the task only ever runs once
	require.Equal(t, int32(1), atomic.LoadInt32(&runs))
}

func TestLocalRunsFusedGraph(t *testing.T) {
	defer goleak.VerifyNone(t)

	g := graph.CreateGraph()
	a := strata.TaskKey{Name: "extract-a", Index: 0}
	b := strata.TaskKey{Name: "map-b", Index: 0}
	c := strata.TaskKey{Name: "map-c", Index: 0}
	g.AddTask(a, nil, func(ctx context.Context, inputs []strata.Value) (strata.Value, error) {
		return int64(1), nil
	})
	g.AddTask(b, []strata.TaskKey{a}, func(ctx context.Context, inputs []strata.Value) (strata.Value, error) {
		return inputs[0].(int64) + 1, nil
	})
	g.AddTask(c, []strata.TaskKey{b}, func(ctx context.Context, inputs []strata.Value) (strata.Value, error) {
		return inputs[0].(int64) * 3, nil
	})

	unfused := CreateLocal(&LocalOptions{NumWorkers: 2})
	fusing := CreateLocal(&LocalOptions{NumWorkers: 2, Fuse: true})

	expected, err := unfused.Run(context.Background(), g, []strata.TaskKey{c})
	require.Nil(t, err)
	actual, err := fusing.Run(context.Background(), g, []strata.TaskKey{c})
	require.Nil(t, err)
	require.Equal(t, expected[c], actual[c])
}
