package graph

import (
	"context"
	"testing"

	"github.com/go-strata/strata"
	"github.com/go-strata/strata/errors"
	"github.com/stretchr/testify/require"
)

func TestTaskNameDeterminism(t *testing.T) {
	name1 := TaskName("map", []string{"fn=double"}, "extract-abc")
	name2 := TaskName("map", []string{"fn=double"}, "extract-abc")
	require.Equal(t, name1, name2)

	// any parameter difference must change the name
	name3 := TaskName("map", []string{"fn=triple"}, "extract-abc")
	require.NotEqual(t, name1, name3)

	// any upstream difference must change the name
	name4 := TaskName("map", []string{"fn=double"}, "extract-def")
	require.NotEqual(t, name1, name4)

	// a different operation tag must change the name
	name5 := TaskName("filter", []string{"fn=double"}, "extract-abc")
	require.NotEqual(t, name1, name5)
}

func TestAddTaskDeduplicates(t *testing.T) {
	g := CreateGraph()
	key := strata.TaskKey{Name: "extract-abc", Index: 0}
	g.AddTask(key, nil, func(ctx context.Context, inputs []strata.Value) (strata.Value, error) {
		return int64(1), nil
	})
	g.AddTask(key, nil, func(ctx context.Context, inputs []strata.Value) (strata.Value, error) {
		return int64(2), nil
	})
	require.Equal(t, 1, g.NumTasks())

	task, err := g.GetTask(key)
	require.Nil(t, err)
	v, err := task.Run(context.Background(), nil)
	require.Nil(t, err)
	require.Equal(t, int64(1), v)
}

func TestValidateDanglingReference(t *testing.T) {
	g := CreateGraph()
	root := strata.TaskKey{Name: "extract-abc", Index: 0}
	g.AddTask(root, nil, func(ctx context.Context, inputs []strata.Value) (strata.Value, error) {
		return int64(1), nil
	})
	g.AddTask(strata.TaskKey{Name: "map-def", Index: 0}, []strata.TaskKey{root}, passthrough)
	require.Nil(t, g.Validate())

	g.AddTask(strata.TaskKey{Name: "map-ghi", Index: 0}, []strata.TaskKey{{Name: "missing", Index: 4}}, passthrough)
	err := g.Validate()
	require.NotNil(t, err)
	_, ok := err.(errors.DanglingKeyError)
	require.True(t, ok)
}

func passthrough(ctx context.Context, inputs []strata.Value) (strata.Value, error) {
	return inputs[0], nil
}

func TestFuseLinearChain(t *testing.T) {
	g := CreateGraph()
	a := strata.TaskKey{Name: "extract-a", Index: 0}
	b := strata.TaskKey{Name: "map-b", Index: 0}
	c := strata.TaskKey{Name: "map-c", Index: 0}
	g.AddTask(a, nil, func(ctx context.Context, inputs []strata.Value) (strata.Value, error) {
		return int64(1), nil
	})
	g.AddTask(b, []strata.TaskKey{a}, func(ctx context.Context, inputs []strata.Value) (strata.Value, error) {
		return inputs[0].(int64) + 10, nil
	})
	g.AddTask(c, []strata.TaskKey{b}, func(ctx context.Context, inputs []strata.Value) (strata.Value, error) {
		return inputs[0].(int64) * 2, nil
	})

	fused := g.Fuse([]strata.TaskKey{c})
	require.Equal(t, 1, fused.NumTasks())
	require.Nil(t, fused.Validate())

	// fusing must preserve externally observable results
	task, err := fused.GetTask(c)
	require.Nil(t, err)
	require.Equal(t, 0, len(task.Inputs()))
	v, err := task.Run(context.Background(), nil)
	require.Nil(t, err)
	require.Equal(t, int64(22), v)
}

func TestFuseStopsAtBranches(t *testing.T) {
	g := CreateGraph()
	a := strata.TaskKey{Name: "extract-a", Index: 0}
	b := strata.TaskKey{Name: "map-b", Index: 0}
	c := strata.TaskKey{Name: "map-c", Index: 0}
	g.AddTask(a, nil, func(ctx context.Context, inputs []strata.Value) (strata.Value, error) {
		return int64(1), nil
	})
	// both b and c consume a, so a cannot be fused into either
	g.AddTask(b, []strata.TaskKey{a}, passthrough)
	g.AddTask(c, []strata.TaskKey{a}, passthrough)

	fused := g.Fuse([]strata.TaskKey{b, c})
	require.Equal(t, 3, fused.NumTasks())
	require.Nil(t, fused.Validate())
}

func TestFuseNeverAbsorbsTargets(t *testing.T) {
	g := CreateGraph()
	a := strata.TaskKey{Name: "extract-a", Index: 0}
	b := strata.TaskKey{Name: "map-b", Index: 0}
	g.AddTask(a, nil, func(ctx context.Context, inputs []strata.Value) (strata.Value, error) {
		return int64(1), nil
	})
	g.AddTask(b, []strata.TaskKey{a}, passthrough)

	// a is itself a target, so it must survive fusion
	fused := g.Fuse([]strata.TaskKey{a, b})
	require.Equal(t, 2, fused.NumTasks())
	require.True(t, fused.HasTask(a))
	require.True(t, fused.HasTask(b))
}
