package collection

import (
	"context"
	"testing"

	"github.com/go-strata/strata"
	"github.com/go-strata/strata/errors"
	igraph "github.com/go-strata/strata/internal/graph"
	"github.com/go-strata/strata/scheduler"
	"github.com/stretchr/testify/require"
)

// addVals matches rows of two Partitions by index value and sums their
// "val" columns, dropping unmatched rows
func addVals(lpart strata.OperablePartition, rpart strata.OperablePartition) (strata.OperablePartition, error) {
	rvals := make(map[int64]int64)
	err := rpart.ForEachRow(func(row strata.Row) error {
		val, err := row.GetInt64("val")
		if err != nil {
			return err
		}
		rvals[row.Pos()] = val
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := lpart.EmptyClone()
	builder := out.(strata.BuildablePartition)
	err = lpart.ForEachRow(func(row strata.Row) error {
		rval, ok := rvals[row.Pos()]
		if !ok {
			return nil
		}
		lval, err := row.GetInt64("val")
		if err != nil {
			return err
		}
		return builder.AppendRow(row.Pos(), map[string]interface{}{"val": lval + rval})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func collectVals(t *testing.T, c strata.Collection) map[int64]int64 {
	sched := scheduler.CreateLocal(&scheduler.LocalOptions{NumWorkers: 2})
	result, err := c.Compute(context.Background(), sched)
	require.Nil(t, err)
	vals := make(map[int64]int64)
	err = result.ForEachRow(func(row strata.Row) error {
		val, err := row.GetInt64("val")
		if err != nil {
			return err
		}
		vals[row.Pos()] = val
		return nil
	})
	require.Nil(t, err)
	return vals
}

func TestAlignZipsIdenticalDivisions(t *testing.T) {
	s := valSchema(t)
	divisions, err := strata.NewDivisions([]int64{0, 3, 6})
	require.Nil(t, err)
	g := igraph.CreateGraph()
	left := fixtureCollection(t, g, "extract-left", s, divisions, [][]int64{
		{0, 1, 2},
		{3, 4, 5},
	})
	right := fixtureCollection(t, g, "extract-right", s, divisions, [][]int64{
		{0, 1, 2},
		{3, 4, 5},
	})

	combined, err := Align(left, right, "add", nil, left.Meta().EmptyClone(), false, addVals)
	require.Nil(t, err)
	require.True(t, combined.Divisions().Equals(divisions))
	vals := collectVals(t, combined)
	require.Len(t, vals, 6)
	for pos, val := range vals {
		require.Equal(t, pos*20, val)
	}
}

func TestAlignReslicesDifferingKnownDivisions(t *testing.T) {
	s := valSchema(t)
	ldivs, err := strata.NewDivisions([]int64{0, 3, 6})
	require.Nil(t, err)
	rdivs, err := strata.NewDivisions([]int64{0, 2, 6})
	require.Nil(t, err)
	// separate graphs, so alignment must union them first
	left := fixtureCollection(t, igraph.CreateGraph(), "extract-left", s, ldivs, [][]int64{
		{0, 1, 2},
		{3, 4, 5},
	})
	right := fixtureCollection(t, igraph.CreateGraph(), "extract-right", s, rdivs, [][]int64{
		{0, 1},
		{2, 3, 4, 5},
	})

	combined, err := Align(left, right, "add", nil, left.Meta().EmptyClone(), false, addVals)
	require.Nil(t, err)
	require.Equal(t, []int64{0, 2, 3, 6}, combined.Divisions().Bounds())
	vals := collectVals(t, combined)
	require.Len(t, vals, 6)
	for pos, val := range vals {
		require.Equal(t, pos*20, val)
	}
}

func TestAlignRefusesPositionalOpsWithoutDivisions(t *testing.T) {
	s := valSchema(t)
	g := igraph.CreateGraph()
	left := fixtureCollection(t, g, "extract-left", s, strata.UnknownDivisions(2), [][]int64{
		{0, 1, 2},
		{3, 4, 5},
	})
	right := fixtureCollection(t, g, "extract-right", s, strata.UnknownDivisions(2), [][]int64{
		{0, 1, 2},
		{3, 4, 5},
	})

	_, err := Align(left, right, "add", nil, left.Meta().EmptyClone(), true, addVals)
	require.NotNil(t, err)
	require.IsType(t, errors.DivisionsNotKnownError{}, err)
}

func TestAlignZipsUnknownDivisionsByPartitionCount(t *testing.T) {
	s := valSchema(t)
	g := igraph.CreateGraph()
	left := fixtureCollection(t, g, "extract-left", s, strata.UnknownDivisions(2), [][]int64{
		{0, 1, 2},
		{3, 4, 5},
	})
	right := fixtureCollection(t, g, "extract-right", s, strata.UnknownDivisions(2), [][]int64{
		{0, 1, 2},
		{3, 4, 5},
	})
	mismatched := fixtureCollection(t, g, "extract-mismatched", s, strata.UnknownDivisions(1), [][]int64{
		{0, 1, 2, 3, 4, 5},
	})

	_, err := Align(left, mismatched, "add", nil, left.Meta().EmptyClone(), false, addVals)
	require.NotNil(t, err)
	require.IsType(t, errors.AlignmentError{}, err)

	combined, err := Align(left, right, "add", nil, left.Meta().EmptyClone(), false, addVals)
	require.Nil(t, err)
	require.False(t, combined.Divisions().Known())
	require.Equal(t, 2, combined.NumPartitions())
	vals := collectVals(t, combined)
	require.Len(t, vals, 6)
}
