package integration_test

import (
	"context"
	"testing"

	"github.com/go-strata/strata"
	"github.com/go-strata/strata/operations/reduce"
	ops "github.com/go-strata/strata/operations/transform"
	stesting "github.com/go-strata/strata/testing"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestValueCountsAcrossShards(t *testing.T) {
	defer goleak.VerifyNone(t)

	c := createTestCollection(t, 60, 7)
	bucketed, err := c.To(ops.Map(func(row strata.Row) error {
		val, err := row.GetInt64("val")
		if err != nil {
			return err
		}
		return row.SetInt64("val", val%5)
	}))
	require.Nil(t, err)

	result, err := bucketed.To(reduce.ValueCounts("val", 3))
	require.Nil(t, err)
	require.Equal(t, 3, result.NumPartitions())

	collected, err := stesting.LocalCompute(context.Background(), result, 4)
	require.Nil(t, err)
	counts := make(map[int64]int64)
	err = collected.ForEachRow(func(row strata.Row) error {
		val, err := row.GetInt64("val")
		require.Nil(t, err)
		count, err := row.GetInt64("count")
		require.Nil(t, err)
		_, seen := counts[val]
		require.False(t, seen)
		counts[val] = count
		return nil
	})
	require.Nil(t, err)
	require.Equal(t, map[int64]int64{0: 12, 1: 12, 2: 12, 3: 12, 4: 12}, counts)
}
