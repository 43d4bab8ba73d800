package integration_test

import (
	"context"
	"testing"

	"github.com/go-strata/strata"
	"github.com/go-strata/strata/datasource/memory"
	"github.com/go-strata/strata/operations/reduce"
	ops "github.com/go-strata/strata/operations/transform"
	"github.com/go-strata/strata/schema"
	stesting "github.com/go-strata/strata/testing"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func createTestCollection(t *testing.T, numRows int, partitionSize int) strata.Collection {
	s := schema.CreateSchema()
	_, err := s.CreateColumn("val", &strata.Int64ColumnType{})
	require.Nil(t, err)
	_, err = s.CreateColumn("weight", &strata.Float64ColumnType{})
	require.Nil(t, err)

	index := make([]int64, numRows)
	vals := make([]interface{}, numRows)
	weights := make([]interface{}, numRows)
	for i := 0; i < numRows; i++ {
		index[i] = int64(i)
		vals[i] = int64(i)
		weights[i] = float64(i) / 2
	}
	c, err := memory.CreateCollection(&memory.Conf{
		Schema:        s,
		Index:         index,
		Columns:       map[string][]interface{}{"val": vals, "weight": weights},
		PartitionSize: partitionSize,
	})
	require.Nil(t, err)
	return c
}

func TestPipelineMapFilterReduce(t *testing.T) {
	defer goleak.VerifyNone(t)

	c := createTestCollection(t, 100, 16)
	require.Equal(t, 7, c.NumPartitions())

	result, err := c.To(
		ops.Map(func(row strata.Row) error {
			val, err := row.GetInt64("val")
			if err != nil {
				return err
			}
			return row.SetInt64("val", val*2)
		}),
		ops.Filter(func(row strata.Row) (bool, error) {
			val, err := row.GetInt64("val")
			if err != nil {
				return false, err
			}
			return val%4 == 0, nil
		}),
		reduce.Sum("val"),
	)
	require.Nil(t, err)

	collected, err := stesting.LocalCompute(context.Background(), result, 4)
	require.Nil(t, err)
	// doubled evens of 0..99 divisible by 4: 2 * (0 + 2 + 4 + ... + 98)
	value, err := collected.Scalar("val")
	require.Nil(t, err)
	require.Equal(t, int64(4900), value.(int64))
}

func TestPipelineWithColumnAndMean(t *testing.T) {
	defer goleak.VerifyNone(t)

	c := createTestCollection(t, 10, 4)
	result, err := c.To(
		ops.WithColumn("scaled", &strata.Float64ColumnType{}, func(row strata.Row) error {
			weight, err := row.GetFloat64("weight")
			if err != nil {
				return err
			}
			return row.SetFloat64("scaled", weight*10)
		}),
		reduce.Mean("scaled"),
	)
	require.Nil(t, err)

	collected, err := stesting.LocalCompute(context.Background(), result, 2)
	require.Nil(t, err)
	// mean of 0, 5, 10, ..., 45
	value, err := collected.Scalar("scaled")
	require.Nil(t, err)
	require.Equal(t, 22.5, value.(float64))
}

func TestPipelineBinaryArithmetic(t *testing.T) {
	defer goleak.VerifyNone(t)

	left := createTestCollection(t, 20, 8)
	right := createTestCollection(t, 20, 8)
	doubledRight, err := right.To(ops.MulScalar(int64(3), "val"))
	require.Nil(t, err)

	result, err := left.To(ops.Add(doubledRight, "val"), reduce.Sum("val"))
	require.Nil(t, err)
	collected, err := stesting.LocalCompute(context.Background(), result, 4)
	require.Nil(t, err)
	// sum of 4*i for i in 0..19
	value, err := collected.Scalar("val")
	require.Nil(t, err)
	require.Equal(t, int64(760), value.(int64))
}
