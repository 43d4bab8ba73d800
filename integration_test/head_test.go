package integration_test

import (
	"context"
	"testing"

	"github.com/go-strata/strata"
	"github.com/go-strata/strata/datasource/memory"
	"github.com/go-strata/strata/schema"
	stesting "github.com/go-strata/strata/testing"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// createSparseCollection builds a Collection with divisions (0, 5, 9, 9),
// whose final partition is empty
func createSparseCollection(t *testing.T) strata.Collection {
	s := schema.CreateSchema()
	_, err := s.CreateColumn("val", &strata.Int64ColumnType{})
	require.Nil(t, err)

	divisions, err := strata.NewDivisions([]int64{0, 5, 9, 9})
	require.Nil(t, err)
	c, err := memory.CreateCollection(&memory.Conf{
		Schema:    s,
		Index:     []int64{0, 2, 4, 5, 7},
		Columns:   map[string][]interface{}{"val": {int64(0), int64(20), int64(40), int64(50), int64(70)}},
		Divisions: divisions,
	})
	require.Nil(t, err)
	return c
}

func TestHeadAcrossSparsePartitions(t *testing.T) {
	defer goleak.VerifyNone(t)

	c := createSparseCollection(t)
	require.Equal(t, 3, c.NumPartitions())

	// only 5 rows exist, so head(7) returns what is available
	head, err := c.Head(7, -1)
	require.Nil(t, err)
	collected, err := stesting.LocalCompute(context.Background(), head, 2)
	require.Nil(t, err)
	require.Equal(t, 5, collected.GetNumRows())
}

func TestHeadStopsAtRequestedRows(t *testing.T) {
	defer goleak.VerifyNone(t)

	c := createSparseCollection(t)
	head, err := c.Head(2, -1)
	require.Nil(t, err)
	collected, err := stesting.LocalCompute(context.Background(), head, 2)
	require.Nil(t, err)
	require.Equal(t, 2, collected.GetNumRows())
	require.Equal(t, int64(0), collected.GetRow(0).Pos())
	require.Equal(t, int64(2), collected.GetRow(1).Pos())
}
