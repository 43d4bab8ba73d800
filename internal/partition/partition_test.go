package partition

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/go-strata/strata"
	"github.com/go-strata/strata/schema"
	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/require"
)

func createTestSchema(t *testing.T) strata.Schema {
	s := schema.CreateSchema()
	_, err := s.CreateColumn("a", &strata.Int64ColumnType{})
	require.Nil(t, err)
	_, err = s.CreateColumn("b", &strata.StringColumnType{})
	require.Nil(t, err)
	return s
}

func createTestPartition(t *testing.T, numRows int) strata.OperablePartition {
	part := CreatePartition(createTestSchema(t))
	for i := 0; i < numRows; i++ {
		err := part.AppendRow(int64(i), map[string]interface{}{
			"a": int64(i * 10),
			"b": fmt.Sprintf("row-%d", i),
		})
		require.Nil(t, err)
	}
	return part
}

func TestAppendAndGetRows(t *testing.T) {
	part := createTestPartition(t, 3)
	require.Equal(t, 3, part.GetNumRows())

	row := part.GetRow(1)
	require.Equal(t, int64(1), row.Pos())
	a, err := row.GetInt64("a")
	require.Nil(t, err)
	require.Equal(t, int64(10), a)
	b, err := row.GetString("b")
	require.Nil(t, err)
	require.Equal(t, "row-1", b)
}

func TestAppendRowValidatesValues(t *testing.T) {
	part := CreatePartition(createTestSchema(t))
	err := part.AppendRow(0, map[string]interface{}{"a": "not an int", "b": "x"})
	require.NotNil(t, err)
	require.Equal(t, 0, part.GetNumRows())

	err = part.AppendRow(0, map[string]interface{}{"a": int64(1)})
	require.NotNil(t, err)
	require.Equal(t, 0, part.GetNumRows())
}

func TestMapRows(t *testing.T) {
	part := createTestPartition(t, 4)
	mapped, err := part.MapRows(func(row strata.Row) error {
		a, err := row.GetInt64("a")
		if err != nil {
			return err
		}
		return row.SetInt64("a", a+1)
	})
	require.Nil(t, err)
	require.Equal(t, 4, mapped.GetNumRows())
	a, err := mapped.GetRow(0).GetInt64("a")
	require.Nil(t, err)
	require.Equal(t, int64(1), a)

	// the source partition is untouched
	a, err = part.GetRow(0).GetInt64("a")
	require.Nil(t, err)
	require.Equal(t, int64(0), a)
}

func TestMapRowsAccumulatesRowErrors(t *testing.T) {
	part := createTestPartition(t, 4)
	mapped, err := part.MapRows(func(row strata.Row) error {
		if row.Pos()%2 == 0 {
			return fmt.Errorf("bad row %d", row.Pos())
		}
		return nil
	})
	require.NotNil(t, err)
	multierr, ok := err.(*multierror.Error)
	require.True(t, ok)
	require.Equal(t, 2, len(multierr.Errors))
	// failing rows are dropped from the result
	require.Equal(t, 2, mapped.GetNumRows())
}

func TestFilterRows(t *testing.T) {
	part := createTestPartition(t, 6)
	filtered, err := part.FilterRows(func(row strata.Row) (bool, error) {
		a, err := row.GetInt64("a")
		if err != nil {
			return false, err
		}
		return a >= 30, nil
	})
	require.Nil(t, err)
	require.Equal(t, 3, filtered.GetNumRows())
	require.Equal(t, int64(3), filtered.GetRow(0).Pos())
}

func TestBoundarySlice(t *testing.T) {
	part := createTestPartition(t, 10)

	// half-open interval
	sliced, err := part.BoundarySlice(2, 5, true, false)
	require.Nil(t, err)
	require.Equal(t, 3, sliced.GetNumRows())
	require.Equal(t, int64(2), sliced.GetRow(0).Pos())
	require.Equal(t, int64(4), sliced.GetRow(2).Pos())

	// inclusive upper endpoint
	sliced, err = part.BoundarySlice(2, 5, true, true)
	require.Nil(t, err)
	require.Equal(t, 4, sliced.GetNumRows())

	// exclusive lower endpoint
	sliced, err = part.BoundarySlice(2, 5, false, false)
	require.Nil(t, err)
	require.Equal(t, 2, sliced.GetNumRows())

	// empty result is a valid zero-row partition
	sliced, err = part.BoundarySlice(50, 60, true, false)
	require.Nil(t, err)
	require.Equal(t, 0, sliced.GetNumRows())
}

func TestRepack(t *testing.T) {
	part := createTestPartition(t, 3)
	newSchema := createTestSchema(t)
	_, err := newSchema.CreateColumn("c", &strata.Float64ColumnType{})
	require.Nil(t, err)
	newSchema, wasRemoved := newSchema.RemoveColumn("b")
	require.True(t, wasRemoved)

	repacked, err := part.Repack(newSchema)
	require.Nil(t, err)
	require.Equal(t, 3, repacked.GetNumRows())
	a, err := repacked.GetRow(1).GetInt64("a")
	require.Nil(t, err)
	require.Equal(t, int64(10), a)
	c, err := repacked.GetRow(1).GetFloat64("c")
	require.Nil(t, err)
	require.Equal(t, float64(0), c)
}

func TestConcatPreservesOrderAndEmptyPartitions(t *testing.T) {
	s := createTestSchema(t)
	first := createTestPartition(t, 2)
	empty := CreatePartition(createTestSchema(t))
	second := CreatePartition(createTestSchema(t))
	require.Nil(t, second.AppendRow(7, map[string]interface{}{"a": int64(70), "b": "row-7"}))

	merged, err := Concat(s, first, empty, second)
	require.Nil(t, err)
	require.Equal(t, 3, merged.GetNumRows())
	require.Equal(t, int64(0), merged.GetRow(0).Pos())
	require.Equal(t, int64(7), merged.GetRow(2).Pos())
}

func TestRename(t *testing.T) {
	part := createTestPartition(t, 2)
	renamed, err := Rename(part, map[string]string{"a": "x"})
	require.Nil(t, err)
	require.True(t, renamed.GetSchema().HasColumn("x"))
	require.False(t, renamed.GetSchema().HasColumn("a"))
	x, err := renamed.GetRow(1).GetInt64("x")
	require.Nil(t, err)
	require.Equal(t, int64(10), x)

	_, err = Rename(part, map[string]string{"missing": "y"})
	require.NotNil(t, err)
}

func TestSerializeRoundTrip(t *testing.T) {
	part := createTestPartition(t, 5)
	raw, err := ToBytes(part)
	require.Nil(t, err)

	restored, err := FromBytes(raw, part.GetSchema())
	require.Nil(t, err)
	require.Equal(t, part.GetNumRows(), restored.GetNumRows())
	for i := 0; i < part.GetNumRows(); i++ {
		require.Equal(t, part.GetRow(i).ToString(), restored.GetRow(i).ToString())
	}
}

func TestLZ4SerializerRoundTrip(t *testing.T) {
	part := createTestPartition(t, 8)
	serializer := NewLZ4PartitionSerializer()

	var buf bytes.Buffer
	require.Nil(t, serializer.Compress(&buf, part))

	restored, err := serializer.Decompress(&buf, part.GetSchema())
	require.Nil(t, err)
	require.Equal(t, 8, restored.GetNumRows())
	for i := 0; i < part.GetNumRows(); i++ {
		require.Equal(t, part.GetRow(i).ToString(), restored.GetRow(i).ToString())
	}
}

func TestScalar(t *testing.T) {
	single := createTestPartition(t, 1)
	v, err := single.(strata.CollectedPartition).Scalar("a")
	require.Nil(t, err)
	require.Equal(t, int64(0), v)

	multi := createTestPartition(t, 2)
	_, err = multi.(strata.CollectedPartition).Scalar("a")
	require.NotNil(t, err)
}
