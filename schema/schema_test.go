package schema

import (
	"testing"

	"github.com/go-strata/strata"
	"github.com/stretchr/testify/require"
)

func TestSchemaEqualityBasic(t *testing.T) {
	schema1 := CreateSchema()
	_, err := schema1.CreateColumn("col1", &strata.Int64ColumnType{})
	require.Nil(t, err)
	_, err = schema1.CreateColumn("col2", &strata.StringColumnType{})
	require.Nil(t, err)
	_, err = schema1.CreateColumn("col3", &strata.Float64ColumnType{})
	require.Nil(t, err)

	schema2 := CreateSchema()
	_, err = schema2.CreateColumn("col1", &strata.Int64ColumnType{})
	require.Nil(t, err)
	_, err = schema2.CreateColumn("col2", &strata.StringColumnType{})
	require.Nil(t, err)
	_, err = schema2.CreateColumn("col3", &strata.Float64ColumnType{})
	require.Nil(t, err)

	require.Nil(t, schema1.Equals(schema2))
}

func TestSchemaEqualityDifferentTypes(t *testing.T) {
	schema1 := CreateSchema()
	_, err := schema1.CreateColumn("col1", &strata.Int64ColumnType{})
	require.Nil(t, err)
	_, err = schema1.CreateColumn("col2", &strata.Float64ColumnType{})
	require.Nil(t, err)

	schema2 := CreateSchema()
	_, err = schema2.CreateColumn("col1", &strata.Int64ColumnType{})
	require.Nil(t, err)
	_, err = schema2.CreateColumn("col2", &strata.Int64ColumnType{})
	require.Nil(t, err)

	require.NotNil(t, schema1.Equals(schema2))
}

func TestSchemaEqualityOrder(t *testing.T) {
	schema1 := CreateSchema()
	_, err := schema1.CreateColumn("col1", &strata.Int64ColumnType{})
	require.Nil(t, err)
	_, err = schema1.CreateColumn("col2", &strata.StringColumnType{})
	require.Nil(t, err)

	schema2 := CreateSchema()
	_, err = schema2.CreateColumn("col2", &strata.StringColumnType{})
	require.Nil(t, err)
	_, err = schema2.CreateColumn("col1", &strata.Int64ColumnType{})
	require.Nil(t, err)

	require.NotNil(t, schema1.Equals(schema2))
}

func TestSchemaDuplicateColumn(t *testing.T) {
	schema1 := CreateSchema()
	_, err := schema1.CreateColumn("col1", &strata.Int64ColumnType{})
	require.Nil(t, err)
	_, err = schema1.CreateColumn("col1", &strata.StringColumnType{})
	require.NotNil(t, err)
}

func TestSchemaRenameColumn(t *testing.T) {
	schema1 := CreateSchema()
	_, err := schema1.CreateColumn("col1", &strata.Int64ColumnType{})
	require.Nil(t, err)
	_, err = schema1.RenameColumn("col1", "renamed")
	require.Nil(t, err)
	require.True(t, schema1.HasColumn("renamed"))
	require.False(t, schema1.HasColumn("col1"))

	_, err = schema1.RenameColumn("missing", "other")
	require.NotNil(t, err)
}

func TestSchemaRemoveColumnCompactsIndices(t *testing.T) {
	schema1 := CreateSchema()
	_, err := schema1.CreateColumn("col1", &strata.Int64ColumnType{})
	require.Nil(t, err)
	_, err = schema1.CreateColumn("col2", &strata.StringColumnType{})
	require.Nil(t, err)
	_, err = schema1.CreateColumn("col3", &strata.Float64ColumnType{})
	require.Nil(t, err)

	_, removed := schema1.RemoveColumn("col2")
	require.True(t, removed)
	require.Equal(t, 2, schema1.NumColumns())
	require.Equal(t, []string{"col1", "col3"}, schema1.ColumnNames())

	_, removed = schema1.RemoveColumn("col2")
	require.False(t, removed)
}

func TestSchemaNumericColumnNames(t *testing.T) {
	schema1 := CreateSchema()
	_, err := schema1.CreateColumn("a", &strata.Int64ColumnType{})
	require.Nil(t, err)
	_, err = schema1.CreateColumn("b", &strata.StringColumnType{})
	require.Nil(t, err)
	_, err = schema1.CreateColumn("c", &strata.Float64ColumnType{})
	require.Nil(t, err)

	require.Equal(t, []string{"a", "c"}, schema1.NumericColumnNames())
}
