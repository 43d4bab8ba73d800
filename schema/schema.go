package schema

import (
	"fmt"
	"reflect"

	"github.com/go-strata/strata"
	"github.com/go-strata/strata/errors"
)

// column describes a single named, typed column within a Schema.
type column struct {
	idx     int
	colType strata.ColumnType
}

// Clone returns a copy of this Column
func (c *column) Clone() strata.Column {
	return &column{c.idx, c.colType}
}

// Index returns the index of this Column within a Schema
func (c *column) Index() int {
	return c.idx
}

// SetIndex modifies the index of this Column within a Schema
func (c *column) SetIndex(newIndex int) {
	c.idx = newIndex
}

// Type returns the ColumnType of this Column
func (c *column) Type() strata.ColumnType {
	return c.colType
}

// Schema is a registry mapping column names to typed column descriptors.
// It allows one to look up columns by name, define new columns, rename
// and remove columns, etc.
type schema struct {
	schema map[string]strata.Column
}

// CreateSchema is a factory for Schemas
func CreateSchema() strata.Schema {
	return &schema{
		schema: make(map[string]strata.Column),
	}
}

// Equals returns nil iff this and another Schema are equivalent
func (s *schema) Equals(otherSchema strata.Schema) error {
	if s.NumColumns() != otherSchema.NumColumns() {
		return fmt.Errorf("Schemas have unequal numbers of columns")
	}
	return s.ForEachColumn(func(name string, col strata.Column) error {
		otherCol, err := otherSchema.GetColumn(name)
		if err != nil {
			return err
		}
		if col.Index() != otherCol.Index() {
			return fmt.Errorf("Column %s indices do not match", name)
		}
		if reflect.TypeOf(col.Type()) != reflect.TypeOf(otherCol.Type()) {
			return fmt.Errorf("Column %s types do not match", name)
		}
		return nil
	})
}

// Clone returns a copy of this Schema
func (s *schema) Clone() strata.Schema {
	newSchema := make(map[string]strata.Column)
	for k, v := range s.schema {
		newSchema[k] = v.Clone()
	}
	return &schema{schema: newSchema}
}

// NumColumns returns the number of columns in this Schema
func (s *schema) NumColumns() int {
	return len(s.schema)
}

// GetColumn returns the Column descriptor for a particular column name
func (s *schema) GetColumn(colName string) (col strata.Column, err error) {
	col, ok := s.schema[colName]
	if !ok {
		err = errors.MissingColumnError{Name: colName}
	}
	return
}

// HasColumn returns true iff this schema contains a column with the given name
func (s *schema) HasColumn(colName string) bool {
	_, err := s.GetColumn(colName)
	return err == nil
}

// CreateColumn defines a new column within the Schema
func (s *schema) CreateColumn(colName string, columnType strata.ColumnType) (newSchema strata.Schema, err error) {
	_, containsCol := s.schema[colName]
	if containsCol {
		err = fmt.Errorf("Schema already contains column with name %s", colName)
	} else {
		s.schema[colName] = &column{len(s.schema), columnType}
		newSchema = s
	}
	return
}

// RenameColumn renames a column within the Schema
func (s *schema) RenameColumn(oldName string, newName string) (newSchema strata.Schema, err error) {
	if oldName != newName && s.HasColumn(newName) {
		return nil, fmt.Errorf("Schema already contains column with name %s", newName)
	}
	_, err = s.GetColumn(oldName)
	if err == nil {
		s.schema[newName] = s.schema[oldName]
		if oldName != newName {
			delete(s.schema, oldName)
		}
		newSchema = s
	}
	return
}

// RemoveColumn removes a column from the Schema, compacting the indices of
// the remaining columns
func (s *schema) RemoveColumn(colName string) (strata.Schema, bool) {
	removed, ok := s.schema[colName]
	if !ok {
		return s, false
	}
	delete(s.schema, colName)
	for _, col := range s.schema {
		if col.Index() > removed.Index() {
			col.SetIndex(col.Index() - 1)
		}
	}
	return s, true
}

// ColumnNames returns the names in the schema, in index order
func (s *schema) ColumnNames() []string {
	names := make([]string, len(s.schema))
	for k, v := range s.schema {
		names[v.Index()] = k
	}
	return names
}

// ColumnTypes returns the types in the schema, in index order
func (s *schema) ColumnTypes() []strata.ColumnType {
	types := make([]strata.ColumnType, len(s.schema))
	for _, v := range s.schema {
		types[v.Index()] = v.Type()
	}
	return types
}

// NumericColumnNames returns the names of numeric columns, in index order
func (s *schema) NumericColumnNames() []string {
	names := make([]string, 0, len(s.schema))
	for _, name := range s.ColumnNames() {
		if s.schema[name].Type().IsNumeric() {
			names = append(names, name)
		}
	}
	return names
}

// ForEachColumn iterates over the columns in this Schema. Does not necessarily iterate in order of column index.
func (s *schema) ForEachColumn(fn func(name string, col strata.Column) error) error {
	for k, v := range s.schema {
		err := fn(k, v)
		if err != nil {
			return err
		}
	}
	return nil
}
