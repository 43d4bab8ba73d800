package partition

import (
	"fmt"
	"strings"

	"github.com/go-strata/strata"
	"github.com/go-strata/strata/errors"
)

// rowImpl is a handle for a single row within a partitionImpl
type rowImpl struct {
	part   *partitionImpl
	rowNum int
}

// GetSchema returns the Schema of this Row
func (r *rowImpl) GetSchema() strata.Schema {
	return r.part.schema
}

// Pos returns the index value of this Row within the logical dataset
func (r *rowImpl) Pos() int64 {
	return r.part.pos[r.rowNum]
}

// SetPos updates the index value of this Row
func (r *rowImpl) SetPos(idx int64) {
	r.part.pos[r.rowNum] = idx
}

// Get returns the value of a column as an untyped value
func (r *rowImpl) Get(colName string) (interface{}, error) {
	vals, ok := r.part.cols[colName]
	if !ok {
		return nil, errors.MissingColumnError{Name: colName}
	}
	return vals[r.rowNum], nil
}

// GetInt64 retrieves a value from an Int64 column
func (r *rowImpl) GetInt64(colName string) (int64, error) {
	v, err := r.Get(colName)
	if err != nil {
		return 0, err
	}
	typed, ok := v.(int64)
	if !ok {
		return 0, errors.ColumnTypeError{Name: colName, Expected: "int64"}
	}
	return typed, nil
}

// GetFloat64 retrieves a value from a Float64 column
func (r *rowImpl) GetFloat64(colName string) (float64, error) {
	v, err := r.Get(colName)
	if err != nil {
		return 0, err
	}
	typed, ok := v.(float64)
	if !ok {
		return 0, errors.ColumnTypeError{Name: colName, Expected: "float64"}
	}
	return typed, nil
}

// GetString retrieves a value from a String column
func (r *rowImpl) GetString(colName string) (string, error) {
	v, err := r.Get(colName)
	if err != nil {
		return "", err
	}
	typed, ok := v.(string)
	if !ok {
		return "", errors.ColumnTypeError{Name: colName, Expected: "string"}
	}
	return typed, nil
}

// GetBool retrieves a value from a Bool column
func (r *rowImpl) GetBool(colName string) (bool, error) {
	v, err := r.Get(colName)
	if err != nil {
		return false, err
	}
	typed, ok := v.(bool)
	if !ok {
		return false, errors.ColumnTypeError{Name: colName, Expected: "bool"}
	}
	return typed, nil
}

// Set modifies a column value, validated against its ColumnType
func (r *rowImpl) Set(colName string, value interface{}) error {
	col, err := r.part.schema.GetColumn(colName)
	if err != nil {
		return err
	}
	if err := col.Type().Validate(value); err != nil {
		return errors.ColumnTypeError{Name: colName, Expected: col.Type().Name()}
	}
	r.part.cols[colName][r.rowNum] = value
	return nil
}

// SetInt64 modifies the value of an Int64 column
func (r *rowImpl) SetInt64(colName string, value int64) error {
	return r.Set(colName, value)
}

// SetFloat64 modifies the value of a Float64 column
func (r *rowImpl) SetFloat64(colName string, value float64) error {
	return r.Set(colName, value)
}

// SetString modifies the value of a String column
func (r *rowImpl) SetString(colName string, value string) error {
	return r.Set(colName, value)
}

// SetBool modifies the value of a Bool column
func (r *rowImpl) SetBool(colName string, value bool) error {
	return r.Set(colName, value)
}

// ToString returns a string representation of this Row
func (r *rowImpl) ToString() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("{pos: %d", r.Pos()))
	for _, name := range r.part.schema.ColumnNames() {
		col, _ := r.part.schema.GetColumn(name)
		sb.WriteString(fmt.Sprintf(", %s: %s", name, col.Type().ToString(r.part.cols[name][r.rowNum])))
	}
	sb.WriteString("}")
	return sb.String()
}
