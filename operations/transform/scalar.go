package transform

import (
	"fmt"

	"github.com/go-strata/strata"
	"github.com/go-strata/strata/errors"
	icollection "github.com/go-strata/strata/internal/collection"
)

// AddScalar adds a constant to the given numeric columns, defaulting to
// every numeric column. The scalar must be an int64 or float64 matching the
// ColumnType of each operated column.
func AddScalar(value interface{}, colNames ...string) *strata.CollectionOperation {
	return scalarArithmetic("add-scalar", value, colNames,
		func(a int64, b int64) (int64, error) { return a + b, nil },
		func(a float64, b float64) (float64, error) { return a + b, nil })
}

// SubScalar subtracts a constant from the given numeric columns, defaulting
// to every numeric column
func SubScalar(value interface{}, colNames ...string) *strata.CollectionOperation {
	return scalarArithmetic("sub-scalar", value, colNames,
		func(a int64, b int64) (int64, error) { return a - b, nil },
		func(a float64, b float64) (float64, error) { return a - b, nil })
}

// MulScalar multiplies the given numeric columns by a constant, defaulting
// to every numeric column
func MulScalar(value interface{}, colNames ...string) *strata.CollectionOperation {
	return scalarArithmetic("mul-scalar", value, colNames,
		func(a int64, b int64) (int64, error) { return a * b, nil },
		func(a float64, b float64) (float64, error) { return a * b, nil })
}

// DivScalar divides the given numeric columns by a constant, defaulting to
// every numeric column. A zero divisor is rejected up front for integer
// columns.
func DivScalar(value interface{}, colNames ...string) *strata.CollectionOperation {
	return scalarArithmetic("div-scalar", value, colNames,
		func(a int64, b int64) (int64, error) {
			if b == 0 {
				return 0, fmt.Errorf("integer division by zero")
			}
			return a / b, nil
		},
		func(a float64, b float64) (float64, error) { return a / b, nil })
}

func scalarArithmetic(op string, value interface{}, colNames []string, intFn func(int64, int64) (int64, error), floatFn func(float64, float64) (float64, error)) *strata.CollectionOperation {
	return &strata.CollectionOperation{
		TaskType: strata.MapTaskType,
		Do: func(c strata.Collection) (strata.Collection, error) {
			cols := colNames
			if len(cols) == 0 {
				cols = c.GetSchema().NumericColumnNames()
			}
			expected := ""
			switch value.(type) {
			case int64:
				expected = (&strata.Int64ColumnType{}).Name()
			case float64:
				expected = (&strata.Float64ColumnType{}).Name()
			default:
				return nil, fmt.Errorf("scalar must be an int64 or float64, got %T", value)
			}
			for _, colName := range cols {
				col, err := c.GetSchema().GetColumn(colName)
				if err != nil {
					return nil, err
				}
				if col.Type().Name() != expected {
					return nil, errors.ColumnTypeError{Name: colName, Expected: expected}
				}
			}

			fn := func(row strata.Row) error {
				for _, colName := range cols {
					switch scalar := value.(type) {
					case int64:
						current, err := row.GetInt64(colName)
						if err != nil {
							return err
						}
						result, err := intFn(current, scalar)
						if err != nil {
							return err
						}
						if err := row.SetInt64(colName, result); err != nil {
							return err
						}
					case float64:
						current, err := row.GetFloat64(colName)
						if err != nil {
							return err
						}
						result, err := floatFn(current, scalar)
						if err != nil {
							return err
						}
						if err := row.SetFloat64(colName, result); err != nil {
							return err
						}
					}
				}
				return nil
			}
			params := append([]string{fmt.Sprintf("value=%v", value)}, cols...)
			return icollection.MapPartitions(c, op, params, c.Meta().EmptyClone(), c.Divisions(),
				func(part strata.OperablePartition) (strata.OperablePartition, error) {
					return part.MapRows(fn)
				},
			)
		},
	}
}
