package transform

import (
	"fmt"

	"github.com/go-strata/strata"
	"github.com/go-strata/strata/errors"
	icollection "github.com/go-strata/strata/internal/collection"
)

// BinaryOp combines a Collection with another, aligning their Partitions by
// divisions and matching Rows by index value. fn receives each matched pair
// of Rows along with an output Row carrying the left-hand Schema. Unmatched
// Rows are dropped, and when the right-hand side carries duplicate index
// values, the last occurrence wins.
func BinaryOp(right strata.Collection, fn strata.BinaryRowOperation) *strata.CollectionOperation {
	token := opToken()
	return &strata.CollectionOperation{
		TaskType: strata.BinaryTaskType,
		Do: func(left strata.Collection) (strata.Collection, error) {
			return icollection.Align(left, right, "binary", []string{token}, left.Meta().EmptyClone(), false, matchRows(fn))
		},
	}
}

// Add sums the given numeric columns of two Collections row-by-row,
// defaulting to every shared numeric column
func Add(right strata.Collection, colNames ...string) *strata.CollectionOperation {
	return arithmetic(right, "add", colNames,
		func(a int64, b int64) (int64, error) { return a + b, nil },
		func(a float64, b float64) (float64, error) { return a + b, nil })
}

// Sub subtracts the given numeric columns of another Collection row-by-row,
// defaulting to every shared numeric column
func Sub(right strata.Collection, colNames ...string) *strata.CollectionOperation {
	return arithmetic(right, "sub", colNames,
		func(a int64, b int64) (int64, error) { return a - b, nil },
		func(a float64, b float64) (float64, error) { return a - b, nil })
}

// Mul multiplies the given numeric columns of two Collections row-by-row,
// defaulting to every shared numeric column
func Mul(right strata.Collection, colNames ...string) *strata.CollectionOperation {
	return arithmetic(right, "mul", colNames,
		func(a int64, b int64) (int64, error) { return a * b, nil },
		func(a float64, b float64) (float64, error) { return a * b, nil })
}

// Div divides the given numeric columns by another Collection's row-by-row,
// defaulting to every shared numeric column. Integer division by zero is an
// error rather than a panic.
func Div(right strata.Collection, colNames ...string) *strata.CollectionOperation {
	return arithmetic(right, "div", colNames,
		func(a int64, b int64) (int64, error) {
			if b == 0 {
				return 0, fmt.Errorf("integer division by zero")
			}
			return a / b, nil
		},
		func(a float64, b float64) (float64, error) { return a / b, nil })
}

func arithmetic(right strata.Collection, op string, colNames []string, intFn func(int64, int64) (int64, error), floatFn func(float64, float64) (float64, error)) *strata.CollectionOperation {
	return &strata.CollectionOperation{
		TaskType: strata.BinaryTaskType,
		Do: func(left strata.Collection) (strata.Collection, error) {
			cols := colNames
			if len(cols) == 0 {
				cols = left.GetSchema().NumericColumnNames()
			}
			for _, colName := range cols {
				for _, s := range []strata.Schema{left.GetSchema(), right.GetSchema()} {
					col, err := s.GetColumn(colName)
					if err != nil {
						return nil, err
					}
					if !col.Type().IsNumeric() {
						return nil, errors.ColumnTypeError{Name: colName, Expected: "numeric column"}
					}
				}
			}
			fn := arithmeticRowOp(left.GetSchema(), cols, intFn, floatFn)
			return icollection.Align(left, right, op, cols, left.Meta().EmptyClone(), false, matchRows(fn))
		},
	}
}

// arithmeticRowOp copies every left-hand column into the output Row, then
// overwrites the operated columns with the combined values, dispatching on
// the left-hand ColumnType
func arithmeticRowOp(schema strata.Schema, cols []string, intFn func(int64, int64) (int64, error), floatFn func(float64, float64) (float64, error)) strata.BinaryRowOperation {
	operated := make(map[string]bool, len(cols))
	for _, colName := range cols {
		operated[colName] = true
	}
	return func(lrow strata.Row, rrow strata.Row, orow strata.Row) error {
		for _, colName := range schema.ColumnNames() {
			if !operated[colName] {
				value, err := lrow.Get(colName)
				if err != nil {
					return err
				}
				if err := orow.Set(colName, value); err != nil {
					return err
				}
				continue
			}
			col, err := schema.GetColumn(colName)
			if err != nil {
				return err
			}
			switch col.Type().(type) {
			case *strata.Int64ColumnType:
				lval, err := lrow.GetInt64(colName)
				if err != nil {
					return err
				}
				rval, err := rrow.GetInt64(colName)
				if err != nil {
					return err
				}
				result, err := intFn(lval, rval)
				if err != nil {
					return err
				}
				if err := orow.SetInt64(colName, result); err != nil {
					return err
				}
			case *strata.Float64ColumnType:
				lval, err := lrow.GetFloat64(colName)
				if err != nil {
					return err
				}
				rval, err := rrow.GetFloat64(colName)
				if err != nil {
					return err
				}
				result, err := floatFn(lval, rval)
				if err != nil {
					return err
				}
				if err := orow.SetFloat64(colName, result); err != nil {
					return err
				}
			default:
				return errors.ColumnTypeError{Name: colName, Expected: "numeric column"}
			}
		}
		return nil
	}
}

// matchRows lifts a BinaryRowOperation to aligned Partitions, inner-joining
// Rows on their index values. Duplicate right-hand index values resolve to
// the last occurrence.
func matchRows(fn strata.BinaryRowOperation) strata.BinaryPartitionOperation {
	return func(lpart strata.OperablePartition, rpart strata.OperablePartition) (strata.OperablePartition, error) {
		rindex := make(map[int64]int, rpart.GetNumRows())
		for j := 0; j < rpart.GetNumRows(); j++ {
			rindex[rpart.GetRow(j).Pos()] = j
		}
		out := lpart.EmptyClone()
		for i := 0; i < lpart.GetNumRows(); i++ {
			lrow := lpart.GetRow(i)
			j, ok := rindex[lrow.Pos()]
			if !ok {
				continue
			}
			orow, err := out.AppendEmptyRow(lrow.Pos())
			if err != nil {
				return nil, err
			}
			if err := fn(lrow, rpart.GetRow(j), orow); err != nil {
				return nil, err
			}
		}
		return out, nil
	}
}
