package reduce

import (
	"strings"

	"github.com/go-strata/strata"
	"github.com/go-strata/strata/errors"
	ipartition "github.com/go-strata/strata/internal/partition"
	"github.com/go-strata/strata/schema"
)

// Sum reduces a Collection to a single row holding per-column sums for the
// given numeric columns, defaulting to every numeric column. The sum of an
// entirely empty Collection is zero.
func Sum(colNames ...string) *strata.CollectionOperation {
	return numericReduction("sum", colNames, func(s strata.Schema, cols []string) (*Reduction, error) {
		out, err := subsetSchema(s, cols)
		if err != nil {
			return nil, err
		}
		sum := func(part strata.OperablePartition, kwargs strata.Kwargs) (strata.OperablePartition, error) {
			if kwargs[MetaKwarg] == true && part.GetNumRows() == 0 {
				return ipartition.CreatePartition(out), nil
			}
			return sumRows(out, part, cols)
		}
		return &Reduction{Name: "sum", Chunk: sum, Aggregate: sum}, nil
	})
}

// Min reduces a Collection to a single row holding per-column minimums for
// the given numeric columns, defaulting to every numeric column. Reducing an
// entirely empty Collection is an error.
func Min(colNames ...string) *strata.CollectionOperation {
	return extremum("min", colNames, func(a float64, b float64) bool { return a < b })
}

// Max reduces a Collection to a single row holding per-column maximums for
// the given numeric columns, defaulting to every numeric column. Reducing an
// entirely empty Collection is an error.
func Max(colNames ...string) *strata.CollectionOperation {
	return extremum("max", colNames, func(a float64, b float64) bool { return a > b })
}

// Count reduces a Collection to a single row with a "count" column holding
// its total number of rows
func Count() *strata.CollectionOperation {
	countSchema := schema.CreateSchema()
	if _, err := countSchema.CreateColumn("count", &strata.Int64ColumnType{}); err != nil {
		panic(err)
	}
	chunk := func(part strata.OperablePartition, kwargs strata.Kwargs) (strata.OperablePartition, error) {
		if kwargs[MetaKwarg] == true && part.GetNumRows() == 0 {
			return ipartition.CreatePartition(countSchema), nil
		}
		out := ipartition.CreatePartition(countSchema)
		err := out.AppendRow(0, map[string]interface{}{"count": int64(part.GetNumRows())})
		return out, err
	}
	aggregate := func(part strata.OperablePartition, kwargs strata.Kwargs) (strata.OperablePartition, error) {
		if kwargs[MetaKwarg] == true && part.GetNumRows() == 0 {
			return ipartition.CreatePartition(countSchema), nil
		}
		total := int64(0)
		for i := 0; i < part.GetNumRows(); i++ {
			count, err := part.GetRow(i).GetInt64("count")
			if err != nil {
				return nil, err
			}
			total += count
		}
		out := ipartition.CreatePartition(countSchema)
		err := out.AppendRow(0, map[string]interface{}{"count": total})
		return out, err
	}
	// counting is fully structural, so Count collections always share tasks
	return applyConcatApply(&Reduction{Name: "count", Chunk: chunk, Aggregate: aggregate})
}

// Mean reduces a Collection to a single row holding per-column means for the
// given numeric columns, defaulting to every numeric column. Means are
// always Float64, and the mean of an entirely empty Collection is an error.
func Mean(colNames ...string) *strata.CollectionOperation {
	return numericReduction("mean", colNames, func(s strata.Schema, cols []string) (*Reduction, error) {
		sums, err := floatSchema(cols, true)
		if err != nil {
			return nil, err
		}
		final, err := floatSchema(cols, false)
		if err != nil {
			return nil, err
		}
		chunk := func(part strata.OperablePartition, kwargs strata.Kwargs) (strata.OperablePartition, error) {
			if kwargs[MetaKwarg] == true && part.GetNumRows() == 0 {
				return ipartition.CreatePartition(sums), nil
			}
			values := make(map[string]interface{}, len(cols)+1)
			for _, colName := range cols {
				total := 0.0
				for i := 0; i < part.GetNumRows(); i++ {
					val, err := numericValue(part.GetRow(i), colName)
					if err != nil {
						return nil, err
					}
					total += val
				}
				values[colName] = total
			}
			values["rows"] = int64(part.GetNumRows())
			out := ipartition.CreatePartition(sums)
			return out, out.AppendRow(0, values)
		}
		combine := func(part strata.OperablePartition, kwargs strata.Kwargs) (strata.OperablePartition, error) {
			if part.GetNumRows() == 0 {
				return ipartition.CreatePartition(sums), nil
			}
			values := make(map[string]interface{}, len(cols)+1)
			for _, colName := range cols {
				total := 0.0
				for i := 0; i < part.GetNumRows(); i++ {
					val, err := part.GetRow(i).GetFloat64(colName)
					if err != nil {
						return nil, err
					}
					total += val
				}
				values[colName] = total
			}
			rows := int64(0)
			for i := 0; i < part.GetNumRows(); i++ {
				count, err := part.GetRow(i).GetInt64("rows")
				if err != nil {
					return nil, err
				}
				rows += count
			}
			values["rows"] = rows
			out := ipartition.CreatePartition(sums)
			return out, out.AppendRow(0, values)
		}
		aggregate := func(part strata.OperablePartition, kwargs strata.Kwargs) (strata.OperablePartition, error) {
			summed, err := combine(part, kwargs)
			if err != nil {
				return nil, err
			}
			if summed.GetNumRows() == 0 || mustInt64(summed.GetRow(0), "rows") == 0 {
				if kwargs[MetaKwarg] == true {
					return ipartition.CreatePartition(final), nil
				}
				return nil, errors.NoDataError{Op: "mean"}
			}
			rows := float64(mustInt64(summed.GetRow(0), "rows"))
			values := make(map[string]interface{}, len(cols))
			for _, colName := range cols {
				total, err := summed.GetRow(0).GetFloat64(colName)
				if err != nil {
					return nil, err
				}
				values[colName] = total / rows
			}
			out := ipartition.CreatePartition(final)
			return out, out.AppendRow(0, values)
		}
		return &Reduction{Name: "mean", Chunk: chunk, Combine: combine, Aggregate: aggregate}, nil
	})
}

// numericReduction validates the operated columns against the input schema
// before delegating to ApplyConcatApply
func numericReduction(name string, colNames []string, build func(s strata.Schema, cols []string) (*Reduction, error)) *strata.CollectionOperation {
	return &strata.CollectionOperation{
		TaskType: strata.ReduceTaskType,
		Do: func(c strata.Collection) (strata.Collection, error) {
			cols := colNames
			if len(cols) == 0 {
				cols = c.GetSchema().NumericColumnNames()
			}
			if len(cols) == 0 {
				return nil, errors.NoDataError{Op: name}
			}
			for _, colName := range cols {
				col, err := c.GetSchema().GetColumn(colName)
				if err != nil {
					return nil, err
				}
				if !col.Type().IsNumeric() {
					return nil, errors.ColumnTypeError{Name: colName, Expected: "numeric column"}
				}
			}
			r, err := build(c.GetSchema(), cols)
			if err != nil {
				return nil, err
			}
			// the operated columns identify the built-in phase functions, so
			// same-named reductions over different columns never share tasks
			return applyConcatApply(r, "cols="+strings.Join(cols, ",")).Do(c)
		},
	}
}

// extremum builds Min and Max. Combine tolerates all-empty groups so that
// partially-empty combine trees still reduce, while the final aggregate
// fails over genuinely empty data.
func extremum(name string, colNames []string, better func(float64, float64) bool) *strata.CollectionOperation {
	return numericReduction(name, colNames, func(s strata.Schema, cols []string) (*Reduction, error) {
		out, err := subsetSchema(s, cols)
		if err != nil {
			return nil, err
		}
		pick := func(part strata.OperablePartition) (strata.OperablePartition, error) {
			result := ipartition.CreatePartition(out)
			if part.GetNumRows() == 0 {
				return result, nil
			}
			values := make(map[string]interface{}, len(cols))
			for _, colName := range cols {
				bestRow := 0
				best, err := numericValue(part.GetRow(0), colName)
				if err != nil {
					return nil, err
				}
				for i := 1; i < part.GetNumRows(); i++ {
					val, err := numericValue(part.GetRow(i), colName)
					if err != nil {
						return nil, err
					}
					if better(val, best) {
						best = val
						bestRow = i
					}
				}
				values[colName], err = part.GetRow(bestRow).Get(colName)
				if err != nil {
					return nil, err
				}
			}
			return result, result.AppendRow(0, values)
		}
		combine := func(part strata.OperablePartition, kwargs strata.Kwargs) (strata.OperablePartition, error) {
			return pick(part)
		}
		aggregate := func(part strata.OperablePartition, kwargs strata.Kwargs) (strata.OperablePartition, error) {
			result, err := pick(part)
			if err != nil {
				return nil, err
			}
			if result.GetNumRows() == 0 {
				if kwargs[MetaKwarg] == true {
					return result, nil
				}
				return nil, errors.NoDataError{Op: name}
			}
			return result, nil
		}
		return &Reduction{Name: name, Chunk: combine, Combine: combine, Aggregate: aggregate}, nil
	})
}

// sumRows sums each operated column of part into a single output row,
// preserving column types
func sumRows(out strata.Schema, part strata.OperablePartition, cols []string) (strata.OperablePartition, error) {
	values := make(map[string]interface{}, len(cols))
	for _, colName := range cols {
		col, err := out.GetColumn(colName)
		if err != nil {
			return nil, err
		}
		switch col.Type().(type) {
		case *strata.Int64ColumnType:
			total := int64(0)
			for i := 0; i < part.GetNumRows(); i++ {
				val, err := part.GetRow(i).GetInt64(colName)
				if err != nil {
					return nil, err
				}
				total += val
			}
			values[colName] = total
		default:
			total := 0.0
			for i := 0; i < part.GetNumRows(); i++ {
				val, err := part.GetRow(i).GetFloat64(colName)
				if err != nil {
					return nil, err
				}
				total += val
			}
			values[colName] = total
		}
	}
	result := ipartition.CreatePartition(out)
	return result, result.AppendRow(0, values)
}

// numericValue reads an Int64 or Float64 cell as a float64
func numericValue(row strata.Row, colName string) (float64, error) {
	if val, err := row.GetFloat64(colName); err == nil {
		return val, nil
	}
	val, err := row.GetInt64(colName)
	if err != nil {
		return 0, err
	}
	return float64(val), nil
}

func mustInt64(row strata.Row, colName string) int64 {
	val, _ := row.GetInt64(colName)
	return val
}

// subsetSchema projects a Schema onto the given columns, preserving types
func subsetSchema(s strata.Schema, cols []string) (strata.Schema, error) {
	out := schema.CreateSchema()
	for _, colName := range cols {
		col, err := s.GetColumn(colName)
		if err != nil {
			return nil, err
		}
		if _, err := out.CreateColumn(colName, col.Type()); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// floatSchema builds a Schema holding the given columns as Float64, with an
// optional Int64 "rows" column for carrying counts between phases
func floatSchema(cols []string, withRows bool) (strata.Schema, error) {
	out := schema.CreateSchema()
	for _, colName := range cols {
		if _, err := out.CreateColumn(colName, &strata.Float64ColumnType{}); err != nil {
			return nil, err
		}
	}
	if withRows {
		if _, err := out.CreateColumn("rows", &strata.Int64ColumnType{}); err != nil {
			return nil, err
		}
	}
	return out, nil
}
