package transform

import (
	"fmt"

	"github.com/go-strata/strata"
	icollection "github.com/go-strata/strata/internal/collection"
	ipartition "github.com/go-strata/strata/internal/partition"
)

// WithColumnFrom assigns a column from another Collection, matching Rows by
// index value within aligned Partitions. Every left-hand Row must find a
// counterpart; when the right-hand side carries duplicate index values, the
// last occurrence wins. Assignment aligns positionally, so both Collections
// must carry known divisions.
func WithColumnFrom(colName string, right strata.Collection) *strata.CollectionOperation {
	return &strata.CollectionOperation{
		TaskType: strata.AssignTaskType,
		Do: func(left strata.Collection) (strata.Collection, error) {
			col, err := right.GetSchema().GetColumn(colName)
			if err != nil {
				return nil, err
			}
			newSchema := left.GetSchema().Clone()
			if _, err := newSchema.CreateColumn(colName, col.Type()); err != nil {
				return nil, err
			}
			meta := ipartition.CreatePartition(newSchema)
			params := []string{fmt.Sprintf("col=%s", colName)}
			return icollection.Align(left, right, "with-column-from", params, meta, true, assignColumn(colName, newSchema))
		},
	}
}

// assignColumn widens each left-hand Partition with the new column, then
// fills it from the index-matched right-hand Row
func assignColumn(colName string, newSchema strata.Schema) strata.BinaryPartitionOperation {
	return func(lpart strata.OperablePartition, rpart strata.OperablePartition) (strata.OperablePartition, error) {
		rindex := make(map[int64]int, rpart.GetNumRows())
		for j := 0; j < rpart.GetNumRows(); j++ {
			rindex[rpart.GetRow(j).Pos()] = j
		}
		out, err := lpart.Repack(newSchema)
		if err != nil {
			return nil, err
		}
		for i := 0; i < out.GetNumRows(); i++ {
			orow := out.GetRow(i)
			j, ok := rindex[orow.Pos()]
			if !ok {
				return nil, fmt.Errorf("no row with index value %d to assign column %s from", orow.Pos(), colName)
			}
			value, err := rpart.GetRow(j).Get(colName)
			if err != nil {
				return nil, err
			}
			if err := orow.Set(colName, value); err != nil {
				return nil, err
			}
		}
		return out, nil
	}
}
