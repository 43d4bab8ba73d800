package transform

import (
	"fmt"

	"github.com/go-strata/strata"
	icollection "github.com/go-strata/strata/internal/collection"
	ipartition "github.com/go-strata/strata/internal/partition"
)

// WithColumn adds a new column to a Collection, populated by running fn on
// each Row after the column has been added to its Schema
func WithColumn(colName string, colType strata.ColumnType, fn strata.MapOperation) *strata.CollectionOperation {
	token := opToken()
	return &strata.CollectionOperation{
		TaskType: strata.AssignTaskType,
		Do: func(c strata.Collection) (strata.Collection, error) {
			newSchema := c.GetSchema().Clone()
			if _, err := newSchema.CreateColumn(colName, colType); err != nil {
				return nil, err
			}
			meta := ipartition.CreatePartition(newSchema)
			params := []string{fmt.Sprintf("col=%s", colName), fmt.Sprintf("type=%s", colType.Name()), token}
			return icollection.MapPartitions(c, "with-column", params, meta, c.Divisions(),
				func(part strata.OperablePartition) (strata.OperablePartition, error) {
					repacked, err := part.Repack(newSchema)
					if err != nil {
						return nil, err
					}
					return repacked.MapRows(fn)
				},
			)
		},
	}
}
