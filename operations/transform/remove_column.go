package transform

import (
	"github.com/go-strata/strata"
	"github.com/go-strata/strata/errors"
	icollection "github.com/go-strata/strata/internal/collection"
	ipartition "github.com/go-strata/strata/internal/partition"
)

// RemoveColumn removes existing columns
func RemoveColumn(oldNames ...string) *strata.CollectionOperation {
	return &strata.CollectionOperation{
		TaskType: strata.RemoveColumnTaskType,
		Do: func(c strata.Collection) (strata.Collection, error) {
			newSchema := c.GetSchema().Clone()
			for _, oldName := range oldNames {
				next, removed := newSchema.RemoveColumn(oldName)
				if !removed {
					return nil, errors.MissingColumnError{Name: oldName}
				}
				newSchema = next
			}
			meta := ipartition.CreatePartition(newSchema)
			return icollection.MapPartitions(c, "remove-column", oldNames, meta, c.Divisions(),
				func(part strata.OperablePartition) (strata.OperablePartition, error) {
					return part.Repack(newSchema)
				},
			)
		},
	}
}
