package transform

import (
	"github.com/go-strata/strata"
	"github.com/go-strata/strata/errors"
	icollection "github.com/go-strata/strata/internal/collection"
	ipartition "github.com/go-strata/strata/internal/partition"
)

// RenameColumns renames every column of a Collection positionally, in
// column-index order. The number of new names must match the number of
// columns exactly.
func RenameColumns(newNames ...string) *strata.CollectionOperation {
	return &strata.CollectionOperation{
		TaskType: strata.RenameTaskType,
		Do: func(c strata.Collection) (strata.Collection, error) {
			oldNames := c.GetSchema().ColumnNames()
			if len(newNames) != len(oldNames) {
				return nil, errors.RenameLengthError{Expected: len(oldNames), Actual: len(newNames)}
			}
			oldToNew := make(map[string]string, len(oldNames))
			for i, oldName := range oldNames {
				oldToNew[oldName] = newNames[i]
			}
			meta, err := ipartition.Rename(c.Meta(), oldToNew)
			if err != nil {
				return nil, err
			}
			return icollection.MapPartitions(c, "rename", newNames, meta.EmptyClone(), c.Divisions(),
				func(part strata.OperablePartition) (strata.OperablePartition, error) {
					return ipartition.Rename(part, oldToNew)
				},
			)
		},
	}
}
