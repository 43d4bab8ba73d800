package transform

import (
	"github.com/go-strata/strata"
	icollection "github.com/go-strata/strata/internal/collection"
)

// Map transforms Rows in-place
func Map(fn strata.MapOperation) *strata.CollectionOperation {
	token := opToken()
	return &strata.CollectionOperation{
		TaskType: strata.MapTaskType,
		Do: func(c strata.Collection) (strata.Collection, error) {
			return icollection.MapPartitions(c, "map", []string{token}, c.Meta().EmptyClone(), c.Divisions(),
				func(part strata.OperablePartition) (strata.OperablePartition, error) {
					return part.MapRows(fn)
				},
			)
		},
	}
}
