package transform

import (
	"github.com/go-strata/strata"
	icollection "github.com/go-strata/strata/internal/collection"
)

// Filter retains only the Rows for which fn returns true. Index values are
// untouched, so the resulting Collection keeps its divisions.
func Filter(fn strata.FilterOperation) *strata.CollectionOperation {
	token := opToken()
	return &strata.CollectionOperation{
		TaskType: strata.FilterTaskType,
		Do: func(c strata.Collection) (strata.Collection, error) {
			return icollection.MapPartitions(c, "filter", []string{token}, c.Meta().EmptyClone(), c.Divisions(),
				func(part strata.OperablePartition) (strata.OperablePartition, error) {
					return part.FilterRows(fn)
				},
			)
		},
	}
}
