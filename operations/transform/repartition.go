package transform

import (
	"github.com/go-strata/strata"
)

// Repartition re-splits a Collection along the given boundary values, for
// use in operation chains. See Collection.RepartitionByDivisions.
func Repartition(divisions strata.Divisions, force bool) *strata.CollectionOperation {
	return &strata.CollectionOperation{
		TaskType: strata.RepartitionTaskType,
		Do: func(c strata.Collection) (strata.Collection, error) {
			return c.RepartitionByDivisions(divisions, force)
		},
	}
}

// RepartitionToCount re-splits a Collection into the given number of
// partitions, for use in operation chains. See Collection.RepartitionByCount.
func RepartitionToCount(numPartitions int) *strata.CollectionOperation {
	return &strata.CollectionOperation{
		TaskType: strata.RepartitionTaskType,
		Do: func(c strata.Collection) (strata.Collection, error) {
			return c.RepartitionByCount(numPartitions)
		},
	}
}

// Head takes the leading n rows of a Collection, for use in operation
// chains. See Collection.Head.
func Head(n int, npartitions int) *strata.CollectionOperation {
	return &strata.CollectionOperation{
		TaskType: strata.HeadTaskType,
		Do: func(c strata.Collection) (strata.Collection, error) {
			return c.Head(n, npartitions)
		},
	}
}
