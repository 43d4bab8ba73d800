package strata

import "context"

// A Collection is the user-facing handle for a partitioned dataset, wrapping
// a task graph, a graph name, a zero-row metadata sample and Divisions.
// Collections are immutable once built: transformations return new handles
// sharing the underlying append-only graph. Nothing is computed until
// Compute is called.
type Collection interface {
	GetSchema() Schema          // GetSchema returns the Schema of this Collection
	Meta() OperablePartition    // Meta returns the zero-row metadata sample for this Collection
	Divisions() Divisions       // Divisions returns the partition boundaries of this Collection
	NumPartitions() int         // NumPartitions returns the number of Partitions in this Collection
	GraphName() string          // GraphName returns the fingerprinted name of this Collection's output tasks
	Graph() Graph               // Graph returns the underlying task graph, shared between derived Collections
	OutputKeys() []TaskKey      // OutputKeys returns the TaskKeys producing this Collection's Partitions, in ascending partition-index order

	// GetPartition returns a single-partition Collection aliasing partition i,
	// failing with a range error if i is not in [0, NumPartitions())
	GetPartition(i int) (Collection, error)

	// RepartitionByDivisions re-splits this Collection to match new boundary
	// values, covering exactly the same logical rows. New boundaries exceeding
	// the current global range fail unless force is set. Repartitioning to the
	// current divisions returns the receiver unchanged.
	RepartitionByDivisions(divisions Divisions, force bool) (Collection, error)

	// RepartitionByCount re-splits this Collection into the given number of
	// partitions, deriving new boundaries from the current ones
	RepartitionByCount(numPartitions int) (Collection, error)

	// RepartitionBySize re-splits this Collection so that partitions hold
	// approximately targetRows rows each. Current partition sizes are sampled
	// through the given Scheduler.
	RepartitionBySize(ctx context.Context, sched Scheduler, targetRows int) (Collection, error)

	// Head returns a Collection holding at most the first n rows, reading at
	// most npartitions leading partitions (-1 for all). A warning is logged at
	// compute time if fewer than n rows are available.
	Head(n int, npartitions int) (Collection, error)

	// To chains operations onto this Collection, returning a new handle
	To(ops ...*CollectionOperation) (Collection, error)

	// Compute triggers execution of the graph through the given Scheduler and
	// reassembles the result in ascending partition-index order. A failed or
	// cancelled Compute leaves this handle valid for a fresh Compute.
	Compute(ctx context.Context, sched Scheduler) (CollectedPartition, error)
}

// CollectionOperation - A generic Collection transform, in the "functional
// operations" style: Do derives a new Collection from an existing one.
type CollectionOperation struct {
	TaskType TaskType
	Do       func(c Collection) (Collection, error)
}
