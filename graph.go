package strata

import (
	"context"
	"fmt"
)

// Value is the materialized result of a Task, typically an OperablePartition
type Value interface{}

// TaskKey is a unique, deterministic identifier for a partition-task within a
// Graph, composed of an operation fingerprint and a partition index. The same
// logical operation on the same logical inputs always yields the same key.
type TaskKey struct {
	Name  string // Name is the content-based fingerprint shared by all partitions of one operation
	Index int    // Index is the partition index this task produces
}

// String returns a textual representation of this TaskKey
func (k TaskKey) String() string {
	return fmt.Sprintf("(%s, %d)", k.Name, k.Index)
}

// TaskFn computes the Value of a task from the Values of its inputs
type TaskFn func(ctx context.Context, inputs []Value) (Value, error)

// A Task is a single deferred computation within a Graph, producing the data
// for one Partition
type Task interface {
	Key() TaskKey                                            // Key returns the TaskKey of this Task
	Inputs() []TaskKey                                       // Inputs returns the upstream TaskKeys this Task consumes, in order
	Run(ctx context.Context, inputs []Value) (Value, error)  // Run executes this Task against materialized inputs
}

// A Graph is an append-only deferred task graph mapping TaskKeys to
// computations. Once published, nodes are never mutated in place, which
// allows multiple Collection handles to safely share overlapping subgraphs.
type Graph interface {
	AddTask(key TaskKey, inputs []TaskKey, fn TaskFn) // AddTask appends a task to the graph. Adding an existing key is a no-op, since keys are content-addressed.
	HasTask(key TaskKey) bool                         // HasTask returns true iff the graph contains a producer for key
	GetTask(key TaskKey) (Task, error)                // GetTask returns the producer for key
	NumTasks() int                                    // NumTasks returns the number of tasks in the graph
	Keys() []TaskKey                                  // Keys returns all task keys in insertion order
	Validate() error                                  // Validate fails if any referenced key has no producer in the graph
	Fuse(targets []TaskKey) Graph                     // Fuse returns a graph with single-consumer linear chains fused, preserving the Values of targets
}

// A Scheduler executes the required tasks of a Graph, possibly in parallel,
// returning a materialized Value per requested TaskKey. Schedulers are
// external collaborators: the core library never performs its own threading.
type Scheduler interface {
	Run(ctx context.Context, graph Graph, targets []TaskKey) (map[TaskKey]Value, error)
}
