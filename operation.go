package strata

// MapOperation - A generic function for manipulating Rows in-place
type MapOperation func(row Row) error

// FilterOperation - A generic function for determining whether or not a Row should be retained
type FilterOperation func(row Row) (bool, error)

// BinaryRowOperation - A generic function combining two index-aligned Rows into an output Row
type BinaryRowOperation func(lrow Row, rrow Row, orow Row) error

// KeyingOperation - A generic function for generating a key from a Row
type KeyingOperation func(row Row) ([]byte, error)

// PartitionOperation - A generic function transforming a whole Partition
type PartitionOperation func(part OperablePartition) (OperablePartition, error)

// BinaryPartitionOperation - A generic function combining two aligned Partitions
type BinaryPartitionOperation func(lpart OperablePartition, rpart OperablePartition) (OperablePartition, error)

// Kwargs carries optional per-phase keyword arguments for reduction functions
type Kwargs map[string]interface{}

// ChunkOperation - The per-partition phase of an apply-concat-apply reduction
type ChunkOperation func(part OperablePartition, kwargs Kwargs) (OperablePartition, error)

// CombineOperation - The tree-reduce phase of an apply-concat-apply reduction,
// applied to concatenated chunk or combine outputs. Must be associative over
// its grouped inputs, as the combine tree shape is not part of the contract.
type CombineOperation func(part OperablePartition, kwargs Kwargs) (OperablePartition, error)

// AggregateOperation - The final phase of an apply-concat-apply reduction
type AggregateOperation func(part OperablePartition, kwargs Kwargs) (OperablePartition, error)
