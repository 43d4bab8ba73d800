package strata

// A Partition is a contiguous slice of a partitioned dataset, the unit of
// parallel work. Partitions are not generally interacted with directly,
// instead being manipulated in parallel by Collection tasks. The core
// library assumes nothing about a Partition beyond this contract.
type Partition interface {
	ID() string                       // ID retrieves the ID of this Partition
	GetSchema() Schema                // GetSchema retrieves the Schema of this Partition
	GetNumRows() int                  // GetNumRows retrieves the number of rows in this Partition
	GetRow(rowNum int) Row            // GetRow retrieves a specific row from this Partition
	ForEachRow(fn MapOperation) error // ForEachRow iterates over Rows in a Partition
}

// A BuildablePartition can accept new Rows. Used in the implementation of
// constructors and aggregation functions.
type BuildablePartition interface {
	Partition
	AppendEmptyRow(idx int64) (Row, error)                      // AppendEmptyRow adds a zero-valued Row with the given index value to the end of this Partition, returning the Row so that Row methods can be used to populate it
	AppendRow(idx int64, values map[string]interface{}) error   // AppendRow adds a Row to the end of this Partition, validating values against the Schema
}

// An OperablePartition can be transformed, producing new Partitions
type OperablePartition interface {
	BuildablePartition
	Clone() OperablePartition                                                                    // Clone returns a deep copy of this Partition
	EmptyClone() OperablePartition                                                               // EmptyClone returns a zero-row Partition with the same Schema, used as a metadata sample
	MapRows(fn MapOperation) (OperablePartition, error)                                          // MapRows runs a MapOperation on each row, accumulating row errors rather than stopping at the first
	FilterRows(fn FilterOperation) (OperablePartition, error)                                    // FilterRows retains only rows for which fn returns true, creating a new Partition
	BoundarySlice(lo int64, hi int64, loInclusive bool, hiInclusive bool) (OperablePartition, error) // BoundarySlice returns the rows whose index values fall within the given range, with explicit endpoint inclusivity
	Repack(newSchema Schema) (OperablePartition, error)                                          // Repack rebuilds this Partition according to a new Schema, copying shared columns and zero-filling new ones
}

// A CollectedPartition is the materialized result of a Compute call,
// reassembled from partition results in ascending partition-index order
type CollectedPartition interface {
	Partition
	Scalar(colName string) (interface{}, error) // Scalar returns the single cell of a one-row result, or an error if the result has more than one row
}
