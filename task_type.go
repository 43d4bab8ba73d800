package strata

// TaskType describes the type of a task, used internally to control behaviour
type TaskType string

const (
	// NoOpTaskType indicates that this task does not manipulate data
	NoOpTaskType TaskType = "no_op"
	// ExtractTaskType indicates that this task sources data from a constructor
	ExtractTaskType TaskType = "extract"
	// MapTaskType indicates that this task transforms rows in-place
	MapTaskType TaskType = "map"
	// FilterTaskType indicates that this task filters rows
	FilterTaskType TaskType = "filter"
	// AssignTaskType indicates that this task assigns a new column
	AssignTaskType TaskType = "assign"
	// RenameTaskType indicates that this task renames columns
	RenameTaskType TaskType = "rename"
	// RemoveColumnTaskType indicates that this task removes a column
	RemoveColumnTaskType TaskType = "remove_column"
	// BinaryTaskType indicates that this task combines two aligned Collections
	BinaryTaskType TaskType = "binary"
	// RepartitionTaskType indicates that this task re-splits partition boundaries
	RepartitionTaskType TaskType = "repartition"
	// HeadTaskType indicates that this task takes leading rows
	HeadTaskType TaskType = "head"
	// ReduceTaskType indicates that this task performs an apply-concat-apply reduction
	ReduceTaskType TaskType = "reduce"
)
