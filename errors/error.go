package errors

import (
	"fmt"
)

// RangeError occurs when a partition index outside [0, NumPartitions) is requested
type RangeError struct {
	Index         int
	NumPartitions int
}

// Error returns a textual representation of this RangeError
func (e RangeError) Error() string {
	return fmt.Sprintf("Partition index %d is out of range [0, %d)", e.Index, e.NumPartitions)
}

// DivisionsError occurs when a sequence of divisions is malformed
type DivisionsError struct{ Message string }

// Error returns a textual representation of this DivisionsError
func (e DivisionsError) Error() string {
	return fmt.Sprintf("Invalid divisions: %s", e.Message)
}

// DivisionsNotKnownError occurs when an operation requiring known divisions is
// applied to a Collection whose divisions are unknown
type DivisionsNotKnownError struct{ Op string }

// Error returns a textual representation of this DivisionsNotKnownError
func (e DivisionsNotKnownError) Error() string {
	return fmt.Sprintf("Divisions are not known for %s. Repartition with explicit divisions first", e.Op)
}

// AlignmentError occurs when two Collections cannot be aligned for a binary operation
type AlignmentError struct{ Message string }

// Error returns a textual representation of this AlignmentError
func (e AlignmentError) Error() string {
	return fmt.Sprintf("Collections cannot be aligned: %s", e.Message)
}

// MissingColumnError occurs when a Schema does not contain a requested column
type MissingColumnError struct{ Name string }

// Error returns a textual representation of this MissingColumnError
func (e MissingColumnError) Error() string {
	return fmt.Sprintf("Schema does not contain column with name %s", e.Name)
}

// ColumnTypeError occurs when a cell value does not match its Column's ColumnType
type ColumnTypeError struct {
	Name     string
	Expected string
}

// Error returns a textual representation of this ColumnTypeError
func (e ColumnTypeError) Error() string {
	return fmt.Sprintf("Value for column %s is not a %s", e.Name, e.Expected)
}

// RenameLengthError occurs when a column rename supplies the wrong number of new names
type RenameLengthError struct {
	Expected int
	Actual   int
}

// Error returns a textual representation of this RenameLengthError
func (e RenameLengthError) Error() string {
	return fmt.Sprintf("Number of new column names (%d) does not match number of columns (%d)", e.Actual, e.Expected)
}

// SplitEveryError occurs when a reduction is configured with a fan-in factor below 2
type SplitEveryError struct{ Value int }

// Error returns a textual representation of this SplitEveryError
func (e SplitEveryError) Error() string {
	return fmt.Sprintf("SplitEvery must be at least 2, got %d", e.Value)
}

// CombineArgsError occurs when combine arguments are supplied without a combine function
type CombineArgsError struct{}

// Error returns a textual representation of this CombineArgsError
func (e CombineArgsError) Error() string {
	return "CombineArgs were supplied without a Combine function"
}

// SchemaInferenceError occurs when the output schema of a user-supplied function
// cannot be inferred from the zero-row metadata sample
type SchemaInferenceError struct {
	Op    string
	Cause error
}

// Error returns a textual representation of this SchemaInferenceError
func (e SchemaInferenceError) Error() string {
	return fmt.Sprintf("Unable to infer output schema for %s from the zero-row sample: %v. Supply an explicit Meta schema to override inference", e.Op, e.Cause)
}

// Unwrap returns the underlying cause of this SchemaInferenceError
func (e SchemaInferenceError) Unwrap() error {
	return e.Cause
}

// NoDataError occurs when an aggregation is undefined over an entirely empty Collection
type NoDataError struct{ Op string }

// Error returns a textual representation of this NoDataError
func (e NoDataError) Error() string {
	return fmt.Sprintf("No numeric data to aggregate for %s", e.Op)
}

// NotImplementedError occurs when an explicitly unsupported parameter combination is requested
type NotImplementedError struct {
	Op     string
	Reason string
}

// Error returns a textual representation of this NotImplementedError
func (e NotImplementedError) Error() string {
	return fmt.Sprintf("%s is not implemented: %s", e.Op, e.Reason)
}

// DanglingKeyError occurs when a task graph references a key with no producer
type DanglingKeyError struct {
	Key        string
	Referencer string
}

// Error returns a textual representation of this DanglingKeyError
func (e DanglingKeyError) Error() string {
	return fmt.Sprintf("Task %s references key %s, which has no producer in the graph", e.Referencer, e.Key)
}

// MissingKeyError occurs when a scheduler result does not contain a requested key
type MissingKeyError struct{ Key string }

// Error returns a textual representation of this MissingKeyError
func (e MissingKeyError) Error() string {
	return fmt.Sprintf("Scheduler result does not contain key %s", e.Key)
}
