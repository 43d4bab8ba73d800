package partition

import (
	"fmt"

	"github.com/go-strata/strata"
)

// AsOperable asserts that a task Value is an OperablePartition
func AsOperable(v strata.Value) (strata.OperablePartition, error) {
	part, ok := v.(strata.OperablePartition)
	if !ok {
		return nil, fmt.Errorf("task value %v is not a Partition", v)
	}
	return part, nil
}

// Concat appends the rows of each Partition, in argument order, into a single
// new Partition with the given Schema. Empty partitions contribute no rows
// but are otherwise legal.
func Concat(schema strata.Schema, parts ...strata.Partition) (strata.OperablePartition, error) {
	result := createPartitionImpl(schema.Clone())
	for _, part := range parts {
		src, ok := part.(*partitionImpl)
		if !ok {
			return nil, fmt.Errorf("cannot concatenate a foreign Partition implementation")
		}
		if err := schema.Equals(src.schema); err != nil {
			return nil, fmt.Errorf("cannot concatenate Partitions with unequal Schemas: %w", err)
		}
		for i := 0; i < src.GetNumRows(); i++ {
			result.appendRowFrom(src, i)
		}
	}
	return result, nil
}

// Rename produces a copy of a Partition with columns renamed according to
// oldToNew. Names absent from the mapping are preserved.
func Rename(part strata.Partition, oldToNew map[string]string) (strata.OperablePartition, error) {
	src, ok := part.(*partitionImpl)
	if !ok {
		return nil, fmt.Errorf("cannot rename a foreign Partition implementation")
	}
	newSchema := src.schema.Clone()
	for oldName, newName := range oldToNew {
		var err error
		newSchema, err = newSchema.RenameColumn(oldName, newName)
		if err != nil {
			return nil, err
		}
	}
	result := createPartitionImpl(newSchema)
	result.pos = make([]int64, len(src.pos))
	copy(result.pos, src.pos)
	renamed := make(map[string]string) // old name per new name
	for oldName, newName := range oldToNew {
		renamed[newName] = oldName
	}
	for _, name := range newSchema.ColumnNames() {
		srcName := name
		if old, ok := renamed[name]; ok {
			srcName = old
		}
		vals := make([]interface{}, len(src.pos))
		copy(vals, src.cols[srcName])
		result.cols[name] = vals
	}
	return result, nil
}
