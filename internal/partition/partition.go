package partition

import (
	"fmt"
	"log"
	"strings"

	uuid "github.com/gofrs/uuid"
	"github.com/go-strata/strata"
	"github.com/go-strata/strata/errors"
)

// partitionImpl is Strata's internal implementation of Partition. Rows are
// stored column-wise: one ordered slice of index values plus one value
// vector per schema column.
type partitionImpl struct {
	id     string
	schema strata.Schema
	pos    []int64
	cols   map[string][]interface{}
}

// createPartitionImpl creates a new empty Partition for a schema
func createPartitionImpl(schema strata.Schema) *partitionImpl {
	id, err := uuid.NewV4()
	if err != nil {
		log.Fatalf("failed to generate UUID for Partition: %v", err)
	}
	cols := make(map[string][]interface{})
	for _, name := range schema.ColumnNames() {
		cols[name] = make([]interface{}, 0)
	}
	return &partitionImpl{
		id:     id.String(),
		schema: schema,
		pos:    make([]int64, 0),
		cols:   cols,
	}
}

// CreatePartition creates a new empty Partition for a schema
func CreatePartition(schema strata.Schema) strata.OperablePartition {
	return createPartitionImpl(schema)
}

// ID retrieves the ID of this Partition
func (p *partitionImpl) ID() string {
	return p.id
}

// GetSchema retrieves the Schema of this Partition
func (p *partitionImpl) GetSchema() strata.Schema {
	return p.schema
}

// GetNumRows retrieves the number of rows in this Partition
func (p *partitionImpl) GetNumRows() int {
	return len(p.pos)
}

// GetRow retrieves a specific row from this Partition
func (p *partitionImpl) GetRow(rowNum int) strata.Row {
	return &rowImpl{part: p, rowNum: rowNum}
}

// ForEachRow iterates over Rows in a Partition
func (p *partitionImpl) ForEachRow(fn strata.MapOperation) error {
	for i := 0; i < p.GetNumRows(); i++ {
		err := fn(p.GetRow(i))
		if err != nil {
			return err
		}
	}
	return nil
}

// AppendEmptyRow adds a zero-valued Row with the given index value to the end
// of this Partition, returning the Row so that Row methods can be used to
// populate it
func (p *partitionImpl) AppendEmptyRow(idx int64) (strata.Row, error) {
	p.pos = append(p.pos, idx)
	err := p.schema.ForEachColumn(func(name string, col strata.Column) error {
		p.cols[name] = append(p.cols[name], col.Type().ZeroValue())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p.GetRow(p.GetNumRows() - 1), nil
}

// AppendRow adds a Row to the end of this Partition, validating values
// against the Schema
func (p *partitionImpl) AppendRow(idx int64, values map[string]interface{}) error {
	err := p.schema.ForEachColumn(func(name string, col strata.Column) error {
		v, ok := values[name]
		if !ok {
			return errors.MissingColumnError{Name: name}
		}
		if err := col.Type().Validate(v); err != nil {
			return errors.ColumnTypeError{Name: name, Expected: col.Type().Name()}
		}
		return nil
	})
	if err != nil {
		return err
	}
	p.pos = append(p.pos, idx)
	for name := range p.cols {
		p.cols[name] = append(p.cols[name], values[name])
	}
	return nil
}

// appendRowFrom copies row rowNum of src onto the end of this Partition.
// Both Partitions must share a Schema.
func (p *partitionImpl) appendRowFrom(src *partitionImpl, rowNum int) {
	p.pos = append(p.pos, src.pos[rowNum])
	for name := range p.cols {
		p.cols[name] = append(p.cols[name], src.cols[name][rowNum])
	}
}

// truncateLast removes the final row of this Partition
func (p *partitionImpl) truncateLast() {
	last := len(p.pos) - 1
	p.pos = p.pos[:last]
	for name := range p.cols {
		p.cols[name] = p.cols[name][:last]
	}
}

// Clone returns a deep copy of this Partition
func (p *partitionImpl) Clone() strata.OperablePartition {
	result := createPartitionImpl(p.schema.Clone())
	result.pos = make([]int64, len(p.pos))
	copy(result.pos, p.pos)
	for name, vals := range p.cols {
		copied := make([]interface{}, len(vals))
		copy(copied, vals)
		result.cols[name] = copied
	}
	return result
}

// EmptyClone returns a zero-row Partition with the same Schema, used as a
// metadata sample
func (p *partitionImpl) EmptyClone() strata.OperablePartition {
	return createPartitionImpl(p.schema.Clone())
}

// Scalar returns the single cell of a one-row result, or an error if the
// result has a different number of rows
func (p *partitionImpl) Scalar(colName string) (interface{}, error) {
	if p.GetNumRows() != 1 {
		return nil, fmt.Errorf("Scalar requires a single-row result, but this Partition has %d rows", p.GetNumRows())
	}
	return p.GetRow(0).Get(colName)
}

// ToString returns a string representation of this Partition
func (p *partitionImpl) ToString() string {
	var sb strings.Builder
	for i := 0; i < p.GetNumRows(); i++ {
		sb.WriteString(p.GetRow(i).ToString())
		sb.WriteString("\n")
	}
	return sb.String()
}
