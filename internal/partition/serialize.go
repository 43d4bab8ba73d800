package partition

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"io"

	"github.com/go-strata/strata"
	"github.com/pierrec/lz4/v4"
)

// partitionData is the serialized form of a partitionImpl, with cell values
// unpacked into typed vectors so that gob needs no interface registration
type partitionData struct {
	ID      string
	Pos     []int64
	Ints    map[string][]int64
	Floats  map[string][]float64
	Strings map[string][]string
	Bools   map[string][]bool
}

// ToBytes serializes a Partition
func ToBytes(part strata.Partition) ([]byte, error) {
	p, ok := part.(*partitionImpl)
	if !ok {
		return nil, fmt.Errorf("cannot serialize a foreign Partition implementation")
	}
	data := partitionData{
		ID:      p.id,
		Pos:     p.pos,
		Ints:    make(map[string][]int64),
		Floats:  make(map[string][]float64),
		Strings: make(map[string][]string),
		Bools:   make(map[string][]bool),
	}
	err := p.schema.ForEachColumn(func(name string, col strata.Column) error {
		switch col.Type().(type) {
		case *strata.Int64ColumnType:
			vals := make([]int64, len(p.cols[name]))
			for i, v := range p.cols[name] {
				vals[i] = v.(int64)
			}
			data.Ints[name] = vals
		case *strata.Float64ColumnType:
			vals := make([]float64, len(p.cols[name]))
			for i, v := range p.cols[name] {
				vals[i] = v.(float64)
			}
			data.Floats[name] = vals
		case *strata.StringColumnType:
			vals := make([]string, len(p.cols[name]))
			for i, v := range p.cols[name] {
				vals[i] = v.(string)
			}
			data.Strings[name] = vals
		case *strata.BoolColumnType:
			vals := make([]bool, len(p.cols[name]))
			for i, v := range p.cols[name] {
				vals[i] = v.(bool)
			}
			data.Bools[name] = vals
		default:
			return fmt.Errorf("cannot serialize column %s of type %s", name, col.Type().Name())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FromBytes deserializes a Partition against a known Schema
func FromBytes(b []byte, schema strata.Schema) (strata.OperablePartition, error) {
	var data partitionData
	if err := gob.NewDecoder(bytes.NewReader(b)).Decode(&data); err != nil {
		return nil, err
	}
	p := createPartitionImpl(schema.Clone())
	p.id = data.ID
	p.pos = data.Pos
	err := schema.ForEachColumn(func(name string, col strata.Column) error {
		vals := make([]interface{}, len(data.Pos))
		switch col.Type().(type) {
		case *strata.Int64ColumnType:
			for i, v := range data.Ints[name] {
				vals[i] = v
			}
		case *strata.Float64ColumnType:
			for i, v := range data.Floats[name] {
				vals[i] = v
			}
		case *strata.StringColumnType:
			for i, v := range data.Strings[name] {
				vals[i] = v
			}
		case *strata.BoolColumnType:
			for i, v := range data.Bools[name] {
				vals[i] = v
			}
		default:
			return fmt.Errorf("cannot deserialize column %s of type %s", name, col.Type().Name())
		}
		p.cols[name] = vals
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// LZ4PartitionSerializer is a partition compressor which uses the lz4
// compression algorithm, reusing compression buffers across calls
type LZ4PartitionSerializer struct {
	compressor         *lz4.Writer
	decompressor       *lz4.Reader
	reusableReadBuffer *bytes.Buffer
}

// NewLZ4PartitionSerializer produces an LZ4PartitionSerializer
func NewLZ4PartitionSerializer() *LZ4PartitionSerializer {
	return &LZ4PartitionSerializer{
		compressor:         lz4.NewWriter(new(bytes.Buffer)),
		decompressor:       lz4.NewReader(new(bytes.Buffer)),
		reusableReadBuffer: new(bytes.Buffer),
	}
}

// Compress serializes and compresses a Partition to a Writer
func (pc *LZ4PartitionSerializer) Compress(w io.Writer, part strata.Partition) error {
	raw, err := ToBytes(part)
	if err != nil {
		return err
	}
	pc.compressor.Reset(w)
	if _, err := pc.compressor.Write(raw); err != nil {
		return err
	}
	return pc.compressor.Close()
}

// Decompress reads and deserializes a Partition from a Reader
func (pc *LZ4PartitionSerializer) Decompress(r io.Reader, schema strata.Schema) (strata.OperablePartition, error) {
	pc.decompressor.Reset(r)
	pc.reusableReadBuffer.Reset()
	if _, err := pc.reusableReadBuffer.ReadFrom(pc.decompressor); err != nil {
		return nil, err
	}
	return FromBytes(pc.reusableReadBuffer.Bytes(), schema)
}
