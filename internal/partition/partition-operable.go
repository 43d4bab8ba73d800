package partition

import (
	"github.com/go-strata/strata"
	"github.com/hashicorp/go-multierror"
)

// MapRows runs a MapOperation on each row, producing a new Partition. Row
// errors are accumulated rather than stopping at the first, and failing rows
// are dropped from the result.
func (p *partitionImpl) MapRows(fn strata.MapOperation) (strata.OperablePartition, error) {
	result := createPartitionImpl(p.schema.Clone())
	var multierr *multierror.Error
	for i := 0; i < p.GetNumRows(); i++ {
		result.appendRowFrom(p, i)
		err := fn(result.GetRow(result.GetNumRows() - 1))
		if err != nil {
			multierr = multierror.Append(multierr, err)
			result.truncateLast()
		}
	}
	return result, multierr.ErrorOrNil()
}

// FilterRows retains only rows for which fn returns true, creating a new
// Partition. Row errors are accumulated, and failing rows are dropped.
func (p *partitionImpl) FilterRows(fn strata.FilterOperation) (strata.OperablePartition, error) {
	result := createPartitionImpl(p.schema.Clone())
	var multierr *multierror.Error
	for i := 0; i < p.GetNumRows(); i++ {
		keep, err := fn(p.GetRow(i))
		if err != nil {
			multierr = multierror.Append(multierr, err)
			continue
		}
		if keep {
			result.appendRowFrom(p, i)
		}
	}
	return result, multierr.ErrorOrNil()
}

// BoundarySlice returns the rows whose index values fall within the given
// range, with explicit endpoint inclusivity. Row order is preserved.
func (p *partitionImpl) BoundarySlice(lo int64, hi int64, loInclusive bool, hiInclusive bool) (strata.OperablePartition, error) {
	result := createPartitionImpl(p.schema.Clone())
	for i := 0; i < p.GetNumRows(); i++ {
		idx := p.pos[i]
		aboveLo := idx > lo || (loInclusive && idx == lo)
		belowHi := idx < hi || (hiInclusive && idx == hi)
		if aboveLo && belowHi {
			result.appendRowFrom(p, i)
		}
	}
	return result, nil
}

// Repack rebuilds this Partition according to a new Schema, copying shared
// columns, zero-filling new ones and dropping the rest
func (p *partitionImpl) Repack(newSchema strata.Schema) (strata.OperablePartition, error) {
	result := createPartitionImpl(newSchema.Clone())
	result.pos = make([]int64, len(p.pos))
	copy(result.pos, p.pos)
	err := newSchema.ForEachColumn(func(name string, col strata.Column) error {
		vals, shared := p.cols[name]
		copied := make([]interface{}, len(p.pos))
		if shared {
			copy(copied, vals)
		} else {
			for i := range copied {
				copied[i] = col.Type().ZeroValue()
			}
		}
		result.cols[name] = copied
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
