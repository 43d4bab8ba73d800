package strata

import "fmt"

// ColumnType describes the type of values held by a column within a Schema.
// Cell values are validated against their ColumnType when set, which is what
// allows column access to be schema-checked at construction time rather than
// at compute time.
type ColumnType interface {
	Name() string                    // Name returns a unique name for this ColumnType
	IsNumeric() bool                 // IsNumeric returns true iff values of this type can be used in numeric reductions
	Validate(v interface{}) error    // Validate returns an error iff v is not a valid value for this ColumnType
	ToString(v interface{}) string   // ToString produces a string representation of a value of this ColumnType
	ZeroValue() interface{}          // ZeroValue returns the zero value for this ColumnType
}

// Int64ColumnType is a ColumnType for signed 64-bit integers
type Int64ColumnType struct{}

// Name returns a unique name for this ColumnType
func (b *Int64ColumnType) Name() string { return "int64" }

// IsNumeric returns true iff values of this type can be used in numeric reductions
func (b *Int64ColumnType) IsNumeric() bool { return true }

// Validate returns an error iff v is not a valid value for this ColumnType
func (b *Int64ColumnType) Validate(v interface{}) error {
	if _, ok := v.(int64); !ok {
		return fmt.Errorf("value %v is not an int64", v)
	}
	return nil
}

// ToString produces a string representation of a value of this ColumnType
func (b *Int64ColumnType) ToString(v interface{}) string { return fmt.Sprintf("%d", v) }

// ZeroValue returns the zero value for this ColumnType
func (b *Int64ColumnType) ZeroValue() interface{} { return int64(0) }

// Float64ColumnType is a ColumnType for 64-bit floating point numbers
type Float64ColumnType struct{}

// Name returns a unique name for this ColumnType
func (b *Float64ColumnType) Name() string { return "float64" }

// IsNumeric returns true iff values of this type can be used in numeric reductions
func (b *Float64ColumnType) IsNumeric() bool { return true }

// Validate returns an error iff v is not a valid value for this ColumnType
func (b *Float64ColumnType) Validate(v interface{}) error {
	if _, ok := v.(float64); !ok {
		return fmt.Errorf("value %v is not a float64", v)
	}
	return nil
}

// ToString produces a string representation of a value of this ColumnType
func (b *Float64ColumnType) ToString(v interface{}) string { return fmt.Sprintf("%f", v) }

// ZeroValue returns the zero value for this ColumnType
func (b *Float64ColumnType) ZeroValue() interface{} { return float64(0) }

// StringColumnType is a ColumnType for variable-length strings
type StringColumnType struct{}

// Name returns a unique name for this ColumnType
func (b *StringColumnType) Name() string { return "string" }

// IsNumeric returns true iff values of this type can be used in numeric reductions
func (b *StringColumnType) IsNumeric() bool { return false }

// Validate returns an error iff v is not a valid value for this ColumnType
func (b *StringColumnType) Validate(v interface{}) error {
	if _, ok := v.(string); !ok {
		return fmt.Errorf("value %v is not a string", v)
	}
	return nil
}

// ToString produces a string representation of a value of this ColumnType
func (b *StringColumnType) ToString(v interface{}) string { return fmt.Sprintf("%s", v) }

// ZeroValue returns the zero value for this ColumnType
func (b *StringColumnType) ZeroValue() interface{} { return "" }

// BoolColumnType is a ColumnType for booleans
type BoolColumnType struct{}

// Name returns a unique name for this ColumnType
func (b *BoolColumnType) Name() string { return "bool" }

// IsNumeric returns true iff values of this type can be used in numeric reductions
func (b *BoolColumnType) IsNumeric() bool { return false }

// Validate returns an error iff v is not a valid value for this ColumnType
func (b *BoolColumnType) Validate(v interface{}) error {
	if _, ok := v.(bool); !ok {
		return fmt.Errorf("value %v is not a bool", v)
	}
	return nil
}

// ToString produces a string representation of a value of this ColumnType
func (b *BoolColumnType) ToString(v interface{}) string { return fmt.Sprintf("%t", v) }

// ZeroValue returns the zero value for this ColumnType
func (b *BoolColumnType) ZeroValue() interface{} { return false }
