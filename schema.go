package strata

// Schema is a registry mapping column names to typed column descriptors.
// It allows one to look up columns by name, define new columns, rename
// and remove columns, etc. Schemas double as the zero-row metadata sample
// for a Collection: every transformation must produce a Schema consistent
// with a full computation, or fail explicitly.
type Schema interface {
	Equals(otherSchema Schema) error
	Clone() Schema
	NumColumns() int
	GetColumn(colName string) (col Column, err error)
	HasColumn(colName string) bool
	CreateColumn(colName string, columnType ColumnType) (newSchema Schema, err error)
	RenameColumn(oldName string, newName string) (newSchema Schema, err error)
	RemoveColumn(colName string) (newSchema Schema, wasRemoved bool)
	ColumnNames() []string
	ColumnTypes() []ColumnType
	NumericColumnNames() []string
	ForEachColumn(fn func(name string, col Column) error) error
}
