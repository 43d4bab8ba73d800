package strata

// Row is a handle for an individual row within a Partition, offering
// schema-checked access to cell data by column name.
type Row interface {
	GetSchema() Schema                     // GetSchema returns the Schema of this Row
	Pos() int64                            // Pos returns the index value of this Row within the logical dataset
	SetPos(idx int64)                      // SetPos updates the index value of this Row
	Get(colName string) (interface{}, error)  // Get returns the value of a column as an untyped value
	GetInt64(colName string) (int64, error)   // GetInt64 retrieves a value from an Int64 column
	GetFloat64(colName string) (float64, error) // GetFloat64 retrieves a value from a Float64 column
	GetString(colName string) (string, error)   // GetString retrieves a value from a String column
	GetBool(colName string) (bool, error)       // GetBool retrieves a value from a Bool column
	Set(colName string, value interface{}) error // Set modifies a column value, validated against its ColumnType
	SetInt64(colName string, value int64) error
	SetFloat64(colName string, value float64) error
	SetString(colName string, value string) error
	SetBool(colName string, value bool) error
	ToString() string // ToString returns a string representation of this Row
}
