package csvana

// Processing defaults.
const (
	// DefaultChunkSize is the number of rows read per chunk when no
	// explicit chunk size is configured.
	DefaultChunkSize = 10000

	// DefaultSampleSize is the number of leading rows AnalyzeSample reads
	// when no explicit sample size is given.
	DefaultSampleSize = 10000
)

// bytesPerMB converts byte counts to megabytes in reported estimates.
const bytesPerMB = 1024 * 1024

// stringOverheadBytes approximates the fixed per-value cost of a Go string
// (header plus allocator slack) on top of its character data. Used only for
// memory footprint estimation.
const stringOverheadBytes = 16

// Header is the column names of a file, in file order.
type Header []string

// Equal compares two headers.
func (h Header) Equal(h2 Header) bool {
	if len(h) != len(h2) {
		return false
	}
	for i, v := range h {
		if v != h2[i] {
			return false
		}
	}
	return true
}

// Record is one data row, values in header order.
type Record []string

// Equal compares two records.
func (r Record) Equal(r2 Record) bool {
	if len(r) != len(r2) {
		return false
	}
	for i, v := range r {
		if v != r2[i] {
			return false
		}
	}
	return true
}

// ColumnType is the inferred storage type of a column.
type ColumnType int

const (
	// ColumnTypeText is arbitrary string data.
	ColumnTypeText ColumnType = iota
	// ColumnTypeCategorical is text narrowed to a dictionary encoding
	// because the column repeats few distinct values.
	ColumnTypeCategorical
	// ColumnTypeInteger is a 64-bit signed integer.
	ColumnTypeInteger
	// ColumnTypeInt8 is an integer narrowed to 8 signed bits.
	ColumnTypeInt8
	// ColumnTypeInt16 is an integer narrowed to 16 signed bits.
	ColumnTypeInt16
	// ColumnTypeInt32 is an integer narrowed to 32 signed bits.
	ColumnTypeInt32
	// ColumnTypeReal is a 64-bit float.
	ColumnTypeReal
	// ColumnTypeDatetime is a date or timestamp, stored as TEXT in SQLite.
	ColumnTypeDatetime
)

const (
	sqlTypeText    = "TEXT"
	sqlTypeInteger = "INTEGER"
	sqlTypeReal    = "REAL"
)

// String returns the reporting name of the type.
func (ct ColumnType) String() string {
	switch ct {
	case ColumnTypeText:
		return "text"
	case ColumnTypeCategorical:
		return "category"
	case ColumnTypeInteger:
		return "int64"
	case ColumnTypeInt8:
		return "int8"
	case ColumnTypeInt16:
		return "int16"
	case ColumnTypeInt32:
		return "int32"
	case ColumnTypeReal:
		return "float64"
	case ColumnTypeDatetime:
		return "datetime"
	default:
		return "text"
	}
}

// SQLType returns the SQLite column type used when declaring a table schema.
func (ct ColumnType) SQLType() string {
	switch ct {
	case ColumnTypeInteger, ColumnTypeInt8, ColumnTypeInt16, ColumnTypeInt32:
		return sqlTypeInteger
	case ColumnTypeReal:
		return sqlTypeReal
	default:
		// Categorical and datetime values are stored as TEXT.
		return sqlTypeText
	}
}

// IsInteger reports whether the type holds integers at any width.
func (ct ColumnType) IsInteger() bool {
	switch ct {
	case ColumnTypeInteger, ColumnTypeInt8, ColumnTypeInt16, ColumnTypeInt32:
		return true
	default:
		return false
	}
}

// width returns the fixed per-value storage size in bytes, or 0 for
// variable-width types.
func (ct ColumnType) width() int {
	switch ct {
	case ColumnTypeInt8:
		return 1
	case ColumnTypeInt16:
		return 2
	case ColumnTypeInt32:
		return 4
	case ColumnTypeInteger, ColumnTypeReal, ColumnTypeDatetime:
		return 8
	default:
		return 0
	}
}

// ColumnInfo is a column name paired with its inferred storage type.
type ColumnInfo struct {
	Name string
	Type ColumnType
}

// sanitizeTableName makes a string safe to use as a quoted SQLite table
// name: spaces, dashes and dots become underscores, anything else outside
// [A-Za-z0-9_] is dropped, and a leading digit gets a prefix.
func sanitizeTableName(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r == ' ' || r == '-' || r == '.':
			out = append(out, '_')
		case r == '_',
			r >= 'a' && r <= 'z',
			r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9':
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return "data"
	}
	if out[0] >= '0' && out[0] <= '9' {
		return "table_" + string(out)
	}
	return string(out)
}
