package csvana

import (
	"strconv"
	"strings"
)

// categoricalRatio is the distinct-value ratio below which a text column is
// narrowed to a categorical encoding.
const categoricalRatio = 0.5

// Signed integer bounds for narrowing targets.
const (
	maxInt8  = 127
	minInt8  = -128
	maxInt16 = 32767
	minInt16 = -32768
	maxInt32 = 2147483647
	minInt32 = -2147483648
)

// Optimize narrows the column storage types of a chunk to reduce its memory
// footprint. Values are never changed, only the type annotations:
//
//   - a text column whose distinct-value ratio is below 0.5 becomes
//     categorical;
//   - an integer column narrows to the smallest signed width (8, 16 or 32
//     bits) that holds every value, or stays 64-bit.
//
// Decisions are made from the rows of this chunk alone; a later chunk may
// narrow the same column differently. A chunk with zero rows is returned
// unchanged.
func Optimize(c *Chunk) *Chunk {
	if c.Len() == 0 {
		return c
	}

	columns := make([]ColumnInfo, len(c.Columns))
	copy(columns, c.Columns)

	for i := range columns {
		switch {
		case columns[i].Type == ColumnTypeText:
			if distinctRatio(c.Rows, i) < categoricalRatio {
				columns[i].Type = ColumnTypeCategorical
			}
		case columns[i].Type == ColumnTypeInteger:
			columns[i].Type = narrowIntegerType(c.Rows, i)
		}
	}

	return &Chunk{
		Header:  c.Header,
		Rows:    c.Rows,
		Columns: columns,
		Index:   c.Index,
	}
}

// distinctRatio returns distinct values over row count for one column.
func distinctRatio(rows []Record, col int) float64 {
	seen := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		if col < len(row) {
			seen[row[col]] = struct{}{}
		}
	}
	return float64(len(seen)) / float64(len(rows))
}

// narrowIntegerType returns the smallest signed integer type that holds
// every value of the column. Any value outside a target's range keeps the
// column at the next wider type; unparseable or empty values keep it at 64
// bits so no value can overflow the declared width.
func narrowIntegerType(rows []Record, col int) ColumnType {
	var minVal, maxVal int64
	seen := false

	for _, row := range rows {
		if col >= len(row) {
			continue
		}
		value := strings.TrimSpace(row[col])
		if value == "" {
			continue
		}
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return ColumnTypeInteger
		}
		if !seen {
			minVal, maxVal = n, n
			seen = true
			continue
		}
		if n < minVal {
			minVal = n
		}
		if n > maxVal {
			maxVal = n
		}
	}

	switch {
	case !seen:
		return ColumnTypeInteger
	case minVal >= minInt8 && maxVal <= maxInt8:
		return ColumnTypeInt8
	case minVal >= minInt16 && maxVal <= maxInt16:
		return ColumnTypeInt16
	case minVal >= minInt32 && maxVal <= maxInt32:
		return ColumnTypeInt32
	default:
		return ColumnTypeInteger
	}
}
