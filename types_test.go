package csvana

import "testing"

func TestColumnType_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		columnType ColumnType
		want       string
	}{
		{ColumnTypeText, "text"},
		{ColumnTypeCategorical, "category"},
		{ColumnTypeInteger, "int64"},
		{ColumnTypeInt8, "int8"},
		{ColumnTypeInt16, "int16"},
		{ColumnTypeInt32, "int32"},
		{ColumnTypeReal, "float64"},
		{ColumnTypeDatetime, "datetime"},
	}

	for _, tt := range tests {
		if got := tt.columnType.String(); got != tt.want {
			t.Errorf("String() = %s, want %s", got, tt.want)
		}
	}
}

func TestColumnType_SQLType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		columnType ColumnType
		want       string
	}{
		{ColumnTypeText, "TEXT"},
		{ColumnTypeCategorical, "TEXT"},
		{ColumnTypeDatetime, "TEXT"},
		{ColumnTypeInteger, "INTEGER"},
		{ColumnTypeInt8, "INTEGER"},
		{ColumnTypeInt16, "INTEGER"},
		{ColumnTypeInt32, "INTEGER"},
		{ColumnTypeReal, "REAL"},
	}

	for _, tt := range tests {
		if got := tt.columnType.SQLType(); got != tt.want {
			t.Errorf("%s: SQLType() = %s, want %s", tt.columnType, got, tt.want)
		}
	}
}

func TestColumnType_width(t *testing.T) {
	t.Parallel()

	tests := []struct {
		columnType ColumnType
		want       int
	}{
		{ColumnTypeInt8, 1},
		{ColumnTypeInt16, 2},
		{ColumnTypeInt32, 4},
		{ColumnTypeInteger, 8},
		{ColumnTypeReal, 8},
		{ColumnTypeDatetime, 8},
		{ColumnTypeText, 0},
		{ColumnTypeCategorical, 0},
	}

	for _, tt := range tests {
		if got := tt.columnType.width(); got != tt.want {
			t.Errorf("%s: width() = %d, want %d", tt.columnType, got, tt.want)
		}
	}
}

func TestHeader_Equal(t *testing.T) {
	t.Parallel()

	t.Run("equal headers", func(t *testing.T) {
		t.Parallel()
		if !(Header{"a", "b"}).Equal(Header{"a", "b"}) {
			t.Error("expected headers to be equal")
		}
	})

	t.Run("different length", func(t *testing.T) {
		t.Parallel()
		if (Header{"a"}).Equal(Header{"a", "b"}) {
			t.Error("expected headers to be not equal")
		}
	})

	t.Run("different values", func(t *testing.T) {
		t.Parallel()
		if (Header{"a", "b"}).Equal(Header{"a", "c"}) {
			t.Error("expected headers to be not equal")
		}
	})
}

func TestRecord_Equal(t *testing.T) {
	t.Parallel()

	if !(Record{"1", "2"}).Equal(Record{"1", "2"}) {
		t.Error("expected records to be equal")
	}
	if (Record{"1"}).Equal(Record{"1", "2"}) {
		t.Error("expected records to be not equal")
	}
	if (Record{"1", "2"}).Equal(Record{"1", "3"}) {
		t.Error("expected records to be not equal")
	}
}

func TestSanitizeTableName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain name", "stocks", "stocks"},
		{"spaces and dashes", "stock market-data", "stock_market_data"},
		{"dots", "prices.2024", "prices_2024"},
		{"leading digit", "9000_tickers", "table_9000_tickers"},
		{"invalid runes dropped", "pr!ces$", "prces"},
		{"empty", "", "data"},
		{"only invalid runes", "!!!", "data"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := sanitizeTableName(tt.in); got != tt.want {
				t.Errorf("sanitizeTableName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
