package csvana

import (
	"compress/gzip"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeCSVFile writes content to a file under a fresh temp dir and returns
// its path. A name ending in .gz is gzip-compressed.
func writeCSVFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if strings.HasSuffix(name, ".gz") {
		f, err := os.Create(path)
		if err != nil {
			t.Fatalf("failed to create %s: %v", path, err)
		}
		gw := gzip.NewWriter(f)
		if _, err := gw.Write([]byte(content)); err != nil {
			t.Fatalf("failed to write gzip content: %v", err)
		}
		if err := gw.Close(); err != nil {
			t.Fatalf("failed to close gzip writer: %v", err)
		}
		if err := f.Close(); err != nil {
			t.Fatalf("failed to close %s: %v", path, err)
		}
		return path
	}

	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// stockCSV builds a CSV with a ticker/date/close/volume header and n data
// rows.
func stockCSV(n int) string {
	var sb strings.Builder
	sb.WriteString("ticker,date,close,volume\n")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, "T%03d,2024-01-02,%d.5,%d\n", i%50, 100+i, i)
	}
	return sb.String()
}
