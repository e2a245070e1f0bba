package csvana

import (
	"errors"
	"io"
	"path/filepath"
	"testing"
)

// readAll drains a chunk reader and returns every chunk.
func readAll(t *testing.T, r *ChunkReader) []*Chunk {
	t.Helper()

	var chunks []*Chunk
	for {
		chunk, err := r.Next()
		if errors.Is(err, io.EOF) {
			return chunks
		}
		if err != nil {
			t.Fatalf("Next() failed: %v", err)
		}
		chunks = append(chunks, chunk)
	}
}

func TestChunkReader_ChunkShapes(t *testing.T) {
	t.Parallel()

	t.Run("remainder in final chunk", func(t *testing.T) {
		t.Parallel()

		path := writeCSVFile(t, "data.csv", stockCSV(250))
		reader, err := NewChunkReader(path, 100, nil)
		if err != nil {
			t.Fatalf("NewChunkReader() failed: %v", err)
		}

		chunks := readAll(t, reader)
		if len(chunks) != 3 {
			t.Fatalf("expected 3 chunks, got %d", len(chunks))
		}

		wantLens := []int{100, 100, 50}
		total := 0
		for i, chunk := range chunks {
			if chunk.Len() != wantLens[i] {
				t.Errorf("chunk %d length = %d, want %d", i, chunk.Len(), wantLens[i])
			}
			if chunk.Index != i {
				t.Errorf("chunk index = %d, want %d", chunk.Index, i)
			}
			total += chunk.Len()
		}
		if total != 250 {
			t.Errorf("total rows = %d, want 250", total)
		}
	})

	t.Run("row count divisible by chunk size", func(t *testing.T) {
		t.Parallel()

		path := writeCSVFile(t, "data.csv", stockCSV(200))
		reader, err := NewChunkReader(path, 100, nil)
		if err != nil {
			t.Fatalf("NewChunkReader() failed: %v", err)
		}

		chunks := readAll(t, reader)
		if len(chunks) != 2 {
			t.Fatalf("expected 2 chunks, got %d", len(chunks))
		}
		for i, chunk := range chunks {
			if chunk.Len() != 100 {
				t.Errorf("chunk %d length = %d, want 100", i, chunk.Len())
			}
		}
	})

	t.Run("file smaller than chunk size", func(t *testing.T) {
		t.Parallel()

		path := writeCSVFile(t, "data.csv", stockCSV(7))
		reader, err := NewChunkReader(path, 100, nil)
		if err != nil {
			t.Fatalf("NewChunkReader() failed: %v", err)
		}

		chunks := readAll(t, reader)
		if len(chunks) != 1 || chunks[0].Len() != 7 {
			t.Fatalf("expected one chunk of 7 rows, got %d chunks", len(chunks))
		}
	})

	t.Run("header only file yields no chunks", func(t *testing.T) {
		t.Parallel()

		path := writeCSVFile(t, "data.csv", "a,b,c\n")
		reader, err := NewChunkReader(path, 100, nil)
		if err != nil {
			t.Fatalf("NewChunkReader() failed: %v", err)
		}

		if chunks := readAll(t, reader); len(chunks) != 0 {
			t.Fatalf("expected no chunks, got %d", len(chunks))
		}
	})
}

func TestChunkReader_PreservesColumnOrder(t *testing.T) {
	t.Parallel()

	path := writeCSVFile(t, "data.csv", "b,a,c\n2,1,3\n")
	reader, err := NewChunkReader(path, 10, nil)
	if err != nil {
		t.Fatalf("NewChunkReader() failed: %v", err)
	}

	if !reader.Header().Equal(Header{"b", "a", "c"}) {
		t.Errorf("header = %v, want [b a c]", reader.Header())
	}

	chunks := readAll(t, reader)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if !chunks[0].Rows[0].Equal(Record{"2", "1", "3"}) {
		t.Errorf("row = %v, want [2 1 3]", chunks[0].Rows[0])
	}
}

func TestChunkReader_NotRestartable(t *testing.T) {
	t.Parallel()

	path := writeCSVFile(t, "data.csv", stockCSV(5))
	reader, err := NewChunkReader(path, 10, nil)
	if err != nil {
		t.Fatalf("NewChunkReader() failed: %v", err)
	}

	readAll(t, reader)
	for i := 0; i < 3; i++ {
		if _, err := reader.Next(); !errors.Is(err, io.EOF) {
			t.Fatalf("expected io.EOF after exhaustion, got %v", err)
		}
	}
}

func TestChunkReader_Progress(t *testing.T) {
	t.Parallel()

	path := writeCSVFile(t, "data.csv", stockCSV(250))

	type call struct{ processed, total int64 }
	var calls []call
	reader, err := NewChunkReader(path, 100, func(processed, total int64) {
		calls = append(calls, call{processed, total})
	})
	if err != nil {
		t.Fatalf("NewChunkReader() failed: %v", err)
	}
	readAll(t, reader)

	want := []call{{0, 250}, {100, 250}, {200, 250}, {250, 250}}
	if len(calls) != len(want) {
		t.Fatalf("expected %d progress calls, got %d: %v", len(want), len(calls), calls)
	}
	for i, c := range calls {
		if c != want[i] {
			t.Errorf("progress call %d = %+v, want %+v", i, c, want[i])
		}
	}
}

func TestChunkReader_Errors(t *testing.T) {
	t.Parallel()

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := NewChunkReader(filepath.Join(t.TempDir(), "absent.csv"), 100, nil)
		if !errors.Is(err, ErrIO) {
			t.Fatalf("expected ErrIO, got %v", err)
		}
	})

	t.Run("column count mismatch", func(t *testing.T) {
		t.Parallel()

		path := writeCSVFile(t, "data.csv", "a,b,c\n1,2,3\n4,5\n")
		reader, err := NewChunkReader(path, 100, nil)
		if err != nil {
			t.Fatalf("NewChunkReader() failed: %v", err)
		}

		_, err = reader.Next()
		if !errors.Is(err, ErrFormat) {
			t.Fatalf("expected ErrFormat, got %v", err)
		}

		// The sequence is exhausted after an error.
		if _, err := reader.Next(); !errors.Is(err, io.EOF) {
			t.Fatalf("expected io.EOF after error, got %v", err)
		}
	})

	t.Run("empty file", func(t *testing.T) {
		t.Parallel()

		path := writeCSVFile(t, "data.csv", "")
		if _, err := NewChunkReader(path, 100, nil); !errors.Is(err, ErrFormat) {
			t.Fatalf("expected ErrFormat for empty file, got %v", err)
		}
	})
}

func TestChunkReader_GzipInput(t *testing.T) {
	t.Parallel()

	path := writeCSVFile(t, "data.csv.gz", stockCSV(42))
	reader, err := NewChunkReader(path, 20, nil)
	if err != nil {
		t.Fatalf("NewChunkReader() failed: %v", err)
	}

	if reader.TotalRows() != 42 {
		t.Errorf("TotalRows() = %d, want 42", reader.TotalRows())
	}

	chunks := readAll(t, reader)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	if chunks[2].Len() != 2 {
		t.Errorf("final chunk length = %d, want 2", chunks[2].Len())
	}
}

func TestCountLines(t *testing.T) {
	t.Parallel()

	t.Run("trailing newline", func(t *testing.T) {
		t.Parallel()

		path := writeCSVFile(t, "data.csv", "a\n1\n2\n")
		lines, err := countLines(path)
		if err != nil {
			t.Fatalf("countLines() failed: %v", err)
		}
		if lines != 3 {
			t.Errorf("countLines() = %d, want 3", lines)
		}
	})

	t.Run("no trailing newline", func(t *testing.T) {
		t.Parallel()

		path := writeCSVFile(t, "data.csv", "a\n1\n2")
		lines, err := countLines(path)
		if err != nil {
			t.Fatalf("countLines() failed: %v", err)
		}
		if lines != 3 {
			t.Errorf("countLines() = %d, want 3", lines)
		}
	})

	t.Run("empty file", func(t *testing.T) {
		t.Parallel()

		path := writeCSVFile(t, "data.csv", "")
		lines, err := countLines(path)
		if err != nil {
			t.Fatalf("countLines() failed: %v", err)
		}
		if lines != 0 {
			t.Errorf("countLines() = %d, want 0", lines)
		}
	})
}
