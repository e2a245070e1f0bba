package csvana

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

// ProgressFunc receives progress notifications while a file is read.
// It is called once with (0, total) after the line-count pre-pass and again
// after every chunk with the number of data rows read so far.
type ProgressFunc func(processed, total int64)

// Chunk is a bounded run of data rows sharing the file's header.
// Chunks are transient: the loader writes one and drops it before the next
// is read.
type Chunk struct {
	// Header is the file's column names, in file order.
	Header Header
	// Rows holds up to chunkSize records, values in header order.
	Rows []Record
	// Columns is the per-column type information inferred from this
	// chunk's rows alone.
	Columns []ColumnInfo
	// Index is the zero-based position of the chunk within the file.
	Index int
}

// Len returns the number of data rows in the chunk.
func (c *Chunk) Len() int {
	return len(c.Rows)
}

// EstimatedBytes estimates the in-memory size of the chunk's values under
// its current column types. Fixed-width types cost their width per value;
// text costs the character data plus per-string overhead; categorical costs
// the distinct values once plus a 2-byte code per row.
func (c *Chunk) EstimatedBytes() int64 {
	var total int64
	for i, col := range c.Columns {
		if w := col.Type.width(); w > 0 {
			total += int64(w) * int64(len(c.Rows))
			continue
		}
		if col.Type == ColumnTypeCategorical {
			seen := make(map[string]struct{})
			for _, row := range c.Rows {
				if i < len(row) {
					if _, ok := seen[row[i]]; !ok {
						seen[row[i]] = struct{}{}
						total += int64(len(row[i]) + stringOverheadBytes)
					}
				}
			}
			total += 2 * int64(len(c.Rows))
			continue
		}
		for _, row := range c.Rows {
			if i < len(row) {
				total += int64(len(row[i]) + stringOverheadBytes)
			}
		}
	}
	return total
}

// ChunkReader streams a delimited file as a lazy, finite, forward-only
// sequence of chunks. Every chunk holds exactly chunkSize rows except
// possibly the last. The sequence is not restartable; create a new reader
// to read the file again.
//
// Construction runs a pre-pass over the whole file to count lines, an
// explicit cost paid for an accurate progress signal.
type ChunkReader struct {
	path      string
	chunkSize int
	rc        io.ReadCloser
	csv       *csv.Reader
	header    Header
	totalRows int64
	processed int64
	progress  ProgressFunc
	index     int
	done      bool
}

// NewChunkReader opens path and prepares chunked reading with chunkSize
// rows per chunk. A non-positive chunkSize falls back to DefaultChunkSize.
// The progress callback may be nil.
func NewChunkReader(path string, chunkSize int, progress ProgressFunc) (*ChunkReader, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	totalLines, err := countLines(path)
	if err != nil {
		return nil, err
	}
	totalRows := totalLines - 1 // header line
	if totalRows < 0 {
		totalRows = 0
	}

	rc, err := openFile(path)
	if err != nil {
		return nil, err
	}

	csvReader := csv.NewReader(rc)
	headerRecord, err := csvReader.Read()
	if err != nil {
		_ = rc.Close()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %s has no header row", ErrFormat, path)
		}
		return nil, fmt.Errorf("%w: read header of %s: %v", ErrIO, path, err)
	}

	r := &ChunkReader{
		path:      path,
		chunkSize: chunkSize,
		rc:        rc,
		csv:       csvReader,
		header:    Header(headerRecord),
		totalRows: totalRows,
		progress:  progress,
	}
	if progress != nil {
		progress(0, totalRows)
	}
	return r, nil
}

// Header returns the file's column names.
func (r *ChunkReader) Header() Header {
	return r.header
}

// TotalRows returns the data-row count established by the pre-pass.
func (r *ChunkReader) TotalRows() int64 {
	return r.totalRows
}

// Next returns the next chunk, or io.EOF after the last chunk has been
// yielded. A row whose column count differs from the header fails with an
// error wrapping ErrFormat; after any error the reader is exhausted.
func (r *ChunkReader) Next() (*Chunk, error) {
	if r.done {
		return nil, io.EOF
	}

	rows := make([]Record, 0, r.chunkSize)
	for len(rows) < r.chunkSize {
		record, err := r.csv.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				r.done = true
				_ = r.rc.Close()
				break
			}
			r.done = true
			_ = r.rc.Close()
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) && errors.Is(parseErr.Err, csv.ErrFieldCount) {
				return nil, fmt.Errorf("%w: %s line %d: expected %d columns", ErrFormat, r.path, parseErr.Line, len(r.header))
			}
			return nil, fmt.Errorf("%w: read %s: %v", ErrIO, r.path, err)
		}
		rows = append(rows, Record(record))
	}

	if len(rows) == 0 {
		return nil, io.EOF
	}

	r.processed += int64(len(rows))
	if r.progress != nil {
		r.progress(r.processed, r.totalRows)
	}

	chunk := &Chunk{
		Header:  r.header,
		Rows:    rows,
		Columns: inferColumns(r.header, rows),
		Index:   r.index,
	}
	r.index++
	return chunk, nil
}

// Close releases the underlying file. It is safe to call more than once.
func (r *ChunkReader) Close() error {
	if r.done {
		return nil
	}
	r.done = true
	return r.rc.Close()
}

// countLines counts the lines of a possibly compressed file, including a
// final line without a trailing newline.
func countLines(path string) (int64, error) {
	rc, err := openFile(path)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = rc.Close()
	}()

	buf := make([]byte, 64*1024)
	var lines int64
	var lastByte byte
	for {
		n, err := rc.Read(buf)
		if n > 0 {
			lines += int64(bytes.Count(buf[:n], []byte{'\n'}))
			lastByte = buf[n-1]
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return 0, fmt.Errorf("%w: count lines of %s: %v", ErrIO, path, err)
		}
	}
	if lastByte != 0 && lastByte != '\n' {
		lines++
	}
	return lines, nil
}
