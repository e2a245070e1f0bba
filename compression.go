package csvana

import (
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// Compression extensions recognized on input files.
const (
	extGZ   = ".gz"
	extBZ2  = ".bz2"
	extXZ   = ".xz"
	extZSTD = ".zst"
)

// fileReader is an io.ReadCloser over a possibly compressed file. Close
// releases the decompressor (when it has one) and the underlying file.
type fileReader struct {
	io.Reader
	closers []func() error
}

// Close runs all registered closers, keeping the first error.
func (fr *fileReader) Close() error {
	var firstErr error
	for _, c := range fr.closers {
		if err := c(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// openFile opens path for reading, transparently decompressing .gz, .bz2,
// .xz and .zst inputs based on the file extension.
func openFile(path string) (io.ReadCloser, error) {
	file, err := os.Open(path) //nolint:gosec // Caller-resolved dataset path.
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrIO, path, err)
	}

	fr := &fileReader{Reader: file, closers: []func() error{file.Close}}

	switch {
	case strings.HasSuffix(strings.ToLower(path), extGZ):
		gzReader, err := gzip.NewReader(file)
		if err != nil {
			_ = file.Close()
			return nil, fmt.Errorf("%w: gzip reader for %s: %v", ErrIO, path, err)
		}
		fr.Reader = gzReader
		fr.closers = append([]func() error{gzReader.Close}, fr.closers...)

	case strings.HasSuffix(strings.ToLower(path), extBZ2):
		// bzip2 readers need no close.
		fr.Reader = bzip2.NewReader(file)

	case strings.HasSuffix(strings.ToLower(path), extXZ):
		xzReader, err := xz.NewReader(file)
		if err != nil {
			_ = file.Close()
			return nil, fmt.Errorf("%w: xz reader for %s: %v", ErrIO, path, err)
		}
		fr.Reader = xzReader

	case strings.HasSuffix(strings.ToLower(path), extZSTD):
		decoder, err := zstd.NewReader(file)
		if err != nil {
			_ = file.Close()
			return nil, fmt.Errorf("%w: zstd reader for %s: %v", ErrIO, path, err)
		}
		fr.Reader = decoder
		fr.closers = append([]func() error{func() error { decoder.Close(); return nil }}, fr.closers...)
	}

	return fr, nil
}
