package csvana

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"
	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver
)

// Analyzer profiles delimited files and loads them into a relational store.
// The store handle is passed in explicitly and shared across operations;
// Analyzer never opens or closes it.
//
// Chunk production is lazy and driven by the caller, so peak memory stays
// proportional to the chunk size.
type Analyzer struct {
	db        *sql.DB
	chunkSize int
	logger    *zap.Logger
	progress  ProgressFunc
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithChunkSize sets the number of rows read and written per chunk.
// Non-positive values are ignored.
func WithChunkSize(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.chunkSize = n
		}
	}
}

// WithLogger sets the logger. The default is a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithProgress sets a callback invoked with row progress while files are
// read during Load.
func WithProgress(fn ProgressFunc) Option {
	return func(a *Analyzer) {
		a.progress = fn
	}
}

// NewAnalyzer creates an Analyzer over an open database handle.
func NewAnalyzer(db *sql.DB, opts ...Option) *Analyzer {
	a := &Analyzer{
		db:        db,
		chunkSize: DefaultChunkSize,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ChunkSize returns the configured rows-per-chunk.
func (a *Analyzer) ChunkSize() int {
	return a.chunkSize
}

// OpenDatabase opens a SQLite database at path, or an in-memory database
// when path is ":memory:". The caller owns the returned handle.
func OpenDatabase(path string) (*sql.DB, error) {
	if path == "" {
		path = ":memory:"
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}
	// A single connection keeps :memory: databases coherent across calls.
	db.SetMaxOpenConns(1)
	return db, nil
}
