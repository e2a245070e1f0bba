package csvana

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
)

// Load streams the file at path into the table named tableName, one chunk
// at a time: read, optimize, write, release, then the next chunk. The first
// chunk's write replaces any existing table of the same name and declares
// the schema from that chunk's optimized column types; every later chunk
// appends. Returns the number of rows written.
//
// On failure the rows already committed stay in the table; there is no
// rollback and no resumption. Restart the load to get a consistent table.
func (a *Analyzer) Load(ctx context.Context, path, tableName string) (int64, error) {
	tableName = sanitizeTableName(tableName)
	a.logger.Info("loading file",
		zap.String("path", path),
		zap.String("table", tableName),
		zap.Int("chunk_size", a.chunkSize))

	reader, err := NewChunkReader(path, a.chunkSize, a.progress)
	if err != nil {
		a.logger.Error("load failed", zap.String("path", path), zap.Error(err))
		return 0, err
	}
	defer func() {
		_ = reader.Close()
	}()

	var (
		written    int64
		insertStmt *sql.Stmt
	)
	defer func() {
		if insertStmt != nil {
			_ = insertStmt.Close()
		}
	}()

	for {
		chunk, err := reader.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			a.logger.Error("load failed",
				zap.String("path", path),
				zap.String("table", tableName),
				zap.Int64("rows_committed", written),
				zap.Error(err))
			return written, err
		}

		chunk = Optimize(chunk)
		a.logger.Debug("writing chunk",
			zap.Int("chunk", chunk.Index),
			zap.Int("rows", chunk.Len()),
			zap.Int64("estimated_bytes", chunk.EstimatedBytes()))

		if insertStmt == nil {
			if err := a.replaceTable(ctx, tableName, chunk); err != nil {
				a.logger.Error("load failed", zap.String("table", tableName), zap.Error(err))
				return written, err
			}
			insertStmt, err = a.prepareInsert(ctx, tableName, chunk)
			if err != nil {
				a.logger.Error("load failed", zap.String("table", tableName), zap.Error(err))
				return written, err
			}
		}

		if err := insertChunk(ctx, insertStmt, chunk); err != nil {
			a.logger.Error("load failed",
				zap.String("table", tableName),
				zap.Int("chunk", chunk.Index),
				zap.Int64("rows_committed", written),
				zap.Error(err))
			return written, err
		}
		written += int64(chunk.Len())
	}

	// Header-only file: still honor replace semantics with an empty table.
	if insertStmt == nil {
		emptyChunk := &Chunk{
			Header:  reader.Header(),
			Columns: inferColumns(reader.Header(), nil),
		}
		if err := a.replaceTable(ctx, tableName, emptyChunk); err != nil {
			a.logger.Error("load failed", zap.String("table", tableName), zap.Error(err))
			return 0, err
		}
	}

	a.logger.Info("load complete",
		zap.String("table", tableName),
		zap.Int64("rows", written))
	return written, nil
}

// replaceTable drops any existing table of the same name and creates a
// fresh one with the schema declared by the chunk's column types.
func (a *Analyzer) replaceTable(ctx context.Context, tableName string, chunk *Chunk) error {
	if _, err := a.db.ExecContext(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS "%s"`, tableName)); err != nil {
		return fmt.Errorf("%w: drop table %s: %v", ErrWrite, tableName, err)
	}

	columns := make([]string, 0, len(chunk.Columns))
	for _, col := range chunk.Columns {
		columns = append(columns, fmt.Sprintf(`"%s" %s`, col.Name, col.Type.SQLType()))
	}
	query := fmt.Sprintf(`CREATE TABLE "%s" (%s)`, tableName, strings.Join(columns, ", "))
	if _, err := a.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("%w: create table %s: %v", ErrWrite, tableName, err)
	}
	return nil
}

// prepareInsert prepares the INSERT statement reused for every chunk.
func (a *Analyzer) prepareInsert(ctx context.Context, tableName string, chunk *Chunk) (*sql.Stmt, error) {
	placeholders := make([]string, len(chunk.Header))
	for i := range placeholders {
		placeholders[i] = "?"
	}
	query := fmt.Sprintf(`INSERT INTO "%s" VALUES (%s)`, tableName, strings.Join(placeholders, ", "))
	stmt, err := a.db.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: prepare insert for %s: %v", ErrWrite, tableName, err)
	}
	return stmt, nil
}

// insertChunk appends every row of a chunk through the prepared statement.
// Appends blindly; duplicate detection is not this layer's job.
func insertChunk(ctx context.Context, stmt *sql.Stmt, chunk *Chunk) error {
	values := make([]any, len(chunk.Header))
	for _, row := range chunk.Rows {
		for i := range values {
			if i < len(row) {
				values[i] = row[i]
			} else {
				values[i] = nil
			}
		}
		if _, err := stmt.ExecContext(ctx, values...); err != nil {
			return fmt.Errorf("%w: insert row: %v", ErrWrite, err)
		}
	}
	return nil
}
