package csvana

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"go.uber.org/zap"
)

// Result is a materialized, read-only query result.
type Result struct {
	// Columns is the result column names, in select order.
	Columns []string
	// Rows holds the result values. Byte slices from the driver are
	// converted to strings; other driver types pass through.
	Rows [][]any
}

// Len returns the number of rows in the result.
func (r *Result) Len() int {
	return len(r.Rows)
}

// Query executes a read query and materializes the full result set at once.
// The SQL is passed to the store as-is; the caller is responsible for
// well-formed read-only statements.
func (a *Analyzer) Query(ctx context.Context, query string) (*Result, error) {
	a.logger.Debug("executing query", zap.String("query", query))

	rows, err := a.db.QueryContext(ctx, query)
	if err != nil {
		a.logger.Error("query failed", zap.String("query", query), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrQuery, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	columns, err := rows.Columns()
	if err != nil {
		a.logger.Error("query failed", zap.String("query", query), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrQuery, err)
	}

	result := &Result{Columns: columns}
	for rows.Next() {
		row, err := scanRow(rows, len(columns))
		if err != nil {
			a.logger.Error("query failed", zap.String("query", query), zap.Error(err))
			return nil, err
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		a.logger.Error("query failed", zap.String("query", query), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrQuery, err)
	}
	return result, nil
}

// QueryPaged executes a read query and returns a lazy, forward-only
// sequence of result pages of at most pageSize rows each. The returned
// Pages holds a store cursor until Close or the final page; it is not
// restartable.
func (a *Analyzer) QueryPaged(ctx context.Context, query string, pageSize int) (*Pages, error) {
	if pageSize <= 0 {
		return nil, fmt.Errorf("%w: page size must be positive, got %d", ErrQuery, pageSize)
	}
	a.logger.Debug("executing paged query",
		zap.String("query", query),
		zap.Int("page_size", pageSize))

	rows, err := a.db.QueryContext(ctx, query)
	if err != nil {
		a.logger.Error("query failed", zap.String("query", query), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrQuery, err)
	}
	columns, err := rows.Columns()
	if err != nil {
		_ = rows.Close()
		a.logger.Error("query failed", zap.String("query", query), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrQuery, err)
	}

	return &Pages{
		rows:     rows,
		columns:  columns,
		pageSize: pageSize,
	}, nil
}

// Pages produces query result pages on demand. Each Next call is the sole
// suspension point: rows are pulled from the store only when asked for.
type Pages struct {
	rows     *sql.Rows
	columns  []string
	pageSize int
	done     bool
}

// Columns returns the result column names.
func (p *Pages) Columns() []string {
	return p.columns
}

// Next returns the next page of at most pageSize rows, or io.EOF after the
// final page. The underlying cursor is released when the sequence ends.
func (p *Pages) Next() (*Result, error) {
	if p.done {
		return nil, io.EOF
	}

	page := &Result{Columns: p.columns, Rows: make([][]any, 0, p.pageSize)}
	for len(page.Rows) < p.pageSize {
		if !p.rows.Next() {
			if err := p.rows.Err(); err != nil {
				_ = p.Close()
				return nil, fmt.Errorf("%w: %v", ErrQuery, err)
			}
			_ = p.Close()
			break
		}
		row, err := scanRow(p.rows, len(p.columns))
		if err != nil {
			_ = p.Close()
			return nil, err
		}
		page.Rows = append(page.Rows, row)
	}

	if len(page.Rows) == 0 {
		return nil, io.EOF
	}
	return page, nil
}

// Close releases the store cursor. Safe to call more than once.
func (p *Pages) Close() error {
	if p.done {
		return nil
	}
	p.done = true
	return p.rows.Close()
}

// scanRow scans the current cursor row into generic values, converting
// driver byte slices to strings.
func scanRow(rows *sql.Rows, columnCount int) ([]any, error) {
	values := make([]any, columnCount)
	pointers := make([]any, columnCount)
	for i := range values {
		pointers[i] = &values[i]
	}
	if err := rows.Scan(pointers...); err != nil {
		return nil, fmt.Errorf("%w: scan row: %v", ErrQuery, err)
	}
	for i, v := range values {
		if b, ok := v.([]byte); ok {
			values[i] = string(b)
		}
	}
	return values, nil
}
