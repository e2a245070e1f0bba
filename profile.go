package csvana

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
)

// Profile describes a dataset's structure as inferred from a bounded sample
// of leading rows, plus whole-file estimates extrapolated from that sample.
// A profile is reporting data only; nothing in it is persisted.
type Profile struct {
	// SampleRows is the number of data rows actually read.
	SampleRows int
	// ColumnTypes maps column name to its inferred storage type.
	ColumnTypes map[string]ColumnType
	// MissingValues maps column name to the count of empty values in the
	// sample.
	MissingValues map[string]int
	// MemoryUsage maps column name to the estimated in-memory size in
	// bytes of that column's sample values.
	MemoryUsage map[string]float64
	// EstimatedTotalRows is the full-file data-row count (line count minus
	// the header).
	EstimatedTotalRows int64
	// EstimatedMemoryUsage is the extrapolated in-memory size of the whole
	// file in megabytes: the summed sample footprint scaled by total rows
	// over sample rows.
	EstimatedMemoryUsage float64
}

// AnalyzeSample reads at most sampleSize leading data rows of the file at
// path and profiles its structure. The whole file is scanned once to count
// lines, but only the sample is materialized, so memory stays bounded by
// the sample size. A non-positive sampleSize falls back to
// DefaultSampleSize.
//
// AnalyzeSample never writes to the store, so a failed profile has no
// destructive effect.
func (a *Analyzer) AnalyzeSample(ctx context.Context, path string, sampleSize int) (*Profile, error) {
	if sampleSize <= 0 {
		sampleSize = DefaultSampleSize
	}
	a.logger.Info("analyzing sample",
		zap.String("path", path),
		zap.Int("sample_size", sampleSize))

	totalLines, err := countLines(path)
	if err != nil {
		a.logger.Error("sample analysis failed", zap.String("path", path), zap.Error(err))
		return nil, err
	}
	totalRows := totalLines - 1
	if totalRows < 0 {
		totalRows = 0
	}

	header, rows, err := readSample(ctx, path, sampleSize)
	if err != nil {
		a.logger.Error("sample analysis failed", zap.String("path", path), zap.Error(err))
		return nil, err
	}

	profile := &Profile{
		SampleRows:         len(rows),
		ColumnTypes:        make(map[string]ColumnType, len(header)),
		MissingValues:      make(map[string]int, len(header)),
		MemoryUsage:        make(map[string]float64, len(header)),
		EstimatedTotalRows: totalRows,
	}

	var sampleBytes float64
	for i, col := range inferColumns(header, rows) {
		missing := 0
		var colBytes float64
		width := col.Type.width()
		for _, row := range rows {
			if i >= len(row) {
				missing++
				continue
			}
			if strings.TrimSpace(row[i]) == "" {
				missing++
			}
			if width > 0 {
				colBytes += float64(width)
			} else {
				colBytes += float64(len(row[i]) + stringOverheadBytes)
			}
		}
		profile.ColumnTypes[col.Name] = col.Type
		profile.MissingValues[col.Name] = missing
		profile.MemoryUsage[col.Name] = colBytes
		sampleBytes += colBytes
	}

	// When the sample covers the whole file the factor collapses to 1 and
	// the estimate is exact for the sampled representation.
	if profile.SampleRows > 0 {
		factor := float64(totalRows) / float64(profile.SampleRows)
		profile.EstimatedMemoryUsage = sampleBytes * factor / bytesPerMB
	}

	a.logger.Info("sample analysis complete",
		zap.String("path", path),
		zap.Int("sample_rows", profile.SampleRows),
		zap.Int64("estimated_total_rows", profile.EstimatedTotalRows),
		zap.Float64("estimated_memory_mb", profile.EstimatedMemoryUsage))
	return profile, nil
}

// readSample reads the header and up to sampleSize data rows.
func readSample(ctx context.Context, path string, sampleSize int) (Header, []Record, error) {
	rc, err := openFile(path)
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		_ = rc.Close()
	}()

	csvReader := csv.NewReader(rc)
	headerRecord, err := csvReader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, fmt.Errorf("%w: %s has no header row", ErrFormat, path)
		}
		return nil, nil, fmt.Errorf("%w: read header of %s: %v", ErrIO, path, err)
	}
	header := Header(headerRecord)

	rows := make([]Record, 0, sampleSize)
	for len(rows) < sampleSize {
		if err := ctx.Err(); err != nil {
			return nil, nil, fmt.Errorf("%w: read %s: %v", ErrIO, path, err)
		}
		record, err := csvReader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) && errors.Is(parseErr.Err, csv.ErrFieldCount) {
				return nil, nil, fmt.Errorf("%w: %s line %d: expected %d columns", ErrFormat, path, parseErr.Line, len(header))
			}
			return nil, nil, fmt.Errorf("%w: read %s: %v", ErrIO, path, err)
		}
		rows = append(rows, Record(record))
	}
	return header, rows, nil
}
