// Package csvana profiles large delimited text datasets and loads them into
// a SQLite database in bounded-size chunks.
//
// The package is built around three operations on an Analyzer:
//
//   - AnalyzeSample reads a bounded prefix of a file, infers a column type
//     and missing-value count per column, and extrapolates the full-file row
//     count and in-memory footprint from the sample.
//   - Load streams the whole file into a database table chunk by chunk.
//     Only one chunk is resident at a time, so peak memory is proportional
//     to the chunk size, not the file size. The first chunk replaces any
//     existing table of the same name; every later chunk appends.
//   - Query and QueryPaged run ad-hoc SQL against the loaded tables,
//     returning either a fully materialized result or a forward-only
//     sequence of row pages.
//
// Compressed inputs (.gz, .bz2, .xz, .zst) are decompressed transparently,
// for sampling and loading alike.
//
// # Basic usage
//
//	db, err := csvana.OpenDatabase("stocks.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	a := csvana.NewAnalyzer(db, csvana.WithChunkSize(50000))
//
//	profile, err := a.AnalyzeSample(ctx, "prices.csv", 10000)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("~%d rows, ~%.2f MB\n", profile.EstimatedTotalRows, profile.EstimatedMemoryUsage)
//
//	rows, err := a.Load(ctx, "prices.csv", "prices")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("loaded %d rows\n", rows)
//
//	res, err := a.Query(ctx, "SELECT COUNT(*) FROM prices")
//
// # Column narrowing
//
// Before each chunk is written, Optimize narrows column storage types from
// the data in that chunk alone: integer columns shrink to the smallest
// signed width that holds every value, and text columns with a low
// distinct-value ratio become categorical. Narrowing decisions are made per
// chunk and are not unified across chunks; the declared SQL schema comes
// from the first chunk only, so the observable column types can depend on
// how data falls across chunk boundaries.
//
// # Failure behavior
//
// A failed Load is not rolled back. Chunks committed before the failure
// stay in the table, and the returned row count says how far the load got.
// Restart the load (which replaces the table) to recover a consistent
// state.
package csvana
