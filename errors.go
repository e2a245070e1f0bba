package csvana

import "errors"

// Sentinel errors for the failure categories callers can act on.
// Every error returned by this package wraps exactly one of them.
var (
	// ErrIO indicates the input file could not be opened or read.
	ErrIO = errors.New("csvana: file open or read failure")

	// ErrFormat indicates a row whose column count does not match the header.
	ErrFormat = errors.New("csvana: malformed input data")

	// ErrWrite indicates a failed table write. Chunks committed before the
	// failure are not rolled back.
	ErrWrite = errors.New("csvana: table write failure")

	// ErrQuery indicates malformed SQL or a store-level query failure.
	ErrQuery = errors.New("csvana: query failure")
)
