// Package errs defines the error values shared by the chainsum packages.
//
// Sentinel errors are compared with errors.Is. The typed errors in this package
// carry the location or statistic that failed and unwrap to their sentinel, so
// callers can match either the class of failure or its details:
//
//	var rowErr *errs.MalformedRowError
//	if errors.As(err, &rowErr) {
//	    fmt.Printf("%s line %d\n", rowErr.File, rowErr.Line)
//	}
package errs

import "errors"

var (
	// ErrMalformedRow is returned when a chain line cannot be parsed into a sample.
	ErrMalformedRow = errors.New("malformed row")
	// ErrSchemaMismatch is returned when chains of one run disagree on their columns.
	ErrSchemaMismatch = errors.New("schema mismatch")
	// ErrInsufficientData is returned when a statistic has no weighted samples to work on.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrComponentMismatch marks component objectives that do not add up to the total objective.
	ErrComponentMismatch = errors.New("component objectives do not sum to total")
	// ErrDegenerateFit is returned when a derived fit has a zero-variance regressor.
	ErrDegenerateFit = errors.New("degenerate fit")

	ErrInvalidBurnIn          = errors.New("burn-in fraction must be in [0, 1)")
	ErrInvalidQuantile        = errors.New("quantile fraction must be in [0, 1]")
	ErrNoChains               = errors.New("no chain files found")
	ErrAmbiguousPrefix        = errors.New("ambiguous chain prefix")
	ErrDuplicateChain         = errors.New("duplicate chain index")
	ErrUnknownParameter       = errors.New("unknown parameter")
	ErrDuplicateParameter     = errors.New("duplicate parameter name")
	ErrUnknownRun             = errors.New("unknown run")
	ErrInvalidConfig          = errors.New("invalid configuration")
	ErrUnsupportedCompression = errors.New("unsupported compression")
	ErrLengthMismatch         = errors.New("mismatched data lengths")
)
