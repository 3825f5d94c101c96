package errs

import (
	"fmt"
	"strings"
)

// MalformedRowError reports an unparsable line of a chain or paramnames file.
type MalformedRowError struct {
	File   string
	Line   int // 1-based physical line number
	Reason string
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("%s:%d: %s: %s", e.File, e.Line, ErrMalformedRow, e.Reason)
}

func (e *MalformedRowError) Unwrap() error {
	return ErrMalformedRow
}

// SchemaMismatchError reports a chain whose columns disagree with the run schema.
type SchemaMismatchError struct {
	File string
	Want []string
	Got  []string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("%s: %s: expected %d parameters [%s], got %d [%s]",
		e.File, ErrSchemaMismatch,
		len(e.Want), strings.Join(e.Want, " "),
		len(e.Got), strings.Join(e.Got, " "))
}

func (e *SchemaMismatchError) Unwrap() error {
	return ErrSchemaMismatch
}

// InsufficientDataError reports a statistic that could not be computed because
// its pool was empty or carried no weight.
type InsufficientDataError struct {
	Statistic string
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%s: %s", e.Statistic, ErrInsufficientData)
}

func (e *InsufficientDataError) Unwrap() error {
	return ErrInsufficientData
}

// DegenerateFitError reports a derived fit whose regressor has zero variance.
type DegenerateFitError struct {
	Fit    string
	Reason string
}

func (e *DegenerateFitError) Error() string {
	return fmt.Sprintf("fit %q: %s: %s", e.Fit, ErrDegenerateFit, e.Reason)
}

func (e *DegenerateFitError) Unwrap() error {
	return ErrDegenerateFit
}

// ComponentMismatchWarning is a non-fatal finding: the component breakdown of a
// best-fit row does not sum to its objective within tolerance.
type ComponentMismatchWarning struct {
	Objective float64
	Sum       float64
	Tolerance float64
}

func (w *ComponentMismatchWarning) Error() string {
	return fmt.Sprintf("%s: objective %.10g, components %.10g (tolerance %.1e)",
		ErrComponentMismatch, w.Objective, w.Sum, w.Tolerance)
}

func (w *ComponentMismatchWarning) Unwrap() error {
	return ErrComponentMismatch
}
