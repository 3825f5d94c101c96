package report

import (
	"errors"
	"math"
	"path/filepath"
	"strconv"

	"github.com/arloliu/chainsum/bestfit"
	"github.com/arloliu/chainsum/chain"
	"github.com/arloliu/chainsum/errs"
	"github.com/arloliu/chainsum/regression"
	"github.com/arloliu/chainsum/stats"
)

// File is one source file of a chain.
type File struct {
	Name   string
	Digest uint64
}

// ChainEntry describes one chain of the run.
type ChainEntry struct {
	Index   int
	Files   []File
	Rows    int
	Kept    int
	Dropped int
}

// Fit is the outcome of one derived-quantity fit.
type Fit struct {
	Name   string
	Result *regression.Result
	Err    error
}

// Input gathers everything a report shows.
type Input struct {
	Name         string
	Prefix       string
	BurnIn       float64
	Params       int
	SchemaDigest uint64
	Chains       []ChainEntry

	// Lower and Upper are the quantile fractions of the credible interval.
	Lower float64
	Upper float64

	Overview     stats.Overview
	Summaries    []stats.Summary
	Correlations []stats.Pair

	BestFit    *bestfit.Result
	BestFitErr error

	Fits []Fit
}

// ChainEntries lists the chains of run with their row counts, file names
// reduced to their base names.
func ChainEntries(run *chain.Run) []ChainEntry {
	chains := run.Chains()
	out := make([]ChainEntry, len(chains))
	for i, c := range chains {
		files := make([]File, len(c.Files))
		for j, f := range c.Files {
			files[j].Name = filepath.Base(f)
			if j < len(c.Digests) {
				files[j].Digest = c.Digests[j]
			}
		}
		out[i] = ChainEntry{
			Index:   c.Index,
			Files:   files,
			Rows:    c.Len(),
			Kept:    run.Kept(c),
			Dropped: c.Dropped,
		}
	}

	return out
}

const (
	textInsufficient = "insufficient data"
	textUndefined    = "undefined"
)

// formatFloat renders v with enough digits to be reproduced exactly by the same
// build; NaN renders as "undefined".
// fileName reduces a chain path to its base name so reports do not depend on
// where the chain directory sits.
func fileName(path string) string {
	if path == "" {
		return ""
	}

	return filepath.Base(path)
}

func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return textUndefined
	}

	return strconv.FormatFloat(v, 'g', 8, 64)
}

// describe renders a statistic-level error for the report body.
func describe(err error) string {
	var degenerate *errs.DegenerateFitError
	switch {
	case errors.Is(err, errs.ErrInsufficientData):
		return textInsufficient
	case errors.As(err, &degenerate):
		return "degenerate: " + degenerate.Reason
	default:
		return err.Error()
	}
}

// percent renders a quantile fraction, e.g. 0.16 as "16%".
func percent(q float64) string {
	return strconv.FormatFloat(q*100, 'g', 4, 64) + "%"
}
