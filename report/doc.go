// Package report renders the summaries of one run as a deterministic text table
// or YAML document.
//
// Rendering is a pure function of its Input: no timestamps, no map iteration,
// and every float goes through the same formatter. Statistics that failed are
// shown in place as "insufficient data", "undefined" or the fit error, so one
// missing value never hides the rest of the report.
package report
