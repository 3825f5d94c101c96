// Package stats computes weighted posterior statistics over pooled chain samples.
//
// # Definitions
//
// For values x_i with weights w_i > 0 and total weight W = Σ w_i:
//
//   - Mean: Σ w_i x_i / W
//   - Variance: Σ w_i (x_i - mean)² / W (population form, no Bessel correction)
//   - Covariance: Σ w_i (x_i - mean_x)(y_i - mean_y) / W
//   - Correlation: cov(x, y) / sqrt(var(x) var(y)), NaN ("undefined") when either
//     variance is exactly zero, otherwise clamped to [-1, 1]
//   - Quantile(q): the value at the first row, in ascending value order, whose
//     cumulative weight reaches q·W (nearest-rank rule)
//   - Effective sample size: W² / Σ w_i² (Kish)
//
// The reported credible interval is [Quantile(0.16), Quantile(0.84)] and the
// point estimate is Quantile(0.5).
//
// # Reproducibility
//
// Quantiles sort rows by value; rows with equal values are ordered by objective,
// then chain index, then row index. The Engine fixes that order once per pool, so
// every statistic is a pure function of the pool and gives identical results on
// every invocation.
//
// # Failure
//
// An empty pool, or one whose total weight is not positive, yields an
// *errs.InsufficientDataError naming the statistic. The engine never substitutes
// a default value; Summarize records the error per parameter so unrelated
// statistics in the same report are still produced.
package stats
