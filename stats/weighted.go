package stats

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	moremath "github.com/aclements/go-moremath/stats"

	"github.com/arloliu/chainsum/errs"
)

// totalWeight validates a weighted column and returns its total weight.
func totalWeight(stat string, xs, ws []float64) (float64, error) {
	if len(xs) != len(ws) {
		return 0, fmt.Errorf("%s: %w: %d values, %d weights", stat, errs.ErrLengthMismatch, len(xs), len(ws))
	}
	if len(xs) == 0 {
		return 0, &errs.InsufficientDataError{Statistic: stat}
	}

	w := moremath.Sample{Xs: xs, Weights: ws}.Weight()
	if !(w > 0) {
		return 0, &errs.InsufficientDataError{Statistic: stat}
	}

	return w, nil
}

// Mean returns the weighted mean of xs.
func Mean(xs, ws []float64) (float64, error) {
	return mean("mean", xs, ws)
}

func mean(stat string, xs, ws []float64) (float64, error) {
	w, err := totalWeight(stat, xs, ws)
	if err != nil {
		return 0, err
	}

	// deviations from the first value keep a constant column exact
	x0 := xs[0]
	var acc float64
	for i, x := range xs {
		acc += ws[i] * (x - x0)
	}

	return x0 + acc/w, nil
}

// Variance returns the weighted population variance of xs.
func Variance(xs, ws []float64) (float64, error) {
	return variance("variance", xs, ws)
}

func variance(stat string, xs, ws []float64) (float64, error) {
	return covariance(stat, xs, xs, ws)
}

// Covariance returns the weighted population covariance of xs and ys.
func Covariance(xs, ys, ws []float64) (float64, error) {
	return covariance("covariance", xs, ys, ws)
}

func covariance(stat string, xs, ys, ws []float64) (float64, error) {
	if len(xs) != len(ys) {
		return 0, fmt.Errorf("%s: %w: %d x values, %d y values", stat, errs.ErrLengthMismatch, len(xs), len(ys))
	}

	w, err := totalWeight(stat, xs, ws)
	if err != nil {
		return 0, err
	}
	mx, err := mean(stat, xs, ws)
	if err != nil {
		return 0, err
	}
	my, err := mean(stat, ys, ws)
	if err != nil {
		return 0, err
	}

	var acc float64
	for i := range xs {
		acc += ws[i] * ((xs[i] - mx) * (ys[i] - my))
	}

	return acc / w, nil
}

// Correlation returns the weighted Pearson correlation of xs and ys.
//
// The result is NaN with a nil error when either column has zero variance, and
// lies in [-1, 1] otherwise. Correlation(x, y) == Correlation(y, x) exactly.
func Correlation(xs, ys, ws []float64) (float64, error) {
	return correlation("correlation", xs, ys, ws)
}

func correlation(stat string, xs, ys, ws []float64) (float64, error) {
	vx, err := variance(stat, xs, ws)
	if err != nil {
		return 0, err
	}
	vy, err := variance(stat, ys, ws)
	if err != nil {
		return 0, err
	}
	if vx == 0 || vy == 0 {
		return math.NaN(), nil
	}

	cov, err := covariance(stat, xs, ys, ws)
	if err != nil {
		return 0, err
	}

	r := cov / math.Sqrt(vx*vy)

	return max(-1, min(1, r)), nil
}

// Quantile returns the nearest-rank weighted quantile of xs at fraction q in
// [0, 1]: the value of the first row, in ascending order, whose cumulative weight
// reaches q times the total weight. Rows with equal values keep their input order.
func Quantile(xs, ws []float64, q float64) (float64, error) {
	return quantile("quantile", xs, ws, q)
}

func quantile(stat string, xs, ws []float64, q float64) (float64, error) {
	if math.IsNaN(q) || q < 0 || q > 1 {
		return 0, fmt.Errorf("%s: %w: got %g", stat, errs.ErrInvalidQuantile, q)
	}

	w, err := totalWeight(stat, xs, ws)
	if err != nil {
		return 0, err
	}

	order := make([]int, len(xs))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(xs[a], xs[b])
	})

	target := q * w
	var cum float64
	for _, i := range order {
		cum += ws[i]
		if cum >= target {
			return xs[i], nil
		}
	}

	// rounding in the running sum can leave cum just short of w
	return xs[order[len(order)-1]], nil
}

// Median returns the weighted median, Quantile(0.5).
func Median(xs, ws []float64) (float64, error) {
	return quantile("median", xs, ws, 0.5)
}

// EffectiveSampleSize returns the Kish effective sample size (Σw)² / Σw².
func EffectiveSampleSize(ws []float64) (float64, error) {
	w, err := totalWeight("effective sample size", ws, ws)
	if err != nil {
		return 0, err
	}

	var sq float64
	for _, x := range ws {
		sq += x * x
	}

	return w * w / sq, nil
}
