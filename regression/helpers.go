package regression

import (
	"errors"
	"fmt"
	"math"

	"github.com/arloliu/chainsum/errs"
	"github.com/arloliu/chainsum/stats"
)

// moments holds the weighted sums shared by every model type.
type moments struct {
	w     float64 // total weight
	meanU float64
	meanV float64
	suu   float64 // Σw(u-ū)²
	suv   float64 // Σw(u-ū)(v-v̄)
	svv   float64 // Σw(v-v̄)²
	ruu   float64 // Σw*u²
	ruv   float64 // Σw*u*v
}

// computeMoments validates the columns and accumulates the sums. Errors are
// attributed to the fit named name.
func computeMoments(name string, us, vs, ws []float64) (moments, error) {
	var m moments
	if len(us) != len(vs) || len(us) != len(ws) {
		return m, fmt.Errorf("fit %q: %w: %d u, %d v, %d weights", name, errs.ErrLengthMismatch, len(us), len(vs), len(ws))
	}

	var err error
	if m.meanU, err = stats.Mean(us, ws); err != nil {
		return m, scoped(name, err)
	}
	if m.meanV, err = stats.Mean(vs, ws); err != nil {
		return m, scoped(name, err)
	}

	varU, err := stats.Variance(us, ws)
	if err != nil {
		return m, scoped(name, err)
	}
	if varU == 0 {
		return m, &errs.DegenerateFitError{Fit: name, Reason: "regressor has zero variance"}
	}

	for i := range us {
		du := us[i] - m.meanU
		dv := vs[i] - m.meanV
		m.w += ws[i]
		m.suu += ws[i] * du * du
		m.suv += ws[i] * (du * dv)
		m.svv += ws[i] * dv * dv
		m.ruu += ws[i] * us[i] * us[i]
		m.ruv += ws[i] * (us[i] * vs[i])
	}

	return m, nil
}

func scoped(name string, err error) error {
	if errors.Is(err, errs.ErrInsufficientData) {
		return &errs.InsufficientDataError{Statistic: "fit " + name}
	}

	return fmt.Errorf("fit %q: %w", name, err)
}

// goodness returns the weighted R² and RMSE of predictions made by est.
func goodness(us, vs, ws []float64, m moments, est Estimator) (r2, rmse float64) {
	var ssRes float64
	for i := range us {
		r := vs[i] - est.Estimate(us[i])
		ssRes += ws[i] * r * r
	}

	if m.svv == 0 {
		r2 = 0
	} else {
		r2 = 1.0 - ssRes/m.svv
	}
	rmse = math.Sqrt(ssRes / m.w)

	return r2, rmse
}
