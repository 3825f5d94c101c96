package regression

import (
	"fmt"
	"slices"

	"github.com/arloliu/chainsum/chain"
	"github.com/arloliu/chainsum/internal/options"
	"github.com/arloliu/chainsum/stats"
)

// Fit regresses the derived quantity v on u over the rows of pool.
//
// Parameters:
//   - pool: The trimmed pool; row weights weight the normal equations
//   - name: Identifies the fit in errors and reports
//   - u, v: Regressor and response
//   - opts: Candidate models and ridge penalty
//
// Returns:
//   - *Result: Best-fit model and every candidate ranked by R²
//   - error: *errs.DegenerateFitError when u is constant over the pool,
//     *errs.InsufficientDataError when the pool is empty, or a lookup error for
//     unknown parameters
func Fit(pool *chain.Pool, name string, u, v Derived, opts ...FitOption) (*Result, error) {
	us, err := u.Values(pool)
	if err != nil {
		return nil, fmt.Errorf("fit %q: %w", name, err)
	}
	vs, err := v.Values(pool)
	if err != nil {
		return nil, fmt.Errorf("fit %q: %w", name, err)
	}

	res, err := FitWeighted(name, us, vs, pool.Weights(), opts...)
	if err != nil {
		return nil, err
	}
	res.U = u.String()
	res.V = v.String()
	for _, m := range res.AllModels {
		m.Formula = formula(m, res.U, res.V, res.Ridge)
	}

	return res, nil
}

// FitWeighted fits vs against us with row weights ws.
func FitWeighted(name string, us, vs, ws []float64, opts ...FitOption) (*Result, error) {
	cfg := defaultFitConfig()
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	m, err := computeMoments(name, us, vs, ws)
	if err != nil {
		return nil, err
	}

	corr, err := stats.Correlation(us, vs, ws)
	if err != nil {
		return nil, scoped(name, err)
	}

	models := make([]*Model, 0, len(cfg.Models))
	for _, t := range cfg.Models {
		var model *Model
		switch t {
		case ModelTypeLinear:
			model = fitLinear(us, vs, ws, m, cfg.Ridge)
		case ModelTypeProportional:
			model = fitProportional(us, vs, ws, m, cfg.Ridge)
		default:
			return nil, fmt.Errorf("fit %q: unknown model type %s", name, t)
		}
		model.Formula = formula(model, "U", "V", cfg.Ridge)
		models = append(models, model)
	}

	// Sort models by R² (best first); equal R² keeps the requested order
	slices.SortStableFunc(models, func(a, b *Model) int {
		if a.RSquared > b.RSquared {
			return -1
		}
		if a.RSquared < b.RSquared {
			return 1
		}

		return 0
	})

	return &Result{
		Name:        name,
		U:           "U",
		V:           "V",
		Ridge:       cfg.Ridge,
		Rows:        len(us),
		TotalWeight: m.w,
		Correlation: corr,
		BestFit:     models[0],
		AllModels:   models,
	}, nil
}

// fitLinear fits V = a + b*U by weighted least squares.
//
// The slope uses the central sums so that a large common offset in U does not
// cost precision:
//   - b = Suv / (Suu + λ)
//   - a = v̄ - b*ū
func fitLinear(us, vs, ws []float64, m moments, ridge float64) *Model {
	b := m.suv / (m.suu + ridge)
	a := m.meanV - b*m.meanU

	est := NewLinearEstimator(a, b)
	r2, rmse := goodness(us, vs, ws, m, est)

	return &Model{
		Type:         est.Type(),
		Coefficients: est.Coefficients(),
		RSquared:     r2,
		RMSE:         rmse,
		Estimator:    est,
	}
}

// fitProportional fits V = b*U through the origin: b = Σw*u*v / (Σw*u² + λ).
func fitProportional(us, vs, ws []float64, m moments, ridge float64) *Model {
	b := m.ruv / (m.ruu + ridge)

	est := NewProportionalEstimator(b)
	r2, rmse := goodness(us, vs, ws, m, est)

	return &Model{
		Type:         est.Type(),
		Coefficients: est.Coefficients(),
		RSquared:     r2,
		RMSE:         rmse,
		Estimator:    est,
	}
}

func formula(m *Model, u, v string, ridge float64) string {
	var f string
	switch m.Type {
	case ModelTypeLinear:
		f = fmt.Sprintf("%s = %.6g + %.6g * %s", v, m.Coefficients[0], m.Coefficients[1], u)
	case ModelTypeProportional:
		f = fmt.Sprintf("%s = %.6g * %s", v, m.Coefficients[0], u)
	default:
		return ""
	}
	if ridge > 0 {
		f += fmt.Sprintf(" (ridge %g)", ridge)
	}

	return f
}
