package regression

import "fmt"

// Model is one fitted relation between two derived columns.
//
// Fields:
//   - Type: The model type (linear, proportional)
//   - Coefficients: The fitted parameters, intercept first for linear models
//   - RSquared: Weighted coefficient of determination (higher is better)
//   - RMSE: Weighted root mean square residual (lower is better)
//   - Formula: Human-readable fitted relation using the column names
//   - Estimator: Concrete implementation for making predictions
type Model struct {
	// Type is the model type (linear, proportional).
	Type ModelType
	// Coefficients contains the model coefficients.
	Coefficients []float64
	// RSquared is the weighted coefficient of determination.
	RSquared float64
	// RMSE is the weighted root mean square error.
	RMSE float64
	// Formula is a human-readable representation of the model.
	Formula string
	// Estimator is the concrete estimator implementation.
	Estimator Estimator
}

// String returns a string representation of the model.
func (m *Model) String() string {
	return fmt.Sprintf("Model{Type: %s, R²: %.4f, RMSE: %.4g, Formula: %s}",
		m.Type, m.RSquared, m.RMSE, m.Formula)
}

// Result is the outcome of one derived-quantity fit.
//
// BestFit is the candidate with the highest R²; AllModels lists every fitted
// candidate ranked by R², best first. Correlation is the weighted Pearson
// correlation of U and V, NaN when V is constant.
type Result struct {
	// Name identifies the fit in reports.
	Name string
	// U and V are the regressor and response descriptions.
	U string
	V string
	// Ridge is the penalty applied to the slope.
	Ridge float64
	// Rows and TotalWeight describe the pool the fit was computed on.
	Rows        int
	TotalWeight float64
	Correlation float64

	BestFit   *Model
	AllModels []*Model
}

// String returns a string representation of the result.
func (r *Result) String() string {
	if r.BestFit == nil {
		return "Result{BestFit: nil}"
	}

	return fmt.Sprintf("Result{Name: %s, BestFit: %s, TotalModels: %d}",
		r.Name, r.BestFit, len(r.AllModels))
}
