// Package regression fits weighted linear relations between derived quantities
// of a posterior sample.
//
// A derived quantity is an affine combination of schema parameters evaluated row
// by row, for example the slope-intercept combination of a distance relation.
// Given a regressor U and a response V over a trimmed pool, the package solves the
// weighted normal equations in closed form and reports the fitted coefficients
// with their goodness of fit.
//
// # Usage
//
//	u := regression.Column("alpha")
//	v := regression.Derived{Name: "beta", Terms: []regression.Term{{Param: "b", Coeff: 5}}, Offset: -25}
//	result, err := regression.Fit(pool, "beta_vs_alpha", u, v)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.BestFit.Formula)
//
// # Model Types
//
//   - **Linear**: V = a + b*U, slope b = Suv / (Suu + λ), intercept a = mean(V) - b*mean(U)
//   - **Proportional**: V = b*U, slope b = Σw*u*v / (Σw*u² + λ)
//
// Suu and Suv are weighted central sums of squares and cross products; λ is an
// optional ridge penalty on the slope (zero by default). When several model
// types are requested the candidate with the highest weighted R² is the best
// fit, as in AllModels[0].
//
// # Goodness of Fit
//
//   - RSquared: 1 - Σw(v - v̂)² / Σw(v - mean(v))², zero when V is constant
//   - RMSE: sqrt(Σw(v - v̂)² / Σw)
//   - Correlation: weighted Pearson correlation of U and V, NaN when undefined
//
// # Errors
//
// A regressor with zero weighted variance fails with *errs.DegenerateFitError; an
// empty or weightless pool fails with *errs.InsufficientDataError. Both are scoped
// to the one fit and never abort other statistics of a report.
package regression
