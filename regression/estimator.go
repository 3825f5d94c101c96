package regression

import "strings"

// ModelType represents the type of regression model.
type ModelType int

const (
	// ModelTypeLinear represents the model with a free intercept: V = a + b*U
	ModelTypeLinear ModelType = iota
	// ModelTypeProportional represents the model constrained through the origin: V = b*U
	ModelTypeProportional
)

// modelTypeNames maps ModelType to their string representations.
var modelTypeNames = map[ModelType]string{
	ModelTypeLinear:       "linear",
	ModelTypeProportional: "proportional",
}

// String returns the string representation of the model type.
func (mt ModelType) String() string {
	if name, exists := modelTypeNames[mt]; exists {
		return name
	}

	return "unknown"
}

// modelTypeFromString maps string names to ModelType.
var modelTypeFromString = map[string]ModelType{
	"linear":       ModelTypeLinear,
	"proportional": ModelTypeProportional,
}

// ModelTypeFromString returns the ModelType for a given string name.
// Returns ModelType(-1) for unknown names.
func ModelTypeFromString(name string) ModelType {
	if modelType, exists := modelTypeFromString[strings.ToLower(strings.TrimSpace(name))]; exists {
		return modelType
	}

	return ModelType(-1)
}

// newEmptyEstimator creates an empty estimator for the given ModelType.
func newEmptyEstimator(modelType ModelType) Estimator {
	switch modelType {
	case ModelTypeLinear:
		return NewLinearEstimator(0, 0)
	case ModelTypeProportional:
		return NewProportionalEstimator(0)
	default:
		return nil
	}
}

// Estimator predicts the response of a fitted relation.
type Estimator interface {
	// Estimate returns the predicted V for a regressor value u.
	Estimate(u float64) float64
	// Type returns the model type.
	Type() ModelType
	// Coefficients returns the model coefficients:
	// - linear: [a, b]
	// - proportional: [b]
	Coefficients() []float64
}

// LinearEstimator implements V = a + b*U.
type LinearEstimator struct {
	a, b   float64
	coeffs []float64
}

// NewLinearEstimator creates a linear estimator with intercept a and slope b.
func NewLinearEstimator(a, b float64) *LinearEstimator {
	return &LinearEstimator{
		a:      a,
		b:      b,
		coeffs: make([]float64, 2),
	}
}

// Estimate returns a + b*u.
func (l *LinearEstimator) Estimate(u float64) float64 {
	return l.a + l.b*u
}

// Type returns the model type.
func (l *LinearEstimator) Type() ModelType {
	return ModelTypeLinear
}

// Coefficients returns the model coefficients [a, b].
func (l *LinearEstimator) Coefficients() []float64 {
	l.coeffs[0] = l.a
	l.coeffs[1] = l.b

	return l.coeffs
}

// ProportionalEstimator implements V = b*U.
type ProportionalEstimator struct {
	b      float64
	coeffs []float64
}

// NewProportionalEstimator creates a proportional estimator with slope b.
func NewProportionalEstimator(b float64) *ProportionalEstimator {
	return &ProportionalEstimator{
		b:      b,
		coeffs: make([]float64, 1),
	}
}

// Estimate returns b*u.
func (p *ProportionalEstimator) Estimate(u float64) float64 {
	return p.b * u
}

// Type returns the model type.
func (p *ProportionalEstimator) Type() ModelType {
	return ModelTypeProportional
}

// Coefficients returns the model coefficients [b].
func (p *ProportionalEstimator) Coefficients() []float64 {
	p.coeffs[0] = p.b

	return p.coeffs
}
