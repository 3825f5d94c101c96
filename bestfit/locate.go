package bestfit

import (
	"fmt"
	"math"

	"github.com/arloliu/chainsum/chain"
	"github.com/arloliu/chainsum/errs"
	"github.com/arloliu/chainsum/internal/options"
)

// Config holds the locator settings.
type Config struct {
	Scheme Scheme
}

// Option configures Locate.
type Option = options.Option[*Config]

// WithScheme replaces the component scheme.
func WithScheme(s Scheme) Option {
	return options.New(func(cfg *Config) error {
		if math.IsNaN(s.Tolerance) || s.Tolerance < 0 {
			return fmt.Errorf("%w: component tolerance %g", errs.ErrInvalidConfig, s.Tolerance)
		}
		cfg.Scheme = s

		return nil
	})
}

// WithTolerance sets the relative tolerance of the component sum check.
func WithTolerance(tol float64) Option {
	return options.New(func(cfg *Config) error {
		if math.IsNaN(tol) || tol < 0 {
			return fmt.Errorf("%w: component tolerance %g", errs.ErrInvalidConfig, tol)
		}
		cfg.Scheme.Tolerance = tol

		return nil
	})
}

// WithoutComponents disables the component breakdown.
func WithoutComponents() Option {
	return options.NoError(func(cfg *Config) {
		cfg.Scheme.Markers = nil
	})
}

// Component is one term of the best-fit objective.
type Component struct {
	Name   string
	Family string
	// Raw is the value recorded in the chain.
	Raw float64
	// Contribution is Raw scaled into objective units.
	Contribution float64
}

// Value is a named parameter value of the best-fit row.
type Value struct {
	Name  string
	Label string
	Value float64
}

// Result is the best-fit row of a run.
type Result struct {
	Chain     int
	Row       int
	// File is the first source file of the owning chain.
	File      string
	Objective float64
	Weight    float64
	Values    []Value

	Components   []Component
	ComponentSum float64
	// Warning is set when the components do not add up to Objective.
	Warning *errs.ComponentMismatchWarning
}

// HasComponents reports whether the schema carried any component columns.
func (r *Result) HasComponents() bool {
	return len(r.Components) > 0
}

// Locate returns the row with the smallest objective across all rows of run,
// ignoring the burn-in. Rows are visited in chain index order, then row order,
// and the first row reaching the strict minimum wins. Rows whose objective is
// NaN are never selected.
//
// Returns *errs.InsufficientDataError when the run holds no comparable row.
func Locate(run *chain.Run, opts ...Option) (*Result, error) {
	cfg := Config{Scheme: DefaultScheme()}
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	var (
		best  *chain.Sample
		owner *chain.Chain
	)
	for _, c := range run.Chains() {
		for i := range c.Samples {
			s := &c.Samples[i]
			if math.IsNaN(s.Objective) {
				continue
			}
			if best == nil || s.Objective < best.Objective {
				best, owner = s, c
			}
		}
	}
	if best == nil {
		return nil, &errs.InsufficientDataError{Statistic: "best fit"}
	}

	schema := run.Schema()
	res := &Result{
		Chain:     best.Chain,
		Row:       best.Row,
		File:      owner.Name(),
		Objective: best.Objective,
		Weight:    best.Weight,
		Values:    make([]Value, schema.Len()),
	}
	for i, p := range schema.Params() {
		res.Values[i] = Value{Name: p.Name, Label: p.Label, Value: best.Params[i]}
	}

	decompose(res, schema, best.Params, cfg.Scheme)

	return res, nil
}

func decompose(res *Result, schema chain.Schema, values []float64, scheme Scheme) {
	for i, p := range schema.Params() {
		m, ok := scheme.marker(p.Name)
		if !ok {
			continue
		}
		contrib := values[i] * m.Scale
		res.Components = append(res.Components, Component{
			Name:         p.Name,
			Family:       Family(p.Name),
			Raw:          values[i],
			Contribution: contrib,
		})
		res.ComponentSum += contrib
	}
	if len(res.Components) == 0 {
		return
	}

	tol := scheme.Tolerance * max(1, math.Abs(res.Objective))
	if !(math.Abs(res.ComponentSum-res.Objective) <= tol) {
		res.Warning = &errs.ComponentMismatchWarning{
			Objective: res.Objective,
			Sum:       res.ComponentSum,
			Tolerance: scheme.Tolerance,
		}
	}
}
