package stats

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	moremath "github.com/aclements/go-moremath/stats"

	"github.com/arloliu/chainsum/chain"
	"github.com/arloliu/chainsum/errs"
	"github.com/arloliu/chainsum/internal/options"
)

// Default quantile fractions of the reported credible interval.
const (
	DefaultLowerQuantile = 0.16
	DefaultUpperQuantile = 0.84
)

// Config holds the engine settings.
type Config struct {
	// Lower and Upper are the quantile fractions bounding the credible interval.
	Lower float64
	Upper float64
}

// Option configures an Engine.
type Option = options.Option[*Config]

// WithCredibleLevel sets a central credible interval of the given mass, e.g.
// 0.95 for [Quantile(0.025), Quantile(0.975)].
func WithCredibleLevel(level float64) Option {
	return options.New(func(cfg *Config) error {
		if !(level > 0 && level < 1) {
			return fmt.Errorf("%w: credible level %g not in (0, 1)", errs.ErrInvalidConfig, level)
		}
		cfg.Lower = (1 - level) / 2
		cfg.Upper = (1 + level) / 2

		return nil
	})
}

// Engine computes statistics of the parameter columns of one pool.
type Engine struct {
	cfg     Config
	schema  chain.Schema
	samples []chain.Sample // tie order: objective, chain index, row index
	weights []float64
}

// NewEngine prepares an engine for pool. The pool may be empty; every statistic
// then reports insufficient data.
func NewEngine(pool *chain.Pool, opts ...Option) (*Engine, error) {
	cfg := Config{Lower: DefaultLowerQuantile, Upper: DefaultUpperQuantile}
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	samples := slices.Clone(pool.Samples())
	slices.SortStableFunc(samples, func(a, b chain.Sample) int {
		return cmp.Or(
			cmp.Compare(a.Objective, b.Objective),
			cmp.Compare(a.Chain, b.Chain),
			cmp.Compare(a.Row, b.Row),
		)
	})

	weights := make([]float64, len(samples))
	for i, s := range samples {
		weights[i] = s.Weight
	}

	return &Engine{cfg: cfg, schema: pool.Schema(), samples: samples, weights: weights}, nil
}

// Config returns the engine settings.
func (e *Engine) Config() Config {
	return e.cfg
}

// Column returns the named parameter in the engine's tie order, with matching weights.
func (e *Engine) Column(name string) (xs, ws []float64, err error) {
	col, err := e.schema.Lookup(name)
	if err != nil {
		return nil, nil, err
	}

	xs = make([]float64, len(e.samples))
	for i, s := range e.samples {
		xs[i] = s.Params[col]
	}

	return xs, e.weights, nil
}

// Quantile returns the weighted quantile of the named parameter.
func (e *Engine) Quantile(name string, q float64) (float64, error) {
	xs, ws, err := e.Column(name)
	if err != nil {
		return 0, err
	}

	return quantile(fmt.Sprintf("quantile(%s, %g)", name, q), xs, ws, q)
}

// Median returns the weighted median of the named parameter.
func (e *Engine) Median(name string) (float64, error) {
	xs, ws, err := e.Column(name)
	if err != nil {
		return 0, err
	}

	return quantile("median("+name+")", xs, ws, 0.5)
}

// Interval returns the credible interval of the named parameter.
func (e *Engine) Interval(name string) (lower, upper float64, err error) {
	xs, ws, err := e.Column(name)
	if err != nil {
		return 0, 0, err
	}

	stat := "interval(" + name + ")"
	if lower, err = quantile(stat, xs, ws, e.cfg.Lower); err != nil {
		return 0, 0, err
	}
	if upper, err = quantile(stat, xs, ws, e.cfg.Upper); err != nil {
		return 0, 0, err
	}

	return lower, upper, nil
}

// Mean returns the weighted mean of the named parameter.
func (e *Engine) Mean(name string) (float64, error) {
	xs, ws, err := e.Column(name)
	if err != nil {
		return 0, err
	}

	return mean("mean("+name+")", xs, ws)
}

// Variance returns the weighted population variance of the named parameter.
func (e *Engine) Variance(name string) (float64, error) {
	xs, ws, err := e.Column(name)
	if err != nil {
		return 0, err
	}

	return variance("variance("+name+")", xs, ws)
}

// Covariance returns the weighted covariance of two parameters.
func (e *Engine) Covariance(x, y string) (float64, error) {
	xs, ws, err := e.Column(x)
	if err != nil {
		return 0, err
	}
	ys, _, err := e.Column(y)
	if err != nil {
		return 0, err
	}

	return covariance("covariance("+x+", "+y+")", xs, ys, ws)
}

// Correlation returns the weighted correlation of two parameters; NaN when
// either has zero variance.
func (e *Engine) Correlation(x, y string) (float64, error) {
	xs, ws, err := e.Column(x)
	if err != nil {
		return 0, err
	}
	ys, _, err := e.Column(y)
	if err != nil {
		return 0, err
	}

	return correlation("correlation("+x+", "+y+")", xs, ys, ws)
}

// Overview describes the pool as a whole.
type Overview struct {
	Rows        int
	TotalWeight float64
	// EffectiveSize is the Kish effective sample size.
	EffectiveSize float64
	Err           error
}

// Overview returns row count, total weight and effective sample size.
func (e *Engine) Overview() Overview {
	ov := Overview{Rows: len(e.samples)}
	ess, err := EffectiveSampleSize(e.weights)
	if err != nil {
		ov.Err = err
		return ov
	}
	ov.TotalWeight = moremath.Sample{Xs: e.weights, Weights: e.weights}.Weight()
	ov.EffectiveSize = ess

	return ov
}

// Summary is the posterior summary of one parameter. When Err is set the
// numeric fields are meaningless and the report shows the error instead.
type Summary struct {
	Name   string
	Label  string
	Median float64
	Lower  float64
	Upper  float64
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
	Err    error
}

// Summarize computes the Summary of each named parameter, in the given order.
// With no names every schema parameter is summarized. An unknown name is an
// error for the whole call; insufficient data is recorded per Summary.
func (e *Engine) Summarize(names ...string) ([]Summary, error) {
	if len(names) == 0 {
		names = e.schema.Names()
	}
	for _, name := range names {
		if _, err := e.schema.Lookup(name); err != nil {
			return nil, err
		}
	}

	out := make([]Summary, len(names))
	for i, name := range names {
		out[i] = e.summarize(name)
	}

	return out, nil
}

func (e *Engine) summarize(name string) Summary {
	col, _ := e.schema.Index(name)
	s := Summary{Name: name, Label: e.schema.Param(col).Label}

	var err error
	if s.Median, err = e.Median(name); err != nil {
		s.Err = err
		return s
	}
	if s.Lower, s.Upper, err = e.Interval(name); err != nil {
		s.Err = err
		return s
	}
	if s.Mean, err = e.Mean(name); err != nil {
		s.Err = err
		return s
	}

	v, err := e.Variance(name)
	if err != nil {
		s.Err = err
		return s
	}
	s.StdDev = math.Sqrt(v)

	xs, ws, _ := e.Column(name)
	s.Min, s.Max = moremath.Sample{Xs: xs, Weights: ws}.Bounds()

	return s
}

// Pair is the correlation of two parameters. Value is NaN when undefined.
type Pair struct {
	X     string
	Y     string
	Value float64
	Err   error
}

// Correlations computes the correlation of each requested pair. Unknown names
// fail the call; insufficient data is recorded per Pair.
func (e *Engine) Correlations(pairs [][2]string) ([]Pair, error) {
	out := make([]Pair, len(pairs))
	for i, p := range pairs {
		for _, name := range p {
			if _, err := e.schema.Lookup(name); err != nil {
				return nil, err
			}
		}

		r, err := e.Correlation(p[0], p[1])
		out[i] = Pair{X: p[0], Y: p[1], Value: r, Err: err}
	}

	return out, nil
}
