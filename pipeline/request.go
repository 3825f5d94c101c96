package pipeline

import (
	"fmt"

	"github.com/arloliu/chainsum/chain"
	"github.com/arloliu/chainsum/config"
	"github.com/arloliu/chainsum/errs"
	"github.com/arloliu/chainsum/regression"
)

// FitRequest asks for one derived-quantity fit.
type FitRequest struct {
	Name    string
	U       regression.Derived
	V       regression.Derived
	Options []regression.FitOption
}

// Request describes one report.
type Request struct {
	// Name labels the report; empty for ad-hoc invocations.
	Name string
	// Dir is the directory holding the chains. It is never defaulted.
	Dir string
	// Prefix selects <prefix>.<n>.txt files; empty auto-detects a unique prefix.
	Prefix string
	BurnIn float64
	// Params restricts the posterior table; empty means every parameter.
	Params       []string
	Correlations [][2]string
	Fits         []FitRequest

	// CredibleLevel overrides the 16%-84% interval when non-zero.
	CredibleLevel float64
	// ComponentTolerance overrides the component sum tolerance when non-nil.
	ComponentTolerance *float64
	NoComponents       bool
}

// FromConfig converts a run record. Its burn-in falls back to defaultBurnIn.
func FromConfig(r *config.Run, defaultBurnIn float64) (Request, error) {
	if err := r.Validate(); err != nil {
		return Request{}, fmt.Errorf("run %q: %w", r.Name, err)
	}

	req := Request{
		Name:               r.Name,
		Dir:                r.Dir,
		Prefix:             r.Prefix,
		BurnIn:             r.BurnInOr(defaultBurnIn),
		Params:             r.Params,
		ComponentTolerance: r.Components.Tolerance,
		NoComponents:       r.Components.Disabled,
	}
	if r.CredibleLevel != nil {
		req.CredibleLevel = *r.CredibleLevel
	}
	for _, pair := range r.Correlations {
		req.Correlations = append(req.Correlations, [2]string{pair[0], pair[1]})
	}
	for _, f := range r.Fits {
		opts, err := f.Options()
		if err != nil {
			return Request{}, fmt.Errorf("run %q fit %q: %w", r.Name, f.Name, err)
		}
		req.Fits = append(req.Fits, FitRequest{
			Name:    f.Name,
			U:       f.U.Derived(),
			V:       f.V.Derived(),
			Options: opts,
		})
	}

	return req, nil
}

// Validate checks the request fields that do not need the chains.
func (req Request) Validate() error {
	if req.Dir == "" {
		return fmt.Errorf("%w: no chain directory", errs.ErrInvalidConfig)
	}
	if err := chain.ValidateBurnIn(req.BurnIn); err != nil {
		return err
	}
	if l := req.CredibleLevel; l != 0 && !(l > 0 && l < 1) {
		return fmt.Errorf("%w: credible level %g not in (0, 1)", errs.ErrInvalidConfig, l)
	}

	return nil
}
