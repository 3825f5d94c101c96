package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/arloliu/chainsum/chain"
	"github.com/arloliu/chainsum/errs"
	"github.com/arloliu/chainsum/regression"
	"github.com/arloliu/chainsum/report"
)

// Load reads and validates the configuration at path. Relative run directories
// are resolved against the directory holding the file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	f.Path = path

	base := filepath.Dir(path)
	for i := range f.Runs {
		r := &f.Runs[i]
		if r.Dir == "" {
			r.Dir = base
		} else if !filepath.IsAbs(r.Dir) {
			r.Dir = filepath.Join(base, r.Dir)
		}
	}

	return f, nil
}

// Parse decodes and validates a configuration document. Unknown keys are
// rejected.
func Parse(data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidConfig, err)
	}

	if err := f.Validate(); err != nil {
		return nil, err
	}

	return &f, nil
}

// Validate checks every run record.
func (f *File) Validate() error {
	seen := make(map[string]bool, len(f.Runs))
	for i := range f.Runs {
		r := &f.Runs[i]
		if r.Name == "" {
			return fmt.Errorf("%w: run %d has no name", errs.ErrInvalidConfig, i+1)
		}
		if seen[r.Name] {
			return fmt.Errorf("%w: duplicate run name %q", errs.ErrInvalidConfig, r.Name)
		}
		seen[r.Name] = true

		if err := r.Validate(); err != nil {
			return fmt.Errorf("run %q: %w", r.Name, err)
		}
	}

	return nil
}

// Validate checks the values of one record that do not depend on the chains.
// Parameter names are checked against the schema when the run is built.
func (r *Run) Validate() error {
	if r.BurnIn != nil {
		if err := chain.ValidateBurnIn(*r.BurnIn); err != nil {
			return err
		}
	}
	if r.CredibleLevel != nil {
		if l := *r.CredibleLevel; !(l > 0 && l < 1) {
			return fmt.Errorf("%w: credible_level %g not in (0, 1)", errs.ErrInvalidConfig, l)
		}
	}
	if _, err := report.ParseFormat(r.Format); err != nil {
		return err
	}
	if tol := r.Components.Tolerance; tol != nil && (math.IsNaN(*tol) || *tol < 0) {
		return fmt.Errorf("%w: components.tolerance %g", errs.ErrInvalidConfig, *tol)
	}

	for i, pair := range r.Correlations {
		if len(pair) != 2 {
			return fmt.Errorf("%w: correlation %d must name exactly 2 parameters, got %d", errs.ErrInvalidConfig, i+1, len(pair))
		}
	}

	fits := make(map[string]bool, len(r.Fits))
	for i, fit := range r.Fits {
		if fit.Name == "" {
			return fmt.Errorf("%w: fit %d has no name", errs.ErrInvalidConfig, i+1)
		}
		if fits[fit.Name] {
			return fmt.Errorf("%w: duplicate fit name %q", errs.ErrInvalidConfig, fit.Name)
		}
		fits[fit.Name] = true

		if len(fit.U.Terms) == 0 || len(fit.V.Terms) == 0 {
			return fmt.Errorf("%w: fit %q needs both u and v", errs.ErrInvalidConfig, fit.Name)
		}
		if _, err := fit.Options(); err != nil {
			return fmt.Errorf("fit %q: %w", fit.Name, err)
		}
	}

	return nil
}

// BurnInOr returns the configured burn-in, or def when none is set.
func (r *Run) BurnInOr(def float64) float64 {
	if r.BurnIn == nil {
		return def
	}

	return *r.BurnIn
}

// Options translates the fit's model list and ridge penalty.
func (fit Fit) Options() ([]regression.FitOption, error) {
	var opts []regression.FitOption
	if len(fit.Models) > 0 {
		types := make([]regression.ModelType, len(fit.Models))
		for i, name := range fit.Models {
			t := regression.ModelTypeFromString(name)
			if t == regression.ModelType(-1) {
				return nil, fmt.Errorf("%w: unknown model %q", errs.ErrInvalidConfig, name)
			}
			types[i] = t
		}
		opts = append(opts, regression.WithModels(types...))
	}
	if fit.Ridge != 0 {
		if math.IsNaN(fit.Ridge) || fit.Ridge < 0 {
			return nil, fmt.Errorf("%w: ridge %g must be >= 0", errs.ErrInvalidConfig, fit.Ridge)
		}
		opts = append(opts, regression.WithRidge(fit.Ridge))
	}

	return opts, nil
}

// Lookup returns the run with the given name.
func (f *File) Lookup(name string) (*Run, error) {
	for i := range f.Runs {
		if f.Runs[i].Name == name {
			return &f.Runs[i], nil
		}
	}

	return nil, fmt.Errorf("%w: %q (have %v)", errs.ErrUnknownRun, name, f.Names())
}

// Names lists the run names in file order.
func (f *File) Names() []string {
	names := make([]string, len(f.Runs))
	for i, r := range f.Runs {
		names[i] = r.Name
	}

	return names
}
