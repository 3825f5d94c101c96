// Package config loads named run records from YAML.
//
// Each record fixes what one dedicated report invocation needs: where the chains
// live, their prefix, the burn-in fraction, which parameters to tabulate and which
// derived fits to compute. The generic pipeline consumes a record in place of
// command-line flags.
//
//	runs:
//	  - name: lcdm_baseline_desiDR2
//	    dir: chains/lcdm
//	    prefix: lcdm
//	    burn_in: 0.3
//	    params: [H0, omegam]
//	    correlations: [[H0, omegam]]
//	    fits:
//	      - name: h0_vs_omegam
//	        u: omegam
//	        v: {name: h, terms: {H0: 0.01}}
package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/arloliu/chainsum/regression"
)

// File is a parsed configuration file.
type File struct {
	Runs []Run `yaml:"runs"`

	// Path is the file the configuration was loaded from, empty when parsed
	// from memory.
	Path string `yaml:"-"`
}

// Run is one named report configuration.
type Run struct {
	Name   string `yaml:"name"`
	Dir    string `yaml:"dir"`
	Prefix string `yaml:"prefix"`
	// BurnIn is nil when the record leaves the default in place.
	BurnIn        *float64   `yaml:"burn_in"`
	Params        []string   `yaml:"params"`
	Correlations  [][]string `yaml:"correlations"`
	Fits          []Fit      `yaml:"fits"`
	Components    Components `yaml:"components"`
	CredibleLevel *float64   `yaml:"credible_level"`
	Format        string     `yaml:"format"`
}

// Components configures the best-fit objective breakdown.
type Components struct {
	Disabled  bool     `yaml:"disabled"`
	Tolerance *float64 `yaml:"tolerance"`
}

// Fit is one derived-quantity fit of a run.
type Fit struct {
	Name   string   `yaml:"name"`
	U      Column   `yaml:"u"`
	V      Column   `yaml:"v"`
	Models []string `yaml:"models"`
	Ridge  float64  `yaml:"ridge"`
}

// Column is a derived quantity. In YAML it is either a parameter name or a
// mapping {name, terms: {param: coeff, ...}, offset}; terms keep their document
// order.
type Column struct {
	Name   string
	Terms  []regression.Term
	Offset float64
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Column) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var name string
		if err := node.Decode(&name); err != nil {
			return err
		}
		*c = Column{Name: name, Terms: []regression.Term{{Param: name, Coeff: 1}}}

		return nil
	case yaml.MappingNode:
		var raw struct {
			Name   string    `yaml:"name"`
			Terms  yaml.Node `yaml:"terms"`
			Offset float64   `yaml:"offset"`
		}
		if err := node.Decode(&raw); err != nil {
			return err
		}
		if raw.Terms.Kind != yaml.MappingNode {
			return fmt.Errorf("line %d: column terms must be a mapping of parameter to coefficient", node.Line)
		}

		terms := make([]regression.Term, 0, len(raw.Terms.Content)/2)
		for i := 0; i+1 < len(raw.Terms.Content); i += 2 {
			var t regression.Term
			if err := raw.Terms.Content[i].Decode(&t.Param); err != nil {
				return err
			}
			if err := raw.Terms.Content[i+1].Decode(&t.Coeff); err != nil {
				return fmt.Errorf("line %d: coefficient of %q: %w", raw.Terms.Content[i+1].Line, t.Param, err)
			}
			terms = append(terms, t)
		}
		*c = Column{Name: raw.Name, Terms: terms, Offset: raw.Offset}

		return nil
	default:
		return fmt.Errorf("line %d: column must be a parameter name or a mapping", node.Line)
	}
}

// Derived converts c for the fitter.
func (c Column) Derived() regression.Derived {
	return regression.Derived{Name: c.Name, Terms: c.Terms, Offset: c.Offset}
}
