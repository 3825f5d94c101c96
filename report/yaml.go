package report

import (
	"io"
	"math"

	"gopkg.in/yaml.v3"

	"github.com/arloliu/chainsum/internal/hash"
)

type yamlDoc struct {
	Run          string            `yaml:"run,omitempty"`
	Prefix       string            `yaml:"prefix"`
	BurnIn       float64           `yaml:"burn_in"`
	Schema       yamlSchema        `yaml:"schema"`
	Chains       []yamlChain       `yaml:"chains"`
	Pool         yamlPool          `yaml:"pool"`
	BestFit      yamlBestFit       `yaml:"best_fit"`
	Interval     []float64         `yaml:"interval,flow"`
	Posterior    []yamlSummary     `yaml:"posterior"`
	Correlations []yamlCorrelation `yaml:"correlations,omitempty"`
	Fits         []yamlFit         `yaml:"fits,omitempty"`
}

type yamlSchema struct {
	Params int    `yaml:"params"`
	Digest string `yaml:"xxh64"`
}

type yamlFile struct {
	Name   string `yaml:"name"`
	Digest string `yaml:"xxh64"`
}

type yamlChain struct {
	Index    int        `yaml:"index"`
	Files    []yamlFile `yaml:"files"`
	Rows     int        `yaml:"rows"`
	PostBurn int        `yaml:"post_burn"`
	Dropped  int        `yaml:"dropped"`
}

type yamlPool struct {
	Rows          int      `yaml:"rows"`
	TotalWeight   *float64 `yaml:"total_weight,omitempty"`
	EffectiveSize *float64 `yaml:"effective_size,omitempty"`
	Status        string   `yaml:"status,omitempty"`
}

type yamlValue struct {
	Name  string  `yaml:"name"`
	Label string  `yaml:"label,omitempty"`
	Value float64 `yaml:"value"`
}

type yamlComponent struct {
	Name         string  `yaml:"name"`
	Family       string  `yaml:"family"`
	Raw          float64 `yaml:"raw"`
	Contribution float64 `yaml:"contribution"`
}

type yamlBestFit struct {
	Status       string          `yaml:"status,omitempty"`
	Chain        *int            `yaml:"chain,omitempty"`
	Row          *int            `yaml:"row,omitempty"`
	File         string          `yaml:"file,omitempty"`
	Objective    *float64        `yaml:"objective,omitempty"`
	Weight       *float64        `yaml:"weight,omitempty"`
	Values       []yamlValue     `yaml:"values,omitempty"`
	Components   []yamlComponent `yaml:"components,omitempty"`
	ComponentSum *float64        `yaml:"component_sum,omitempty"`
	Warning      string          `yaml:"warning,omitempty"`
}

type yamlSummary struct {
	Name   string   `yaml:"name"`
	Label  string   `yaml:"label,omitempty"`
	Status string   `yaml:"status,omitempty"`
	Median *float64 `yaml:"median,omitempty"`
	Lower  *float64 `yaml:"lower,omitempty"`
	Upper  *float64 `yaml:"upper,omitempty"`
	Mean   *float64 `yaml:"mean,omitempty"`
	StdDev *float64 `yaml:"stddev,omitempty"`
	Min    *float64 `yaml:"min,omitempty"`
	Max    *float64 `yaml:"max,omitempty"`
}

type yamlCorrelation struct {
	X      string   `yaml:"x"`
	Y      string   `yaml:"y"`
	Value  *float64 `yaml:"r,omitempty"`
	Status string   `yaml:"status,omitempty"`
}

type yamlFit struct {
	Name         string    `yaml:"name"`
	Status       string    `yaml:"status,omitempty"`
	U            string    `yaml:"u,omitempty"`
	V            string    `yaml:"v,omitempty"`
	Model        string    `yaml:"model,omitempty"`
	Coefficients []float64 `yaml:"coefficients,omitempty,flow"`
	Formula      string    `yaml:"formula,omitempty"`
	RSquared     *float64  `yaml:"r2,omitempty"`
	RMSE         *float64  `yaml:"rmse,omitempty"`
	Correlation  *float64  `yaml:"correlation,omitempty"`
	Ridge        float64   `yaml:"ridge,omitempty"`
}

// num returns nil for NaN so that undefined values are omitted and explained
// by the neighbouring status field.
func num(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}

	return &v
}

// WriteYAML renders in as a YAML document.
func WriteYAML(w io.Writer, in *Input) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(buildYAML(in)); err != nil {
		return err
	}

	return enc.Close()
}

func buildYAML(in *Input) *yamlDoc {
	doc := &yamlDoc{
		Run:      in.Name,
		Prefix:   in.Prefix,
		BurnIn:   in.BurnIn,
		Schema:   yamlSchema{Params: in.Params, Digest: hash.Hex(in.SchemaDigest)},
		Chains:   make([]yamlChain, len(in.Chains)),
		Interval: []float64{in.Lower, in.Upper},
	}

	for i, c := range in.Chains {
		files := make([]yamlFile, len(c.Files))
		for j, f := range c.Files {
			files[j] = yamlFile{Name: f.Name, Digest: hash.Hex(f.Digest)}
		}
		doc.Chains[i] = yamlChain{Index: c.Index, Files: files, Rows: c.Rows, PostBurn: c.Kept, Dropped: c.Dropped}
	}

	doc.Pool = yamlPool{Rows: in.Overview.Rows}
	if in.Overview.Err != nil {
		doc.Pool.Status = describe(in.Overview.Err)
	} else {
		doc.Pool.TotalWeight = num(in.Overview.TotalWeight)
		doc.Pool.EffectiveSize = num(in.Overview.EffectiveSize)
	}

	doc.BestFit = buildBestFit(in)

	for _, s := range in.Summaries {
		ys := yamlSummary{Name: s.Name, Label: s.Label}
		if s.Err != nil {
			ys.Status = describe(s.Err)
		} else {
			ys.Median, ys.Lower, ys.Upper = num(s.Median), num(s.Lower), num(s.Upper)
			ys.Mean, ys.StdDev = num(s.Mean), num(s.StdDev)
			ys.Min, ys.Max = num(s.Min), num(s.Max)
		}
		doc.Posterior = append(doc.Posterior, ys)
	}

	for _, c := range in.Correlations {
		yc := yamlCorrelation{X: c.X, Y: c.Y}
		switch {
		case c.Err != nil:
			yc.Status = describe(c.Err)
		case math.IsNaN(c.Value):
			yc.Status = textUndefined
		default:
			yc.Value = num(c.Value)
		}
		doc.Correlations = append(doc.Correlations, yc)
	}

	for _, f := range in.Fits {
		yf := yamlFit{Name: f.Name}
		if f.Err != nil {
			yf.Status = describe(f.Err)
			doc.Fits = append(doc.Fits, yf)

			continue
		}
		m := f.Result.BestFit
		yf.U, yf.V = f.Result.U, f.Result.V
		yf.Model = m.Type.String()
		yf.Coefficients = m.Coefficients
		yf.Formula = m.Formula
		yf.RSquared, yf.RMSE = num(m.RSquared), num(m.RMSE)
		yf.Correlation = num(f.Result.Correlation)
		yf.Ridge = f.Result.Ridge
		doc.Fits = append(doc.Fits, yf)
	}

	return doc
}

func buildBestFit(in *Input) yamlBestFit {
	if in.BestFitErr != nil {
		return yamlBestFit{Status: describe(in.BestFitErr)}
	}
	bf := in.BestFit
	if bf == nil {
		return yamlBestFit{Status: "not computed"}
	}

	out := yamlBestFit{
		Chain:     &bf.Chain,
		Row:       &bf.Row,
		File:      fileName(bf.File),
		Objective: num(bf.Objective),
		Weight:    num(bf.Weight),
	}
	for _, v := range bf.Values {
		out.Values = append(out.Values, yamlValue{Name: v.Name, Label: v.Label, Value: v.Value})
	}
	for _, c := range bf.Components {
		out.Components = append(out.Components, yamlComponent{
			Name: c.Name, Family: c.Family, Raw: c.Raw, Contribution: c.Contribution,
		})
	}
	if bf.HasComponents() {
		out.ComponentSum = num(bf.ComponentSum)
	}
	if bf.Warning != nil {
		out.Warning = bf.Warning.Error()
	}

	return out
}
