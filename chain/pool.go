package chain

import "slices"

// Pool is the multiset of post-burn-in samples of a run. Sample order is chain
// index then row index; statistics must not depend on it beyond documented
// tie-breaking.
type Pool struct {
	schema  Schema
	samples []Sample
}

// NewPool builds a pool from samples that already follow schema.
func NewPool(schema Schema, samples []Sample) *Pool {
	return &Pool{schema: schema, samples: slices.Clone(samples)}
}

// Schema returns the schema of the pooled samples.
func (p *Pool) Schema() Schema {
	return p.schema
}

// Len returns the number of pooled rows.
func (p *Pool) Len() int {
	return len(p.samples)
}

// Samples returns the pooled rows. The slice must not be modified.
func (p *Pool) Samples() []Sample {
	return p.samples
}

// Weights returns the row weights in pool order.
func (p *Pool) Weights() []float64 {
	ws := make([]float64, len(p.samples))
	for i, s := range p.samples {
		ws[i] = s.Weight
	}

	return ws
}

// Column returns the values of the named parameter in pool order.
func (p *Pool) Column(name string) ([]float64, error) {
	col, err := p.schema.Lookup(name)
	if err != nil {
		return nil, err
	}

	xs := make([]float64, len(p.samples))
	for i, s := range p.samples {
		xs[i] = s.Params[col]
	}

	return xs, nil
}
