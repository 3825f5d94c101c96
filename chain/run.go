package chain

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/arloliu/chainsum/errs"
)

// Run is a set of chains sharing one schema, together with the burn-in fraction
// applied when pooling them.
type Run struct {
	schema Schema
	burnIn float64
	chains []*Chain
}

// NewRun validates chains against schema and returns the run.
//
// Every chain must carry schema.Len() parameter columns, and chains with a header
// line must name exactly the schema's parameters in order; any disagreement is
// a *errs.SchemaMismatchError. Chains are ordered by index; two chains with the
// same index are rejected, since resumed segments are merged with Concat first.
func NewRun(schema Schema, burnIn float64, chains []*Chain) (*Run, error) {
	if err := ValidateBurnIn(burnIn); err != nil {
		return nil, err
	}
	if len(chains) == 0 {
		return nil, errs.ErrNoChains
	}

	want := schema.Names()
	for _, c := range chains {
		countOK := c.nparams == AutoColumns || c.nparams == schema.Len()
		namesOK := c.Columns == nil || slices.Equal(c.Columns, want)
		if !countOK || !namesOK {
			return nil, &errs.SchemaMismatchError{File: c.Name(), Want: want, Got: columnNames(c)}
		}
	}

	sorted := slices.Clone(chains)
	slices.SortStableFunc(sorted, func(a, b *Chain) int {
		return cmp.Compare(a.Index, b.Index)
	})
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Index == sorted[i-1].Index {
			return nil, fmt.Errorf("%w: %d (%s, %s)", errs.ErrDuplicateChain,
				sorted[i].Index, sorted[i-1].Name(), sorted[i].Name())
		}
	}

	return &Run{schema: schema, burnIn: burnIn, chains: sorted}, nil
}

// WithBurnIn returns a run over the same chains with a different burn-in.
func (r *Run) WithBurnIn(b float64) (*Run, error) {
	if err := ValidateBurnIn(b); err != nil {
		return nil, err
	}

	return &Run{schema: r.schema, burnIn: b, chains: r.chains}, nil
}

// Schema returns the run schema.
func (r *Run) Schema() Schema {
	return r.schema
}

// BurnIn returns the burn-in fraction.
func (r *Run) BurnIn() float64 {
	return r.burnIn
}

// Chains returns the chains ordered by index.
func (r *Run) Chains() []*Chain {
	return slices.Clone(r.chains)
}

// Kept returns the number of rows of c that survive the burn-in.
func (r *Run) Kept(c *Chain) int {
	return len(Trim(c, r.burnIn))
}

// Pool trims every chain and concatenates the remainders in chain order.
func (r *Run) Pool() *Pool {
	total := 0
	for _, c := range r.chains {
		total += r.Kept(c)
	}

	samples := make([]Sample, 0, total)
	for _, c := range r.chains {
		samples = append(samples, Trim(c, r.burnIn)...)
	}

	return &Pool{schema: r.schema, samples: samples}
}
