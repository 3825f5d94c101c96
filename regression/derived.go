package regression

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/arloliu/chainsum/chain"
	"github.com/arloliu/chainsum/errs"
)

// Term is one weighted parameter of a derived quantity.
type Term struct {
	Param string
	Coeff float64
}

// Derived is an affine combination of parameters: Offset + Σ Coeff*Param.
type Derived struct {
	// Name labels the quantity in reports; String() is used when empty.
	Name   string
	Terms  []Term
	Offset float64
}

// Column returns the derived quantity equal to one parameter.
func Column(name string) Derived {
	return Derived{Name: name, Terms: []Term{{Param: name, Coeff: 1}}}
}

// String returns Name, or the expression when Name is empty.
func (d Derived) String() string {
	if d.Name != "" {
		return d.Name
	}

	return d.Expr()
}

// Expr renders the combination, e.g. "5*b - 25".
func (d Derived) Expr() string {
	var sb strings.Builder
	for i, t := range d.Terms {
		coeff := t.Coeff
		switch {
		case i == 0 && coeff < 0:
			sb.WriteString("-")
			coeff = -coeff
		case i > 0 && coeff < 0:
			sb.WriteString(" - ")
			coeff = -coeff
		case i > 0:
			sb.WriteString(" + ")
		}
		if coeff != 1 {
			sb.WriteString(strconv.FormatFloat(coeff, 'g', -1, 64))
			sb.WriteString("*")
		}
		sb.WriteString(t.Param)
	}
	switch {
	case d.Offset > 0:
		sb.WriteString(" + " + strconv.FormatFloat(d.Offset, 'g', -1, 64))
	case d.Offset < 0:
		sb.WriteString(" - " + strconv.FormatFloat(-d.Offset, 'g', -1, 64))
	}

	return sb.String()
}

// Validate checks that d references at least one parameter of schema.
func (d Derived) Validate(schema chain.Schema) error {
	if len(d.Terms) == 0 {
		return fmt.Errorf("%w: derived quantity %q has no terms", errs.ErrInvalidConfig, d.String())
	}
	for _, t := range d.Terms {
		if _, err := schema.Lookup(t.Param); err != nil {
			return fmt.Errorf("derived quantity %q: %w", d.String(), err)
		}
	}

	return nil
}

// Values evaluates d on every row of pool, in pool order.
func (d Derived) Values(pool *chain.Pool) ([]float64, error) {
	schema := pool.Schema()
	if err := d.Validate(schema); err != nil {
		return nil, err
	}

	cols := make([]int, len(d.Terms))
	for i, t := range d.Terms {
		cols[i], _ = schema.Index(t.Param)
	}

	samples := pool.Samples()
	out := make([]float64, len(samples))
	for i, s := range samples {
		v := d.Offset
		for j, t := range d.Terms {
			v += t.Coeff * s.Params[cols[j]]
		}
		out[i] = v
	}

	return out, nil
}
