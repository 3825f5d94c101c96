package chain

import (
	"fmt"
	"slices"

	"github.com/arloliu/chainsum/errs"
	"github.com/arloliu/chainsum/internal/hash"
)

// Param is one declared parameter: a short name used in chain headers and
// configuration, and a display label.
type Param struct {
	Name  string
	Label string
}

// Schema is the ordered parameter list shared by all chains of a run.
type Schema struct {
	params []Param
	index  map[string]int
}

// NewSchema builds a schema from params in column order. Names must be unique
// and non-empty; an empty label defaults to the name.
func NewSchema(params []Param) (Schema, error) {
	s := Schema{
		params: make([]Param, len(params)),
		index:  make(map[string]int, len(params)),
	}
	for i, p := range params {
		if p.Name == "" {
			return Schema{}, fmt.Errorf("%w: empty name at column %d", errs.ErrInvalidConfig, i+1)
		}
		if _, dup := s.index[p.Name]; dup {
			return Schema{}, fmt.Errorf("%w: %q", errs.ErrDuplicateParameter, p.Name)
		}
		if p.Label == "" {
			p.Label = p.Name
		}
		s.params[i] = p
		s.index[p.Name] = i
	}

	return s, nil
}

// SchemaFromNames builds a schema whose labels equal the names.
func SchemaFromNames(names []string) (Schema, error) {
	params := make([]Param, len(names))
	for i, n := range names {
		params[i] = Param{Name: n}
	}

	return NewSchema(params)
}

// Len returns the number of parameters.
func (s Schema) Len() int {
	return len(s.params)
}

// Param returns the i-th parameter.
func (s Schema) Param(i int) Param {
	return s.params[i]
}

// Params returns a copy of the parameter list.
func (s Schema) Params() []Param {
	return slices.Clone(s.params)
}

// Names returns the parameter names in column order.
func (s Schema) Names() []string {
	names := make([]string, len(s.params))
	for i, p := range s.params {
		names[i] = p.Name
	}

	return names
}

// Index returns the column of the named parameter.
func (s Schema) Index(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

// Lookup is Index with an error naming the unknown parameter.
func (s Schema) Lookup(name string) (int, error) {
	i, ok := s.index[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", errs.ErrUnknownParameter, name)
	}

	return i, nil
}

// Digest fingerprints the ordered name list.
func (s Schema) Digest() uint64 {
	return hash.Names(s.Names())
}
