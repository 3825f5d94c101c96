package chain

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func mustSchema(t *testing.T, names ...string) Schema {
	t.Helper()
	s, err := SchemaFromNames(names)
	require.NoError(t, err)

	return s
}

// rowsChain builds a header-less chain of n rows with unit weights, objective
// equal to the row number and a single parameter p = row number.
func rowsChain(t *testing.T, index, n int) *Chain {
	t.Helper()
	c := &Chain{Index: index, Files: []string{"mem"}, nparams: 1}
	for i := range n {
		c.Samples = append(c.Samples, Sample{
			Weight:    1,
			Objective: float64(i),
			Params:    []float64{float64(i)},
			Chain:     index,
			Row:       i,
		})
	}

	return c
}
