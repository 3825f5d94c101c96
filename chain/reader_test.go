package chain

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arloliu/chainsum/compress"
	"github.com/arloliu/chainsum/errs"
	"github.com/stretchr/testify/require"
)

func TestReadChain(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "run.1.txt", `#  weight  minuslogpost  p
1  10  1.0
2  5   2.0

1  8   3.0
`)

	c, err := ReadChain(path, 1, 1)
	require.NoError(t, err)
	require.Equal(t, 1, c.Index)
	require.Equal(t, []string{path}, c.Files)
	require.Equal(t, []string{"p"}, c.Columns)
	require.Equal(t, 1, c.NumParams())
	require.Equal(t, 3, c.Len())
	require.Len(t, c.Digests, 1)

	require.Equal(t, Sample{Weight: 2, Objective: 5, Params: []float64{2.0}, Chain: 1, Row: 1}, c.Samples[1])
}

func TestReadChainDropsZeroWeightRows(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "run.1.txt", "1 1 0.1\n0 2 0.2\n3 3 0.3\n0 4 0.4\n")

	c, err := ReadChain(path, 4, 1)
	require.NoError(t, err)
	require.Equal(t, 2, c.Len())
	require.Equal(t, 2, c.Dropped)
	require.Equal(t, 0, c.Samples[0].Row)
	require.Equal(t, 1, c.Samples[1].Row)
	require.InDelta(t, 0.3, c.Samples[1].Params[0], 0)
}

func TestReadChainMalformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
		line    int
		reason  string
	}{
		{"too few fields", "1 10 1.0 2.0\n1 11 3.0\n", 2, "expected 4 fields, got 3"},
		{"too many fields", "# comment\n1 10 1.0 2.0 3.0\n", 2, "expected 4 fields, got 5"},
		{"non-numeric token", "1 10 1.0 2.0\n\n1 abc 1.0 2.0\n", 3, `"abc" is not a number`},
		{"negative weight", "-1 10 1.0 2.0\n", 1, "invalid weight -1"},
		{"nan weight", "NaN 10 1.0 2.0\n", 1, "invalid weight NaN"},
		{"inf weight", "+Inf 10 1.0 2.0\n", 1, "invalid weight +Inf"},
		{"nan objective", "1 nan 1.0 2.0\n", 1, `column 2: "nan" is not finite`},
		{"NaN objective", "1 NaN 1.0 2.0\n", 1, `column 2: "NaN" is not finite`},
		{"inf objective", "1 -inf 1.0 2.0\n", 1, `column 2: "-inf" is not finite`},
		{"inf parameter", "1 10 1.0 2.0\n1 9 inf 2.0\n", 2, `column 3: "inf" is not finite`},
		{"infinity parameter", "1 10 1.0 Infinity\n", 1, `column 4: "Infinity" is not finite`},
		{"NaN parameter", "1 10 NaN 2.0\n", 1, `column 3: "NaN" is not finite`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "bad.1.txt", tt.content)

			_, err := ReadChain(path, 1, 2)
			require.ErrorIs(t, err, errs.ErrMalformedRow)

			var rowErr *errs.MalformedRowError
			require.True(t, errors.As(err, &rowErr))
			require.Equal(t, path, rowErr.File)
			require.Equal(t, tt.line, rowErr.Line)
			require.Contains(t, rowErr.Reason, tt.reason)
		})
	}
}

func TestParseRejectsNonFinite(t *testing.T) {
	_, err := Parse(strings.NewReader("1 nan 1.0\n1 5 inf\n1 4 NaN\n"), "nf.1.txt", 1, 1)

	var rowErr *errs.MalformedRowError
	require.ErrorAs(t, err, &rowErr)
	require.Equal(t, "nf.1.txt", rowErr.File)
	require.Equal(t, 1, rowErr.Line)
	require.Contains(t, rowErr.Reason, "column 2")
}

func TestReadChainAutoColumns(t *testing.T) {
	t.Run("from header", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "r.1.txt", "# weight minuslogpost a b c\n1 2 3 4 5\n")
		c, err := ReadChain(path, 1, AutoColumns)
		require.NoError(t, err)
		require.Equal(t, 3, c.NumParams())
		require.Equal(t, []string{"a", "b", "c"}, c.Columns)
	})

	t.Run("from first row", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "r.1.txt", "1 2 3 4\n1 2 3\n")
		_, err := ReadChain(path, 1, AutoColumns)
		var rowErr *errs.MalformedRowError
		require.ErrorAs(t, err, &rowErr)
		require.Equal(t, 2, rowErr.Line)
	})

	t.Run("header count wins over expected count", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "r.1.txt", "# weight minuslogpost a b c\n1 2 3 4 5\n")
		c, err := ReadChain(path, 1, 2)
		require.NoError(t, err)
		require.Equal(t, 3, c.NumParams())
	})

	t.Run("non-header comment ignored", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "r.1.txt", "# produced by sampler\n1 2 3\n")
		c, err := ReadChain(path, 1, 1)
		require.NoError(t, err)
		require.Nil(t, c.Columns)
	})
}

func TestReadChainCompressed(t *testing.T) {
	plain := "# weight minuslogpost H0 omega_m\n1 512.3 67.4 0.31\n2 511.9 67.9 0.30\n"
	dir := t.TempDir()
	want, err := ReadChain(writeFile(t, dir, "run.1.txt", plain), 1, 2)
	require.NoError(t, err)

	for _, typ := range []compress.Type{compress.TypeZstd, compress.TypeS2, compress.TypeLZ4} {
		t.Run(typ.String(), func(t *testing.T) {
			codec, err := compress.GetCodec(typ)
			require.NoError(t, err)
			packed, err := codec.Compress([]byte(plain))
			require.NoError(t, err)

			path := filepath.Join(dir, "run.1.txt"+typ.Ext())
			require.NoError(t, os.WriteFile(path, packed, 0o644))

			got, err := ReadChain(path, 1, 2)
			require.NoError(t, err)
			require.Equal(t, want.Samples, got.Samples)
			require.Equal(t, want.Columns, got.Columns)
			require.NotEqual(t, want.Digests, got.Digests)
		})
	}
}

func TestReadChainOptions(t *testing.T) {
	path := writeFile(t, t.TempDir(), "run.1.txt", "% weight minuslogpost x\n1 2 3\n")

	c, err := ReadChain(path, 1, 1, WithCommentPrefix("%"), WithCodec(compress.NewNoOpCompressor()))
	require.NoError(t, err)
	require.Equal(t, []string{"x"}, c.Columns)

	_, err = ReadChain(path, 1, 1, WithCommentPrefix(""))
	require.ErrorIs(t, err, errs.ErrInvalidConfig)

	_, err = ReadChain(path, 1, 1, WithMaxLineSize(4))
	require.ErrorIs(t, err, errs.ErrMalformedRow)
}

func TestReadChainMissingFile(t *testing.T) {
	_, err := ReadChain(filepath.Join(t.TempDir(), "nope.1.txt"), 1, 1)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestConcat(t *testing.T) {
	parent, err := Parse(strings.NewReader("# weight minuslogpost x\n1 5 0.1\n1 4 0.2\n"), "run.1.txt", 1, 1)
	require.NoError(t, err)
	segment, err := Parse(strings.NewReader("# weight minuslogpost x\n0 9 9\n2 3 0.3\n"), "run.1.A.txt", 1, 1)
	require.NoError(t, err)

	c, err := Concat(parent, segment)
	require.NoError(t, err)
	require.Equal(t, []string{"run.1.txt", "run.1.A.txt"}, c.Files)
	require.Equal(t, 3, c.Len())
	require.Equal(t, 1, c.Dropped)
	for i, s := range c.Samples {
		require.Equal(t, i, s.Row)
		require.Equal(t, 1, s.Chain)
	}

	// parts are not modified
	require.Equal(t, 0, segment.Samples[0].Row)

	other, err := Parse(strings.NewReader("# weight minuslogpost y\n1 1 1\n"), "run.1.B.txt", 1, 1)
	require.NoError(t, err)
	_, err = Concat(parent, other)
	require.ErrorIs(t, err, errs.ErrSchemaMismatch)

	_, err = Concat()
	require.ErrorIs(t, err, errs.ErrNoChains)
}

func TestParamNames(t *testing.T) {
	schema, err := ParseParamNames(strings.NewReader(`# generated
H0        H_0
omega_m   \Omega_m
sigma8*   \sigma_8 (derived)
chi2__sn.pantheonplus
`), "run.paramnames")
	require.NoError(t, err)
	require.Equal(t, []string{"H0", "omega_m", "sigma8", "chi2__sn.pantheonplus"}, schema.Names())
	require.Equal(t, `\sigma_8 (derived)`, schema.Param(2).Label)
	require.Equal(t, "chi2__sn.pantheonplus", schema.Param(3).Label)

	_, err = ParseParamNames(strings.NewReader("a A\nb B\na again\n"), "dup.paramnames")
	var rowErr *errs.MalformedRowError
	require.ErrorAs(t, err, &rowErr)
	require.Equal(t, 3, rowErr.Line)

	_, err = ParseParamNames(strings.NewReader("# nothing\n"), "empty.paramnames")
	require.ErrorIs(t, err, errs.ErrInvalidConfig)
}

func TestReadParamNamesFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "run.paramnames", "a alpha\nb beta\n")
	schema, err := ReadParamNames(path)
	require.NoError(t, err)
	require.Equal(t, 2, schema.Len())
	idx, ok := schema.Index("b")
	require.True(t, ok)
	require.Equal(t, 1, idx)
}
