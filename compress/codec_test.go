package compress

import (
	"strings"
	"testing"

	"github.com/arloliu/chainsum/errs"
	"github.com/stretchr/testify/require"
)

func chainText(rows int) []byte {
	var sb strings.Builder
	sb.WriteString("#  weight  minuslogpost  H0  omega_m\n")
	for i := range rows {
		sb.WriteString("1  ")
		sb.WriteString(strings.Repeat("1", i%7+1))
		sb.WriteString(".25  67.4  0.315\n")
	}

	return []byte(sb.String())
}

func TestCodecRoundTrip(t *testing.T) {
	data := chainText(500)

	for _, typ := range []Type{TypeNone, TypeZstd, TypeS2, TypeLZ4} {
		t.Run(typ.String(), func(t *testing.T) {
			codec, err := GetCodec(typ)
			require.NoError(t, err)

			compressed, err := codec.Compress(data)
			require.NoError(t, err)
			if typ != TypeNone {
				require.Less(t, len(compressed), len(data))
			}

			restored, err := codec.Decompress(compressed)
			require.NoError(t, err)
			require.Equal(t, data, restored)
		})
	}
}

func TestDecompressEmpty(t *testing.T) {
	for _, typ := range []Type{TypeZstd, TypeS2, TypeLZ4} {
		codec, err := GetCodec(typ)
		require.NoError(t, err)

		out, err := codec.Decompress(nil)
		require.NoError(t, err)
		require.Empty(t, out)
	}
}

func TestDecompressCorrupt(t *testing.T) {
	garbage := []byte("this is not a compressed frame at all")
	for _, typ := range []Type{TypeZstd, TypeS2, TypeLZ4} {
		t.Run(typ.String(), func(t *testing.T) {
			codec, err := GetCodec(typ)
			require.NoError(t, err)

			_, err = codec.Decompress(garbage)
			require.Error(t, err)
		})
	}
}

func TestTypeFromPath(t *testing.T) {
	tests := []struct {
		path string
		typ  Type
		base string
	}{
		{"run.1.txt", TypeNone, "run.1.txt"},
		{"dir/run.1.txt.zst", TypeZstd, "dir/run.1.txt"},
		{"run.2.txt.sz", TypeS2, "run.2.txt"},
		{"run.3.txt.LZ4", TypeLZ4, "run.3.txt"},
		{"noext", TypeNone, "noext"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			typ, base := TypeFromPath(tt.path)
			require.Equal(t, tt.typ, typ)
			require.Equal(t, tt.base, base)
		})
	}
}

func TestParseType(t *testing.T) {
	typ, err := ParseType("ZSTD")
	require.NoError(t, err)
	require.Equal(t, TypeZstd, typ)
	require.Equal(t, ".zst", typ.Ext())

	_, err = ParseType("brotli")
	require.ErrorIs(t, err, errs.ErrUnsupportedCompression)

	_, err = GetCodec(Type(99))
	require.ErrorIs(t, err, errs.ErrUnsupportedCompression)
}
