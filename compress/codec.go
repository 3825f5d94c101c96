package compress

import (
	"fmt"
	"strings"

	"github.com/arloliu/chainsum/errs"
)

// Type identifies a compression format.
type Type uint8

const (
	TypeNone Type = 0x1 // TypeNone represents uncompressed text.
	TypeZstd Type = 0x2 // TypeZstd represents a Zstandard frame.
	TypeS2   Type = 0x3 // TypeS2 represents an S2 stream.
	TypeLZ4  Type = 0x4 // TypeLZ4 represents an LZ4 frame.
)

func (t Type) String() string {
	switch t {
	case TypeNone:
		return "none"
	case TypeZstd:
		return "zstd"
	case TypeS2:
		return "s2"
	case TypeLZ4:
		return "lz4"
	default:
		return "unknown"
	}
}

// Ext returns the file extension used for the type, including the dot.
// TypeNone has no extension.
func (t Type) Ext() string {
	switch t {
	case TypeZstd:
		return ".zst"
	case TypeS2:
		return ".sz"
	case TypeLZ4:
		return ".lz4"
	default:
		return ""
	}
}

var extTypes = map[string]Type{
	".zst": TypeZstd,
	".sz":  TypeS2,
	".lz4": TypeLZ4,
}

// TypeFromPath returns the compression type implied by the extension of path
// and path with that extension removed. Unknown extensions map to TypeNone.
func TypeFromPath(path string) (Type, string) {
	dot := strings.LastIndexByte(path, '.')
	if dot < 0 {
		return TypeNone, path
	}
	if t, ok := extTypes[strings.ToLower(path[dot:])]; ok {
		return t, path[:dot]
	}

	return TypeNone, path
}

// ParseType maps a name ("none", "zstd", "s2", "lz4") to its Type.
func ParseType(name string) (Type, error) {
	for _, t := range []Type{TypeNone, TypeZstd, TypeS2, TypeLZ4} {
		if strings.EqualFold(name, t.String()) {
			return t, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", errs.ErrUnsupportedCompression, name)
}

// Compressor compresses a whole payload.
//
// The returned slice is newly allocated and owned by the caller, except for the
// no-op codec which returns its input.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor restores a payload produced by the matching Compressor or by the
// corresponding command line tool.
//
// Implementations are safe for concurrent use; chains are decoded in parallel.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both directions.
type Codec interface {
	Compressor
	Decompressor
}

var builtinCodecs = map[Type]Codec{
	TypeNone: NewNoOpCompressor(),
	TypeZstd: NewZstdCompressor(),
	TypeS2:   NewS2Compressor(),
	TypeLZ4:  NewLZ4Compressor(),
}

// GetCodec retrieves the built-in Codec for t.
func GetCodec(t Type) (Codec, error) {
	if codec, ok := builtinCodecs[t]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedCompression, t)
}
