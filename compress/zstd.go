package compress

// ZstdCompressor reads and writes Zstandard frames, the format produced by
// `zstd run.1.txt`. Chain text typically shrinks 4-6x.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a Zstandard codec with default settings.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
