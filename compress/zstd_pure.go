//go:build !cgo

package compress

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// maxDecodedChain caps the decoded size of one chain archive.
const maxDecodedChain = 4 << 30

var chainDecoders = sync.Pool{
	New: func() any {
		d, err := zstd.NewReader(nil,
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderMaxMemory(maxDecodedChain),
		)
		if err != nil {
			panic(fmt.Sprintf("zstd: chain decoder: %v", err))
		}

		return d
	},
}

// Archived chains are written once and read many times, so the encoder trades
// speed for ratio.
var chainEncoders = sync.Pool{
	New: func() any {
		e, err := zstd.NewWriter(nil,
			zstd.WithEncoderLevel(zstd.SpeedBetterCompression),
			zstd.WithEncoderCRC(true),
		)
		if err != nil {
			panic(fmt.Sprintf("zstd: chain encoder: %v", err))
		}

		return e
	},
}

// Compress encodes data as a single Zstandard frame with a content checksum.
func (c ZstdCompressor) Compress(data []byte) ([]byte, error) {
	e := chainEncoders.Get().(*zstd.Encoder)
	defer chainEncoders.Put(e)

	return e.EncodeAll(data, make([]byte, 0, len(data)/4)), nil
}

// Decompress decodes one or more concatenated Zstandard frames, as written by
// the zstd command line tool.
func (c ZstdCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	d := chainDecoders.Get().(*zstd.Decoder)
	defer chainDecoders.Put(d)

	out, err := d.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd: %w", err)
	}

	return out, nil
}
