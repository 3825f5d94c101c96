// Package compress provides the codecs used to read archived chain files.
//
// Long sampling runs are often archived compressed. A chain file named
// run.1.txt.zst, run.1.txt.sz or run.1.txt.lz4 is decoded with the matching
// codec before it is parsed; plain run.1.txt uses the no-op codec. All codecs
// operate on whole files and produce the standard stream/frame formats written by
// the zstd, s2 and lz4 command line tools, so archives made outside chainsum
// read back unchanged.
//
// # Codec Selection
//
//	typ, base := compress.TypeFromPath("chains/run.1.txt.zst") // TypeZstd, "chains/run.1.txt"
//	codec, err := compress.GetCodec(typ)
//	if err != nil {
//	    return err
//	}
//	plain, err := codec.Decompress(raw)
//
// The zstd codec uses github.com/valyala/gozstd when built with cgo and the pure
// Go github.com/klauspost/compress/zstd otherwise. S2 comes from
// github.com/klauspost/compress/s2 and LZ4 from github.com/pierrec/lz4/v4.
package compress
