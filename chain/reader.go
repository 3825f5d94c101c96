package chain

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/arloliu/chainsum/compress"
	"github.com/arloliu/chainsum/errs"
	"github.com/arloliu/chainsum/internal/hash"
	"github.com/arloliu/chainsum/internal/options"
	"github.com/arloliu/chainsum/internal/pool"
)

// AutoColumns tells the reader to take the parameter count from the file header,
// or from the first data row when there is no header.
const AutoColumns = -1

const (
	defaultCommentPrefix = "#"
	defaultMaxLineSize   = 1 << 20
	headerWeightToken    = "weight"
)

// ReadConfig controls how chain files are parsed.
type ReadConfig struct {
	// CommentPrefix starts comment and header lines.
	CommentPrefix string
	// Codec overrides the codec chosen from the file extension.
	Codec compress.Codec
	// MaxLineSize bounds a single line in bytes.
	MaxLineSize int
}

// ReadOption configures ReadChain and Parse.
type ReadOption = options.Option[*ReadConfig]

// WithCommentPrefix sets the comment marker. It must not be empty.
func WithCommentPrefix(prefix string) ReadOption {
	return options.New(func(cfg *ReadConfig) error {
		if prefix == "" {
			return fmt.Errorf("%w: empty comment prefix", errs.ErrInvalidConfig)
		}
		cfg.CommentPrefix = prefix

		return nil
	})
}

// WithCodec forces a codec regardless of the file extension.
func WithCodec(codec compress.Codec) ReadOption {
	return options.NoError(func(cfg *ReadConfig) {
		cfg.Codec = codec
	})
}

// WithMaxLineSize sets the longest accepted line in bytes.
func WithMaxLineSize(n int) ReadOption {
	return options.New(func(cfg *ReadConfig) error {
		if n <= 0 {
			return fmt.Errorf("%w: max line size %d", errs.ErrInvalidConfig, n)
		}
		cfg.MaxLineSize = n

		return nil
	})
}

func newReadConfig(opts []ReadOption) (*ReadConfig, error) {
	cfg := &ReadConfig{
		CommentPrefix: defaultCommentPrefix,
		MaxLineSize:   defaultMaxLineSize,
	}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ReadChain reads the chain file at path and tags its rows with index.
//
// nparams is the expected number of parameter columns k, so every data line must
// hold 2+k numeric fields; pass AutoColumns to infer it. A header line that
// declares a different count takes precedence for that file and the mismatch is
// reported by NewRun against the run schema.
//
// Compressed files (.zst, .sz, .lz4) are decoded first. The recorded digest is
// taken over the bytes as stored on disk.
func ReadChain(path string, index, nparams int, opts ...ReadOption) (*Chain, error) {
	cfg, err := newReadConfig(opts)
	if err != nil {
		return nil, err
	}

	buf := pool.GetFileBuffer()
	defer pool.PutFileBuffer(buf)

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read chain: %w", err)
	}
	_, err = buf.ReadFrom(f)
	f.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to read chain %s: %w", path, err)
	}
	raw := buf.Bytes()

	codec := cfg.Codec
	if codec == nil {
		typ, _ := compress.TypeFromPath(path)
		if codec, err = compress.GetCodec(typ); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	data, err := codec.Decompress(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	c, err := parse(bytes.NewReader(data), path, index, nparams, cfg)
	if err != nil {
		return nil, err
	}
	c.Digests = []uint64{hash.Bytes(raw)}

	return c, nil
}

// Parse reads chain rows from r. name identifies the source in errors.
func Parse(r io.Reader, name string, index, nparams int, opts ...ReadOption) (*Chain, error) {
	cfg, err := newReadConfig(opts)
	if err != nil {
		return nil, err
	}

	return parse(r, name, index, nparams, cfg)
}

func parse(r io.Reader, name string, index, nparams int, cfg *ReadConfig) (*Chain, error) {
	c := &Chain{
		Index: index,
		Files: []string{name},
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, min(64*1024, cfg.MaxLineSize)), cfg.MaxLineSize)

	lineNo := 0
	sawData := false
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, cfg.CommentPrefix) {
			if !sawData && c.Columns == nil {
				if cols, ok := parseHeader(line[len(cfg.CommentPrefix):]); ok {
					c.Columns = cols
					nparams = len(cols)
				}
			}

			continue
		}

		fields := strings.Fields(line)
		if nparams == AutoColumns {
			if len(fields) < 2 {
				return nil, malformed(name, lineNo, "expected at least 2 fields (weight, objective), got %d", len(fields))
			}
			nparams = len(fields) - 2
		}
		if len(fields) != 2+nparams {
			return nil, malformed(name, lineNo, "expected %d fields, got %d", 2+nparams, len(fields))
		}

		values := make([]float64, len(fields))
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, malformed(name, lineNo, "column %d: %q is not a number", i+1, f)
			}
			if i > 0 && (math.IsNaN(v) || math.IsInf(v, 0)) {
				return nil, malformed(name, lineNo, "column %d: %q is not finite", i+1, f)
			}
			values[i] = v
		}
		sawData = true

		w := values[0]
		if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
			return nil, malformed(name, lineNo, "invalid weight %s", fields[0])
		}
		if w == 0 {
			c.Dropped++
			continue
		}

		c.Samples = append(c.Samples, Sample{
			Weight:    w,
			Objective: values[1],
			Params:    values[2:],
			Chain:     index,
			Row:       len(c.Samples),
		})
	}
	if err := sc.Err(); err != nil {
		return nil, malformed(name, lineNo+1, "%v", err)
	}

	c.nparams = nparams

	return c, nil
}

// parseHeader recognizes "weight <objective> name1 ... namek" after the comment marker.
func parseHeader(s string) ([]string, bool) {
	tokens := strings.Fields(s)
	if len(tokens) < 2 || tokens[0] != headerWeightToken {
		return nil, false
	}

	cols := make([]string, len(tokens)-2)
	copy(cols, tokens[2:])

	return cols, true
}

func malformed(file string, line int, format string, args ...any) error {
	return &errs.MalformedRowError{File: file, Line: line, Reason: fmt.Sprintf(format, args...)}
}

// Concat joins a chain with the segments of a resumed sampling session. Rows
// are renumbered in concatenation order under the index of the first part.
func Concat(parts ...*Chain) (*Chain, error) {
	if len(parts) == 0 {
		return nil, errs.ErrNoChains
	}
	if len(parts) == 1 {
		return parts[0], nil
	}

	head := parts[0]
	out := &Chain{
		Index:   head.Index,
		Columns: head.Columns,
		nparams: head.nparams,
	}
	for _, p := range parts {
		if err := checkCompatible(out, p); err != nil {
			return nil, err
		}
		if out.Columns == nil {
			out.Columns = p.Columns
		}
		if out.nparams == AutoColumns {
			out.nparams = p.nparams
		}

		out.Files = append(out.Files, p.Files...)
		out.Digests = append(out.Digests, p.Digests...)
		out.Dropped += p.Dropped
		for _, s := range p.Samples {
			s.Chain = out.Index
			s.Row = len(out.Samples)
			out.Samples = append(out.Samples, s)
		}
	}

	return out, nil
}

func checkCompatible(base, next *Chain) error {
	countsDiffer := base.nparams != AutoColumns && next.nparams != AutoColumns && base.nparams != next.nparams
	namesDiffer := base.Columns != nil && next.Columns != nil && !slices.Equal(base.Columns, next.Columns)
	if countsDiffer || namesDiffer {
		return &errs.SchemaMismatchError{File: next.Name(), Want: columnNames(base), Got: columnNames(next)}
	}

	return nil
}

// columnNames returns the header names, or positional placeholders when the
// chain had no header.
func columnNames(c *Chain) []string {
	if c.Columns != nil {
		return c.Columns
	}
	if c.nparams <= 0 {
		return nil
	}

	names := make([]string, c.nparams)
	for i := range names {
		names[i] = "$" + strconv.Itoa(i+3)
	}

	return names
}
