// Package pipeline is the single entry point that turns a chain directory into
// a report: resolve files, read chains in parallel, build the run, then compute
// the posterior summary, best fit and derived fits over it.
//
// Reads fan out one goroutine per chain; everything after the reads is a
// synchronous reduction over the completed run.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/arloliu/chainsum/bestfit"
	"github.com/arloliu/chainsum/chain"
	"github.com/arloliu/chainsum/discover"
	"github.com/arloliu/chainsum/errs"
	"github.com/arloliu/chainsum/internal/collision"
	"github.com/arloliu/chainsum/internal/hash"
	"github.com/arloliu/chainsum/internal/options"
	"github.com/arloliu/chainsum/regression"
	"github.com/arloliu/chainsum/report"
	"github.com/arloliu/chainsum/stats"
)

// Reporter builds reports. It holds no state between calls; every Build reads
// the files afresh.
type Reporter struct {
	cfg Config
	log *zap.Logger
}

// New returns a Reporter.
func New(opts ...Option) (*Reporter, error) {
	cfg := defaultConfig()
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	return &Reporter{cfg: cfg, log: cfg.Logger.Named("pipeline")}, nil
}

// Run builds the report for req and writes it to w.
func (r *Reporter) Run(ctx context.Context, req Request, w io.Writer, format report.Format) error {
	in, err := r.Build(ctx, req)
	if err != nil {
		return err
	}

	return report.Write(w, in, format)
}

// Build computes the report input for req.
//
// Input errors (unreadable or malformed files, schema mismatch, unknown
// parameter names) fail the call. Statistic-level failures are recorded in the
// returned Input and rendered in place.
func (r *Reporter) Build(ctx context.Context, req Request) (*report.Input, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	layout, err := discover.Resolve(r.cfg.Lister, req.Dir, req.Prefix)
	if err != nil {
		return nil, err
	}
	log := r.log.With(zap.String("prefix", layout.Prefix), zap.String("dir", layout.Dir))
	log.Debug("resolved chains", zap.Int("chains", len(layout.Chains)), zap.String("paramnames", layout.ParamNames))

	schema, nparams, err := readSchema(layout)
	if err != nil {
		return nil, err
	}

	chains, err := r.readChains(ctx, layout, nparams)
	if err != nil {
		return nil, err
	}
	if err := checkDuplicates(log, chains); err != nil {
		return nil, err
	}

	if layout.ParamNames == "" {
		var fromHeader bool
		schema, fromHeader, err = inferSchema(chains)
		if err != nil {
			return nil, err
		}
		if !fromHeader {
			log.Warn("no paramnames file or column header; using positional parameter names",
				zap.Int("params", schema.Len()))
		}
	}

	run, err := chain.NewRun(schema, req.BurnIn, chains)
	if err != nil {
		return nil, err
	}

	return r.summarize(log, req, layout.Prefix, run)
}

func (r *Reporter) summarize(log *zap.Logger, req Request, prefix string, run *chain.Run) (*report.Input, error) {
	pool := run.Pool()

	var engineOpts []stats.Option
	if req.CredibleLevel != 0 {
		engineOpts = append(engineOpts, stats.WithCredibleLevel(req.CredibleLevel))
	}
	engine, err := stats.NewEngine(pool, engineOpts...)
	if err != nil {
		return nil, err
	}

	summaries, err := engine.Summarize(req.Params...)
	if err != nil {
		return nil, err
	}
	correlations, err := engine.Correlations(req.Correlations)
	if err != nil {
		return nil, err
	}

	schema := run.Schema()
	in := &report.Input{
		Name:         req.Name,
		Prefix:       prefix,
		BurnIn:       run.BurnIn(),
		Params:       schema.Len(),
		SchemaDigest: schema.Digest(),
		Chains:       report.ChainEntries(run),
		Lower:        engine.Config().Lower,
		Upper:        engine.Config().Upper,
		Overview:     engine.Overview(),
		Summaries:    summaries,
		Correlations: correlations,
	}
	if in.Overview.Err != nil {
		log.Warn("trimmed pool is empty", zap.Float64("burn_in", run.BurnIn()), zap.Error(in.Overview.Err))
	}

	in.BestFit, in.BestFitErr = bestfit.Locate(run, locateOptions(req)...)
	if in.BestFitErr != nil && !errors.Is(in.BestFitErr, errs.ErrInsufficientData) {
		return nil, in.BestFitErr
	}
	if bf := in.BestFit; bf != nil && bf.Warning != nil {
		log.Warn("best-fit components do not sum to the objective",
			zap.Int("chain", bf.Chain),
			zap.Int("row", bf.Row),
			zap.Float64("objective", bf.Objective),
			zap.Float64("component_sum", bf.ComponentSum),
			zap.Float64("tolerance", bf.Warning.Tolerance))
	}

	for _, f := range req.Fits {
		res, err := regression.Fit(pool, f.Name, f.U, f.V, f.Options...)
		if errors.Is(err, errs.ErrUnknownParameter) || errors.Is(err, errs.ErrInvalidConfig) {
			return nil, err
		}
		if err != nil {
			log.Info("derived fit not computed", zap.String("fit", f.Name), zap.Error(err))
		}
		in.Fits = append(in.Fits, report.Fit{Name: f.Name, Result: res, Err: err})
	}

	log.Debug("report built",
		zap.Int("chains", len(in.Chains)),
		zap.Int("pool_rows", in.Overview.Rows),
		zap.Int("fits", len(in.Fits)))

	return in, nil
}

func locateOptions(req Request) []bestfit.Option {
	var opts []bestfit.Option
	if req.NoComponents {
		opts = append(opts, bestfit.WithoutComponents())
	}
	if req.ComponentTolerance != nil {
		opts = append(opts, bestfit.WithTolerance(*req.ComponentTolerance))
	}

	return opts
}

// readSchema reads the paramnames file when present. Without one the column
// count is taken from each chain.
func readSchema(layout *discover.Layout) (chain.Schema, int, error) {
	if layout.ParamNames == "" {
		return chain.Schema{}, chain.AutoColumns, nil
	}

	schema, err := chain.ReadParamNames(layout.ParamNames)
	if err != nil {
		return chain.Schema{}, 0, err
	}

	return schema, schema.Len(), nil
}

// inferSchema derives the schema from the first chain header, or positional
// names p1..pk when no chain has one.
func inferSchema(chains []*chain.Chain) (chain.Schema, bool, error) {
	for _, c := range chains {
		if c.Columns != nil {
			schema, err := chain.SchemaFromNames(c.Columns)
			return schema, true, err
		}
	}

	k := 0
	for _, c := range chains {
		if n := c.NumParams(); n != chain.AutoColumns {
			k = n
			break
		}
	}
	names := make([]string, k)
	for i := range names {
		names[i] = "p" + strconv.Itoa(i+1)
	}
	schema, err := chain.SchemaFromNames(names)

	return schema, false, err
}

// checkDuplicates warns about chain files with identical content; their rows
// would enter the pool twice.
func checkDuplicates(log *zap.Logger, chains []*chain.Chain) error {
	tracker := collision.NewTracker()
	for _, c := range chains {
		for j, f := range c.Files {
			if j >= len(c.Digests) {
				break
			}
			if err := tracker.Track(f, c.Digests[j]); err != nil {
				return err
			}
		}
	}
	for _, d := range tracker.Duplicates() {
		log.Warn("chain files have identical content",
			zap.String("file", d.File),
			zap.String("original", d.Original),
			zap.String("xxh64", hash.Hex(d.Digest)))
	}

	return nil
}

// readChains reads every chain of layout concurrently and merges resumed
// segments. The result is in layout order.
func (r *Reporter) readChains(ctx context.Context, layout *discover.Layout, nparams int) ([]*chain.Chain, error) {
	chains := make([]*chain.Chain, len(layout.Chains))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Concurrency)
	for i, cf := range layout.Chains {
		g.Go(func() error {
			parts := make([]*chain.Chain, 0, len(cf.Files))
			for _, path := range cf.Files {
				if err := gctx.Err(); err != nil {
					return err
				}
				c, err := chain.ReadChain(path, cf.Index, nparams, r.cfg.ReadOptions...)
				if err != nil {
					return err
				}
				if c.Dropped > 0 {
					r.log.Debug("dropped zero-weight rows", zap.String("file", path), zap.Int("rows", c.Dropped))
				}
				parts = append(parts, c)
			}

			merged, err := chain.Concat(parts...)
			if err != nil {
				return fmt.Errorf("chain %d: %w", cf.Index, err)
			}
			chains[i] = merged

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return chains, nil
}
