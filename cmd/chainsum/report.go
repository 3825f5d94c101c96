package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arloliu/chainsum/chain"
	"github.com/arloliu/chainsum/compress"
	"github.com/arloliu/chainsum/config"
	"github.com/arloliu/chainsum/errs"
	"github.com/arloliu/chainsum/pipeline"
	"github.com/arloliu/chainsum/regression"
	"github.com/arloliu/chainsum/report"
)

type reportFlags struct {
	dir           string
	burnIn        float64
	params        []string
	correlations  []string
	fits          []string
	format        string
	configPath    string
	runName       string
	credibleLevel float64
	tolerance     float64
	noComponents  bool
	concurrency   int
	watch         bool
	debounce      time.Duration
	codec         string
	comment       string
}

func newReportCmd(a *app) *cobra.Command {
	var f reportFlags

	cmd := &cobra.Command{
		Use:   "report [prefix]",
		Short: "Report on one chain directory",
		Long: `Report reads every <prefix>.<n>.txt chain in --dir (with resumed segments
<prefix>.<n>.<tag>.txt and .zst, .sz or .lz4 compressed variants) and writes
the posterior summary, best fit and requested fits to stdout.

With --config and --run, the named run record supplies the directory, prefix,
burn-in, parameters and fits; flags given explicitly override it.`,
		Example: `  chainsum report lcdm --dir chains --burn-in 0.3 --params H0,omegam
  chainsum report --dir chains --fit h0_om=omegam:H0 --corr H0:omegam
  chainsum report --config runs.yaml --run lcdm_baseline_desiDR2 --format yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, a, &f, args)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.dir, "dir", "d", ".", "directory holding the chains")
	fl.Float64VarP(&f.burnIn, "burn-in", "b", chain.DefaultBurnIn, "fraction of each chain discarded as burn-in, in [0, 1)")
	fl.StringSliceVarP(&f.params, "params", "p", nil, "parameters to tabulate (default all)")
	fl.StringArrayVar(&f.correlations, "corr", nil, "correlation to report, as a:b (repeatable)")
	fl.StringArrayVar(&f.fits, "fit", nil, "linear fit to compute, as name=u:v (repeatable)")
	fl.StringVarP(&f.format, "format", "f", "text", "report format: text or yaml")
	fl.StringVarP(&f.configPath, "config", "c", "", "YAML file of named runs")
	fl.StringVarP(&f.runName, "run", "r", "", "run record to use from --config")
	fl.Float64Var(&f.credibleLevel, "credible-level", 0, "central credible level, e.g. 0.95 (default 16%-84%)")
	fl.Float64Var(&f.tolerance, "tolerance", 0, "relative tolerance of the best-fit component sum")
	fl.BoolVar(&f.noComponents, "no-components", false, "skip the best-fit objective breakdown")
	fl.IntVar(&f.concurrency, "concurrency", 0, "chains read in parallel (default GOMAXPROCS)")
	fl.BoolVarP(&f.watch, "watch", "w", false, "rebuild the report whenever a chain file changes")
	fl.DurationVar(&f.debounce, "debounce", pipeline.DefaultDebounce, "quiet period before a --watch rebuild")
	fl.StringVar(&f.codec, "codec", "", "decode every chain file with this codec instead of by extension: none, zstd, s2 or lz4")
	fl.StringVar(&f.comment, "comment", "#", "comment marker of the chain files")

	return cmd
}

func runReport(cmd *cobra.Command, a *app, f *reportFlags, args []string) error {
	req, format, err := f.request(cmd, args)
	if err != nil {
		return err
	}

	opts := []pipeline.Option{pipeline.WithLogger(a.logger)}
	if cmd.Flags().Changed("concurrency") {
		opts = append(opts, pipeline.WithConcurrency(f.concurrency))
	}
	readOpts, err := f.readOptions(cmd)
	if err != nil {
		return err
	}
	if len(readOpts) > 0 {
		opts = append(opts, pipeline.WithReadOptions(readOpts...))
	}
	reporter, err := pipeline.New(opts...)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !f.watch {
		return reporter.Run(cmd.Context(), req, out, format)
	}

	builds := 0
	return reporter.Watch(cmd.Context(), req, f.debounce, func(in *report.Input, err error) error {
		if err != nil {
			a.logger.Error("report not rebuilt", zap.String("dir", req.Dir), zap.Error(err))
			return nil
		}
		if builds > 0 {
			if err := separator(out, format); err != nil {
				return err
			}
		}
		builds++

		return report.Write(out, in, format)
	})
}

func (f *reportFlags) readOptions(cmd *cobra.Command) ([]chain.ReadOption, error) {
	var opts []chain.ReadOption
	if cmd.Flags().Changed("codec") {
		typ, err := compress.ParseType(f.codec)
		if err != nil {
			return nil, err
		}
		codec, err := compress.GetCodec(typ)
		if err != nil {
			return nil, err
		}
		opts = append(opts, chain.WithCodec(codec))
	}
	if cmd.Flags().Changed("comment") {
		opts = append(opts, chain.WithCommentPrefix(f.comment))
	}

	return opts, nil
}

func separator(w io.Writer, format report.Format) error {
	sep := "\n"
	if format == report.FormatYAML {
		sep = "---\n"
	}
	_, err := io.WriteString(w, sep)

	return err
}

// request assembles the pipeline request from the run record, if any, and the
// flags that were set explicitly.
func (f *reportFlags) request(cmd *cobra.Command, args []string) (pipeline.Request, report.Format, error) {
	changed := cmd.Flags().Changed

	var (
		req       pipeline.Request
		runFormat string
	)
	switch {
	case f.configPath != "":
		run, err := loadRun(f.configPath, f.runName)
		if err != nil {
			return req, "", err
		}
		if req, err = pipeline.FromConfig(run, f.burnIn); err != nil {
			return req, "", err
		}
		runFormat = run.Format
		if changed("dir") {
			req.Dir = f.dir
		}
		if changed("burn-in") {
			req.BurnIn = f.burnIn
		}
		if changed("params") {
			req.Params = f.params
		}
	case f.runName != "":
		return req, "", fmt.Errorf("%w: --run needs --config", errs.ErrInvalidConfig)
	default:
		req = pipeline.Request{Dir: f.dir, BurnIn: f.burnIn, Params: f.params}
	}

	if len(args) > 0 {
		req.Prefix = args[0]
	}
	if changed("credible-level") {
		req.CredibleLevel = f.credibleLevel
	}
	if changed("tolerance") {
		tol := f.tolerance
		req.ComponentTolerance = &tol
	}
	if f.noComponents {
		req.NoComponents = true
	}

	for _, s := range f.correlations {
		pair, err := parseCorrelation(s)
		if err != nil {
			return req, "", err
		}
		req.Correlations = append(req.Correlations, pair)
	}
	for _, s := range f.fits {
		fit, err := parseFit(s)
		if err != nil {
			return req, "", err
		}
		req.Fits = append(req.Fits, fit)
	}

	name := f.format
	if !changed("format") && runFormat != "" {
		name = runFormat
	}
	format, err := report.ParseFormat(name)
	if err != nil {
		return req, "", err
	}

	return req, format, nil
}

func loadRun(path, name string) (*config.Run, error) {
	file, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if name == "" {
		if len(file.Runs) != 1 {
			return nil, fmt.Errorf("%w: --run is required, %s defines %v", errs.ErrInvalidConfig, path, file.Names())
		}

		return &file.Runs[0], nil
	}

	return file.Lookup(name)
}

// parseCorrelation parses "a:b".
func parseCorrelation(s string) ([2]string, error) {
	a, b, ok := strings.Cut(s, ":")
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	if !ok || a == "" || b == "" {
		return [2]string{}, fmt.Errorf("%w: correlation %q, want a:b", errs.ErrInvalidConfig, s)
	}

	return [2]string{a, b}, nil
}

// parseFit parses "name=u:v"; without a name the fit is called "v_vs_u".
func parseFit(s string) (pipeline.FitRequest, error) {
	name, cols, ok := strings.Cut(s, "=")
	if !ok {
		name, cols = "", s
	}
	u, v, ok := strings.Cut(cols, ":")
	u, v = strings.TrimSpace(u), strings.TrimSpace(v)
	if !ok || u == "" || v == "" {
		return pipeline.FitRequest{}, fmt.Errorf("%w: fit %q, want name=u:v", errs.ErrInvalidConfig, s)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = v + "_vs_" + u
	}

	return pipeline.FitRequest{Name: name, U: regression.Column(u), V: regression.Column(v)}, nil
}

func newRunsCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List the run records of a configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := config.Load(path)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tDIR\tPREFIX\tBURN-IN\tFITS")
			for _, r := range file.Runs {
				prefix := r.Prefix
				if prefix == "" {
					prefix = "(auto)"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%g\t%d\n", r.Name, r.Dir, prefix, r.BurnInOr(chain.DefaultBurnIn), len(r.Fits))
			}

			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&path, "config", "c", "", "YAML file of named runs")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}
