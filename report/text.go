package report

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/arloliu/chainsum/internal/hash"
)

// WriteText renders in as aligned text tables.
func WriteText(w io.Writer, in *Input) error {
	bw := bufio.NewWriter(w)
	tw := tabwriter.NewWriter(bw, 0, 4, 2, ' ', 0)

	p := &printer{tw: tw}
	p.header(in)
	p.chains(in)
	p.bestFit(in)
	p.posterior(in)
	p.correlations(in)
	p.fits(in)

	if p.err != nil {
		return p.err
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	return bw.Flush()
}

// printer accumulates the first write error.
type printer struct {
	tw  *tabwriter.Writer
	err error
}

func (p *printer) row(cells ...string) {
	if p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.tw, strings.Join(cells, "\t")+"\n")
}

func (p *printer) section(title string) {
	p.row("")
	p.row("== " + title + " ==")
}

// flush aligns the cells written since the previous flush; each section is a
// separate table.
func (p *printer) flush() {
	if p.err != nil {
		return
	}
	p.err = p.tw.Flush()
}

func (p *printer) header(in *Input) {
	if in.Name != "" {
		p.row("run", in.Name)
	}
	p.row("prefix", in.Prefix)
	p.row("burn-in", formatFloat(in.BurnIn))
	p.row("schema", fmt.Sprintf("%d parameters, xxh64 %s", in.Params, hash.Hex(in.SchemaDigest)))
	p.flush()
}

func (p *printer) chains(in *Input) {
	p.section("chains")
	p.row("chain", "file", "rows", "post-burn", "dropped", "xxh64")
	for _, c := range in.Chains {
		for j, f := range c.Files {
			if j == 0 {
				p.row(strconv.Itoa(c.Index), f.Name,
					strconv.Itoa(c.Rows), strconv.Itoa(c.Kept), strconv.Itoa(c.Dropped),
					hash.Hex(f.Digest))
				continue
			}
			p.row("", f.Name, "", "", "", hash.Hex(f.Digest))
		}
	}

	ov := in.Overview
	if ov.Err != nil {
		p.row("pool", fmt.Sprintf("%d rows", ov.Rows), describe(ov.Err))
	} else {
		p.row("pool", fmt.Sprintf("%d rows", ov.Rows),
			"weight "+formatFloat(ov.TotalWeight), "ess "+formatFloat(ov.EffectiveSize))
	}
	p.flush()
}

func (p *printer) bestFit(in *Input) {
	p.section("best fit")
	if in.BestFitErr != nil {
		p.row(describe(in.BestFitErr))
		p.flush()

		return
	}
	bf := in.BestFit
	if bf == nil {
		p.row("not computed")
		p.flush()

		return
	}

	p.row("chain", strconv.Itoa(bf.Chain))
	p.row("row", strconv.Itoa(bf.Row))
	p.row("file", fileName(bf.File))
	p.row("objective", formatFloat(bf.Objective))
	p.row("weight", formatFloat(bf.Weight))
	p.flush()

	p.row("")
	p.row("parameter", "label", "value")
	for _, v := range bf.Values {
		p.row(v.Name, v.Label, formatFloat(v.Value))
	}
	p.flush()

	if !bf.HasComponents() {
		return
	}
	p.row("")
	p.row("component", "family", "raw", "contribution")
	for _, c := range bf.Components {
		p.row(c.Name, c.Family, formatFloat(c.Raw), formatFloat(c.Contribution))
	}
	p.row("sum", "", "", formatFloat(bf.ComponentSum))
	if bf.Warning != nil {
		p.row("warning", bf.Warning.Error())
	}
	p.flush()
}

func (p *printer) posterior(in *Input) {
	p.section(fmt.Sprintf("posterior (median, %s-%s interval)", percent(in.Lower), percent(in.Upper)))
	p.row("parameter", "label", "median", "lower", "upper", "mean", "stddev", "min", "max")
	for _, s := range in.Summaries {
		if s.Err != nil {
			p.row(s.Name, s.Label, describe(s.Err))
			continue
		}
		p.row(s.Name, s.Label,
			formatFloat(s.Median), formatFloat(s.Lower), formatFloat(s.Upper),
			formatFloat(s.Mean), formatFloat(s.StdDev),
			formatFloat(s.Min), formatFloat(s.Max))
	}
	p.flush()
}

func (p *printer) correlations(in *Input) {
	if len(in.Correlations) == 0 {
		return
	}
	p.section("correlations")
	p.row("x", "y", "r")
	for _, c := range in.Correlations {
		if c.Err != nil {
			p.row(c.X, c.Y, describe(c.Err))
			continue
		}
		p.row(c.X, c.Y, formatFloat(c.Value))
	}
	p.flush()
}

func (p *printer) fits(in *Input) {
	if len(in.Fits) == 0 {
		return
	}
	p.section("fits")
	p.row("fit", "model", "formula", "r2", "rmse", "corr")
	for _, f := range in.Fits {
		if f.Err != nil {
			p.row(f.Name, describe(f.Err))
			continue
		}
		m := f.Result.BestFit
		p.row(f.Name, m.Type.String(), m.Formula,
			formatFloat(m.RSquared), formatFloat(m.RMSE), formatFloat(f.Result.Correlation))
	}
	p.flush()
}
