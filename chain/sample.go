package chain

// Sample is one row of a chain.
type Sample struct {
	// Weight is the multiplicity of the point; always > 0 after reading.
	Weight float64
	// Objective is the quantity minimized by the sampler, e.g. -log posterior.
	Objective float64
	// Params holds the parameter values in schema order.
	Params []float64
	// Chain is the index of the chain the row was read from.
	Chain int
	// Row is the position of the row in its chain after segment concatenation
	// and zero-weight filtering.
	Row int
}

// Chain is the ordered sample sequence of one sampling trajectory.
type Chain struct {
	// Index is the chain number from the file name (<prefix>.<index>.txt).
	Index int
	// Files lists the source files in concatenation order: the parent file
	// first, then resumed segments.
	Files []string
	// Columns holds the parameter names from the file header, or nil when the
	// file has no header line.
	Columns []string
	// Samples holds the kept rows.
	Samples []Sample
	// Dropped counts zero-weight rows discarded on read.
	Dropped int
	// Digests holds the xxHash64 of each source file's bytes as stored on disk.
	Digests []uint64

	nparams int
}

// Len returns the number of kept rows.
func (c *Chain) Len() int {
	return len(c.Samples)
}

// NumParams returns the number of parameter columns per row.
func (c *Chain) NumParams() int {
	return c.nparams
}

// Name returns the first source file, which identifies the chain in errors and reports.
func (c *Chain) Name() string {
	if len(c.Files) == 0 {
		return ""
	}

	return c.Files[0]
}
