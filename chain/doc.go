// Package chain reads weighted MCMC sample files and builds the immutable run
// model the reduction engines work on.
//
// A chain file is whitespace-separated text with one sample per line:
//
//	#  weight  minuslogpost  H0     omega_m
//	   1       512.31        67.41  0.3142
//	   3       511.97        67.90  0.3087
//
// The first two columns are the sample weight and its objective (for example the
// negative log-posterior); the remaining k columns are parameter values in schema
// order. Lines starting with '#' are comments; a leading comment whose first
// token is "weight" is the column header and declares the chain's own parameter
// names. Rows with weight zero are dropped on read. Any other unparsable line is
// a fatal *errs.MalformedRowError naming the file and line.
//
// # Lifecycle
//
//   - ReadChain parses one file into a *Chain; Concat appends resumed segments.
//   - NewRun validates that all chains share the run Schema and fixes the burn-in.
//   - Run.Pool trims each chain (Trim) and pools the remainders into a *Pool.
//
// Chains, runs and pools are never modified after construction; changing the
// burn-in builds a new Run with WithBurnIn, which shares the chain data.
package chain
