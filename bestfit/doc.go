// Package bestfit locates the minimum-objective row of a run and decomposes its
// objective into the likelihood components recorded alongside the parameters.
//
// The search covers every row of every chain, burn-in included: the best fit is
// a property of the whole exploration rather than of the stationary posterior.
package bestfit
