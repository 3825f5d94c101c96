package bestfit

import (
	"strings"
)

// DefaultTolerance is the relative tolerance of the component sum check.
const DefaultTolerance = 1e-6

// Marker selects schema parameters that carry an objective component.
type Marker struct {
	// Name is the exact parameter name, or the name prefix when Prefix is set.
	Name   string
	Prefix bool
	// Scale converts the recorded value into its contribution to the objective.
	Scale float64
}

// Match reports whether the parameter name carries this marker's component.
func (m Marker) Match(name string) bool {
	if m.Prefix {
		return strings.HasPrefix(name, m.Name) && len(name) > len(m.Name)
	}

	return name == m.Name
}

// Scheme describes how the objective is assembled from component columns.
type Scheme struct {
	Markers []Marker
	// Tolerance is relative: |sum - objective| <= Tolerance * max(1, |objective|).
	Tolerance float64
}

// DefaultScheme returns the sampler's convention for a negative log-posterior:
//
//	minuslogpost = minuslogprior + 1/2 * sum(chi2__<likelihood>)
func DefaultScheme() Scheme {
	return Scheme{
		Markers: []Marker{
			{Name: "minuslogprior", Scale: 1},
			{Name: "chi2__", Prefix: true, Scale: 0.5},
		},
		Tolerance: DefaultTolerance,
	}
}

// marker returns the first marker matching name.
func (s Scheme) marker(name string) (Marker, bool) {
	for _, m := range s.Markers {
		if m.Match(name) {
			return m, true
		}
	}

	return Marker{}, false
}

// Family groups likelihood names into the probes they constrain.
func Family(name string) string {
	n := strings.ToLower(strings.TrimPrefix(name, "chi2__"))
	switch {
	case n == "minuslogprior":
		return "prior"
	case strings.HasPrefix(n, "sn") || strings.Contains(n, "pantheon") ||
		strings.Contains(n, "union") || strings.Contains(n, "des_y5") || strings.Contains(n, "desy5"):
		return "SN distance modulus"
	case strings.Contains(n, "planck") || strings.Contains(n, "cmb") ||
		strings.HasPrefix(n, "act") || strings.HasPrefix(n, "spt"):
		return "CMB"
	case strings.Contains(n, "bao") || strings.Contains(n, "desi") || strings.Contains(n, "sdss"):
		return "BAO"
	case strings.Contains(n, "h0") || strings.Contains(n, "sh0es") || strings.Contains(n, "riess"):
		return "distance ladder"
	default:
		return "other"
	}
}
