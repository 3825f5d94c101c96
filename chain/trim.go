package chain

import (
	"fmt"
	"math"

	"github.com/arloliu/chainsum/errs"
)

// DefaultBurnIn is the fraction of each chain discarded when none is given.
const DefaultBurnIn = 0.30

// ValidateBurnIn checks that b lies in [0, 1).
func ValidateBurnIn(b float64) error {
	if math.IsNaN(b) || b < 0 || b >= 1 {
		return fmt.Errorf("%w: got %g", errs.ErrInvalidBurnIn, b)
	}

	return nil
}

// Trim discards the first floor(b*len) rows of c and returns the rest. The
// result aliases the chain's storage and must not be modified.
//
// b = 0 returns the full chain. The result may be empty; consumers report
// insufficient data rather than fail on it.
func Trim(c *Chain, b float64) []Sample {
	n := len(c.Samples)
	cut := int(math.Floor(b * float64(n)))
	cut = max(0, min(cut, n))

	return c.Samples[cut:n:n]
}
