package regression

import (
	"fmt"
	"math"

	"github.com/arloliu/chainsum/errs"
	"github.com/arloliu/chainsum/internal/options"
)

// FitConfig holds the settings of one fit.
type FitConfig struct {
	// Models lists the candidate model types; the best R² wins.
	Models []ModelType
	// Ridge is the non-negative penalty added to the regressor's sum of squares.
	Ridge float64
}

// defaultFitConfig fits a linear model without penalty.
func defaultFitConfig() FitConfig {
	return FitConfig{
		Models: []ModelType{ModelTypeLinear},
	}
}

// FitOption is a functional option for FitConfig.
type FitOption = options.Option[*FitConfig]

// WithModels sets the candidate model types. Passing more than one makes the
// fit choose by R².
func WithModels(types ...ModelType) FitOption {
	return options.New(func(cfg *FitConfig) error {
		if len(types) == 0 {
			return fmt.Errorf("%w: no model types", errs.ErrInvalidConfig)
		}
		for _, t := range types {
			if newEmptyEstimator(t) == nil {
				return fmt.Errorf("%w: unknown model type %d", errs.ErrInvalidConfig, int(t))
			}
		}
		cfg.Models = types

		return nil
	})
}

// WithRidge sets the slope penalty λ: slope = Suv / (Suu + λ).
func WithRidge(lambda float64) FitOption {
	return options.New(func(cfg *FitConfig) error {
		if math.IsNaN(lambda) || math.IsInf(lambda, 0) || lambda < 0 {
			return fmt.Errorf("%w: ridge penalty %g must be a finite value >= 0", errs.ErrInvalidConfig, lambda)
		}
		cfg.Ridge = lambda

		return nil
	})
}
