package stats

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/arloliu/chainsum/errs"
	"github.com/stretchr/testify/require"
)

func randomColumn(r *rand.Rand, n int) (xs, ws []float64) {
	xs = make([]float64, n)
	ws = make([]float64, n)
	for i := range n {
		xs[i] = r.NormFloat64()*3 + 1
		ws[i] = float64(1 + r.IntN(5))
	}

	return xs, ws
}

func TestMean(t *testing.T) {
	mean, err := Mean([]float64{1, 2, 3}, []float64{1, 2, 1})
	require.NoError(t, err)
	require.InDelta(t, 2.0, mean, 1e-15)

	mean, err = Mean([]float64{10, 20}, []float64{3, 1})
	require.NoError(t, err)
	require.InDelta(t, 12.5, mean, 1e-12)
}

func TestMeanOfConstantColumn(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for _, c := range []float64{0, 1, -3.7, 0.1, 67.36, 1e-9, 123456.789} {
		xs := make([]float64, 50)
		ws := make([]float64, 50)
		for i := range xs {
			xs[i] = c
			ws[i] = r.Float64()*10 + 0.01
		}

		mean, err := Mean(xs, ws)
		require.NoError(t, err)
		require.Equal(t, c, mean)
	}
}

func TestVariance(t *testing.T) {
	// population form: Σw(x-m)²/Σw with m = 2
	v, err := Variance([]float64{1, 2, 3}, []float64{1, 2, 1})
	require.NoError(t, err)
	require.InDelta(t, 0.5, v, 1e-15)

	v, err = Variance([]float64{4, 4, 4}, []float64{1, 5, 2})
	require.NoError(t, err)
	require.Zero(t, v)
}

func TestCovarianceAndCorrelation(t *testing.T) {
	xs := []float64{1, 2, 3, 4}
	ws := []float64{1, 1, 1, 1}

	cov, err := Covariance(xs, []float64{2, 4, 6, 8}, ws)
	require.NoError(t, err)
	require.InDelta(t, 2.5, cov, 1e-12)

	r, err := Correlation(xs, []float64{2, 4, 6, 8}, ws)
	require.NoError(t, err)
	require.InDelta(t, 1.0, r, 1e-12)

	r, err = Correlation(xs, []float64{8, 6, 4, 2}, ws)
	require.NoError(t, err)
	require.InDelta(t, -1.0, r, 1e-12)

	r, err = Correlation(xs, []float64{5, 5, 5, 5}, ws)
	require.NoError(t, err)
	require.True(t, math.IsNaN(r))

	_, err = Correlation(xs, []float64{1, 2}, ws)
	require.ErrorIs(t, err, errs.ErrLengthMismatch)
}

func TestCorrelationSymmetricAndBounded(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	for range 200 {
		n := 2 + r.IntN(40)
		xs, ws := randomColumn(r, n)
		ys := make([]float64, n)
		slope := r.NormFloat64()
		for i := range ys {
			ys[i] = slope*xs[i] + r.NormFloat64()*r.Float64()
		}

		rxy, err := Correlation(xs, ys, ws)
		require.NoError(t, err)
		ryx, err := Correlation(ys, xs, ws)
		require.NoError(t, err)

		if math.IsNaN(rxy) {
			require.True(t, math.IsNaN(ryx))
			continue
		}
		require.Equal(t, rxy, ryx)
		require.GreaterOrEqual(t, rxy, -1.0)
		require.LessOrEqual(t, rxy, 1.0)
	}
}

func TestQuantile(t *testing.T) {
	xs := []float64{3.0, 1.0, 2.0}
	ws := []float64{1, 1, 2}

	// sorted: 1.0 (W=1), 2.0 (W=3), 3.0 (W=4)
	tests := []struct {
		q    float64
		want float64
	}{
		{0, 1.0},
		{0.16, 1.0},
		{0.25, 1.0},
		{0.26, 2.0},
		{0.5, 2.0},
		{0.75, 2.0},
		{0.84, 3.0},
		{1, 3.0},
	}
	for _, tt := range tests {
		got, err := Quantile(xs, ws, tt.q)
		require.NoError(t, err)
		require.Equal(t, tt.want, got, "q=%g", tt.q)
	}

	_, err := Quantile(xs, ws, 1.5)
	require.ErrorIs(t, err, errs.ErrInvalidQuantile)
	_, err = Quantile(xs, ws, math.NaN())
	require.ErrorIs(t, err, errs.ErrInvalidQuantile)
}

func TestMedianInvariantUnderWeightScaling(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 5))
	for range 100 {
		xs, ws := randomColumn(r, 1+r.IntN(60))
		want, err := Median(xs, ws)
		require.NoError(t, err)

		for _, scale := range []float64{0.5, 2, 1024, 1.0 / 64} {
			scaled := make([]float64, len(ws))
			for i, w := range ws {
				scaled[i] = w * scale
			}
			got, err := Median(xs, scaled)
			require.NoError(t, err)
			require.Equal(t, want, got, "scale %g", scale)
		}
	}
}

func TestInsufficientData(t *testing.T) {
	var insufficient *errs.InsufficientDataError

	_, err := Mean(nil, nil)
	require.ErrorAs(t, err, &insufficient)
	require.Equal(t, "mean", insufficient.Statistic)

	_, err = Median([]float64{1, 2}, []float64{0, 0})
	require.ErrorIs(t, err, errs.ErrInsufficientData)

	_, err = Variance([]float64{}, []float64{})
	require.ErrorIs(t, err, errs.ErrInsufficientData)

	_, err = Correlation(nil, nil, nil)
	require.ErrorIs(t, err, errs.ErrInsufficientData)

	_, err = EffectiveSampleSize(nil)
	require.ErrorIs(t, err, errs.ErrInsufficientData)

	_, err = Mean([]float64{1}, []float64{1, 2})
	require.ErrorIs(t, err, errs.ErrLengthMismatch)
}

func TestEffectiveSampleSize(t *testing.T) {
	ess, err := EffectiveSampleSize([]float64{1, 1, 1, 1})
	require.NoError(t, err)
	require.InDelta(t, 4.0, ess, 1e-12)

	ess, err = EffectiveSampleSize([]float64{1, 2, 1})
	require.NoError(t, err)
	require.InDelta(t, 16.0/6.0, ess, 1e-12)
}
