package linear

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/regdiag/pkg/errors"
)

func TestOLSFitExact(t *testing.T) {
	// y = 1 + 2x
	X := mat.NewDense(4, 2, []float64{
		1, 1,
		1, 2,
		1, 3,
		1, 4,
	})
	y := mat.NewDense(4, 1, []float64{3, 5, 7, 9})

	m := NewOLS()
	require.NoError(t, m.Fit(X, y))

	params := m.Params()
	require.Len(t, params, 2)
	assert.InDelta(t, 1.0, params[0], 1e-9)
	assert.InDelta(t, 2.0, params[1], 1e-9)

	for _, r := range m.Residuals() {
		assert.InDelta(t, 0.0, r, 1e-9)
	}
	assert.InDeltaSlice(t, []float64{3, 5, 7, 9}, m.FittedValues(), 1e-9)

	pred, err := m.Predict(mat.NewDense(2, 2, []float64{1, 5, 1, 6}))
	require.NoError(t, err)
	assert.InDelta(t, 11.0, pred.At(0, 0), 1e-9)
	assert.InDelta(t, 13.0, pred.At(1, 0), 1e-9)
}

func TestOLSResidualsSumToZeroWithIntercept(t *testing.T) {
	X := mat.NewDense(6, 2, []float64{
		1, 1,
		1, 2,
		1, 3,
		1, 4,
		1, 5,
		1, 6,
	})
	y := mat.NewDense(6, 1, []float64{2.1, 3.9, 6.2, 7.8, 10.1, 12.3})

	m := NewOLS()
	require.NoError(t, m.Fit(X, y))

	var sum float64
	fitted := m.FittedValues()
	resid := m.Residuals()
	for i := range resid {
		sum += resid[i]
		assert.InDelta(t, y.At(i, 0), fitted[i]+resid[i], 1e-12)
	}
	assert.InDelta(t, 0.0, sum, 1e-9)

	score, err := m.Score(X, y)
	require.NoError(t, err)
	assert.Greater(t, score, 0.99)

	r, c := m.DesignMatrix().Dims()
	assert.Equal(t, 6, r)
	assert.Equal(t, 2, c)
}

func TestOLSErrors(t *testing.T) {
	t.Run("not fitted", func(t *testing.T) {
		m := NewOLS()
		_, err := m.Predict(mat.NewDense(1, 2, []float64{1, 1}))
		var nf *errors.NotFittedError
		assert.True(t, errors.As(err, &nf))
		assert.Nil(t, m.FittedValues())
		assert.Nil(t, m.Residuals())
		assert.Nil(t, m.DesignMatrix())
	})

	t.Run("row mismatch", func(t *testing.T) {
		m := NewOLS()
		err := m.Fit(mat.NewDense(3, 1, []float64{1, 1, 1}), mat.NewDense(2, 1, []float64{1, 2}))
		var dimErr *errors.DimensionError
		assert.True(t, errors.As(err, &dimErr))
	})

	t.Run("singular design", func(t *testing.T) {
		X := mat.NewDense(4, 3, []float64{
			1, 1, 2,
			1, 2, 4,
			1, 3, 6,
			1, 4, 8,
		})
		y := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
		err := NewOLS().Fit(X, y)
		assert.True(t, errors.Is(err, errors.ErrSingularMatrix))
	})

	t.Run("predict column mismatch", func(t *testing.T) {
		m := NewOLS()
		require.NoError(t, m.Fit(
			mat.NewDense(3, 2, []float64{1, 1, 1, 2, 1, 3}),
			mat.NewDense(3, 1, []float64{1, 2, 4}),
		))
		_, err := m.Predict(mat.NewDense(1, 3, []float64{1, 2, 3}))
		var dimErr *errors.DimensionError
		assert.True(t, errors.As(err, &dimErr))
	})
}
