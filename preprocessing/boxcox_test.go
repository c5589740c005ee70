package preprocessing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/regdiag/pkg/errors"
)

func TestInverseBoxCoxRoundTrip(t *testing.T) {
	lambdas := []float64{-0.5, 0.12, 0.5, 1, 2}
	values := []float64{0.01, 0.5, 1, 2, 37.5, 208500}

	for _, lambda := range lambdas {
		for _, y := range values {
			z, err := BoxCox(y, lambda)
			require.NoError(t, err, "BoxCox(%v, %v)", y, lambda)

			back, err := InverseBoxCox(z, lambda)
			require.NoError(t, err, "InverseBoxCox(%v, %v)", z, lambda)
			assert.InEpsilon(t, y, back, 1e-9, "lambda=%v y=%v", lambda, y)
		}
	}
}

func TestInverseBoxCoxLambdaZeroIsExp(t *testing.T) {
	for _, y := range []float64{-3, 0, 0.7, 12.1} {
		got, err := InverseBoxCox(y, 0)
		require.NoError(t, err)
		assert.Equal(t, math.Exp(y), got)
	}
}

func TestInverseBoxCoxHalf(t *testing.T) {
	// λ = 0.5: (0.5*y + 1)^2
	for _, y := range []float64{0, 1, 4, 10} {
		got, err := InverseBoxCox(y, 0.5)
		require.NoError(t, err)
		want := (0.5*y + 1) * (0.5*y + 1)
		assert.InDelta(t, want, got, 1e-9)
	}
}

func TestInverseBoxCoxDomain(t *testing.T) {
	tests := []struct {
		name   string
		y      float64
		lambda float64
	}{
		{name: "negative base", y: -4, lambda: 0.5},
		// 指数 1/λ が整数でも λ*y + 1 < 0 は拒否する
		{name: "negative base with exponent 1", y: -3, lambda: 1},
		{name: "negative base with exponent -2", y: 4, lambda: -0.5},
		{name: "zero base with negative lambda", y: 1, lambda: -1},
		{name: "overflow", y: 1000, lambda: 0},
		{name: "nan input", y: math.NaN(), lambda: 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := InverseBoxCox(tt.y, tt.lambda)
			var tErr *errors.TransformError
			require.True(t, errors.As(err, &tErr), "got %v", err)
			assert.Equal(t, tt.lambda, tErr.Lambda)
		})
	}
}

func TestBoxCoxRejectsNonPositive(t *testing.T) {
	for _, y := range []float64{0, -1} {
		_, err := BoxCox(y, 0.5)
		var tErr *errors.TransformError
		assert.True(t, errors.As(err, &tErr))
	}
}

func TestBoxCoxTransformer(t *testing.T) {
	bc := NewBoxCoxTransformer(0.5)
	y := mat.NewVecDense(3, []float64{1, 4, 9})

	z, err := bc.Transform(y)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, z.AtVec(0), 1e-12)
	assert.InDelta(t, 2.0, z.AtVec(1), 1e-12)
	assert.InDelta(t, 4.0, z.AtVec(2), 1e-12)

	back, err := bc.InverseTransform(z)
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(y, back, 1e-9))
}

func TestBoxCoxTransformerReportsIndex(t *testing.T) {
	bc := NewBoxCoxTransformer(0.5)
	_, err := bc.InverseTransform(mat.NewVecDense(3, []float64{1, 2, -10}))

	var tErr *errors.TransformError
	require.True(t, errors.As(err, &tErr))
	assert.Equal(t, 2, tErr.Index)
	assert.Equal(t, -10.0, tErr.Value)

	_, err = bc.Transform(&mat.VecDense{})
	assert.Error(t, err)
}
