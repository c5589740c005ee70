package metrics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/regdiag/pkg/errors"
)

func vec(v ...float64) *mat.VecDense {
	return mat.NewVecDense(len(v), v)
}

// 住宅価格スケールのデータ（誤差 8500, -8500, 3500, -10000）
var (
	salePrice = []float64{208500, 181500, 223500, 140000}
	predicted = []float64{200000, 190000, 220000, 150000}
)

type metricFunc func(yTrue, yPred mat.Vector) (float64, error)

func TestRegressionMetrics(t *testing.T) {
	const sse = 8500*8500 + 8500*8500 + 3500*3500 + 10000*10000

	tests := []struct {
		name   string
		metric metricFunc
		yTrue  []float64
		yPred  []float64
		want   float64
	}{
		{name: "MSE perfect", metric: MSE, yTrue: salePrice, yPred: salePrice, want: 0},
		{name: "MSE sale price", metric: MSE, yTrue: salePrice, yPred: predicted, want: sse / 4},
		{name: "MSE single", metric: MSE, yTrue: []float64{250000}, yPred: []float64{245000}, want: 25e6},
		{name: "RMSE perfect", metric: RMSE, yTrue: salePrice, yPred: salePrice, want: 0},
		{name: "RMSE sale price", metric: RMSE, yTrue: salePrice, yPred: predicted, want: math.Sqrt(sse / 4)},
		{name: "RMSE constant offset", metric: RMSE, yTrue: salePrice, yPred: []float64{218500, 191500, 233500, 150000}, want: 10000},
		{name: "MAE perfect", metric: MAE, yTrue: salePrice, yPred: salePrice, want: 0},
		{name: "MAE sale price", metric: MAE, yTrue: salePrice, yPred: predicted, want: 7625},
		{name: "MAE single", metric: MAE, yTrue: []float64{250000}, yPred: []float64{265000}, want: 15000},
		{name: "R2 perfect", metric: R2Score, yTrue: salePrice, yPred: salePrice, want: 1},
		{name: "R2 sale price", metric: R2Score, yTrue: salePrice, yPred: predicted, want: 1 - sse/4026187500.0},
		{name: "R2 mean prediction", metric: R2Score, yTrue: salePrice, yPred: []float64{188375, 188375, 188375, 188375}, want: 0},
		{name: "R2 worse than mean", metric: R2Score, yTrue: []float64{100000, 200000, 300000}, yPred: []float64{300000, 200000, 100000}, want: -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.metric(vec(tt.yTrue...), vec(tt.yPred...))
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9*math.Max(1, math.Abs(tt.want)))
		})
	}
}

func TestRegressionMetricsInputErrors(t *testing.T) {
	metrics := map[string]metricFunc{
		"MSE":     MSE,
		"RMSE":    RMSE,
		"MAE":     MAE,
		"MAPE":    MAPE,
		"R2Score": R2Score,
	}

	for name, metric := range metrics {
		t.Run(name+" empty", func(t *testing.T) {
			_, err := metric(&mat.VecDense{}, &mat.VecDense{})
			var valueErr *errors.ValueError
			assert.True(t, errors.As(err, &valueErr), "got %v", err)
		})

		t.Run(name+" length mismatch", func(t *testing.T) {
			_, err := metric(vec(salePrice...), vec(predicted[:3]...))
			var dimErr *errors.DimensionError
			require.True(t, errors.As(err, &dimErr), "got %v", err)
			assert.Equal(t, 4, dimErr.Expected)
			assert.Equal(t, 3, dimErr.Got)
		})
	}
}

func TestR2ScoreConstantActuals(t *testing.T) {
	_, err := R2Score(vec(180000, 180000, 180000), vec(175000, 180000, 185000))
	assert.Error(t, err)
}
