package errors

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewModelError(t *testing.T) {
	tests := []struct {
		name    string
		op      string
		kind    string
		err     error
		wantMsg string
	}{
		{
			name:    "with original error",
			op:      "OLS.Fit",
			kind:    "singular matrix",
			err:     fmt.Errorf("test error"),
			wantMsg: "regdiag: OLS.Fit: singular matrix: test error",
		},
		{
			name:    "without original error",
			op:      "OLS.Predict",
			kind:    "not fitted",
			err:     nil,
			wantMsg: "regdiag: OLS.Predict: not fitted",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewModelError(tt.op, tt.kind, tt.err)

			assert.Equal(t, tt.wantMsg, err.Error())

			// スタックトレースの存在確認
			formatted := fmt.Sprintf("%+v", err)
			assert.Contains(t, formatted, "errors_test.go")

			var modelErr *ModelError
			assert.True(t, As(err, &modelErr))
		})
	}
}

func TestNewDimensionError(t *testing.T) {
	err := NewDimensionError("EvaluateModel", 3, 2, 0)

	assert.Equal(t, "regdiag: EvaluateModel: dimension mismatch on axis 0 (rows). Expected 3, got 2", err.Error())

	var dimErr *DimensionError
	require.True(t, As(err, &dimErr))
	assert.Equal(t, 3, dimErr.Expected)
	assert.Equal(t, 2, dimErr.Got)
}

func TestNewInvalidModelError(t *testing.T) {
	err := NewInvalidModelError("NewDiagnosticPlotter", "model has no residuals")

	assert.Equal(t, "regdiag: NewDiagnosticPlotter: invalid model: model has no residuals", err.Error())

	var invalid *InvalidModelError
	require.True(t, As(err, &invalid))
	assert.Equal(t, "model has no residuals", invalid.Reason)
}

func TestNewMissingFeatureError(t *testing.T) {
	err := NewMissingFeatureError("GarageArea", []string{"LotArea", "SalePrice"})

	assert.Equal(t, `regdiag: missing feature "GarageArea" (available: LotArea, SalePrice)`, err.Error())

	var missing *MissingFeatureError
	require.True(t, As(err, &missing))
	assert.Equal(t, "GarageArea", missing.Feature)
}

func TestNewTransformError(t *testing.T) {
	err := NewTransformError("InverseBoxCox", 0.5, -4, 2)

	var tErr *TransformError
	require.True(t, As(err, &tErr))
	assert.Equal(t, 0.5, tErr.Lambda)
	assert.Equal(t, 2, tErr.Index)
	assert.Contains(t, err.Error(), "lambda=0.5")
}

func TestNewZeroDivisionError(t *testing.T) {
	err := NewZeroDivisionError("MAPE", 4)

	assert.Equal(t, "regdiag: MAPE: division by zero (actual value at index 4 is 0)", err.Error())

	var zErr *ZeroDivisionError
	require.True(t, As(err, &zErr))
	assert.Equal(t, 4, zErr.Index)
}

func TestWrapAndIs(t *testing.T) {
	wrapped := Wrap(ErrSingularMatrix, "in OLS.Fit")

	assert.True(t, Is(wrapped, ErrSingularMatrix))
	assert.Contains(t, wrapped.Error(), "in OLS.Fit")

	wrappedf := Wrapf(ErrEmptyData, "in %s: expected %d rows", "Select", 10)
	assert.True(t, Is(wrappedf, ErrEmptyData))
	assert.True(t, strings.Contains(wrappedf.Error(), "in Select: expected 10 rows"))
}

func TestCheckNumericalStability(t *testing.T) {
	assert.NoError(t, CheckNumericalStability("leverage", []float64{0.1, 0.2}, 0))

	err := CheckNumericalStability("leverage", []float64{0.1, math.NaN()}, 0)
	var numErr *NumericalInstabilityError
	require.True(t, As(err, &numErr))
	assert.Equal(t, "leverage", numErr.Operation)

	assert.Error(t, CheckScalar("mse", math.Inf(1), 0))
}

func TestSafeExecute(t *testing.T) {
	t.Run("panic becomes PanicError", func(t *testing.T) {
		err := SafeExecute("render", func() error {
			panic("boom")
		})

		var panicErr *PanicError
		require.True(t, As(err, &panicErr))
		assert.Equal(t, "render", panicErr.Operation)
		assert.Equal(t, "panic in render: boom", panicErr.Error())
		assert.NotEmpty(t, panicErr.StackTrace)
	})

	t.Run("error is returned unchanged", func(t *testing.T) {
		err := SafeExecute("render", func() error {
			return ErrEmptyData
		})
		assert.True(t, Is(err, ErrEmptyData))
	})

	t.Run("existing error keeps priority", func(t *testing.T) {
		fn := func() (err error) {
			defer Recover(&err, "render")
			err = ErrEmptyData
			panic("late panic")
		}
		err := fn()
		assert.True(t, Is(err, ErrEmptyData))
	})
}
