package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/regdiag/pkg/errors"
)

func TestSummarize(t *testing.T) {
	inf := &Influence{
		Leverage:              []float64{0.1, 0.4, 0.2, 0.15, 0.15},
		StandardizedResiduals: []float64{0.5, -2.5, 1.0, 3.0, math.NaN()},
		CooksDistance:         []float64{0.01, 0.9, 0.05, 0.3, math.NaN()},
		NParams:               2,
	}

	s, err := Summarize(inf)
	require.NoError(t, err)

	assert.Equal(t, 4, s.N)
	assert.InDelta(t, 0.5, s.Mean, 1e-12)
	assert.InDelta(t, 0.75, s.Median, 1e-12)
	assert.Greater(t, s.StdDev, 0.0)
	assert.LessOrEqual(t, s.Q1, s.Median)
	assert.GreaterOrEqual(t, s.Q3, s.Median)
	assert.Equal(t, []int{1, 3}, s.Outliers)
	assert.Equal(t, 1, s.MaxLeverageIndex)
	assert.InDelta(t, 0.4, s.MaxLeverage, 1e-12)
	assert.Equal(t, 1, s.MaxCooksDistanceIndex)
}

func TestSummarizeEmpty(t *testing.T) {
	_, err := Summarize(nil)
	assert.Error(t, err)

	_, err = Summarize(&Influence{
		Leverage:              []float64{1},
		StandardizedResiduals: []float64{math.NaN()},
	})
	assert.Error(t, err)
}

func TestSummarizeSmallSampleWarns(t *testing.T) {
	var warnings []error
	errors.SetZerologWarnFunc(func(w error) { warnings = append(warnings, w) })
	t.Cleanup(func() { errors.SetZerologWarnFunc(nil) })

	s, err := Summarize(&Influence{
		Leverage:              []float64{0.5, 0.5, 0.5},
		StandardizedResiduals: []float64{-1, 0, 1},
		CooksDistance:         []float64{0.1, 0, 0.1},
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, s.Q1)
	assert.Equal(t, 0.0, s.Q3)

	require.Len(t, warnings, 1)
	var w *errors.UndefinedMetricWarning
	require.True(t, errors.As(warnings[0], &w))
	assert.Equal(t, "quartiles", w.Metric)
}
