package stats

import (
	"math"

	mstats "github.com/montanaflynn/stats"

	"github.com/YuminosukeSato/regdiag/pkg/errors"
)

// OutlierThreshold は標準化残差の外れ値判定に使う慣習的な閾値
const OutlierThreshold = 2.0

// ResidualSummary は標準化残差とレバレッジの要約
type ResidualSummary struct {
	N      int
	Mean   float64
	StdDev float64
	Median float64
	Q1     float64
	Q3     float64

	// Outliers は |標準化残差| > OutlierThreshold の観測の位置
	Outliers []int

	MaxLeverage      float64
	MaxLeverageIndex int

	MaxCooksDistance      float64
	MaxCooksDistanceIndex int
}

// Summarize は影響統計量を要約する。NaN の標準化残差は統計量から除外する。
func Summarize(inf *Influence) (*ResidualSummary, error) {
	if inf == nil || inf.Len() == 0 {
		return nil, errors.NewValueError("Summarize", "empty influence statistics")
	}

	finite := make(mstats.Float64Data, 0, inf.Len())
	s := &ResidualSummary{MaxLeverageIndex: -1, MaxCooksDistanceIndex: -1}
	for i, r := range inf.StandardizedResiduals {
		if math.IsNaN(r) || math.IsInf(r, 0) {
			continue
		}
		finite = append(finite, r)
		if math.Abs(r) > OutlierThreshold {
			s.Outliers = append(s.Outliers, i)
		}
	}
	s.N = len(finite)
	if s.N == 0 {
		return nil, errors.NewNumericalInstabilityError("Summarize", inf.StandardizedResiduals, 0)
	}

	var err error
	if s.Mean, err = finite.Mean(); err != nil {
		return nil, errors.Wrap(err, "Summarize: mean")
	}
	if s.Median, err = finite.Median(); err != nil {
		return nil, errors.Wrap(err, "Summarize: median")
	}
	if s.N > 1 {
		if s.StdDev, err = finite.StandardDeviationSample(); err != nil {
			return nil, errors.Wrap(err, "Summarize: standard deviation")
		}
	}
	if s.N >= 4 {
		q, qErr := mstats.Quartile(finite)
		if qErr != nil {
			return nil, errors.Wrap(qErr, "Summarize: quartiles")
		}
		s.Q1, s.Q3 = q.Q1, q.Q3
	} else {
		s.Q1, s.Q3 = s.Median, s.Median
		errors.Warn(errors.NewUndefinedMetricWarning("quartiles", "fewer than 4 finite standardized residuals", s.Median))
	}

	for i, h := range inf.Leverage {
		if s.MaxLeverageIndex < 0 || h > s.MaxLeverage {
			s.MaxLeverage, s.MaxLeverageIndex = h, i
		}
	}
	for i, d := range inf.CooksDistance {
		if math.IsNaN(d) {
			continue
		}
		if s.MaxCooksDistanceIndex < 0 || d > s.MaxCooksDistance {
			s.MaxCooksDistance, s.MaxCooksDistanceIndex = d, i
		}
	}
	return s, nil
}
