package stats

import (
	"math"
	"sort"

	"github.com/YuminosukeSato/regdiag/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// LOWESS の既定値（statsmodels / seaborn と同じ）
const (
	DefaultLowessFrac       = 2.0 / 3.0
	DefaultLowessIterations = 3
)

// Lowess は局所重み付き線形回帰による平滑化を行う。
// 戻り値は x の昇順に並べた (xs, smoothed)。
//
// frac は各局所回帰に使う点の割合、iterations はロバスト化の反復回数。
// 近傍重みは tricube、ロバスト重みは bisquare（残差の中央絶対値の6倍で打ち切り）。
func Lowess(x, y []float64, frac float64, iterations int) ([]float64, []float64, error) {
	n := len(x)
	if n == 0 {
		return nil, nil, errors.NewValueError("Lowess", "empty input")
	}
	if len(y) != n {
		return nil, nil, errors.NewDimensionError("Lowess", n, len(y), 0)
	}
	if frac <= 0 || frac > 1 {
		return nil, nil, errors.NewValueError("Lowess", "frac must be in (0, 1]")
	}
	if iterations < 0 {
		iterations = 0
	}

	xs, ys := sortedPairs(x, y)
	if n < 2 {
		return xs, append([]float64(nil), ys...), nil
	}

	k := int(frac*float64(n) + 1e-10)
	if k < 2 {
		k = 2
	}
	if k > n {
		k = n
	}

	robust := make([]float64, n)
	for i := range robust {
		robust[i] = 1
	}
	scale := floats.Norm(ys, 1) / float64(n)
	if scale == 0 {
		scale = 1
	}
	smoothed := make([]float64, n)
	resid := make([]float64, n)
	weights := make([]float64, n)

	for iter := 0; iter <= iterations; iter++ {
		left := 0
		for i := 0; i < n; i++ {
			// [left, left+k) を x[i] に最も近い k 点の窓にする
			for left+k < n && xs[i]-xs[left] > xs[left+k]-xs[i] {
				left++
			}
			right := left + k
			h := math.Max(xs[i]-xs[left], xs[right-1]-xs[i])

			for j := range weights {
				weights[j] = 0
			}
			for j := left; j < right; j++ {
				weights[j] = tricube(math.Abs(xs[j]-xs[i]), h) * robust[j]
			}
			// 窓の外でも x が等しい点は含める
			for j := right; j < n && xs[j] == xs[i]; j++ {
				weights[j] = robust[j]
			}
			if floats.Sum(weights) == 0 {
				// ロバスト重みで窓内が全て除外された場合は近傍重みのみで当てはめる
				for j := left; j < right; j++ {
					weights[j] = tricube(math.Abs(xs[j]-xs[i]), h)
				}
			}
			smoothed[i] = localLinear(xs, ys, weights, xs[i])
		}

		if iter == iterations {
			break
		}

		floats.SubTo(resid, ys, smoothed)
		absResid := make([]float64, n)
		for j, r := range resid {
			absResid[j] = math.Abs(r)
		}
		sort.Float64s(absResid)
		med := stat.Quantile(0.5, stat.Empirical, absResid, nil)
		if med <= 1e-12*scale {
			break
		}
		cut := 6 * med
		for j, r := range resid {
			u := r / cut
			if math.Abs(u) >= 1 {
				robust[j] = 0
				continue
			}
			b := 1 - u*u
			robust[j] = b * b
		}
	}

	return xs, smoothed, nil
}

// tricube は (1 - (d/h)^3)^3。d >= h では 0。h = 0 のときは同一点のみ 1。
func tricube(d, h float64) float64 {
	if h == 0 {
		if d == 0 {
			return 1
		}
		return 0
	}
	u := d / h
	if u >= 1 {
		return 0
	}
	t := 1 - u*u*u
	return t * t * t
}

// localLinear は重み付き最小二乗直線を x0 で評価する。
// 重みの総和が 0 の場合は NaN、x の分散が 0 の場合は重み付き平均を返す。
func localLinear(xs, ys, w []float64, x0 float64) float64 {
	sumW := floats.Sum(w)
	if sumW <= 0 {
		return math.NaN()
	}
	xMean := stat.Mean(xs, w)
	yMean := stat.Mean(ys, w)

	var sxx, sxy float64
	for j, wj := range w {
		if wj == 0 {
			continue
		}
		dx := xs[j] - xMean
		sxx += wj * dx * dx
		sxy += wj * dx * (ys[j] - yMean)
	}
	if sxx <= 1e-12*sumW*math.Max(1, xMean*xMean) {
		return yMean
	}
	return yMean + sxy/sxx*(x0-xMean)
}

func sortedPairs(x, y []float64) ([]float64, []float64) {
	idx := make([]int, len(x))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return x[idx[a]] < x[idx[b]] })

	xs := make([]float64, len(x))
	ys := make([]float64, len(y))
	for i, j := range idx {
		xs[i] = x[j]
		ys[i] = y[j]
	}
	return xs, ys
}
