// Package stats は回帰診断に使う統計量を計算する:
// レバレッジ（ハット値）、内部スチューデント化残差、Cook の距離、
// LOWESS 平滑化、正規 Q-Q プロットの理論分位点。
package stats

import (
	"math"

	"github.com/YuminosukeSato/regdiag/core/model"
	"github.com/YuminosukeSato/regdiag/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Influence は観測ごとの影響統計量。各スライスの長さは訓練データの観測数に等しい。
type Influence struct {
	// Leverage はハット行列の対角成分 h_ii
	Leverage []float64

	// StandardizedResiduals は内部スチューデント化残差 e_i / (s * sqrt(1 - h_ii))。
	// h_ii = 1 の観測では NaN になる。
	StandardizedResiduals []float64

	// CooksDistance は r_i^2 / p * h_ii / (1 - h_ii)
	CooksDistance []float64

	// NParams は計画行列の列数 p
	NParams int
}

// Len は観測数を返す
func (inf *Influence) Len() int {
	return len(inf.Leverage)
}

// InfluenceProvider は学習済みモデルから影響統計量を計算する
type InfluenceProvider interface {
	Influence(m model.FittedModel) (*Influence, error)
}

// InfluenceFunc は関数を InfluenceProvider として使うためのアダプタ
type InfluenceFunc func(m model.FittedModel) (*Influence, error)

// Influence calls f(m).
func (f InfluenceFunc) Influence(m model.FittedModel) (*Influence, error) {
	return f(m)
}

// OLSInfluence は計画行列を公開する OLS モデル用の InfluenceProvider。
// モデルは model.DesignMatrixer を実装していなければならない。
type OLSInfluence struct{}

// Influence は m の計画行列と残差から影響統計量を計算する
func (OLSInfluence) Influence(m model.FittedModel) (*Influence, error) {
	dm, ok := m.(model.DesignMatrixer)
	if !ok {
		return nil, errors.NewInvalidModelError("OLSInfluence", "model does not expose its design matrix")
	}
	X := dm.DesignMatrix()
	if X == nil {
		return nil, errors.NewInvalidModelError("OLSInfluence", "model has no design matrix (not fitted)")
	}
	return ComputeInfluence(X, m.Residuals())
}

// ComputeInfluence は計画行列 X（n×p）と残差から影響統計量を計算する。
//
// X = QR とすると H = X (X^T X)^{-1} X^T の対角成分は
// h_ii = ||x_i R^{-1}||^2 で求まる。
func ComputeInfluence(X mat.Matrix, residuals []float64) (*Influence, error) {
	n, p := X.Dims()
	if n == 0 || p == 0 {
		return nil, errors.NewModelError("ComputeInfluence", "empty data", errors.ErrEmptyData)
	}
	if len(residuals) != n {
		return nil, errors.NewDimensionError("ComputeInfluence", n, len(residuals), 0)
	}
	if n <= p {
		return nil, errors.NewValueError("ComputeInfluence",
			"residual degrees of freedom must be positive (observations <= parameters)")
	}

	var qr mat.QR
	qr.Factorize(X)

	var full mat.Dense
	qr.RTo(&full)
	R := mat.NewTriDense(p, mat.Upper, nil)
	for i := 0; i < p; i++ {
		for j := i; j < p; j++ {
			R.SetTri(i, j, full.At(i, j))
		}
	}

	var rInv mat.TriDense
	if err := rInv.InverseTri(R); err != nil {
		return nil, errors.NewModelError("ComputeInfluence", "singular matrix", errors.ErrSingularMatrix)
	}

	var XR mat.Dense
	XR.Mul(X, &rInv)

	leverage := make([]float64, n)
	for i := 0; i < n; i++ {
		row := XR.RawRowView(i)
		var h float64
		for _, v := range row {
			h += v * v
		}
		// 丸め誤差で [0, 1] をわずかに外れることがある
		leverage[i] = errors.ClipValue(h, 0, 1)
	}
	if err := errors.CheckNumericalStability("leverage", leverage, 0); err != nil {
		return nil, err
	}

	// 残差分散 s^2 = SSE / (n - p)
	var sse float64
	for _, e := range residuals {
		sse += e * e
	}
	s := math.Sqrt(sse / float64(n-p))

	std := make([]float64, n)
	cooks := make([]float64, n)
	for i, e := range residuals {
		oneMinusH := 1 - leverage[i]
		if oneMinusH <= 1e-12 || s == 0 {
			std[i] = math.NaN()
			cooks[i] = math.NaN()
			continue
		}
		r := e / (s * math.Sqrt(oneMinusH))
		std[i] = r
		cooks[i] = r * r / float64(p) * leverage[i] / oneMinusH
	}

	return &Influence{
		Leverage:              leverage,
		StandardizedResiduals: std,
		CooksDistance:         cooks,
		NParams:               p,
	}, nil
}
