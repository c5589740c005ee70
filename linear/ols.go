// Package linear は最小二乗法による線形回帰モデルを提供する。
// OLS は診断プロットと評価が要求する FittedModel を実装する。
package linear

import (
	"math"

	"github.com/YuminosukeSato/regdiag/core/model"
	"github.com/YuminosukeSato/regdiag/metrics"
	"github.com/YuminosukeSato/regdiag/pkg/errors"
	"github.com/YuminosukeSato/regdiag/pkg/log"
	"gonum.org/v1/gonum/mat"
)

// OLS は通常最小二乗法による線形回帰モデル。
// 計画行列 X は切片列を含めて呼び出し側が用意する（dataset.AddConstant を参照）。
type OLS struct {
	model.BaseEstimator

	params   *mat.VecDense // 回帰係数（計画行列の列順）
	design   *mat.Dense    // 学習に使った計画行列のコピー
	fitted   []float64     // 当てはめ値
	resid    []float64     // 残差
	nFeature int           // 計画行列の列数

	condThreshold float64
	logger        log.Logger
}

var (
	_ model.Fitter         = (*OLS)(nil)
	_ model.FittedModel    = (*OLS)(nil)
	_ model.DesignMatrixer = (*OLS)(nil)
	_ model.Scorer         = (*OLS)(nil)
)

// NewOLS は新しい OLS モデルを作成する
func NewOLS(opts ...Option) *OLS {
	m := &OLS{
		condThreshold: defaultCondThreshold,
		logger:        log.GetLoggerWithName("linear"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Fit は計画行列 X と目的変数 y で係数を推定する。
// QR 分解による最小二乗解を使う。
func (m *OLS) Fit(X, y mat.Matrix) error {
	r, c := X.Dims()
	ry, cy := y.Dims()

	if r == 0 || c == 0 {
		return errors.NewModelError("OLS.Fit", "empty data", errors.ErrEmptyData)
	}
	if ry != r {
		return errors.NewDimensionError("OLS.Fit", r, ry, 0)
	}
	if cy != 1 {
		return errors.NewValueError("OLS.Fit", "y must be a column vector")
	}
	if r < c {
		return errors.NewValueError("OLS.Fit", "fewer observations than columns in the design matrix")
	}
	if err := errors.CheckMatrix("OLS.Fit", X, r, c, 0); err != nil {
		return err
	}

	design := mat.DenseCopyOf(X)
	yVec := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		yVec.SetVec(i, y.At(i, 0))
	}

	var qr mat.QR
	qr.Factorize(design)
	if cond := qr.Cond(); math.IsInf(cond, 1) || cond > m.condThreshold {
		return errors.NewModelError("OLS.Fit", "singular matrix", errors.ErrSingularMatrix)
	}

	params := mat.NewVecDense(c, nil)
	if err := qr.SolveVecTo(params, false, yVec); err != nil {
		return errors.NewModelError("OLS.Fit", "singular matrix", errors.Wrap(errors.ErrSingularMatrix, err.Error()))
	}

	var fittedVec mat.VecDense
	fittedVec.MulVec(design, params)

	m.params = params
	m.design = design
	m.nFeature = c
	m.fitted = make([]float64, r)
	m.resid = make([]float64, r)
	for i := 0; i < r; i++ {
		m.fitted[i] = fittedVec.AtVec(i)
		m.resid[i] = yVec.AtVec(i) - m.fitted[i]
	}

	m.SetFitted()

	fields := []any{
		log.OperationKey, log.OperationFit,
		log.PhaseKey, log.PhaseTraining,
		log.ModelNameKey, "OLS",
		log.SamplesKey, r,
		log.FeaturesKey, c,
	}
	if r2, err := metrics.R2Score(yVec, &fittedVec); err == nil {
		fields = append(fields, log.R2ScoreKey, r2)
	}
	m.logger.Debug("OLS fitted", fields...)
	return nil
}

// Predict は計画行列 X（切片列を含む）に対する予測を n×1 行列で返す
func (m *OLS) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !m.IsFitted() {
		return nil, errors.NewNotFittedError("OLS", "Predict")
	}

	r, c := X.Dims()
	if c != m.nFeature {
		return nil, errors.NewDimensionError("OLS.Predict", m.nFeature, c, 1)
	}

	// 予測: y = X * params
	var pred mat.VecDense
	pred.MulVec(X, m.params)

	out := mat.NewDense(r, 1, nil)
	out.SetCol(0, pred.RawVector().Data)

	m.logger.Debug("OLS predicted",
		log.OperationKey, log.OperationPredict,
		log.ModelNameKey, "OLS",
		log.SamplesKey, r,
	)
	return out, nil
}

// FittedValues は当てはめ値のコピーを返す。未学習なら nil。
func (m *OLS) FittedValues() []float64 {
	if !m.IsFitted() {
		return nil
	}
	return append([]float64(nil), m.fitted...)
}

// Residuals は残差のコピーを返す。未学習なら nil。
func (m *OLS) Residuals() []float64 {
	if !m.IsFitted() {
		return nil
	}
	return append([]float64(nil), m.resid...)
}

// DesignMatrix は学習に使った計画行列を返す。未学習なら nil。
func (m *OLS) DesignMatrix() mat.Matrix {
	if !m.IsFitted() {
		return nil
	}
	return m.design
}

// Params は回帰係数のコピーを返す
func (m *OLS) Params() []float64 {
	if m.params == nil {
		return nil
	}
	return mat.Col(nil, 0, m.params)
}

// Score は X, y に対する決定係数（R²）を計算する
func (m *OLS) Score(X, y mat.Matrix) (float64, error) {
	if !m.IsFitted() {
		return 0, errors.NewNotFittedError("OLS", "Score")
	}

	yPred, err := m.Predict(X)
	if err != nil {
		return 0, err
	}

	r, c := y.Dims()
	pr, _ := yPred.Dims()
	if r != pr {
		return 0, errors.NewDimensionError("OLS.Score", pr, r, 0)
	}
	if c != 1 {
		return 0, errors.NewValueError("OLS.Score", "y must be a column vector")
	}

	return metrics.R2Score(mat.NewVecDense(r, mat.Col(nil, 0, y)), mat.NewVecDense(r, mat.Col(nil, 0, yPred)))
}
