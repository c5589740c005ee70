// Package evaluation はホールドアウトのテストデータに対してモデルの点予測誤差を評価する。
//
// Bundle は学習済みのモデル（Variant）と、それぞれの特徴量リスト・Box-Cox λ を
// まとめたもの。ModelEvaluator は任意の (features, model, λ) の組を評価し、
// MSE・RMSE・MAE・MAPE を返すと同時にレポートとして出力する。
//
//	ev := evaluation.NewModelEvaluator(evaluation.Bundle{
//	    Test:     test,
//	    Variants: []evaluation.Variant{{Name: "boxcox", Features: feats, Model: m, Lambda: &lambda}},
//	})
//	res, err := ev.EvaluateVariant("boxcox")
package evaluation

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/regdiag/core/model"
	"github.com/YuminosukeSato/regdiag/dataset"
	"github.com/YuminosukeSato/regdiag/metrics"
	"github.com/YuminosukeSato/regdiag/pkg/errors"
	"github.com/YuminosukeSato/regdiag/pkg/log"
	"github.com/YuminosukeSato/regdiag/preprocessing"
)

// Variant は学習済みモデルとその入力仕様
type Variant struct {
	Name     string
	Features []string
	Model    model.FittedModel
	// Lambda が nil でなければ予測値に逆 Box-Cox 変換を適用する
	Lambda *float64
}

// Bundle はテストデータと評価対象のモデル群
type Bundle struct {
	Test *dataset.Frame
	// Target は目的変数の列名。空なら DefaultTarget。
	Target   string
	Variants []Variant
}

// Result は1回の評価結果
type Result struct {
	Variant string
	N       int
	MSE     float64
	RMSE    float64
	MAE     float64
	MAPE    float64 // パーセント
}

// ModelEvaluator は Bundle のテストデータでモデルを評価する。
// 評価は呼び出しごとに独立しており、Bundle を変更しない。
type ModelEvaluator struct {
	bundle Bundle
	cfg    config
	logger log.Logger
}

// NewModelEvaluator stores b as is. Validation happens at evaluation time.
func NewModelEvaluator(b Bundle, opts ...Option) *ModelEvaluator {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &ModelEvaluator{
		bundle: b,
		cfg:    cfg,
		logger: cfg.logger.With(log.PhaseKey, log.PhaseTesting),
	}
}

// Bundle returns the bundle the evaluator was built with.
func (e *ModelEvaluator) Bundle() Bundle {
	return e.bundle
}

func (e *ModelEvaluator) target() string {
	if e.bundle.Target == "" {
		return DefaultTarget
	}
	return e.bundle.Target
}

// EvaluateModel scores m on the test frame using features (in order, with an
// intercept column prepended). When lambda is non-nil the predictions are
// mapped back through the inverse Box-Cox transform before scoring.
//
// The report is written only when every metric could be computed.
func (e *ModelEvaluator) EvaluateModel(features []string, m model.FittedModel, lambda *float64) (*Result, error) {
	return e.evaluate("", features, m, lambda)
}

// EvaluateVariant evaluates the bundle variant called name.
func (e *ModelEvaluator) EvaluateVariant(name string) (*Result, error) {
	for _, v := range e.bundle.Variants {
		if v.Name == name {
			return e.evaluate(v.Name, v.Features, v.Model, v.Lambda)
		}
	}
	return nil, errors.NewValueError("EvaluateVariant", fmt.Sprintf("unknown variant %q", name))
}

// EvaluateAll evaluates every variant in bundle order and stops at the first failure.
func (e *ModelEvaluator) EvaluateAll() ([]Result, error) {
	results := make([]Result, 0, len(e.bundle.Variants))
	for _, v := range e.bundle.Variants {
		r, err := e.evaluate(v.Name, v.Features, v.Model, v.Lambda)
		if err != nil {
			return results, errors.Wrapf(err, "variant %q", v.Name)
		}
		results = append(results, *r)
	}
	return results, nil
}

func (e *ModelEvaluator) evaluate(name string, features []string, m model.FittedModel, lambda *float64) (*Result, error) {
	const op = "EvaluateModel"

	logger := e.logger.With(log.OperationKey, log.OperationEvaluate)
	if name != "" {
		logger = logger.With(log.VariantKey, name)
	}

	if e.bundle.Test == nil {
		return nil, errors.NewValueError(op, "bundle has no test data")
	}
	if m == nil {
		return nil, errors.NewInvalidModelError(op, "model is nil")
	}

	X, err := e.bundle.Test.SelectWithConstant(features)
	if err != nil {
		logger.Error("feature selection failed", err, log.FeaturesKey, features)
		return nil, err
	}

	pred, err := predict(op, m, X)
	if err != nil {
		logger.Error("prediction failed", err)
		return nil, err
	}

	if lambda != nil {
		var inv model.VectorTransformer = preprocessing.NewBoxCoxTransformer(*lambda)
		pred, err = inv.InverseTransform(pred)
		if err != nil {
			logger.Error("inverse Box-Cox failed", err, log.LambdaKey, *lambda)
			return nil, err
		}
	}

	actual, err := e.bundle.Test.ColumnVec(e.target())
	if err != nil {
		return nil, err
	}
	if actual.Len() != pred.Len() {
		return nil, errors.NewDimensionError(op, actual.Len(), pred.Len(), 0)
	}

	reg, err := metrics.Evaluate(actual, pred)
	if err != nil {
		logger.Error("metric computation failed", err)
		return nil, err
	}

	res := &Result{
		Variant: name,
		N:       actual.Len(),
		MSE:     reg.MSE,
		RMSE:    reg.RMSE,
		MAE:     reg.MAE,
		MAPE:    reg.MAPE,
	}

	fields := []any{
		log.SamplesKey, res.N,
		log.TargetKey, e.target(),
		log.MSEKey, res.MSE,
		log.RMSEKey, res.RMSE,
		log.MAEKey, res.MAE,
		log.MAPEKey, res.MAPE,
	}
	if lambda != nil {
		fields = append(fields, log.LambdaKey, *lambda)
	}
	logger.Info("model evaluated", fields...)

	if e.cfg.output != nil {
		if err := FormatReport(e.cfg.output, res); err != nil {
			return res, err
		}
	}
	return res, nil
}

// predict は m の予測値を1列のベクトルとして取り出す。
// 複数列の出力は DimensionError、モデル側のパニックは PanicError として返す。
func predict(op string, m model.FittedModel, X mat.Matrix) (*mat.VecDense, error) {
	var out mat.Matrix
	err := errors.SafeExecute(op, func() error {
		var err error
		out, err = m.Predict(X)
		return err
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, errors.NewInvalidModelError(op, "model returned no predictions")
	}

	r, c := out.Dims()
	if r == 0 || c == 0 {
		return nil, errors.NewInvalidModelError(op, "model returned no predictions")
	}
	if c != 1 {
		return nil, errors.NewDimensionError(op, 1, c, 1)
	}
	vec := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		vec.SetVec(i, out.At(i, 0))
	}
	return vec, nil
}
