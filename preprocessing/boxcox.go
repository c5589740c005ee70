// Package preprocessing は目的変数の Box-Cox 変換とその逆変換を提供する。
// λ の探索は行わない。学習時に決めた λ を受け取って適用する。
package preprocessing

import (
	"math"

	"github.com/YuminosukeSato/regdiag/core/model"
	"github.com/YuminosukeSato/regdiag/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// BoxCox は1つの値に Box-Cox 変換を適用する
//
//	λ ≠ 0: (y^λ - 1) / λ
//	λ = 0: log(y)
//
// y は正でなければならない。
func BoxCox(y, lambda float64) (float64, error) {
	if !(y > 0) {
		return 0, errors.NewTransformError("BoxCox", lambda, y, 0)
	}
	var out float64
	if lambda == 0 {
		out = math.Log(y)
	} else {
		out = math.Expm1(lambda*math.Log(y)) / lambda
	}
	if math.IsNaN(out) || math.IsInf(out, 0) {
		return 0, errors.NewTransformError("BoxCox", lambda, y, 0)
	}
	return out, nil
}

// InverseBoxCox は Box-Cox 変換の逆変換を1つの値に適用する
//
//	λ ≠ 0: (λ*y + 1)^(1/λ)
//	λ = 0: exp(y)
//
// λ*y + 1 < 0（実数にならない）や結果が有限でない場合は TransformError。
func InverseBoxCox(y, lambda float64) (float64, error) {
	var out float64
	if lambda == 0 {
		out = math.Exp(y)
	} else {
		base := lambda*y + 1
		if base < 0 || math.IsNaN(base) {
			return 0, errors.NewTransformError("InverseBoxCox", lambda, y, 0)
		}
		// exp(log1p(λy)/λ) は λy が小さいときも精度を保つ
		out = math.Exp(math.Log1p(lambda*y) / lambda)
	}
	if math.IsNaN(out) || math.IsInf(out, 0) {
		return 0, errors.NewTransformError("InverseBoxCox", lambda, y, 0)
	}
	return out, nil
}

// BoxCoxTransformer は固定した λ でベクトルを変換する
type BoxCoxTransformer struct {
	// Lambda は学習時に推定済みの Box-Cox パラメータ
	Lambda float64
}

var _ model.VectorTransformer = (*BoxCoxTransformer)(nil)

// NewBoxCoxTransformer は λ を指定して BoxCoxTransformer を作成する
//
// 使用例:
//
//	bc := preprocessing.NewBoxCoxTransformer(0.12)
//	prices, err := bc.InverseTransform(predictions)
func NewBoxCoxTransformer(lambda float64) *BoxCoxTransformer {
	return &BoxCoxTransformer{Lambda: lambda}
}

// Transform は y の各要素に Box-Cox 変換を適用した新しいベクトルを返す
func (t *BoxCoxTransformer) Transform(y mat.Vector) (*mat.VecDense, error) {
	return t.apply("BoxCoxTransformer.Transform", y, BoxCox)
}

// InverseTransform は y の各要素に逆 Box-Cox 変換を適用した新しいベクトルを返す。
// 失敗した場合、TransformError の Index に問題の要素位置が入る。
func (t *BoxCoxTransformer) InverseTransform(y mat.Vector) (*mat.VecDense, error) {
	return t.apply("BoxCoxTransformer.InverseTransform", y, InverseBoxCox)
}

func (t *BoxCoxTransformer) apply(op string, y mat.Vector, fn func(v, lambda float64) (float64, error)) (*mat.VecDense, error) {
	n := y.Len()
	if n == 0 {
		return nil, errors.NewValueError(op, "empty vector")
	}

	out := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		v, err := fn(y.AtVec(i), t.Lambda)
		if err != nil {
			return nil, errors.NewTransformError(op, t.Lambda, y.AtVec(i), i)
		}
		out.SetVec(i, v)
	}
	return out, nil
}
