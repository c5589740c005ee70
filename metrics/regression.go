// Package metrics は回帰モデルの点予測誤差指標を計算する。
package metrics

import (
	"math"

	"github.com/YuminosukeSato/regdiag/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// validatePair は yTrue と yPred が空でなく同じ長さであることを確認する
func validatePair(op string, yTrue, yPred mat.Vector) (int, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError(op, "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError(op, n, yPred.Len(), 0)
	}
	return n, nil
}

// MSE は平均二乗誤差（Mean Squared Error）を計算する
func MSE(yTrue, yPred mat.Vector) (float64, error) {
	n, err := validatePair("MSE", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	// MSE = (1/n) * Σ(yTrue - yPred)²
	var sum float64
	for i := 0; i < n; i++ {
		diff := yTrue.AtVec(i) - yPred.AtVec(i)
		sum += diff * diff
	}

	return sum / float64(n), nil
}

// RMSE は平方根平均二乗誤差（Root Mean Squared Error）を計算する
func RMSE(yTrue, yPred mat.Vector) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE は平均絶対誤差（Mean Absolute Error）を計算する
func MAE(yTrue, yPred mat.Vector) (float64, error) {
	n, err := validatePair("MAE", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	// MAE = (1/n) * Σ|yTrue - yPred|
	var sum float64
	for i := 0; i < n; i++ {
		sum += math.Abs(yTrue.AtVec(i) - yPred.AtVec(i))
	}

	return sum / float64(n), nil
}

// MAPE は平均絶対パーセンテージ誤差を計算する（パーセント単位）
//
//	MAPE = (100/n) * Σ|yTrue - yPred|/|yTrue|
//
// yTrue に 0 が含まれる場合、相対誤差が定義できないため ZeroDivisionError を返す。
// NaN や Inf を黙って返すことはしない。
func MAPE(yTrue, yPred mat.Vector) (float64, error) {
	n, err := validatePair("MAPE", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	var sum float64
	for i := 0; i < n; i++ {
		yTrueVal := yTrue.AtVec(i)
		if yTrueVal == 0 {
			return 0, errors.NewZeroDivisionError("MAPE", i)
		}
		sum += math.Abs(yTrueVal-yPred.AtVec(i)) / math.Abs(yTrueVal)
	}

	return (sum / float64(n)) * 100, nil
}

// R2Score は決定係数（R²）を計算する
func R2Score(yTrue, yPred mat.Vector) (float64, error) {
	n, err := validatePair("R2Score", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	var yMean float64
	for i := 0; i < n; i++ {
		yMean += yTrue.AtVec(i)
	}
	yMean /= float64(n)

	// 全変動（TSS）と残差変動（RSS）を計算
	var tss, rss float64
	for i := 0; i < n; i++ {
		yTrueVal := yTrue.AtVec(i)
		d := yTrueVal - yPred.AtVec(i)
		tss += (yTrueVal - yMean) * (yTrueVal - yMean)
		rss += d * d
	}

	// すべての yTrue が同じ値の場合
	if tss == 0 {
		return 0, errors.Newf("R2Score: total sum of squares is zero (no variance in yTrue)")
	}

	return 1 - rss/tss, nil
}

// Regression は MSE・RMSE・MAE・MAPE をまとめたもの
type Regression struct {
	MSE  float64
	RMSE float64
	MAE  float64
	MAPE float64 // パーセント
}

// Evaluate は4つの指標をまとめて計算する。いずれかが失敗した場合は最初のエラーを返す。
// 指標が有限でない場合は NumericalInstabilityError。
func Evaluate(yTrue, yPred mat.Vector) (*Regression, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return nil, err
	}
	mae, err := MAE(yTrue, yPred)
	if err != nil {
		return nil, err
	}
	mape, err := MAPE(yTrue, yPred)
	if err != nil {
		return nil, err
	}

	r := &Regression{
		MSE:  mse,
		RMSE: math.Sqrt(mse),
		MAE:  mae,
		MAPE: mape,
	}
	// 予測に NaN/Inf が混ざると指標も有限でなくなる
	for _, v := range []float64{r.MSE, r.MAE, r.MAPE} {
		if err := errors.CheckScalar("Evaluate", v, 0); err != nil {
			return nil, err
		}
	}
	return r, nil
}
