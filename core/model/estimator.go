package model

import "gonum.org/v1/gonum/mat"

// Fitter は学習可能なモデルのインターフェース
type Fitter interface {
	// Fit はモデルを訓練データで学習させる
	Fit(X, y mat.Matrix) error
}

// Predictor は予測可能なモデルのインターフェース
type Predictor interface {
	// Predict は入力データ（切片列を含む）に対する予測を行う
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Scorer は決定係数などのスコアを計算できるモデル
type Scorer interface {
	// Score は X に対する予測と y から R² を返す
	Score(X, y mat.Matrix) (float64, error)
}

// VectorTransformer は目的変数ベクトルの可逆変換（例: Box-Cox）のインターフェース
type VectorTransformer interface {
	// Transform は y を変換空間へ写す
	Transform(y mat.Vector) (*mat.VecDense, error)

	// InverseTransform は変換空間の値を元のスケールへ戻す
	InverseTransform(y mat.Vector) (*mat.VecDense, error)
}
