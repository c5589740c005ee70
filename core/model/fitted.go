package model

import "gonum.org/v1/gonum/mat"

// FittedModel は学習済み回帰モデルの最小インターフェース。
// 診断プロットと評価は特定のモデル実装ではなくこのインターフェースに依存する。
type FittedModel interface {
	Predictor

	// FittedValues は訓練データに対する当てはめ値を返す
	FittedValues() []float64

	// Residuals は訓練データの残差（実測値 - 当てはめ値）を返す
	Residuals() []float64
}

// DesignMatrixer は訓練時の計画行列（切片列を含む）を公開するモデル。
// レバレッジの計算に使う。
type DesignMatrixer interface {
	DesignMatrix() mat.Matrix
}

// FittedStater はモデルが学習済みかどうかを報告する
type FittedStater interface {
	IsFitted() bool
}
