package model

// EstimatorState はモデルの学習状態を表す
type EstimatorState int

const (
	// NotFitted はモデルが未学習の状態
	NotFitted EstimatorState = iota
	// Fitted はモデルが学習済みの状態
	Fitted
)

// BaseEstimator はモデルに埋め込む学習状態
type BaseEstimator struct {
	state EstimatorState
}

// IsFitted はモデルが学習済みかどうかを返す
func (e *BaseEstimator) IsFitted() bool {
	return e.state == Fitted
}

// SetFitted はモデルを学習済み状態に設定する
func (e *BaseEstimator) SetFitted() {
	e.state = Fitted
}

// Reset はモデルを初期状態にリセットする
func (e *BaseEstimator) Reset() {
	e.state = NotFitted
}

// CheckFitted は model が FittedStater を実装し未学習であれば false を返す。
// 学習状態を報告しないモデルは学習済みとみなす。
func CheckFitted(m interface{}) bool {
	if s, ok := m.(FittedStater); ok {
		return s.IsFitted()
	}
	return true
}
