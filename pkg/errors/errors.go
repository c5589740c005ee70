// Package errors はプロジェクト全体のエラーハンドリングと警告システムを提供します。
// 回帰診断・評価で発生する失敗を型付きエラーとして表現し、スタックトレースを付与します。
package errors

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	グローバル警告ハンドリング
//
// ===========================================================================
var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		// デフォルトのハンドラは標準エラー出力にログを出す
		log.Printf("regdiag-Warning: %v\n", w)
	}
	// zerologロガー（循環importを避けるため遅延初期化）
	zerologWarnFunc func(warning error)
)

// SetWarningHandler はライブラリ全体の警告ハンドラを設定します。
//
// 例:
//
//	errors.SetWarningHandler(func(w error) {
//	    // 警告を無視する
//	})
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc はzerolog警告関数を設定します（循環importを避けるため）。
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn は警告を発生させます。
// zerologが利用可能な場合は構造化ログとして出力し、そうでなければ従来のハンドラを使用します。
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}

	if warningHandler != nil {
		warningHandler(w)
	}
}

// UndefinedMetricWarning は評価指標が計算できない場合に発生する警告です。
type UndefinedMetricWarning struct {
	Metric    string
	Condition string
	Result    float64 // この条件で返される値
}

func (w *UndefinedMetricWarning) Error() string {
	return fmt.Sprintf("'%s' is ill-defined and being set to %f due to %s.", w.Metric, w.Result, w.Condition)
}

// MarshalZerologObject はzerologのイベントに構造化された警告情報を追加します。
func (w *UndefinedMetricWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("metric", w.Metric).
		Str("condition", w.Condition).
		Float64("result", w.Result).
		Str("type", "UndefinedMetricWarning")
}

// NewUndefinedMetricWarning は新しいUndefinedMetricWarningを作成します。
func NewUndefinedMetricWarning(metric, condition string, result float64) *UndefinedMetricWarning {
	return &UndefinedMetricWarning{Metric: metric, Condition: condition, Result: result}
}

// ===========================================================================
//
//	構造化されたエラー型
//
// ===========================================================================

// NotFittedError はモデルが未学習の状態で `Predict` などを呼び出した場合のエラーです。
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("regdiag: %s: this model is not fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError は新しいNotFittedErrorを作成し、スタックトレースを付与します。
func NewNotFittedError(modelName, method string) error {
	err := &NotFittedError{ModelName: modelName, Method: method}
	return errors.WithStack(err)
}

// DimensionError は入力データの次元が期待値と異なる場合のエラーです。
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns/features
}

func (e *DimensionError) axisName() string {
	if e.Axis == 0 {
		return "rows"
	}
	return "features"
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("regdiag: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, e.axisName(), e.Expected, e.Got)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("axis_name", e.axisName()).
		Str("type", "DimensionError")
}

// NewDimensionError は新しいDimensionErrorを作成し、スタックトレースを付与します。
func NewDimensionError(op string, expected, got, axis int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

// ValueError は引数の値が不適切または不正な場合に発生するエラーです。
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("regdiag: %s: %s", e.Op, e.Message)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ValueError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("message", e.Message).
		Str("type", "ValueError")
}

// NewValueError は新しいValueErrorを作成し、スタックトレースを付与します。
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
}

// ModelError は回帰モデルに関する一般的なエラーです。
type ModelError struct {
	Op   string
	Kind string
	Err  error
}

func (e *ModelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("regdiag: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("regdiag: %s: %s", e.Op, e.Kind)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ModelError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("type", "ModelError").
		Str("operation", e.Op).
		Str("kind", e.Kind)
	if e.Err != nil {
		event.Str("cause", e.Err.Error())
	}
}

// NewModelError は新しいModelErrorを作成し、スタックトレースを付与します。
func NewModelError(op, kind string, err error) error {
	modelErr := &ModelError{Op: op, Kind: kind, Err: err}
	return errors.WithStack(modelErr)
}

// ===========================================================================
//
//	診断・評価固有のエラー型
//
// ===========================================================================

// InvalidModelError は診断に必要な当てはめ値・残差をモデルが提供できない場合のエラーです。
type InvalidModelError struct {
	Op     string
	Reason string
}

func (e *InvalidModelError) Error() string {
	return fmt.Sprintf("regdiag: %s: invalid model: %s", e.Op, e.Reason)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *InvalidModelError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("reason", e.Reason).
		Str("type", "InvalidModelError")
}

// NewInvalidModelError は新しいInvalidModelErrorを作成し、スタックトレースを付与します。
func NewInvalidModelError(op, reason string) error {
	err := &InvalidModelError{Op: op, Reason: reason}
	return errors.WithStack(err)
}

// MissingFeatureError は要求された特徴量の列がテストデータに存在しない場合のエラーです。
type MissingFeatureError struct {
	Feature   string
	Available []string
}

func (e *MissingFeatureError) Error() string {
	return fmt.Sprintf("regdiag: missing feature %q (available: %s)", e.Feature, strings.Join(e.Available, ", "))
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *MissingFeatureError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("feature", e.Feature).
		Strs("available", e.Available).
		Str("type", "MissingFeatureError")
}

// NewMissingFeatureError は新しいMissingFeatureErrorを作成し、スタックトレースを付与します。
func NewMissingFeatureError(feature string, available []string) error {
	err := &MissingFeatureError{Feature: feature, Available: available}
	return errors.WithStack(err)
}

// TransformError は逆Box-Cox変換が定義域外の値に適用された場合のエラーです。
// 例えば λ≠0 で λ·y+1 < 0 となる場合、結果は実数にならない。
type TransformError struct {
	Op     string
	Lambda float64
	Value  float64 // 問題のある入力値
	Index  int     // 入力ベクトル内の位置
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("regdiag: %s: value %g at index %d is outside the domain of the inverse Box-Cox transform (lambda=%g)",
		e.Op, e.Value, e.Index, e.Lambda)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *TransformError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Float64("lambda", e.Lambda).
		Float64("value", e.Value).
		Int("index", e.Index).
		Str("type", "TransformError")
}

// NewTransformError は新しいTransformErrorを作成し、スタックトレースを付与します。
func NewTransformError(op string, lambda, value float64, index int) error {
	err := &TransformError{Op: op, Lambda: lambda, Value: value, Index: index}
	return errors.WithStack(err)
}

// ZeroDivisionError は実測値がゼロのためMAPEなどの相対誤差が定義できない場合のエラーです。
type ZeroDivisionError struct {
	Op    string
	Index int // ゼロだった最初の実測値の位置
}

func (e *ZeroDivisionError) Error() string {
	return fmt.Sprintf("regdiag: %s: division by zero (actual value at index %d is 0)", e.Op, e.Index)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ZeroDivisionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("index", e.Index).
		Str("type", "ZeroDivisionError")
}

// NewZeroDivisionError は新しいZeroDivisionErrorを作成し、スタックトレースを付与します。
func NewZeroDivisionError(op string, index int) error {
	err := &ZeroDivisionError{Op: op, Index: index}
	return errors.WithStack(err)
}

// NumericalInstabilityError は数値計算が不安定になった場合のエラーです。
// NaN、Infなどを検出します。
type NumericalInstabilityError struct {
	Operation string    // 発生した操作（例: "leverage", "lowess"）
	Values    []float64 // 問題のある値
	Iteration int       // 発生したイテレーション番号
}

func (e *NumericalInstabilityError) Error() string {
	valStr := ""
	for i, v := range e.Values {
		if i > 0 {
			valStr += ", "
		}
		if i >= 5 {
			valStr += "..."
			break
		}
		valStr += fmt.Sprintf("%.6g", v)
	}
	return fmt.Sprintf("regdiag: numerical instability detected in %s at iteration %d. Values: [%s]",
		e.Operation, e.Iteration, valStr)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *NumericalInstabilityError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("type", "NumericalInstabilityError").
		Str("operation", e.Operation).
		Int("iteration", e.Iteration).
		Int("unstable_values", len(e.Values))
}

// NewNumericalInstabilityError は新しいNumericalInstabilityErrorを作成します。
func NewNumericalInstabilityError(operation string, values []float64, iteration int) error {
	err := &NumericalInstabilityError{
		Operation: operation,
		Values:    values,
		Iteration: iteration,
	}
	return errors.WithStack(err)
}

// ===========================================================================
//
//	cockroachdb/errors ラッパー関数
//
// ===========================================================================

// Is はエラーが特定のターゲットエラーかどうかを判定します。
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As はエラーが特定の型にキャスト可能かどうかを判定します。
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap は既存のエラーをメッセージ付きでラップします。
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf は既存のエラーをフォーマット文字列でラップします。
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New は新しいエラーを作成します。
func New(message string) error {
	return errors.New(message)
}

// Newf は新しいフォーマット済みエラーを作成します。
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack はエラーにスタックトレースを付与します。
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	共通エラー変数
//
// ===========================================================================

var (
	// ErrEmptyData は空のデータが渡された場合のエラーです。
	ErrEmptyData = New("empty data")

	// ErrSingularMatrix は特異行列の場合のエラーです。
	ErrSingularMatrix = New("singular matrix")
)
