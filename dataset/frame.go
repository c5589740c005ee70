// Package dataset はテスト用データセットを表す列指向の表形式データを提供する。
// 読み込みやクレンジングは扱わず、読み込み済みの列から Frame を組み立てる。
package dataset

import (
	"sort"

	"github.com/YuminosukeSato/regdiag/core/parallel"
	"github.com/YuminosukeSato/regdiag/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// 並列処理の閾値（この値以下の行数では逐次処理を使用）
const parallelThreshold = 1000

// Frame は名前付きの float64 列を持つ不変の表形式データ
type Frame struct {
	names   []string
	columns map[string][]float64
	rows    int
}

// NewFrame は列名と列の対応から Frame を作成する。
// すべての列は同じ長さでなければならない。列はコピーされる。
//
// 使用例:
//
//	frame, err := dataset.NewFrame(map[string][]float64{
//	    "GrLivArea": {1710, 1262, 1786},
//	    "SalePrice": {208500, 181500, 223500},
//	})
func NewFrame(columns map[string][]float64) (*Frame, error) {
	if len(columns) == 0 {
		return nil, errors.NewModelError("NewFrame", "empty data", errors.ErrEmptyData)
	}

	names := make([]string, 0, len(columns))
	for name := range columns {
		names = append(names, name)
	}
	sort.Strings(names)

	f := &Frame{
		names:   names,
		columns: make(map[string][]float64, len(columns)),
		rows:    len(columns[names[0]]),
	}
	for _, name := range names {
		col := columns[name]
		if len(col) != f.rows {
			return nil, errors.NewDimensionError("NewFrame", f.rows, len(col), 0)
		}
		f.columns[name] = append([]float64(nil), col...)
	}
	return f, nil
}

// Rows は行数（観測数）を返す
func (f *Frame) Rows() int {
	return f.rows
}

// Names は列名をソート済みで返す
func (f *Frame) Names() []string {
	return append([]string(nil), f.names...)
}

// Has は列が存在するかを返す
func (f *Frame) Has(name string) bool {
	_, ok := f.columns[name]
	return ok
}

// Column は列のコピーを返す。存在しない場合は MissingFeatureError。
func (f *Frame) Column(name string) ([]float64, error) {
	col, ok := f.columns[name]
	if !ok {
		return nil, errors.NewMissingFeatureError(name, f.Names())
	}
	return append([]float64(nil), col...), nil
}

// ColumnVec は列を *mat.VecDense として返す
func (f *Frame) ColumnVec(name string) (*mat.VecDense, error) {
	col, err := f.Column(name)
	if err != nil {
		return nil, err
	}
	return mat.NewVecDense(len(col), col), nil
}

// Select は features の列を指定順に並べた n × len(features) 行列を返す。
// 1つでも存在しない列があれば MissingFeatureError を返す。
func (f *Frame) Select(features []string) (*mat.Dense, error) {
	if len(features) == 0 {
		return nil, errors.NewValueError("Frame.Select", "no features requested")
	}
	if f.rows == 0 {
		return nil, errors.NewModelError("Frame.Select", "empty data", errors.ErrEmptyData)
	}

	cols := make([][]float64, len(features))
	for j, name := range features {
		col, ok := f.columns[name]
		if !ok {
			return nil, errors.NewMissingFeatureError(name, f.Names())
		}
		cols[j] = col
	}

	X := mat.NewDense(f.rows, len(features), nil)
	parallel.ParallelizeWithThreshold(f.rows, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			for j := range cols {
				X.Set(i, j, cols[j][i])
			}
		}
	})
	return X, nil
}

// SelectWithConstant は Select の結果の先頭に定数 1.0 の切片列を追加した行列を返す
func (f *Frame) SelectWithConstant(features []string) (*mat.Dense, error) {
	X, err := f.Select(features)
	if err != nil {
		return nil, err
	}
	return AddConstant(X), nil
}

// AddConstant は X の先頭に定数 1.0 の切片列を追加した新しい行列を返す
// X_with_intercept = [1, X]
func AddConstant(X mat.Matrix) *mat.Dense {
	r, c := X.Dims()
	out := mat.NewDense(r, c+1, nil)

	parallel.ParallelizeWithThreshold(r, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			out.Set(i, 0, 1.0) // 切片項
			for j := 0; j < c; j++ {
				out.Set(i, j+1, X.At(i, j))
			}
		}
	})
	return out
}
