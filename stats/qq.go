package stats

import (
	"sort"

	"github.com/YuminosukeSato/regdiag/pkg/errors"
	"gonum.org/v1/gonum/stat/distuv"
)

// NormalQQ は標本を昇順に並べ、標準正規分布の理論分位点と対応付ける。
// プロット位置は i/(n+1)（i = 1..n）。
func NormalQQ(sample []float64) (theoretical, ordered []float64, err error) {
	n := len(sample)
	if n == 0 {
		return nil, nil, errors.NewValueError("NormalQQ", "empty sample")
	}

	ordered = append([]float64(nil), sample...)
	sort.Float64s(ordered)

	theoretical = make([]float64, n)
	for i := range theoretical {
		p := float64(i+1) / float64(n+1)
		theoretical[i] = distuv.UnitNormal.Quantile(p)
	}
	return theoretical, ordered, nil
}
