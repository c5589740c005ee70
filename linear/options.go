package linear

import "github.com/YuminosukeSato/regdiag/pkg/log"

// 条件数がこの値を超える計画行列は特異とみなす
const defaultCondThreshold = 1e12

// Option は OLS の設定関数
type Option func(*OLS)

// WithCondThreshold sets the condition number above which the design
// matrix is rejected as singular.
func WithCondThreshold(threshold float64) Option {
	return func(m *OLS) {
		if threshold > 0 {
			m.condThreshold = threshold
		}
	}
}

// WithLogger sets the logger used for fit events.
func WithLogger(l log.Logger) Option {
	return func(m *OLS) {
		if l != nil {
			m.logger = l
		}
	}
}
