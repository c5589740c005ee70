package diagnostics

import (
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/regdiag/pkg/log"
	"github.com/YuminosukeSato/regdiag/stats"
)

// DefaultFormat is the image format used when a sink does not name one.
const DefaultFormat = "png"

// 図のサイズ（matplotlib の figsize=(8, 6) / (6, 6) インチに相当）
var (
	DefaultWidth    = 8 * vg.Inch
	DefaultHeight   = 6 * vg.Inch
	DefaultQQWidth  = 6 * vg.Inch
	DefaultQQHeight = 6 * vg.Inch
)

type config struct {
	sink             Sink
	width, height    vg.Length
	qqWidth          vg.Length
	qqHeight         vg.Length
	logger           log.Logger
	influence        stats.InfluenceProvider
	lowessFrac       float64
	lowessIterations int
}

func defaultConfig() config {
	return config{
		sink:             FileSink{Dir: ".", Format: DefaultFormat},
		width:            DefaultWidth,
		height:           DefaultHeight,
		qqWidth:          DefaultQQWidth,
		qqHeight:         DefaultQQHeight,
		logger:           log.GetLoggerWithName("diagnostics"),
		influence:        stats.OLSInfluence{},
		lowessFrac:       stats.DefaultLowessFrac,
		lowessIterations: stats.DefaultLowessIterations,
	}
}

// Option configures a DiagnosticPlotter.
type Option func(*config)

// WithSink sets where rendered figures go.
func WithSink(s Sink) Option {
	return func(c *config) {
		if s != nil {
			c.sink = s
		}
	}
}

// WithSize sets the width and height of every figure.
func WithSize(width, height vg.Length) Option {
	return func(c *config) {
		if width > 0 && height > 0 {
			c.width, c.height = width, height
			c.qqWidth, c.qqHeight = width, height
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l log.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithInfluenceProvider replaces the default OLS influence computation.
func WithInfluenceProvider(p stats.InfluenceProvider) Option {
	return func(c *config) {
		if p != nil {
			c.influence = p
		}
	}
}

// WithLowess sets the LOWESS span fraction and robustness iterations of the trend lines.
func WithLowess(frac float64, iterations int) Option {
	return func(c *config) {
		if frac > 0 && frac <= 1 {
			c.lowessFrac = frac
		}
		if iterations >= 0 {
			c.lowessIterations = iterations
		}
	}
}
