package evaluation

import (
	"io"
	"os"

	"github.com/YuminosukeSato/regdiag/pkg/log"
)

// DefaultTarget は目的変数列の既定名
const DefaultTarget = "SalePrice"

type config struct {
	logger log.Logger
	output io.Writer
}

func defaultConfig() config {
	return config{
		logger: log.GetLoggerWithName("evaluation"),
		output: os.Stdout,
	}
}

// Option configures a ModelEvaluator.
type Option func(*config)

// WithLogger sets the logger.
func WithLogger(l log.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithOutput sets where the metric report is written. nil disables the report;
// the metrics are still logged and returned.
func WithOutput(w io.Writer) Option {
	return func(c *config) {
		c.output = w
	}
}
