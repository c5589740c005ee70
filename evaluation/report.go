package evaluation

import (
	"fmt"
	"io"

	"github.com/YuminosukeSato/regdiag/pkg/errors"
)

// FormatReport writes the four metric lines of r to w.
//
//	Mean Squared Error: 100
//	Root Mean Squared Error: 10
//	Mean Absolute Error: 10
//	Mean Absolute Percentage Error: 6.11%
func FormatReport(w io.Writer, r *Result) error {
	if r == nil {
		return errors.NewValueError("FormatReport", "result is nil")
	}
	_, err := fmt.Fprintf(w,
		"Mean Squared Error: %v\nRoot Mean Squared Error: %v\nMean Absolute Error: %v\nMean Absolute Percentage Error: %.2f%%\n",
		r.MSE, r.RMSE, r.MAE, r.MAPE,
	)
	if err != nil {
		return errors.Wrap(err, "FormatReport")
	}
	return nil
}
