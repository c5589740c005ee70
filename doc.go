// Package regdiag provides regression diagnostics and hold-out evaluation
// for linear models in Go.
//
// It covers the last two steps of a regression workflow: checking the
// assumptions of a fitted OLS model with the four classical diagnostic
// plots, and scoring trained model variants on a test set with MSE, RMSE,
// MAE and MAPE, optionally undoing a Box-Cox transform of the target first.
//
// # Installation
//
//	go get github.com/YuminosukeSato/regdiag
//
// # Quick Start
//
//	package main
//
//	import (
//	    "log"
//
//	    "github.com/YuminosukeSato/regdiag/dataset"
//	    "github.com/YuminosukeSato/regdiag/diagnostics"
//	    "github.com/YuminosukeSato/regdiag/evaluation"
//	    "github.com/YuminosukeSato/regdiag/linear"
//	)
//
//	func main() {
//	    train, _ := dataset.NewFrame(trainColumns)
//	    test, _ := dataset.NewFrame(testColumns)
//	    features := []string{"GrLivArea", "OverallQual"}
//
//	    X, _ := train.SelectWithConstant(features)
//	    y, _ := train.ColumnVec("SalePrice")
//	    model := linear.NewOLS()
//	    if err := model.Fit(X, y); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    // Diagnostic plots written to ./plots
//	    p, err := diagnostics.NewDiagnosticPlotter(model,
//	        diagnostics.WithSink(diagnostics.FileSink{Dir: "plots", Format: "png"}),
//	    )
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    if err := p.PlotAll(); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    // Hold-out metrics printed to stdout
//	    ev := evaluation.NewModelEvaluator(evaluation.Bundle{Test: test})
//	    if _, err := ev.EvaluateModel(features, model, nil); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//
// # Packages
//
//   - diagnostics: DiagnosticPlotter and figure sinks (file, memory, writer)
//   - evaluation: ModelEvaluator, Bundle/Variant and the metric report
//   - stats: leverage, studentized residuals, Cook's distance, LOWESS, normal Q-Q
//   - linear: OLS solved by QR decomposition
//   - metrics: MSE, RMSE, MAE, MAPE, R²
//   - preprocessing: Box-Cox transform and its inverse
//   - dataset: column-oriented test/training frames
//   - core/model: FittedModel and related interfaces
//   - core/parallel: parallel row processing
//   - pkg/errors, pkg/log: typed errors and structured logging
package regdiag
