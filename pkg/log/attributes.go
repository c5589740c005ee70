// Standard attribute keys shared by the diagnostics and evaluation packages.
// Keys follow a dotted hierarchy ("model.name", "data.samples") so log
// pipelines can filter on a prefix.

package log

// Model and operation context.
const (
	// ModelNameKey identifies the type of regression model, e.g. "OLS".
	ModelNameKey = "model.name"

	// VariantKey names a model variant inside an evaluation bundle.
	VariantKey = "model.variant"

	// OperationKey specifies the operation being performed.
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is performing the operation.
	ComponentKey = "ml.component"

	// PhaseKey indicates the phase of the workflow.
	PhaseKey = "ml.phase"
)

// Data shape.
const (
	SamplesKey  = "data.samples"
	FeaturesKey = "data.features"
	TargetKey   = "data.target"
)

// Box-Cox transform.
const (
	LambdaKey = "transform.lambda"
)

// Evaluation metrics.
const (
	MSEKey     = "metrics.mse"
	RMSEKey    = "metrics.rmse"
	MAEKey     = "metrics.mae"
	MAPEKey    = "metrics.mape"
	R2ScoreKey = "metrics.r2_score"
)

// Diagnostic plots.
const (
	// PlotKey names the figure being rendered, e.g. "normal_qq".
	PlotKey = "plot.name"

	// SinkKey describes where a figure was written.
	SinkKey = "plot.sink"

	// OutlierCountKey counts observations with |standardized residual| > 2.
	OutlierCountKey = "diagnostics.outliers"

	// MaxLeverageKey records the largest hat value.
	MaxLeverageKey = "diagnostics.max_leverage"
)

// Standard attribute values.
const (
	OperationFit       = "fit"
	OperationPredict   = "predict"
	OperationEvaluate  = "evaluate"
	OperationPlot      = "plot"
	OperationInfluence = "influence"

	PhaseTraining   = "training"
	PhaseTesting    = "testing"
	PhaseDiagnostic = "diagnostic"
)
