// Package diagnostics renders the four classical OLS diagnostic plots:
// residuals vs fitted, normal Q-Q, scale-location and residuals vs leverage.
//
// A DiagnosticPlotter computes leverage and internally studentized residuals
// once at construction. Each Plot method then builds one figure with
// gonum/plot and hands it to the configured Sink (files, memory, or
// caller-supplied writers).
//
//	m := linear.NewOLS()
//	if err := m.Fit(X, y); err != nil { ... }
//	p, err := diagnostics.NewDiagnosticPlotter(m,
//	    diagnostics.WithSink(diagnostics.FileSink{Dir: "plots", Format: "svg"}),
//	)
//	if err != nil { ... }
//	err = p.PlotAll()
package diagnostics

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/YuminosukeSato/regdiag/core/model"
	"github.com/YuminosukeSato/regdiag/pkg/errors"
	"github.com/YuminosukeSato/regdiag/pkg/log"
	"github.com/YuminosukeSato/regdiag/stats"
)

// Figure names passed to the Sink.
const (
	ResidualsVsFittedName   = "residuals_vs_fitted"
	NormalQQName            = "normal_qq"
	ScaleLocationName       = "scale_location"
	ResidualsVsLeverageName = "residuals_vs_leverage"
)

var (
	trendColor      = color.RGBA{R: 255, A: 255}
	guideColor      = color.RGBA{G: 128, A: 255}
	pointColor      = color.NRGBA{R: 31, G: 119, B: 180, A: 255}
	pointColorAlpha = color.NRGBA{R: 31, G: 119, B: 180, A: 128}
	zeroColor       = color.Gray{Y: 51}
)

// DiagnosticPlotter renders diagnostic plots for one fitted model.
// Its inputs are captured at construction and never mutated.
type DiagnosticPlotter struct {
	fitted    []float64
	residuals []float64
	influence *stats.Influence
	cfg       config
	logger    log.Logger
}

// NewDiagnosticPlotter captures the fitted values and residuals of m and
// computes its influence statistics.
//
// It fails with InvalidModelError when m is nil, not fitted, or does not
// provide matching fitted values and residuals.
func NewDiagnosticPlotter(m model.FittedModel, opts ...Option) (*DiagnosticPlotter, error) {
	const op = "NewDiagnosticPlotter"

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if m == nil {
		return nil, errors.NewInvalidModelError(op, "model is nil")
	}

	var fitted, resid []float64
	err := errors.SafeExecute(op, func() error {
		if !model.CheckFitted(m) {
			return errors.NewInvalidModelError(op, "model is not fitted")
		}
		fitted = m.FittedValues()
		resid = m.Residuals()
		return nil
	})
	if err != nil {
		var panicErr *errors.PanicError
		if errors.As(err, &panicErr) {
			return nil, errors.NewInvalidModelError(op, fmt.Sprintf("model cannot report fitted values: %v", panicErr.PanicValue))
		}
		return nil, err
	}

	switch {
	case len(fitted) == 0:
		return nil, errors.NewInvalidModelError(op, "model has no fitted values")
	case len(resid) == 0:
		return nil, errors.NewInvalidModelError(op, "model has no residuals")
	case len(fitted) != len(resid):
		return nil, errors.NewInvalidModelError(op,
			fmt.Sprintf("fitted values (%d) and residuals (%d) differ in length", len(fitted), len(resid)))
	}

	inf, err := cfg.influence.Influence(m)
	if err != nil {
		return nil, errors.Wrap(err, op)
	}
	if inf == nil || inf.Len() != len(resid) || len(inf.StandardizedResiduals) != len(resid) {
		got := 0
		if inf != nil {
			got = inf.Len()
		}
		return nil, errors.NewDimensionError(op, len(resid), got, 0)
	}

	d := &DiagnosticPlotter{
		fitted:    append([]float64(nil), fitted...),
		residuals: append([]float64(nil), resid...),
		influence: inf,
		cfg:       cfg,
		logger:    cfg.logger.With(log.PhaseKey, log.PhaseDiagnostic),
	}

	fields := []any{log.OperationKey, log.OperationInfluence, log.SamplesKey, len(resid)}
	if summary, err := stats.Summarize(inf); err == nil {
		fields = append(fields,
			log.OutlierCountKey, len(summary.Outliers),
			log.MaxLeverageKey, summary.MaxLeverage,
		)
	} else {
		d.logger.Warn("residual summary unavailable", err)
	}
	d.logger.Info("diagnostic plotter ready", fields...)

	return d, nil
}

// Leverage returns a copy of the per-observation hat values.
func (d *DiagnosticPlotter) Leverage() []float64 {
	return append([]float64(nil), d.influence.Leverage...)
}

// StandardizedResiduals returns a copy of the internally studentized residuals.
func (d *DiagnosticPlotter) StandardizedResiduals() []float64 {
	return append([]float64(nil), d.influence.StandardizedResiduals...)
}

// Summary summarizes the standardized residuals and leverage.
func (d *DiagnosticPlotter) Summary() (*stats.ResidualSummary, error) {
	return stats.Summarize(d.influence)
}

// PlotResidualsVsFitted plots residuals against fitted values with a LOWESS
// trend. Curvature suggests non-linearity; a funnel suggests heteroscedasticity.
func (d *DiagnosticPlotter) PlotResidualsVsFitted() error {
	return d.render(ResidualsVsFittedName, d.cfg.width, d.cfg.height, d.residualsVsFitted)
}

// PlotNormalQQ plots sorted standardized residuals against standard normal
// quantiles with the 45° reference line.
func (d *DiagnosticPlotter) PlotNormalQQ() error {
	return d.render(NormalQQName, d.cfg.qqWidth, d.cfg.qqHeight, d.normalQQ)
}

// PlotScaleLocation plots sqrt(|residual|) against fitted values with a LOWESS trend.
func (d *DiagnosticPlotter) PlotScaleLocation() error {
	return d.render(ScaleLocationName, d.cfg.width, d.cfg.height, d.scaleLocation)
}

// PlotResidualsVsLeverage plots standardized residuals against leverage with
// a LOWESS trend, a line at 0 and guides at ±2.
func (d *DiagnosticPlotter) PlotResidualsVsLeverage() error {
	return d.render(ResidualsVsLeverageName, d.cfg.width, d.cfg.height, d.residualsVsLeverage)
}

// PlotAll renders the four plots in order and stops at the first failure.
func (d *DiagnosticPlotter) PlotAll() error {
	for _, fn := range []func() error{
		d.PlotResidualsVsFitted,
		d.PlotNormalQQ,
		d.PlotScaleLocation,
		d.PlotResidualsVsLeverage,
	} {
		if err := fn(); err != nil {
			return err
		}
	}
	return nil
}

// figure は1枚の図の見出しと重ね描きする要素
type figure struct {
	title, xLabel, yLabel string
	layers                []plot.Plotter
}

func newFigure(title, xLabel, yLabel string) *figure {
	return &figure{title: title, xLabel: xLabel, yLabel: yLabel}
}

func (f *figure) add(ps ...plot.Plotter) {
	f.layers = append(f.layers, ps...)
}

func (f *figure) toPlot() *plot.Plot {
	p := plot.New()
	p.Title.Text = f.title
	p.X.Label.Text = f.xLabel
	p.Y.Label.Text = f.yLabel
	p.Add(f.layers...)
	return p
}

func (d *DiagnosticPlotter) render(name string, width, height vg.Length, build func() (*figure, error)) error {
	op := "Plot:" + name
	err := errors.SafeExecute(op, func() error {
		f, err := build()
		if err != nil {
			return err
		}
		return d.cfg.sink.Write(name, f.toPlot(), width, height)
	})
	if err != nil {
		d.logger.Error("plot failed", err, log.PlotKey, name)
		return errors.Wrap(err, op)
	}
	d.logger.Debug("plot rendered",
		log.OperationKey, log.OperationPlot,
		log.PlotKey, name,
		log.SinkKey, fmt.Sprint(d.cfg.sink),
	)
	return nil
}

func (d *DiagnosticPlotter) residualsVsFitted() (*figure, error) {
	p := newFigure("Residuals vs Fitted", "Fitted values", "Residuals")
	if err := d.addScatterWithTrend(p, d.fitted, d.residuals, pointColor); err != nil {
		return nil, err
	}
	p.add(hline(0, zeroColor, []vg.Length{vg.Points(1), vg.Points(2)}))
	return p, nil
}

func (d *DiagnosticPlotter) normalQQ() (*figure, error) {
	p := newFigure("Normal Q-Q Plot", "Theoretical Quantiles", "Sample Quantiles")

	sample := finiteValues(d.influence.StandardizedResiduals)
	theoretical, ordered, err := stats.NormalQQ(sample)
	if err != nil {
		return nil, err
	}
	pts, err := scatter(theoretical, ordered, pointColor)
	if err != nil {
		return nil, err
	}

	ref := plotter.NewFunction(func(x float64) float64 { return x })
	ref.LineStyle.Color = trendColor
	ref.LineStyle.Width = vg.Points(1)

	p.add(pts, ref)
	return p, nil
}

func (d *DiagnosticPlotter) scaleLocation() (*figure, error) {
	p := newFigure("Scale-Location Plot", "Fitted values", "sqrt(|Residuals|)")

	y := make([]float64, len(d.residuals))
	for i, e := range d.residuals {
		y[i] = math.Sqrt(math.Abs(e))
	}
	if err := d.addScatterWithTrend(p, d.fitted, y, pointColor); err != nil {
		return nil, err
	}
	return p, nil
}

func (d *DiagnosticPlotter) residualsVsLeverage() (*figure, error) {
	p := newFigure("Residuals vs Leverage", "Leverage", "Standardized Residuals")

	if err := d.addScatterWithTrend(p, d.influence.Leverage, d.influence.StandardizedResiduals, pointColorAlpha); err != nil {
		return nil, err
	}
	dashes := []vg.Length{vg.Points(5), vg.Points(3)}
	p.add(
		hline(0, trendColor, nil),
		hline(-stats.OutlierThreshold, guideColor, dashes),
		hline(stats.OutlierThreshold, guideColor, dashes),
	)
	return p, nil
}

// addScatterWithTrend adds the points (x, y) and their LOWESS curve.
// Pairs with a non-finite coordinate are left out of both.
func (d *DiagnosticPlotter) addScatterWithTrend(p *figure, x, y []float64, c color.Color) error {
	fx, fy := finitePairs(x, y)
	if dropped := len(x) - len(fx); dropped > 0 {
		d.logger.Warn("dropping non-finite points", "dropped", dropped)
	}

	pts, err := scatter(fx, fy, c)
	if err != nil {
		return err
	}
	p.add(pts)

	sx, sy, err := stats.Lowess(fx, fy, d.cfg.lowessFrac, d.cfg.lowessIterations)
	if err != nil {
		return err
	}
	sx, sy = finitePairs(sx, sy)
	line, err := plotter.NewLine(toXYs(sx, sy))
	if err != nil {
		return errors.Wrap(err, "trend line")
	}
	line.LineStyle.Color = trendColor
	line.LineStyle.Width = vg.Points(1)
	p.add(line)
	return nil
}

func scatter(x, y []float64, c color.Color) (*plotter.Scatter, error) {
	s, err := plotter.NewScatter(toXYs(x, y))
	if err != nil {
		return nil, errors.Wrap(err, "scatter")
	}
	s.GlyphStyle.Color = c
	s.GlyphStyle.Shape = draw.CircleGlyph{}
	s.GlyphStyle.Radius = vg.Points(2.5)
	return s, nil
}

func hline(y float64, c color.Color, dashes []vg.Length) *plotter.Function {
	f := plotter.NewFunction(func(float64) float64 { return y })
	f.LineStyle.Color = c
	f.LineStyle.Width = vg.Points(1)
	f.LineStyle.Dashes = dashes
	return f
}

func toXYs(x, y []float64) plotter.XYs {
	xys := make(plotter.XYs, len(x))
	for i := range x {
		xys[i].X = x[i]
		xys[i].Y = y[i]
	}
	return xys
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func finiteValues(v []float64) []float64 {
	out := make([]float64, 0, len(v))
	for _, x := range v {
		if isFinite(x) {
			out = append(out, x)
		}
	}
	return out
}

func finitePairs(x, y []float64) ([]float64, []float64) {
	fx := make([]float64, 0, len(x))
	fy := make([]float64, 0, len(y))
	for i := range x {
		if isFinite(x[i]) && isFinite(y[i]) {
			fx = append(fx, x[i])
			fy = append(fy, y[i])
		}
	}
	return fx, fy
}
