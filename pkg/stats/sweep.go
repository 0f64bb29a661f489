package stats

import (
	"math"
	"strings"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/benjaminmoon/EOT-forams/pkg/dataset"
)

// InterceptTerm is the coefficient name of the intercept in every fitted
// model and in the sweep's sentinel rows; consumers filtering intercepts
// out must match on it.
const InterceptTerm = "(Intercept)"

// ModelSpec is one candidate model of the sweep: an intercept plus a subset
// of the isotope predictors. The empty subset is the null model, named "1".
type ModelSpec struct {
	Name       string
	Predictors []dataset.Predictor
}

// CandidateModels enumerates the null model and every non-empty predictor
// subset, smallest first: 1, d13C, d18O, d13C+d18O for the standard pair.
func CandidateModels(predictors []dataset.Predictor) []ModelSpec {
	models := []ModelSpec{{Name: "1"}}
	total := 1 << len(predictors)
	for size := 1; size < len(predictors)+1; size++ {
		for bits := 1; bits < total; bits++ {
			var subset []dataset.Predictor
			for i, p := range predictors {
				if bits&(1<<i) != 0 {
					subset = append(subset, p)
				}
			}
			if len(subset) != size {
				continue
			}
			names := make([]string, len(subset))
			for i, p := range subset {
				names[i] = p.Name
			}
			models = append(models, ModelSpec{Name: strings.Join(names, "+"), Predictors: subset})
		}
	}
	return models
}

// SweepRow is one coefficient of one fitted (or failed) candidate model.
// Failed fits carry the sentinel shape: the intercept term with every
// statistic NaN, so the result table is uniform across the grid.
type SweepRow struct {
	Response    string         `json:"response"`
	Model       string         `json:"model"`
	Series      dataset.Series `json:"series"`
	Term        string         `json:"term"`
	Estimate    float64        `json:"estimate"`
	StdErr      float64        `json:"stdErr"`
	Rho         float64        `json:"rho"`
	LogLik      float64        `json:"logLik"`
	AIC         float64        `json:"aic"`
	DeltaAIC    float64        `json:"deltaAic"`
	DeltaLogLik float64        `json:"deltaLogLik"`
	N           int            `json:"n"`
}

// Sweep fits every candidate model of each response within each series.
type Sweep struct {
	logger *zap.Logger
}

func NewSweep(logger *zap.Logger) *Sweep {
	return &Sweep{logger: logger}
}

// Run executes the full grid. The complete-case row set is computed once
// per (series, response) over the FULL predictor set and reused for every
// nested model including the null, which keeps row counts comparable
// without the original analysis's null-model predictor hack.
func (sw *Sweep) Run(table *dataset.Table) []SweepRow {
	responses := dataset.SweepResponses(table)
	models := CandidateModels(dataset.SweepPredictors)
	groups := table.BySeries()

	var rows []SweepRow
	for _, response := range responses {
		for _, series := range dataset.SeriesOrder {
			specs := completeCases(groups[series], response, dataset.SweepPredictors)
			groupStart := len(rows)
			for _, model := range models {
				rows = append(rows, sw.fitCell(response, model, series, specs)...)
			}
			applyDeltas(rows[groupStart:])
		}
	}
	sw.logger.Info("regression sweep complete",
		zap.String("table", table.Name),
		zap.Int("responses", len(responses)),
		zap.Int("models", len(models)),
		zap.Int("rows", len(rows)))
	return rows
}

func (sw *Sweep) fitCell(response dataset.Trait, model ModelSpec, series dataset.Series, specs []dataset.Specimen) []SweepRow {
	sentinel := SweepRow{
		Response: response.Name,
		Model:    model.Name,
		Series:   series,
		Term:     InterceptTerm,
		Estimate: math.NaN(), StdErr: math.NaN(), Rho: math.NaN(),
		LogLik: math.NaN(), AIC: math.NaN(),
		DeltaAIC: math.NaN(), DeltaLogLik: math.NaN(),
		N: len(specs),
	}

	n := len(specs)
	p := len(model.Predictors) + 1
	if n < p+3 {
		sw.warnFit(response.Name, model.Name, series, "insufficient complete cases", nil)
		return []SweepRow{sentinel}
	}

	y := make([]float64, n)
	x := mat.NewDense(n, p, nil)
	terms := make([]string, p)
	terms[0] = InterceptTerm
	for j, pred := range model.Predictors {
		terms[j+1] = pred.Name
	}
	for i := range specs {
		y[i] = response.Value(&specs[i])
		x.Set(i, 0, 1)
		for j, pred := range model.Predictors {
			x.Set(i, j+1, pred.Value(&specs[i]))
		}
	}

	fit, err := FitAR1(y, x, terms)
	if err != nil {
		sw.warnFit(response.Name, model.Name, series, "fit failed", err)
		return []SweepRow{sentinel}
	}

	out := make([]SweepRow, len(fit.Terms))
	for i, term := range fit.Terms {
		out[i] = SweepRow{
			Response: response.Name,
			Model:    model.Name,
			Series:   series,
			Term:     term,
			Estimate: fit.Coef[i],
			StdErr:   fit.StdErr[i],
			Rho:      fit.Rho,
			LogLik:   fit.LogLik,
			AIC:      fit.AIC,
			DeltaAIC: math.NaN(), DeltaLogLik: math.NaN(),
			N: fit.N,
		}
	}
	return out
}

func (sw *Sweep) warnFit(response, model string, series dataset.Series, reason string, err error) {
	fields := []zap.Field{
		zap.String("response", response),
		zap.String("model", model),
		zap.String("series", series.String()),
		zap.String("reason", reason),
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	sw.logger.Warn("sweep cell substituted with sentinel", fields...)
}

// completeCases keeps specimens with the response, every predictor, and the
// age present, preserving the table's descending-age order.
func completeCases(specs []dataset.Specimen, response dataset.Trait, predictors []dataset.Predictor) []dataset.Specimen {
	var out []dataset.Specimen
	for i := range specs {
		sp := specs[i]
		if math.IsNaN(sp.Age) || math.IsNaN(response.Value(&sp)) {
			continue
		}
		ok := true
		for _, p := range predictors {
			if math.IsNaN(p.Value(&sp)) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, sp)
		}
	}
	return out
}

// applyDeltas fills deltaAIC and deltaLogLik within one (series, response)
// group. Sentinel rows keep NaN deltas.
func applyDeltas(group []SweepRow) {
	minAIC := math.Inf(1)
	maxLL := math.Inf(-1)
	for _, r := range group {
		if !math.IsNaN(r.AIC) && r.AIC < minAIC {
			minAIC = r.AIC
		}
		if !math.IsNaN(r.LogLik) && r.LogLik > maxLL {
			maxLL = r.LogLik
		}
	}
	if math.IsInf(minAIC, 1) {
		return
	}
	for i := range group {
		if math.IsNaN(group[i].AIC) {
			continue
		}
		group[i].DeltaAIC = group[i].AIC - minAIC
		group[i].DeltaLogLik = group[i].LogLik - maxLL
	}
}
