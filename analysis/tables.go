package analysis

import (
	"strconv"

	"github.com/benjaminmoon/EOT-forams/pkg/artifacts"
	"github.com/benjaminmoon/EOT-forams/pkg/morphospace"
	"github.com/benjaminmoon/EOT-forams/pkg/stats"
)

// Converters from typed results to flat artifact tables. Column order is
// part of the published output format; keep it stable.

func pairwiseTable(name string, results []stats.PairwiseResult) artifacts.Table {
	t := artifacts.Table{
		Name: name,
		Columns: []artifacts.Column{
			{Name: "variable", Kind: artifacts.Text},
			{Name: "group_a", Kind: artifacts.Text},
			{Name: "group_b", Kind: artifacts.Text},
			{Name: "n_a", Kind: artifacts.Integer},
			{Name: "n_b", Kind: artifacts.Integer},
			{Name: "statistic", Kind: artifacts.Real},
			{Name: "p_value", Kind: artifacts.Real},
			{Name: "significance", Kind: artifacts.Text},
		},
	}
	for _, r := range results {
		t.Rows = append(t.Rows, []string{
			r.Variable, r.GroupA.String(), r.GroupB.String(),
			artifacts.I(r.NA), artifacts.I(r.NB),
			artifacts.F(r.Statistic), artifacts.F(r.P), r.Band,
		})
	}
	return t
}

func sweepTable(rows []stats.SweepRow) artifacts.Table {
	t := artifacts.Table{
		Name: "gls_sweep",
		Columns: []artifacts.Column{
			{Name: "response", Kind: artifacts.Text},
			{Name: "model", Kind: artifacts.Text},
			{Name: "series", Kind: artifacts.Text},
			{Name: "term", Kind: artifacts.Text},
			{Name: "estimate", Kind: artifacts.Real},
			{Name: "std_err", Kind: artifacts.Real},
			{Name: "rho", Kind: artifacts.Real},
			{Name: "log_lik", Kind: artifacts.Real},
			{Name: "aic", Kind: artifacts.Real},
			{Name: "delta_aic", Kind: artifacts.Real},
			{Name: "delta_log_lik", Kind: artifacts.Real},
			{Name: "n", Kind: artifacts.Integer},
		},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.Response, r.Model, r.Series.String(), r.Term,
			artifacts.F(r.Estimate), artifacts.F(r.StdErr), artifacts.F(r.Rho),
			artifacts.F(r.LogLik), artifacts.F(r.AIC),
			artifacts.F(r.DeltaAIC), artifacts.F(r.DeltaLogLik),
			artifacts.I(r.N),
		})
	}
	return t
}

func permanovaTable(name string, tests []morphospace.SeparationTest) artifacts.Table {
	t := artifacts.Table{
		Name: name,
		Columns: []artifacts.Column{
			{Name: "group_a", Kind: artifacts.Text},
			{Name: "group_b", Kind: artifacts.Text},
			{Name: "n_a", Kind: artifacts.Integer},
			{Name: "n_b", Kind: artifacts.Integer},
			{Name: "f", Kind: artifacts.Real},
			{Name: "r2", Kind: artifacts.Real},
			{Name: "p_value", Kind: artifacts.Real},
			{Name: "permutations", Kind: artifacts.Integer},
		},
	}
	for _, ts := range tests {
		t.Rows = append(t.Rows, []string{
			ts.GroupA.String(), ts.GroupB.String(),
			artifacts.I(ts.NA), artifacts.I(ts.NB),
			artifacts.F(ts.F), artifacts.F(ts.R2), artifacts.F(ts.P),
			artifacts.I(ts.Permutations),
		})
	}
	return t
}

func disparityTable(name string, summaries []morphospace.DisparitySummary) artifacts.Table {
	t := artifacts.Table{
		Name: name,
		Columns: []artifacts.Column{
			{Name: "series", Kind: artifacts.Text},
			{Name: "n", Kind: artifacts.Integer},
			{Name: "replicates", Kind: artifacts.Integer},
			{Name: "mean", Kind: artifacts.Real},
			{Name: "ci_lower", Kind: artifacts.Real},
			{Name: "ci_upper", Kind: artifacts.Real},
		},
	}
	for _, s := range summaries {
		t.Rows = append(t.Rows, []string{
			s.Series.String(), artifacts.I(s.N), artifacts.I(s.Replicates),
			artifacts.F(s.Mean), artifacts.F(s.Lower), artifacts.F(s.Upper),
		})
	}
	return t
}

func disparitySamplesTable(name string, samples []morphospace.DisparitySample) artifacts.Table {
	t := artifacts.Table{
		Name: name,
		Columns: []artifacts.Column{
			{Name: "series", Kind: artifacts.Text},
			{Name: "replicate", Kind: artifacts.Integer},
			{Name: "disparity", Kind: artifacts.Real},
		},
	}
	for _, s := range samples {
		t.Rows = append(t.Rows, []string{
			s.Series.String(), artifacts.I(s.Replicate), artifacts.F(s.Disparity),
		})
	}
	return t
}

func scoresTable(name string, d *morphospace.Decomposition) artifacts.Table {
	t := artifacts.Table{
		Name: name,
		Columns: []artifacts.Column{
			{Name: "sample", Kind: artifacts.Text},
			{Name: "series", Kind: artifacts.Text},
			{Name: "age_ma", Kind: artifacts.Real},
		},
	}
	k := d.Components()
	for c := 0; c < k; c++ {
		t.Columns = append(t.Columns, artifacts.Column{Name: pcName(c), Kind: artifacts.Real})
	}
	for i, id := range d.SampleIDs {
		row := []string{id, d.Series[i].String(), artifacts.F(d.Ages[i])}
		for c := 0; c < k; c++ {
			row = append(row, artifacts.F(d.Scores.At(i, c)))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func loadingsTable(name string, d *morphospace.Decomposition) artifacts.Table {
	t := artifacts.Table{
		Name: name,
		Columns: []artifacts.Column{
			{Name: "trait", Kind: artifacts.Text},
		},
	}
	k := d.Components()
	for c := 0; c < k; c++ {
		t.Columns = append(t.Columns, artifacts.Column{Name: pcName(c), Kind: artifacts.Real})
	}
	for i, trait := range d.Traits {
		row := []string{trait}
		for c := 0; c < k; c++ {
			row = append(row, artifacts.F(d.Loadings.At(i, c)))
		}
		t.Rows = append(t.Rows, row)
	}

	// Percent variance as a trailing pseudo-row keeps the published
	// loadings-table format.
	pv := []string{"percent_variance"}
	for c := 0; c < k; c++ {
		pv = append(pv, artifacts.F(d.PercentVar[c]))
	}
	t.Rows = append(t.Rows, pv)
	return t
}

func pcName(i int) string {
	return "pc" + strconv.Itoa(i+1)
}
