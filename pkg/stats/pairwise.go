package stats

import (
	"math"

	"go.uber.org/zap"

	"github.com/benjaminmoon/EOT-forams/pkg/dataset"
)

// PairwiseResult is one (variable, series pair) comparison.
type PairwiseResult struct {
	Variable  string         `json:"variable"`
	GroupA    dataset.Series `json:"groupA"`
	GroupB    dataset.Series `json:"groupB"`
	NA, NB    int            `json:"-"`
	Statistic float64        `json:"statistic"`
	P         float64        `json:"p"`
	Band      string         `json:"band"`
}

// PairwiseTester runs Welch t-tests between every pair of series for each
// measurement variable. No multiple-comparison correction is applied; that
// matches the published analysis and is a documented limitation.
type PairwiseTester struct {
	logger *zap.Logger
}

func NewPairwiseTester(logger *zap.Logger) *PairwiseTester {
	return &PairwiseTester{logger: logger}
}

// Compare groups the long rows by measurement column and tests all three
// series pairs per column, in taxonomy order. Pairs that cannot be tested
// (too few observations) produce a row with NaN statistics rather than
// aborting the table.
func (pt *PairwiseTester) Compare(table *dataset.Table, taxonomy []dataset.TaxEntry) []PairwiseResult {
	var results []PairwiseResult
	for _, entry := range taxonomy {
		for _, column := range table.Matching(entry) {
			values := seriesValues(table, column)
			for _, pair := range dataset.SeriesPairs {
				a := values[pair[0]]
				b := values[pair[1]]
				row := PairwiseResult{
					Variable: column,
					GroupA:   pair[0],
					GroupB:   pair[1],
					NA:       len(a),
					NB:       len(b),
				}
				res, err := Welch(a, b)
				if err != nil {
					pt.logger.Warn("pairwise t-test skipped",
						zap.String("variable", column),
						zap.String("pair", pair[0].String()+"-"+pair[1].String()),
						zap.Error(err))
					row.Statistic = math.NaN()
					row.P = math.NaN()
				} else {
					row.Statistic = res.Statistic
					row.P = res.P
					row.Band = res.Band
				}
				results = append(results, row)
			}
		}
	}
	pt.logger.Info("pairwise t-tests complete",
		zap.String("table", table.Name),
		zap.Int("comparisons", len(results)))
	return results
}

// PairP returns the p-value for a (column, series pair) lookup, used by the
// box-plot significance brackets. NaN when the comparison is absent.
func PairP(results []PairwiseResult, column string, a, b dataset.Series) float64 {
	for _, r := range results {
		if r.Variable != column {
			continue
		}
		if (r.GroupA == a && r.GroupB == b) || (r.GroupA == b && r.GroupB == a) {
			return r.P
		}
	}
	return math.NaN()
}

func seriesValues(table *dataset.Table, column string) map[dataset.Series][]float64 {
	out := make(map[dataset.Series][]float64, len(dataset.SeriesOrder))
	for i := range table.Specimens {
		sp := &table.Specimens[i]
		if v := sp.Value(column); !math.IsNaN(v) {
			out[sp.Series] = append(out[sp.Series], v)
		}
	}
	return out
}
