package morphospace

import (
	"math"
	"math/rand"
	"sort"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/benjaminmoon/EOT-forams/pkg/dataset"
	"github.com/benjaminmoon/EOT-forams/pkg/stats"
)

// DisparitySummary aggregates the bootstrap disparity distribution of one
// series: mean and 2.5/97.5 percentile bounds of the sum-of-variances
// statistic.
type DisparitySummary struct {
	Space      string         `json:"space"`
	Series     dataset.Series `json:"series"`
	N          int            `json:"n"`
	Replicates int            `json:"replicates"`
	Mean       float64        `json:"mean"`
	Lower      float64        `json:"lower"` // 2.5th percentile
	Upper      float64        `json:"upper"` // 97.5th percentile
}

// DisparitySample is one bootstrap replicate's disparity, retained so the
// series' distributions can be compared downstream.
type DisparitySample struct {
	Space     string         `json:"space"`
	Series    dataset.Series `json:"series"`
	Replicate int            `json:"replicate"`
	Disparity float64        `json:"disparity"`
}

// BootstrapDisparity resamples each series' score rows with replacement
// (same size as the group) and computes the per-replicate disparity as the
// sum of per-component variances.
func BootstrapDisparity(logger *zap.Logger, d *Decomposition, replicates int, rng *rand.Rand) ([]DisparitySummary, []DisparitySample) {
	var summaries []DisparitySummary
	var samples []DisparitySample
	k := d.Components()

	for _, series := range dataset.SeriesOrder {
		rows := d.SeriesRows(series)
		n := len(rows)
		if n < 2 {
			logger.Warn("disparity bootstrap skipped",
				zap.String("space", d.Name),
				zap.String("series", series.String()),
				zap.Int("n", n))
			continue
		}

		values := make([]float64, 0, replicates)
		col := make([]float64, n)
		resample := make([]int, n)
		for rep := 0; rep < replicates; rep++ {
			// One shared resample of whole score rows per replicate;
			// every component's variance comes from the same
			// pseudo-specimens.
			for i := range resample {
				resample[i] = rows[rng.Intn(n)]
			}
			var disparity float64
			for c := 0; c < k; c++ {
				for i, r := range resample {
					col[i] = d.Scores.At(r, c)
				}
				disparity += stat.Variance(col, nil)
			}
			values = append(values, disparity)
			samples = append(samples, DisparitySample{
				Space: d.Name, Series: series, Replicate: rep + 1, Disparity: disparity,
			})
		}

		sorted := append([]float64{}, values...)
		sort.Float64s(sorted)
		summaries = append(summaries, DisparitySummary{
			Space:      d.Name,
			Series:     series,
			N:          n,
			Replicates: replicates,
			Mean:       stat.Mean(values, nil),
			Lower:      stat.Quantile(0.025, stat.Empirical, sorted, nil),
			Upper:      stat.Quantile(0.975, stat.Empirical, sorted, nil),
		})
	}
	return summaries, samples
}

// DisparityTTests compares the bootstrap disparity distributions of every
// series pair with Welch t-tests.
func DisparityTTests(samples []DisparitySample) []stats.PairwiseResult {
	bySeries := make(map[dataset.Series][]float64)
	for _, s := range samples {
		bySeries[s.Series] = append(bySeries[s.Series], s.Disparity)
	}

	var results []stats.PairwiseResult
	for _, pair := range dataset.SeriesPairs {
		a := bySeries[pair[0]]
		b := bySeries[pair[1]]
		row := stats.PairwiseResult{
			Variable: "disparity",
			GroupA:   pair[0],
			GroupB:   pair[1],
			NA:       len(a),
			NB:       len(b),
		}
		res, err := stats.Welch(a, b)
		if err != nil {
			row.Statistic = math.NaN()
			row.P = math.NaN()
		} else {
			row.Statistic = res.Statistic
			row.P = res.P
			row.Band = res.Band
		}
		results = append(results, row)
	}
	return results
}
