package morphospace

import (
	"math"
	"math/rand"

	"go.uber.org/zap"

	"github.com/benjaminmoon/EOT-forams/pkg/dataset"
)

// SeparationTest is one pairwise permutation test of group-centroid
// separation (NPMANOVA) between two series.
type SeparationTest struct {
	Space        string         `json:"space"`
	GroupA       dataset.Series `json:"groupA"`
	GroupB       dataset.Series `json:"groupB"`
	NA, NB       int            `json:"-"`
	F            float64        `json:"f"`
	R2           float64        `json:"r2"`
	P            float64        `json:"p"`
	Permutations int            `json:"permutations"`
}

// PairwiseSeparation runs the permutation test for every series pair on the
// standardized trait matrix, using Euclidean distances. The permutation
// p-value is (#{F_perm >= F_obs} + 1) / (permutations + 1). Pairs with
// fewer than two specimens in a group cannot partition the distances and
// produce a row with NaN statistics rather than aborting the table.
func PairwiseSeparation(logger *zap.Logger, d *Decomposition, permutations int, rng *rand.Rand) []SeparationTest {
	var tests []SeparationTest
	for _, pair := range dataset.SeriesPairs {
		rowsA := d.SeriesRows(pair[0])
		rowsB := d.SeriesRows(pair[1])
		var test SeparationTest
		if len(rowsA) < 2 || len(rowsB) < 2 {
			logger.Warn("separation test degenerate",
				zap.String("space", d.Name),
				zap.String("pair", pair[0].String()+"-"+pair[1].String()),
				zap.Int("nA", len(rowsA)),
				zap.Int("nB", len(rowsB)))
			test = SeparationTest{
				NA: len(rowsA), NB: len(rowsB),
				F: math.NaN(), R2: math.NaN(), P: math.NaN(),
				Permutations: permutations,
			}
		} else {
			test = separationTest(d, rowsA, rowsB, permutations, rng)
		}
		test.Space = d.Name
		test.GroupA = pair[0]
		test.GroupB = pair[1]
		tests = append(tests, test)
		logger.Info("pairwise separation test",
			zap.String("space", d.Name),
			zap.String("pair", pair[0].String()+"-"+pair[1].String()),
			zap.Float64("F", test.F),
			zap.Float64("R2", test.R2),
			zap.Float64("p", test.P))
	}
	return tests
}

func separationTest(d *Decomposition, rowsA, rowsB []int, permutations int, rng *rand.Rand) SeparationTest {
	rows := append(append([]int{}, rowsA...), rowsB...)
	n := len(rows)
	nA := len(rowsA)

	// Squared Euclidean distances within the pair's subset, computed once
	// and shared by every permutation.
	d2 := make([][]float64, n)
	for i := range d2 {
		d2[i] = make([]float64, n)
	}
	_, p := d.Std.Dims()
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			var sum float64
			for k := 0; k < p; k++ {
				diff := d.Std.At(rows[i], k) - d.Std.At(rows[j], k)
				sum += diff * diff
			}
			d2[i][j] = sum
			d2[j][i] = sum
		}
	}

	// Group membership as a boolean over subset positions: true = group A.
	inA := make([]bool, n)
	for i := 0; i < nA; i++ {
		inA[i] = true
	}

	fObs, r2 := partitionF(d2, inA, nA, n)

	exceed := 0
	perm := make([]bool, n)
	for it := 0; it < permutations; it++ {
		copy(perm, inA)
		rng.Shuffle(n, func(i, j int) { perm[i], perm[j] = perm[j], perm[i] })
		if fPerm, _ := partitionF(d2, perm, nA, n); fPerm >= fObs {
			exceed++
		}
	}

	return SeparationTest{
		NA: nA, NB: n - nA,
		F:            fObs,
		R2:           r2,
		P:            float64(exceed+1) / float64(permutations+1),
		Permutations: permutations,
	}
}

// partitionF computes the pseudo-F statistic and semi-partial R2 from the
// squared-distance partition: total sum of squares over all pairs versus
// within-group sums.
func partitionF(d2 [][]float64, inA []bool, nA, n int) (f, r2 float64) {
	var sst, sswA, sswB float64
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			sst += d2[i][j]
			switch {
			case inA[i] && inA[j]:
				sswA += d2[i][j]
			case !inA[i] && !inA[j]:
				sswB += d2[i][j]
			}
		}
	}
	sst /= float64(n)
	ssw := sswA/float64(nA) + sswB/float64(n-nA)
	ssa := sst - ssw

	// Two groups: numerator df = 1, denominator df = n - 2.
	f = ssa / (ssw / float64(n-2))
	r2 = ssa / sst
	return f, r2
}
