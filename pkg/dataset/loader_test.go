package dataset

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const sample2D = `sample,depth_mbsf,age_2012_ma,age_2020_ma,d13c_pl,d18o_pl,d13c_be,d18o_be,series,P,D,R1,R2,WT1,CR1
s1,120.5,34.1,33.9,1.2,-0.5,0.9,1.1,Eocene,210,340,150,310,12,1.4
s2,118.0,33.8,33.6,1.1,-0.4,,1.0,EOT,195,,140,295,11,1.3
s3,115.2,33.2,33.0,0.8,-0.1,0.7,0.9,Oligocene,180,300,135,,10,1.2
s4,114.0,33.0,32.8,0.9,0.0,0.6,0.8,Rupelian,170,290,130,280,9,1.1
`

func TestParseMorphometrics(t *testing.T) {
	l := NewLoader(zap.NewNop(), AgeModel2020)
	table, dropped, err := l.parseMorphometrics(strings.NewReader(sample2D), "2d")
	require.NoError(t, err)

	assert.Equal(t, 1, dropped, "row with unknown series label should be dropped")
	require.Len(t, table.Specimens, 3)
	assert.Equal(t, []string{"P", "D", "R1", "R2", "WT1", "CR1"}, table.Columns)

	// Sorted by descending age.
	for i := 1; i < len(table.Specimens); i++ {
		assert.GreaterOrEqual(t, table.Specimens[i-1].Age, table.Specimens[i].Age)
	}

	s1 := table.Specimens[0]
	assert.Equal(t, "s1", s1.SampleID)
	assert.Equal(t, Eocene, s1.Series)
	assert.InDelta(t, 33.9, s1.Age, 1e-9)
	assert.InDelta(t, 210, s1.Value("P"), 1e-9)

	// Empty cells are explicit NaN, both for isotopes and measurements.
	s2 := table.Specimens[1]
	assert.True(t, math.IsNaN(s2.D13CBenthic))
	assert.True(t, math.IsNaN(s2.Value("D")))
}

func TestParseMorphometricsAgeModel2012(t *testing.T) {
	l := NewLoader(zap.NewNop(), AgeModel2012)
	table, _, err := l.parseMorphometrics(strings.NewReader(sample2D), "2d")
	require.NoError(t, err)
	assert.InDelta(t, 34.1, table.Specimens[0].Age, 1e-9)
}

func TestParseMorphometricsMissingColumn(t *testing.T) {
	l := NewLoader(zap.NewNop(), AgeModel2020)
	_, _, err := l.parseMorphometrics(strings.NewReader("sample,depth_mbsf\n"), "2d")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required column")
}

func TestMeanOf(t *testing.T) {
	s := Specimen{Measures: map[string]float64{"WT1": 10, "WT2": 14}}
	assert.InDelta(t, 12, s.MeanOf([]string{"WT1", "WT2", "WT3"}), 1e-9)
	assert.True(t, math.IsNaN(s.MeanOf([]string{"WT4"})))
}
