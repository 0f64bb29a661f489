package dataset

import "math"

// Specimen is one measured individual (or, for the isotope table, one
// stratigraphic sample). Measurement columns vary between files, so they are
// carried as a column->value map; missing cells are NaN. Records are never
// mutated after load.
type Specimen struct {
	SampleID string
	Depth    float64 // metres below sea floor
	Age2012  float64 // Ma, Wade et al. 2012 age model
	Age2020  float64 // Ma, updated age model
	Age      float64 // canonical age selected at load
	Series   Series

	// Planktonic and benthic stable-isotope ratios, NaN when the file does
	// not carry them.
	D13CPlanktonic float64
	D18OPlanktonic float64
	D13CBenthic    float64
	D18OBenthic    float64

	Measures map[string]float64
}

// Value returns the named measurement, NaN when absent.
func (s *Specimen) Value(column string) float64 {
	if v, ok := s.Measures[column]; ok {
		return v
	}
	return math.NaN()
}

// MeanOf averages the given measurement columns, skipping missing values.
// NaN when no column has a value.
func (s *Specimen) MeanOf(columns []string) float64 {
	var sum float64
	var n int
	for _, c := range columns {
		v := s.Value(c)
		if !math.IsNaN(v) {
			sum += v
			n++
		}
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

// Table is one loaded dataset: the measurement columns in file order plus
// the specimen records sorted by descending age.
type Table struct {
	Name      string
	Columns   []string
	Specimens []Specimen
}

// Matching returns the measurement columns belonging to a taxonomy entry,
// in file order.
func (t *Table) Matching(e TaxEntry) []string {
	var cols []string
	for _, c := range t.Columns {
		if e.Matches(c) {
			cols = append(cols, c)
		}
	}
	return cols
}

// BySeries groups the table's specimens by series, preserving age order
// within each group.
func (t *Table) BySeries() map[Series][]Specimen {
	groups := make(map[Series][]Specimen, len(SeriesOrder))
	for _, s := range t.Specimens {
		groups[s.Series] = append(groups[s.Series], s)
	}
	return groups
}
