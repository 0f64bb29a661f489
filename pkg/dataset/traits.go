package dataset

// Trait is a named scalar quantity derived per specimen. Traits are how the
// regression sweep and the morphospace select their working variables
// without reshaping.
type Trait struct {
	Name  string
	Value func(*Specimen) float64
}

// ColumnTrait reads a single measurement column.
func ColumnTrait(column, name string) Trait {
	return Trait{Name: name, Value: func(s *Specimen) float64 { return s.Value(column) }}
}

// MeanTrait averages every column of the table matching the taxonomy entry.
func MeanTrait(t *Table, e TaxEntry, name string) Trait {
	cols := t.Matching(e)
	return Trait{Name: name, Value: func(s *Specimen) float64 { return s.MeanOf(cols) }}
}

// SweepResponses are the three response measurements of the regression
// sweep: proloculus size, mean wall thickness, mean whorl radius.
func SweepResponses(t *Table) []Trait {
	return []Trait{
		ColumnTrait("P", "proloculus"),
		MeanTrait(t, TaxEntry{Prefix: "WT"}, "wall_thickness"),
		MeanTrait(t, TaxEntry{Prefix: "R"}, "whorl_radius"),
	}
}

// Predictor is a named isotope covariate of the regression sweep.
type Predictor struct {
	Name  string
	Value func(*Specimen) float64
}

// SweepPredictors are the two planktonic isotope ratios every candidate
// model draws from.
var SweepPredictors = []Predictor{
	{Name: "d13C", Value: func(s *Specimen) float64 { return s.D13CPlanktonic }},
	{Name: "d18O", Value: func(s *Specimen) float64 { return s.D18OPlanktonic }},
}

// MorphospaceTraits2D is the four-trait vector of the thin-section
// morphospace.
func MorphospaceTraits2D(t *Table) []Trait {
	return []Trait{
		ColumnTrait("P", "proloculus"),
		ColumnTrait("D", "deuteroconch"),
		MeanTrait(t, TaxEntry{Prefix: "WT"}, "wall_thickness"),
		MeanTrait(t, TaxEntry{Prefix: "R"}, "whorl_radius"),
	}
}

// MorphospaceTraits3D is the seven-trait vector of the CT-scan morphospace.
func MorphospaceTraits3D(t *Table) []Trait {
	return []Trait{
		ColumnTrait("VP", "proloculus_volume"),
		ColumnTrait("V1", "whorl_volume_1"),
		ColumnTrait("V2", "whorl_volume_2"),
		ColumnTrait("V3", "whorl_volume_3"),
		MeanTrait(t, TaxEntry{Prefix: "D"}, "diameter"),
		MeanTrait(t, TaxEntry{Prefix: "T"}, "thickness"),
		MeanTrait(t, TaxEntry{Prefix: "NC"}, "chambers"),
	}
}
