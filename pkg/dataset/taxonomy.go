package dataset

import "strings"

// TaxEntry maps a short measurement column prefix onto a display label.
// A column belongs to an entry when it is the prefix followed by nothing or
// by a whorl/chamber index, so "R3" matches prefix "R" but "CR3" does not.
type TaxEntry struct {
	Prefix string // column-name prefix, e.g. "WT"
	Label  string // human-readable measurement name
	Unit   string // display unit, empty for counts and ratios
}

// Taxonomy2D covers the thin-section morphometric columns.
var Taxonomy2D = []TaxEntry{
	{Prefix: "P", Label: "Proloculus length", Unit: "µm"},
	{Prefix: "D", Label: "Deuteroconch length", Unit: "µm"},
	{Prefix: "R", Label: "Whorl radius", Unit: "µm"},
	{Prefix: "WT", Label: "Wall thickness", Unit: "µm"},
	{Prefix: "NC", Label: "Chambers per whorl", Unit: ""},
	{Prefix: "CA", Label: "Calcite area", Unit: "µm²"},
	{Prefix: "CL", Label: "Chamber length", Unit: "µm"},
	{Prefix: "CW", Label: "Chamber width", Unit: "µm"},
	{Prefix: "CR", Label: "Chamber aspect ratio", Unit: ""},
}

// Taxonomy3D covers the CT-scan volumetric columns. The prefixes overlap
// with Taxonomy2D but carry different meanings, so the two sets are kept
// separate rather than merged.
var Taxonomy3D = []TaxEntry{
	{Prefix: "VP", Label: "Proloculus volume", Unit: "µm³"},
	{Prefix: "V", Label: "Whorl volume", Unit: "µm³"},
	{Prefix: "NC", Label: "Chambers per whorl", Unit: ""},
	{Prefix: "D", Label: "Test diameter", Unit: "µm"},
	{Prefix: "T", Label: "Test thickness", Unit: "µm"},
}

// Matches reports whether column belongs to this taxonomy entry.
func (e TaxEntry) Matches(column string) bool {
	if !strings.HasPrefix(column, e.Prefix) {
		return false
	}
	rest := column[len(e.Prefix):]
	for _, r := range rest {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Bucket returns the taxonomy entry a column belongs to. Longer prefixes win
// so that, e.g., "VP" is never claimed by "V". The second return is false
// when no entry matches.
func Bucket(taxonomy []TaxEntry, column string) (TaxEntry, bool) {
	var best TaxEntry
	found := false
	for _, e := range taxonomy {
		if e.Matches(column) && (!found || len(e.Prefix) > len(best.Prefix)) {
			best = e
			found = true
		}
	}
	return best, found
}
