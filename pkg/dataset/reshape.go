package dataset

import (
	"fmt"
	"math"
	"regexp"
)

// LongRow is one (specimen, measurement column) observation in long format.
// Missing cells are carried explicitly as NaN values so that downstream
// grouping sees the full row set.
type LongRow struct {
	SampleID string
	Series   Series
	Age      float64
	Column   string
	Value    float64
}

// Reshape melts the table's measurement columns matching the taxonomy entry
// into long format, one row per (specimen, matched column) in file order.
// A table with no matching columns yields an empty result.
func Reshape(t *Table, e TaxEntry) []LongRow {
	cols := t.Matching(e)
	if len(cols) == 0 {
		return nil
	}
	rows := make([]LongRow, 0, len(cols)*len(t.Specimens))
	for _, sp := range t.Specimens {
		for _, c := range cols {
			rows = append(rows, LongRow{
				SampleID: sp.SampleID,
				Series:   sp.Series,
				Age:      sp.Age,
				Column:   c,
				Value:    sp.Value(c),
			})
		}
	}
	return rows
}

// Complete filters a long table down to rows with a value present.
func Complete(rows []LongRow) []LongRow {
	out := make([]LongRow, 0, len(rows))
	for _, r := range rows {
		if !math.IsNaN(r.Value) {
			out = append(out, r)
		}
	}
	return out
}

var whorlIndex = regexp.MustCompile(`[0-9]+$`)

// WhorlLabel rewrites an indexed measurement column to the generic display
// form used on figure axes: "WT3" becomes "Whorl 3", unindexed columns keep
// the taxonomy label.
func WhorlLabel(e TaxEntry, column string) string {
	if idx := whorlIndex.FindString(column); idx != "" {
		return fmt.Sprintf("Whorl %s", idx)
	}
	return e.Label
}
