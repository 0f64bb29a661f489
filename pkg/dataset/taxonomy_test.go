package dataset

import "testing"

func TestTaxEntryMatches(t *testing.T) {
	cases := []struct {
		prefix string
		column string
		want   bool
	}{
		{"R", "R1", true},
		{"R", "R12", true},
		{"R", "CR1", false},
		{"CR", "CR1", true},
		{"P", "P", true},
		{"V", "VP", false},
		{"VP", "VP", true},
		{"V", "V3", true},
		{"WT", "WT2", true},
		{"T", "WT2", false},
		{"NC", "NC4", true},
		{"CA", "CA", true},
		{"CA", "CAx", false},
	}
	for _, c := range cases {
		e := TaxEntry{Prefix: c.prefix}
		if got := e.Matches(c.column); got != c.want {
			t.Errorf("prefix %q column %q: got %v want %v", c.prefix, c.column, got, c.want)
		}
	}
}

// Every measurement column must land in exactly one taxonomy bucket.
func TestTaxonomyDisjoint(t *testing.T) {
	columns2D := []string{
		"P", "D", "R1", "R2", "R3", "WT1", "WT2", "NC2", "NC3",
		"CA", "CL1", "CW1", "CR1",
	}
	columns3D := []string{"VP", "V1", "V2", "V3", "NC1", "NC2", "D1", "D2", "T1", "T2"}

	check := func(taxonomy []TaxEntry, columns []string) {
		t.Helper()
		for _, col := range columns {
			n := 0
			for _, e := range taxonomy {
				if e.Matches(col) {
					n++
				}
			}
			if n != 1 {
				t.Errorf("column %q matched %d taxonomy entries, want 1", col, n)
			}
		}
	}
	check(Taxonomy2D, columns2D)
	check(Taxonomy3D, columns3D)
}

func TestBucket(t *testing.T) {
	e, ok := Bucket(Taxonomy2D, "CR2")
	if !ok || e.Prefix != "CR" {
		t.Fatalf("CR2 bucketed as %q (ok=%v), want CR", e.Prefix, ok)
	}
	if _, ok := Bucket(Taxonomy2D, "bogus"); ok {
		t.Fatal("unexpected bucket for non-measurement column")
	}
}
