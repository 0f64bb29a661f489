package dataset

import (
	"fmt"
	"strings"
)

// Series is the geological time bin a specimen belongs to.
type Series int

const (
	SeriesUnknown Series = iota
	Eocene
	EOT
	Oligocene
)

var seriesNames = map[Series]string{
	Eocene:    "Eocene",
	EOT:       "EOT",
	Oligocene: "Oligocene",
}

// SeriesOrder is the fixed display order used in every table and figure.
// Time order (old to young) is the same as display order.
var SeriesOrder = []Series{Eocene, EOT, Oligocene}

// SeriesPairs lists the three pairwise comparisons in canonical order.
var SeriesPairs = [][2]Series{
	{Eocene, EOT},
	{Eocene, Oligocene},
	{EOT, Oligocene},
}

func (s Series) String() string {
	if n, ok := seriesNames[s]; ok {
		return n
	}
	return "unknown"
}

// ParseSeries maps a label from the input tables onto a Series.
// Matching is case-insensitive; anything else is an error.
func ParseSeries(label string) (Series, error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "eocene":
		return Eocene, nil
	case "eot":
		return EOT, nil
	case "oligocene":
		return Oligocene, nil
	}
	return SeriesUnknown, fmt.Errorf("unknown series label %q", label)
}
