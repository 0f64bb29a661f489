package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"

	"go.uber.org/zap"
)

// AgeModel selects which of the two published age estimates becomes the
// canonical Specimen.Age.
type AgeModel string

const (
	AgeModel2012 AgeModel = "2012"
	AgeModel2020 AgeModel = "2020"
)

// Fixed metadata column names shared by the morphometric files. Any header
// column not listed here is treated as a measurement column.
const (
	colSample  = "sample"
	colDepth   = "depth_mbsf"
	colAge2012 = "age_2012_ma"
	colAge2020 = "age_2020_ma"
	colD13CPl  = "d13c_pl"
	colD18OPl  = "d18o_pl"
	colD13CBe  = "d13c_be"
	colD18OBe  = "d18o_be"
	colSeries  = "series"
	colAge     = "age_ma" // isotope table only
)

var metaColumns = map[string]bool{
	colSample: true, colDepth: true, colAge2012: true, colAge2020: true,
	colD13CPl: true, colD18OPl: true, colD13CBe: true, colD18OBe: true,
	colSeries: true, colAge: true,
}

// Loader reads the three input tables. It applies exactly the row handling
// the analysis depends on: rows without a recognisable series label are
// dropped, empty cells become NaN, and every table is sorted by descending
// canonical age. Any other malformation is an error; schema drift is out of
// scope.
type Loader struct {
	logger   *zap.Logger
	ageModel AgeModel
}

func NewLoader(logger *zap.Logger, ageModel AgeModel) *Loader {
	if ageModel == "" {
		ageModel = AgeModel2020
	}
	return &Loader{logger: logger, ageModel: ageModel}
}

// LoadMorphometrics reads a 2D or 3D morphometric CSV.
func (l *Loader) LoadMorphometrics(path, name string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	t, dropped, err := l.parseMorphometrics(f, name)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	l.logger.Info("loaded morphometrics",
		zap.String("table", name),
		zap.Int("specimens", len(t.Specimens)),
		zap.Int("measurementColumns", len(t.Columns)),
		zap.Int("droppedRows", dropped))
	return t, nil
}

func (l *Loader) parseMorphometrics(r io.Reader, name string) (*Table, int, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("read header: %w", err)
	}
	idx := indexHeader(header)
	for _, required := range []string{colSample, colDepth, colAge2012, colAge2020, colSeries} {
		if _, ok := idx[required]; !ok {
			return nil, 0, fmt.Errorf("missing required column %q", required)
		}
	}

	var columns []string
	for _, h := range header {
		if !metaColumns[h] {
			columns = append(columns, h)
		}
	}

	t := &Table{Name: name, Columns: columns}
	dropped := 0
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("line %d: %w", line, err)
		}
		series, err := ParseSeries(field(rec, idx, colSeries))
		if err != nil {
			dropped++
			continue
		}
		sp := Specimen{
			SampleID:       field(rec, idx, colSample),
			Series:         series,
			D13CPlanktonic: parseCell(field(rec, idx, colD13CPl)),
			D18OPlanktonic: parseCell(field(rec, idx, colD18OPl)),
			D13CBenthic:    parseCell(field(rec, idx, colD13CBe)),
			D18OBenthic:    parseCell(field(rec, idx, colD18OBe)),
			Measures:       make(map[string]float64, len(columns)),
		}
		sp.Depth = parseCell(field(rec, idx, colDepth))
		sp.Age2012 = parseCell(field(rec, idx, colAge2012))
		sp.Age2020 = parseCell(field(rec, idx, colAge2020))
		sp.Age = sp.Age2020
		if l.ageModel == AgeModel2012 {
			sp.Age = sp.Age2012
		}
		for i, h := range header {
			if metaColumns[h] || i >= len(rec) {
				continue
			}
			if v := parseCell(rec[i]); !math.IsNaN(v) {
				sp.Measures[h] = v
			}
		}
		t.Specimens = append(t.Specimens, sp)
	}
	sortByAgeDescending(t.Specimens)
	return t, dropped, nil
}

// LoadIsotopes reads the independent isotope record. Rows carry no series
// label; they are kept whole and sorted by descending age.
func (l *Loader) LoadIsotopes(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open isotopes: %w", err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("parse isotopes: read header: %w", err)
	}
	idx := indexHeader(header)
	for _, required := range []string{colDepth, colAge} {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("parse isotopes: missing required column %q", required)
		}
	}

	t := &Table{Name: "isotopes"}
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse isotopes: line %d: %w", line, err)
		}
		sp := Specimen{
			Depth:          parseCell(field(rec, idx, colDepth)),
			Age:            parseCell(field(rec, idx, colAge)),
			D13CPlanktonic: parseCell(field(rec, idx, colD13CPl)),
			D18OPlanktonic: parseCell(field(rec, idx, colD18OPl)),
			D13CBenthic:    parseCell(field(rec, idx, colD13CBe)),
			D18OBenthic:    parseCell(field(rec, idx, colD18OBe)),
		}
		t.Specimens = append(t.Specimens, sp)
	}
	sortByAgeDescending(t.Specimens)
	l.logger.Info("loaded isotopes", zap.Int("samples", len(t.Specimens)))
	return t, nil
}

func indexHeader(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[h] = i
	}
	return idx
}

func field(rec []string, idx map[string]int, name string) string {
	i, ok := idx[name]
	if !ok || i >= len(rec) {
		return ""
	}
	return rec[i]
}

// parseCell converts a CSV cell to float64, with the empty cell and the
// conventional NA markers becoming NaN.
func parseCell(cell string) float64 {
	switch cell {
	case "", "NA", "NaN":
		return math.NaN()
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func sortByAgeDescending(specs []Specimen) {
	sort.SliceStable(specs, func(i, j int) bool {
		ai, aj := specs[i].Age, specs[j].Age
		if math.IsNaN(aj) {
			return !math.IsNaN(ai)
		}
		if math.IsNaN(ai) {
			return false
		}
		return ai > aj
	})
}
