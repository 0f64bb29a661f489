package analysis

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/plot"

	"github.com/benjaminmoon/EOT-forams/pkg/artifacts"
	"github.com/benjaminmoon/EOT-forams/pkg/dataset"
	"github.com/benjaminmoon/EOT-forams/pkg/morphospace"
	"github.com/benjaminmoon/EOT-forams/pkg/plotting"
	"github.com/benjaminmoon/EOT-forams/pkg/stats"
)

// Pipeline owns the per-stage components and runs the whole analysis once,
// end to end. Stages always execute in order; each consumes only the
// outputs of earlier ones.
type Pipeline struct {
	logger *zap.Logger
	cfg    Config

	loader *dataset.Loader
	tester *stats.PairwiseTester
	sweep  *stats.Sweep
	store  *artifacts.Store

	rng       *rand.Rand
	seed      int64
	seedFixed bool
}

// New builds a pipeline from the configuration. The random source feeds
// the permutation and bootstrap stages; when no seed is configured it is
// derived from the clock, matching the source analysis (and recorded in
// the manifest either way).
func New(logger *zap.Logger, cfg Config) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	store, err := artifacts.NewStore(logger, cfg.OutDir)
	if err != nil {
		return nil, err
	}

	seed := time.Now().UnixNano()
	seedFixed := false
	if cfg.Seed != nil {
		seed = *cfg.Seed
		seedFixed = true
	}

	return &Pipeline{
		logger:    logger,
		cfg:       cfg,
		loader:    dataset.NewLoader(logger, dataset.AgeModel(cfg.AgeModel)),
		tester:    stats.NewPairwiseTester(logger),
		sweep:     stats.NewSweep(logger),
		store:     store,
		rng:       rand.New(rand.NewSource(seed)),
		seed:      seed,
		seedFixed: seedFixed,
	}, nil
}

// Run executes every stage and writes all artifacts.
func (p *Pipeline) Run(ctx context.Context) error {
	start := time.Now()
	p.logger.Info("starting analysis run",
		zap.String("dataDir", p.cfg.DataDir),
		zap.String("outDir", p.cfg.OutDir),
		zap.Int64("seed", p.seed),
		zap.Bool("seedFixed", p.seedFixed))

	manifest := artifacts.NewManifest(start, p.seed, p.seedFixed)
	if err := manifest.SetConfig(p.cfg); err != nil {
		return err
	}
	for _, path := range []string{p.cfg.Path2D(), p.cfg.Path3D(), p.cfg.PathIsotopes()} {
		if err := manifest.AddInput(path); err != nil {
			return err
		}
	}

	table2D, err := p.loader.LoadMorphometrics(p.cfg.Path2D(), "2d")
	if err != nil {
		return err
	}
	table3D, err := p.loader.LoadMorphometrics(p.cfg.Path3D(), "3d")
	if err != nil {
		return err
	}
	isotopes, err := p.loader.LoadIsotopes(p.cfg.PathIsotopes())
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var tables []artifacts.Table
	var dbOnly []artifacts.Table

	// Pairwise t-tests.
	pairwise2D := p.tester.Compare(table2D, dataset.Taxonomy2D)
	pairwise3D := p.tester.Compare(table3D, dataset.Taxonomy3D)
	tables = append(tables,
		pairwiseTable("ttests_2d", pairwise2D),
		pairwiseTable("ttests_3d", pairwise3D))

	// Regression sweep over the thin-section responses.
	sweepRows := p.sweep.Run(table2D)
	tables = append(tables, sweepTable(sweepRows))
	if err := ctx.Err(); err != nil {
		return err
	}

	// Morphospaces.
	space2D, err := p.runMorphospace("2d", table2D, dataset.MorphospaceTraits2D(table2D), &tables, &dbOnly)
	if err != nil {
		return err
	}
	space3D, err := p.runMorphospace("3d", table3D, dataset.MorphospaceTraits3D(table3D), &tables, &dbOnly)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	// Figures.
	if err := p.renderFigures(ctx, table2D, table3D, isotopes, pairwise2D, pairwise3D, sweepRows, space2D, space3D); err != nil {
		return err
	}

	// Persist tables: CSV plus the SQLite mirror.
	for _, t := range tables {
		if err := p.store.WriteTable(t); err != nil {
			return err
		}
	}
	mirror := append(append([]artifacts.Table{}, tables...), dbOnly...)
	if err := artifacts.MirrorSQLite(p.logger, p.store.DatabasePath(), mirror); err != nil {
		return err
	}

	if err := manifest.Write(p.logger, p.store, time.Now()); err != nil {
		return err
	}
	p.logger.Info("analysis run finished",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("tables", len(tables)),
		zap.String("runId", manifest.RunID))
	return nil
}

// morphospaceResult bundles one trait space's derived products for the
// figure stage.
type morphospaceResult struct {
	decomposition *morphospace.Decomposition
	samples       []morphospace.DisparitySample
}

func (p *Pipeline) runMorphospace(name string, table *dataset.Table, traits []dataset.Trait, tables, dbOnly *[]artifacts.Table) (*morphospaceResult, error) {
	d, err := morphospace.Decompose(name, table, traits)
	if err != nil {
		return nil, fmt.Errorf("morphospace %s: %w", name, err)
	}
	p.logger.Info("morphospace decomposed",
		zap.String("space", name),
		zap.Int("specimens", len(d.SampleIDs)),
		zap.Int("components", d.Components()),
		zap.Float64("pc1Percent", d.PercentVar[0]))

	separations := morphospace.PairwiseSeparation(p.logger, d, p.cfg.Permutations, p.rng)
	summaries, samples := morphospace.BootstrapDisparity(p.logger, d, p.cfg.BootstrapReplicates, p.rng)
	disparityTests := morphospace.DisparityTTests(samples)

	*tables = append(*tables,
		scoresTable("pca_scores_"+name, d),
		loadingsTable("pca_loadings_"+name, d),
		permanovaTable("permanova_"+name, separations),
		disparityTable("disparity_"+name, summaries),
		pairwiseTable("disparity_ttests_"+name, disparityTests))
	// The replicate-level table is bulky and only useful interactively:
	// it goes to the SQLite mirror, not to CSV.
	*dbOnly = append(*dbOnly, disparitySamplesTable("disparity_samples_"+name, samples))

	return &morphospaceResult{decomposition: d, samples: samples}, nil
}

func (p *Pipeline) renderFigures(ctx context.Context, table2D, table3D, isotopes *dataset.Table,
	pairwise2D, pairwise3D []stats.PairwiseResult, sweepRows []stats.SweepRow,
	space2D, space3D *morphospaceResult) error {

	g, ctx := errgroup.WithContext(ctx)

	type spec struct {
		table    *dataset.Table
		taxonomy []dataset.TaxEntry
		pairwise []stats.PairwiseResult
		suffix   string
	}
	sets := []spec{
		{table2D, dataset.Taxonomy2D, pairwise2D, "2d"},
		{table3D, dataset.Taxonomy3D, pairwise3D, "3d"},
	}

	boxPlots := make(map[string]*plotPair)
	for _, set := range sets {
		for _, entry := range set.taxonomy {
			if len(set.table.Matching(entry)) == 0 {
				continue
			}
			set, entry := set, entry
			pair := &plotPair{}
			boxPlots[set.suffix+"/"+entry.Prefix] = pair
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				box, err := plotting.MeasurementBox(entry, set.table, set.pairwise)
				if err != nil {
					return err
				}
				pair.box = box
				if err := plotting.Save(box, p.store.FigurePath("box_"+entry.Prefix+"_"+set.suffix+".png")); err != nil {
					return err
				}
				ts, err := plotting.MeasurementTimeSeries(entry, set.table)
				if err != nil {
					return err
				}
				pair.timeSeries = ts
				return plotting.Save(ts, p.store.FigurePath("ts_"+entry.Prefix+"_"+set.suffix+".png"))
			})
		}
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("render measurement figures: %w", err)
	}

	// Composed summary figures.
	if err := p.renderSummaries(isotopes, boxPlots, sweepRows, space2D, space3D); err != nil {
		return err
	}
	return nil
}

type plotPair struct {
	box        *plot.Plot
	timeSeries *plot.Plot
}

func (p *Pipeline) renderSummaries(isotopes *dataset.Table, boxPlots map[string]*plotPair,
	sweepRows []stats.SweepRow, space2D, space3D *morphospaceResult) error {

	// Box-plot summary: the four traits the paper leads with.
	var boxRow []*plot.Plot
	for _, prefix := range []string{"P", "D", "WT", "R"} {
		if pair, ok := boxPlots["2d/"+prefix]; ok {
			boxRow = append(boxRow, pair.box)
		}
	}
	if len(boxRow) > 0 {
		grid := [][]*plot.Plot{boxRow[:(len(boxRow)+1)/2], boxRow[(len(boxRow)+1)/2:]}
		if err := plotting.SavePanels(grid, p.store.FigurePath("fig_boxplots.png")); err != nil {
			return err
		}
	}

	// Time-series summary with the isotope curves as the top panel.
	curves, err := plotting.IsotopeCurves(isotopes)
	if err != nil {
		return err
	}
	var tsRow []*plot.Plot
	for _, prefix := range []string{"P", "WT", "R"} {
		if pair, ok := boxPlots["2d/"+prefix]; ok {
			tsRow = append(tsRow, pair.timeSeries)
		}
	}
	tsGrid := [][]*plot.Plot{{curves}}
	if len(tsRow) > 0 {
		tsGrid = append(tsGrid, tsRow)
	}
	if err := plotting.SavePanels(tsGrid, p.store.FigurePath("fig_timeseries.png")); err != nil {
		return err
	}

	// Regression coefficient dot plot.
	coefPlot, err := plotting.RegressionCoefficients(sweepRows)
	if err != nil {
		return err
	}
	if err := plotting.Save(coefPlot, p.store.FigurePath("fig_regression.png")); err != nil {
		return err
	}

	// Morphospace summaries: score/loading plot with the disparity boxes
	// attached.
	for _, space := range []*morphospaceResult{space2D, space3D} {
		d := space.decomposition
		scorePlot, err := plotting.Morphospace(d)
		if err != nil {
			return err
		}
		if err := plotting.Save(scorePlot, p.store.FigurePath("pca_"+d.Name+".png")); err != nil {
			return err
		}
		dispBox, err := plotting.DisparityBox(d.Name, space.samples)
		if err != nil {
			return err
		}
		if err := plotting.SavePanels([][]*plot.Plot{{scorePlot, dispBox}}, p.store.FigurePath("fig_morphospace_"+d.Name+".png")); err != nil {
			return err
		}
	}
	return nil
}
