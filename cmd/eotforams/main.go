package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/benjaminmoon/EOT-forams/analysis"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		configPath string
		dataDir    string
		outDir     string
		ageModel   string
		seed       int64
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "eotforams",
		Short: "Foraminifera morphometric and isotope analysis across the Eocene-Oligocene transition",
		Long: `eotforams runs the full analysis pipeline: it loads the 2D and 3D
morphometric datasets and the isotope record, runs the pairwise
comparisons, the GLS regression sweep and the morphospace analyses,
and writes every table, figure and the reproducibility manifest to
the output directory.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := analysis.LoadConfig(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("data") {
				cfg.DataDir = dataDir
			}
			if cmd.Flags().Changed("out") {
				cfg.OutDir = outDir
			}
			if cmd.Flags().Changed("age-model") {
				cfg.AgeModel = ageModel
			}
			if cmd.Flags().Changed("seed") {
				cfg.Seed = &seed
			}

			logger, err := newLogger(verbose)
			if err != nil {
				return err
			}
			defer logger.Sync()

			pipeline, err := analysis.New(logger, cfg)
			if err != nil {
				return err
			}
			return pipeline.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	cmd.Flags().StringVar(&dataDir, "data", "data", "directory holding the input CSV files")
	cmd.Flags().StringVar(&outDir, "out", "output", "directory for tables, figures and the manifest")
	cmd.Flags().StringVar(&ageModel, "age-model", "2020", "age model to use (2012 or 2020)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "fix the random seed for permutations and bootstraps")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	return cmd
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}
