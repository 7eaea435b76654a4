// Command hashbench compares hash functions on a directory of test files.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/TomTonic/hashbench"
	"github.com/TomTonic/hashbench/internal/config"
	"github.com/TomTonic/hashbench/internal/gen"
	"github.com/TomTonic/hashbench/internal/loader"
	"github.com/TomTonic/hashbench/internal/report"
	"github.com/spf13/cobra"
)

const (
	csvName  = "test_results.csv"
	xlsxName = "test_results.xlsx"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgPath string
	rootCmd := &cobra.Command{
		Use:           "hashbench",
		Short:         "Benchmark hash functions for collisions, uniformity and speed",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "YAML config file (default: built-in settings)")

	rootCmd.AddCommand(
		newRunCmd(&cfgPath),
		newGenerateCmd(&cfgPath),
		newListCmd(),
		newPowerCmd(),
	)
	return rootCmd
}

// loadConfig applies, in order: defaults, the YAML file, .env and HASHBENCH_*
// variables.
func loadConfig(path string) (*config.Config, error) {
	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.LoadConfig(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newRunCmd(cfgPath *string) *cobra.Command {
	var (
		dataDir, outputDir string
		workers            int
		functions          []string
		nativeSeed         uint64
		noXLSX             bool
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Load the test files, hash them with every function and save the results",
		Long: `Load every .txt, .csv and .json file of the data directory, evaluate each
hash function on each file and write test_results.csv (and test_results.xlsx)
to the output directory. Missing test data is generated first.

Settings come from the defaults, --config, a .env file, HASHBENCH_* variables
and finally the flags below.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*cfgPath)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("data-dir") {
				cfg.DataDir = dataDir
			}
			if flags.Changed("output-dir") {
				cfg.OutputDir = outputDir
			}
			if flags.Changed("workers") {
				cfg.Workers = workers
			}
			if flags.Changed("functions") {
				cfg.Functions = functions
			}
			if flags.Changed("native-seed") {
				cfg.NativeSeed = nativeSeed
			}
			if noXLSX {
				cfg.XLSX = false
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runBenchmark(cmd.Context(), cfg, cmd.OutOrStdout(), log.Default())
		},
	}
	cmd.Flags().StringVar(&dataDir, "data-dir", "", "directory with the test files")
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "directory for the result files")
	cmd.Flags().IntVar(&workers, "workers", 1, "pairs evaluated concurrently")
	cmd.Flags().StringSliceVar(&functions, "functions", nil, "restrict the run to these functions")
	cmd.Flags().Uint64Var(&nativeSeed, "native-seed", 0, "pin the Native and Simple baselines (0 = randomized per process)")
	cmd.Flags().BoolVar(&noXLSX, "no-xlsx", false, "skip the XLSX workbook")
	return cmd
}

func generatorConfig(cfg *config.Config) gen.Config {
	g := gen.DefaultConfig(cfg.DataDir)
	g.Seed = cfg.Generator.Seed
	if cfg.Generator.NumberSizes != nil {
		g.NumberSizes = cfg.Generator.NumberSizes
	}
	if cfg.Generator.TextSizes != nil {
		g.TextSizes = cfg.Generator.TextSizes
	}
	return g
}

// runBenchmark is the whole pipeline: load (or generate) the data, evaluate,
// export. A canceled ctx still exports the pairs that completed.
func runBenchmark(ctx context.Context, cfg *config.Config, out io.Writer, logger *log.Logger) error {
	if _, err := os.Stat(cfg.DataDir); errors.Is(err, os.ErrNotExist) {
		logger.Printf("test files not found in %s, generating", cfg.DataDir)
		if _, err := gen.Generate(generatorConfig(cfg)); err != nil {
			return fmt.Errorf("failed to generate test files: %w", err)
		}
	}

	ld := loader.New(logger)
	ld.HeaderPrefix = cfg.CSVHeaderPrefix
	datasets, err := ld.LoadDir(cfg.DataDir)
	if err != nil {
		return err
	}

	reg, err := hashbench.DefaultRegistry(hashbench.Options{
		NativeSeed:   cfg.NativeSeed,
		Modulus:      cfg.Modulus,
		SplitMixSeed: cfg.SplitMixSeed,
	}).Select(cfg.Functions...)
	if err != nil {
		return err
	}

	logger.Printf("testing %d functions on %d files", reg.Len(), len(datasets))
	orch := hashbench.NewOrchestrator(reg, hashbench.WithWorkers(cfg.Workers), hashbench.WithLogger(logger))
	m, runErr := orch.Run(ctx, datasets)
	if runErr != nil {
		logger.Printf("run interrupted: %v; saving %d completed pairs", runErr, m.Len())
	}
	if m.Len() == 0 {
		logger.Print("no results to save")
		return runErr
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return err
	}
	csvPath := filepath.Join(cfg.OutputDir, csvName)
	if err := report.SaveCSV(csvPath, m); err != nil {
		return fmt.Errorf("failed to save CSV: %w", err)
	}
	logger.Printf("results saved to %s (run %s)", csvPath, m.RunID)

	summary := hashbench.Summarize(m, reg.Names(), cfg.Alpha)
	if cfg.XLSX {
		xlsxPath := filepath.Join(cfg.OutputDir, xlsxName)
		if err := report.SaveXLSX(xlsxPath, m, summary, cfg.Alpha); err != nil {
			return fmt.Errorf("failed to save XLSX: %w", err)
		}
		logger.Printf("workbook saved to %s", xlsxPath)
	}
	if err := report.WriteSummary(out, summary); err != nil {
		return err
	}
	return runErr
}

func newGenerateCmd(cfgPath *string) *cobra.Command {
	var dir string
	var seed uint64
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write the synthetic test files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*cfgPath)
			if err != nil {
				return err
			}
			if dir != "" {
				cfg.DataDir = dir
			}
			if cmd.Flags().Changed("seed") {
				cfg.Generator.Seed = seed
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			files, err := gen.Generate(generatorConfig(cfg))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d test files written to %s\n", len(files), cfg.DataDir)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "output directory (default: data_dir of the config)")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "random seed")
	return cmd
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the registered hash functions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := hashbench.DefaultRegistry(hashbench.Options{})
			w := cmd.OutOrStdout()
			for _, name := range reg.Names() {
				fn, _ := reg.Lookup(name)
				note := ""
				if sl, ok := fn.(hashbench.ShapeLimiter); ok && !sl.Supports(hashbench.KindRow) {
					note = " (scalar files only)"
				} else if _, ok := fn.(hashbench.RowHasher); ok {
					note = " (hashes row fields natively)"
				}
				fmt.Fprintf(w, "%s%s\n", name, note)
			}
			return nil
		},
	}
}
