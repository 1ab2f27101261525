// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/luxfi/dasim"
	"github.com/luxfi/dasim/config"
	"github.com/luxfi/dasim/report"
	"github.com/luxfi/log"
	"github.com/luxfi/metric"
)

const (
	allStrategies = "all"
	metricsFile   = "metrics.prom"
)

type runOptions struct {
	configPath  string
	strategy    string
	outDir      string
	seed        int64
	seedSet     bool
	summaryOnly bool
	parallel    int
	verbose     bool
	logFile     string
}

func newRunCommand() *cobra.Command {
	opts := runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one or every adversarial scenario and write the results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.seedSet = cmd.Flags().Changed("seed")

			logger, closeLog := newLogger(opts.verbose, opts.logFile)
			defer func() {
				_ = closeLog()
			}()
			return run(cmd.Context(), logger, cmd.OutOrStdout(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "config.yaml", "settings file")
	flags.StringVarP(&opts.strategy, "strategy", "s", allStrategies,
		fmt.Sprintf("scenario to run, one of %s or %s", strings.Join(dasim.StrategyNames(), ", "), allStrategies))
	flags.StringVarP(&opts.outDir, "out", "o", "results", "output directory")
	flags.Int64Var(&opts.seed, "seed", 0, "override the settings file's random_seed")
	flags.BoolVar(&opts.summaryOnly, "summary-only", false, "skip per-ballot outputs and keep only per-blob tallies in memory")
	flags.IntVarP(&opts.parallel, "parallel", "p", runtime.NumCPU(), "number of scenarios simulated concurrently")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log every block")
	flags.StringVar(&opts.logFile, "log-file", "", "also write logs to this rotating file")
	return cmd
}

func run(ctx context.Context, logger log.Logger, stdout io.Writer, opts runOptions) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.seedSet {
		cfg.Seed = opts.seed
	}
	if opts.summaryOnly {
		cfg.RecordBallots = false
	}

	names, err := strategyNames(opts.strategy)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	logger.Info("starting simulation",
		log.String("strategies", strings.Join(names, ",")),
		log.Int("totalNodes", cfg.TotalNodes),
		log.Int("maliciousNodes", cfg.MaliciousNodes),
		log.Int("nodesPerBlock", cfg.NodesPerBlock),
		log.Uint64("confirmationDepth", cfg.ConfirmationDepth),
		log.Uint64("totalBlocks", cfg.TotalBlocks),
		log.Int("seed", int(cfg.Seed)),
	)

	progress := newProgress(logger, cfg.TotalBlocks*uint64(len(names)), opts.verbose)
	defer progress.finish()

	// Every scenario samples from its own generator seeded identically, so
	// all of them see the same proposers and committees.
	summaries := make([]report.Summary, len(names))
	registry := metric.NewRegistry()
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.parallel, 1))
	for i, name := range names {
		g.Go(func() error {
			strategy, err := dasim.NewStrategy(name, cfg)
			if err != nil {
				return err
			}
			sim, err := dasim.New(cfg, strategy,
				dasim.WithLogger(logger),
				dasim.WithMetrics(registry, dasim.DefaultNamespace+"_"+name),
				dasim.WithObserver(progress),
			)
			if err != nil {
				return err
			}
			results, err := sim.Run(ctx)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			if err := writeResults(opts.outDir, results, opts.summaryOnly); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			summaries[i] = report.Summarize(results, report.DefaultWindow)
			logger.Info("wrote results",
				log.String("strategy", name),
				log.String("dir", opts.outDir),
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	progress.finish()

	err = writeFile(filepath.Join(opts.outDir, metricsFile), func(w io.Writer) error {
		return report.WriteMetrics(w, summaries, registry)
	})
	if err != nil {
		return err
	}
	return report.WriteSummary(stdout, summaries, isTerminal(stdout))
}

// strategyNames expands name into the scenarios to run
func strategyNames(name string) ([]string, error) {
	if strings.EqualFold(strings.TrimSpace(name), allStrategies) {
		return dasim.StrategyNames(), nil
	}
	strategy, err := dasim.NewStrategy(name, dasim.DefaultConfig())
	if err != nil {
		return nil, err
	}
	return []string{strategy.Name()}, nil
}

func writeResults(dir string, results *dasim.Results, summaryOnly bool) error {
	name := results.Strategy
	outputs := []struct {
		file  string
		write func(io.Writer, *dasim.Results) error
		full  bool
	}{
		{file: "simulation_results_" + name + ".csv", write: report.WriteBallotsCSV, full: true},
		{file: "blobs_" + name + ".csv", write: report.WriteBlobsCSV},
		{file: "per_block_" + name + ".txt", write: report.WriteBlockTable, full: true},
		{file: "per_blob_" + name + ".txt", write: report.WriteBlobTable, full: true},
	}
	for _, output := range outputs {
		if summaryOnly && output.full {
			continue
		}
		err := writeFile(filepath.Join(dir, output.file), func(w io.Writer) error {
			return output.write(w, results)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if err := write(w); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}
