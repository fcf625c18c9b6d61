package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"assessments/internal/chart"
	"assessments/internal/config"
	"assessments/internal/database"
	"assessments/internal/dataset"
	"assessments/internal/logging"
	"assessments/internal/report"
	"assessments/internal/selector"
	"assessments/internal/workbook"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	closeLog, err := logging.Setup(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logging: %v\n", err)
		os.Exit(1)
	}

	tty := isTerminal(os.Stdout)
	if tty {
		enableVT()
	}

	err = run(context.Background(), cfg, os.Stdin, os.Stdout, tty)
	closeLog()
	if errors.Is(err, selector.ErrNoInput) {
		fmt.Fprintln(os.Stderr, "\nno selection made; exiting")
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// run executes one full analysis: load, build, prompt, report, export and chart.
func run(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer, tty bool) error {
	src, closeSrc, err := openSource(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSrc()

	start := time.Now()
	loaded, err := src.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load datasets: %w", err)
	}
	slog.Info("datasets loaded", slog.String("source", cfg.Source), slog.Duration("elapsed", time.Since(start)))

	table := dataset.Build(loaded)
	if table.Len() == 0 {
		return errors.New("no records remain after merging the three sources")
	}
	years := table.Years()

	money, err := report.NewCurrencyFormatter(cfg.Report.Locale, cfg.Report.Symbol)
	if err != nil {
		return err
	}
	opts := report.Options{
		BaseYear:  cfg.Report.BaseYear,
		Threshold: cfg.Report.Threshold,
		TopN:      cfg.Report.TopN,
		FirstYear: years[0],
		LastYear:  years[len(years)-1],
	}
	reporter := report.NewReporter(out, money, opts, cfg.Report.Color && tty)
	reporter.PrintBanner(len(table.Communities()))

	sel, err := selector.New(table, in, out).OrderLegend(cfg.Report.LegendOrder...).Run()
	if err != nil {
		return err
	}
	slog.Debug("selection made", slog.Int("year", sel.Year), slog.String("community", sel.Name), slog.Int("rows", len(sel.Rows)))

	reporter.PrintCommunityStats(report.ComputeCommunityStats(sel.Rows, sel.Name, sel.Year, opts))

	averages := report.YearlyAverages(table)
	reporter.PrintAggregates(table, averages)

	if err := workbook.Export(cfg.Output.Export, table); err != nil {
		return err
	}
	fmt.Fprintf(out, "\nMerged data exported to %s\n", cfg.Output.Export)

	c := chart.FromAverages(averages)
	if err := c.SavePNG(cfg.Output.ChartPNG); err != nil {
		return err
	}
	fmt.Fprintf(out, "Chart saved to %s\n", cfg.Output.ChartPNG)

	showChart(c, cfg, tty)
	return nil
}

// openSource returns the configured loader and a function releasing it.
func openSource(ctx context.Context, cfg *config.Config) (dataset.Source, func(), error) {
	switch cfg.Source {
	case config.SourceOracle:
		db, err := database.NewDatabase(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		return db, func() { db.Close() }, nil
	default:
		return workbook.Source{
			ConstructionPath: cfg.Files.Construction,
			LandPath:         cfg.Files.Land,
			AssessmentPath:   cfg.Files.Assessment,
		}, func() {}, nil
	}
}
