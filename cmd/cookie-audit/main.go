package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/urfave/cli"
	"go.uber.org/zap"

	"github.com/akimov/cookiescrub/internal/config"
	"github.com/akimov/cookiescrub/internal/core"
	"github.com/akimov/cookiescrub/internal/factory"
	"github.com/akimov/cookiescrub/internal/logging"
	"github.com/akimov/cookiescrub/internal/report"
)

var version = "dev"

var (
	configFlag = cli.StringFlag{
		Name:  "config",
		Usage: "path to a config file (skips the default search paths)",
	}
	verboseFlag = cli.BoolFlag{
		Name:  "verbose, v",
		Usage: "enable verbose logging",
	}
	jsonLogFlag = cli.BoolFlag{
		Name:  "json-log",
		Usage: "output logs in JSON format",
	}
	retainOtherFlag = cli.BoolFlag{
		Name:  "retain-other",
		Usage: "keep cookies that are neither essential nor tracking",
	}
	outputFlag = cli.StringFlag{
		Name:  "output, o",
		Usage: "path for the cleaned export (defaults to <input>_cleaned.txt)",
	}
	statsFlag = cli.StringFlag{
		Name:  "stats, s",
		Usage: "also write the statistics report to this path",
	}
)

func main() {
	app := cli.App{
		Name:     "cookie-audit",
		HelpName: "cookie-audit",
		Usage:    "clean and score Netscape cookie exports",
		Version:  version,
		Flags:    []cli.Flag{configFlag},
		Commands: []cli.Command{
			{
				Name:      "clean",
				Aliases:   []string{"c"},
				Usage:     "write a cleaned copy of a cookie export",
				ArgsUsage: "<cookies-file>",
				Action:    clean,
				Flags:     []cli.Flag{outputFlag, statsFlag, retainOtherFlag, verboseFlag, jsonLogFlag},
			},
			{
				Name:      "analyze",
				Aliases:   []string{"a"},
				Usage:     "print sites, services, auth cookies and the profile score",
				ArgsUsage: "<cookies-file>",
				Action:    analyze,
				Flags:     []cli.Flag{retainOtherFlag, verboseFlag, jsonLogFlag},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "cookie-audit: %v\n", err)
		os.Exit(1)
	}
}

func clean(ctx *cli.Context) error {
	input := ctx.Args().First()
	if input == "" {
		return fmt.Errorf("missing cookies file argument")
	}

	analyzer, logger, err := buildAnalyzer(ctx)
	if err != nil {
		return err
	}
	defer logger.Sync()

	output := ctx.String("output")
	if output == "" {
		output = defaultOutputPath(input)
	}

	return runClean(afero.NewOsFs(), analyzer, input, output, ctx.String("stats"), os.Stdout)
}

func analyze(ctx *cli.Context) error {
	input := ctx.Args().First()
	if input == "" {
		return fmt.Errorf("missing cookies file argument")
	}

	analyzer, logger, err := buildAnalyzer(ctx)
	if err != nil {
		return err
	}
	defer logger.Sync()

	return runAnalyze(afero.NewOsFs(), analyzer, input, os.Stdout)
}

// runClean cleans one export file and writes the results through the
// given filesystem.
func runClean(fs afero.Fs, analyzer *core.Analyzer, input, output, statsPath string, w io.Writer) error {
	raw, err := afero.ReadFile(fs, input)
	if err != nil {
		return fmt.Errorf("failed to read cookies file: %w", err)
	}

	start := time.Now()
	result, err := analyzer.AnalyzeExport(context.Background(), raw)
	if err != nil {
		return err
	}

	if err := afero.WriteFile(fs, output, result.Cleaned, 0644); err != nil {
		return fmt.Errorf("failed to write cleaned export: %w", err)
	}
	fmt.Fprintf(w, "Cleaned export written to %s\n", output)

	if statsPath != "" {
		if err := afero.WriteFile(fs, statsPath, []byte(report.RenderStats(result.Report)), 0644); err != nil {
			return fmt.Errorf("failed to write statistics: %w", err)
		}
		fmt.Fprintf(w, "Statistics written to %s\n", statsPath)
	}

	r := result.Report
	fmt.Fprintf(w, "\n=== Results ===\n")
	fmt.Fprintf(w, "Total unique cookies: %d\n", r.TotalCookies)
	fmt.Fprintf(w, "Kept after cleaning: %d\n", r.KeptCookies)
	fmt.Fprintf(w, "Tracking removed: %d\n", r.CountsByClass[core.ClassTracking])
	fmt.Fprintf(w, "Privacy score: %d/100\n", r.PrivacyScore)
	fmt.Fprintf(w, "Processing time: %v\n", time.Since(start))
	return nil
}

// runAnalyze prints the site, service, auth and scoring breakdown for
// one export file.
func runAnalyze(fs afero.Fs, analyzer *core.Analyzer, input string, w io.Writer) error {
	raw, err := afero.ReadFile(fs, input)
	if err != nil {
		return fmt.Errorf("failed to read cookies file: %w", err)
	}

	result, err := analyzer.AnalyzeExport(context.Background(), raw)
	if err != nil {
		return err
	}

	fmt.Fprint(w, report.RenderAnalysis(result.Report))
	return nil
}

// buildAnalyzer assembles the analyzer from configuration, honoring
// command line overrides.
func buildAnalyzer(ctx *cli.Context) (*core.Analyzer, *zap.Logger, error) {
	logger, err := logging.InitConsoleLogger(ctx.Bool("verbose"), ctx.Bool("json-log"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	var cfg *config.Config
	if path := ctx.GlobalString("config"); path != "" {
		cfg, err = config.NewFromFile(path)
	} else {
		cfg, err = config.New()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if ctx.IsSet("retain-other") {
		cfg.GetViper().Set("cleaner.retain_other", ctx.Bool("retain-other"))
	}

	analyzer, err := factory.NewAnalyzerFactory(cfg, logger).CreateAnalyzer()
	if err != nil {
		return nil, nil, err
	}
	return analyzer, logger, nil
}

func defaultOutputPath(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + "_cleaned.txt"
}
