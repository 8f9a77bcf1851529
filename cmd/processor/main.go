// Command processor cleans ledger auxiliary-report exports from the
// command line and writes the merged detail table as xlsx or csv.
//
//	processor [-mode auto|ledger|per_account] [-format xlsx|csv] [-out path] [-dir d [-pattern glob]] files...
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"text/tabwriter"

	"auxreport/internal/config"
	"auxreport/internal/dataprocessing"
	"auxreport/internal/exporter"
	"auxreport/internal/files"
	"auxreport/internal/infrastructure"
	"auxreport/internal/services"
	"auxreport/internal/validation"
	"auxreport/pkg/contracts"
	"auxreport/pkg/contracts/domain"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type options struct {
	mode       string
	format     string
	out        string
	dir        string
	pattern    string
	configFile string
	version    bool
}

func parseFlags(args []string, stderr io.Writer) (options, []string, error) {
	var opts options
	fs := flag.NewFlagSet("processor", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.mode, "mode", "", "report layout: auto, ledger or per_account (default from config)")
	fs.StringVar(&opts.format, "format", "", "output format: xlsx or csv (default from config)")
	fs.StringVar(&opts.out, "out", "", "output file; bare names are written to the reports directory")
	fs.StringVar(&opts.dir, "dir", "", "process every spreadsheet in this directory, sorted by name")
	fs.StringVar(&opts.pattern, "pattern", "", "with -dir, only process files matching this glob (e.g. aux_*.xls)")
	fs.StringVar(&opts.configFile, "config", "", "YAML configuration file")
	fs.BoolVar(&opts.version, "version", false, "print version and exit")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: processor [flags] files...\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return opts, nil, err
	}
	return opts, fs.Args(), nil
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFrom(path)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, inputs, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if opts.version {
		fmt.Fprintln(stdout, contracts.GetFullVersionString())
		return exitOK
	}

	cfg, err := loadConfig(opts.configFile)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitError
	}
	logger := infrastructure.NewLogger(cfg.Logging, stderr).With(slog.String("component", "processor_cli"))

	paths, err := config.ResolvePaths(cfg.Paths)
	if err != nil {
		logger.Error("Failed to resolve paths", slog.String("error", err.Error()))
		return exitError
	}

	if opts.pattern != "" && opts.dir == "" {
		fmt.Fprintln(stderr, "error: -pattern requires -dir")
		return exitUsage
	}
	if opts.dir != "" {
		discovery := files.NewDiscovery("")
		var found []files.FileInfo
		if opts.pattern != "" {
			found, err = discovery.FindFilesByPattern(opts.dir, opts.pattern)
		} else {
			found, err = discovery.FindSpreadsheets(opts.dir)
		}
		if err != nil {
			logger.Error("Failed to list input directory", slog.String("dir", opts.dir), slog.String("error", err.Error()))
			return exitError
		}
		for _, f := range found {
			inputs = append(inputs, f.Path)
		}
	}
	if len(inputs) == 0 {
		fmt.Fprintln(stderr, "error: no input files; pass file names or -dir")
		return exitUsage
	}

	mode := cfg.DefaultMode()
	if opts.mode != "" {
		if mode, err = domain.ParseMode(opts.mode); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return exitUsage
		}
	}

	formatName := opts.format
	if formatName == "" {
		formatName = cfg.Export.DefaultFormat
	}
	format, err := exporter.ParseFormat(formatName)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}

	if err := process(ctx, cfg, paths, logger, inputs, mode, format, opts.out, stdout); err != nil {
		logger.Error("Processing failed", slog.String("error", err.Error()))
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitError
	}
	return exitOK
}

func process(ctx context.Context, cfg *config.Config, paths *config.Paths, logger *slog.Logger,
	inputs []string, mode domain.Mode, format exporter.Format, out string, stdout io.Writer) error {
	procOpts, err := cfg.ProcessingOptions()
	if err != nil {
		return err
	}
	processor, err := dataprocessing.NewReportProcessor(procOpts, logger)
	if err != nil {
		return err
	}
	validator := validation.NewUploadValidator(validation.Limits{MaxFileBytes: cfg.Processing.MaxFileBytes}, logger)
	service := services.NewReportService(processor, validator, nil, nil, logger)
	manager := files.NewManager(paths, cfg.Processing.MaxFileBytes, logger)

	uploads := make([]services.Upload, 0, len(inputs))
	for _, path := range inputs {
		data, err := manager.ReadFile(path)
		if err != nil {
			return err
		}
		uploads = append(uploads, services.Upload{Name: filepath.Base(path), Data: data})
	}

	result, err := service.Process(ctx, uploads, mode)
	if err != nil {
		return err
	}

	writer, err := exporter.NewWriter(format, cfg.Export)
	if err != nil {
		return err
	}
	target := manager.OutputPath(out, format.FileName(cfg.Export.FileName))
	if err := exporter.WriteFile(target, result.Table, writer, logger); err != nil {
		return err
	}

	printSummary(stdout, result, target)
	return nil
}

func printSummary(w io.Writer, result *services.ReportResult, target string) {
	fmt.Fprintf(w, "mode: %s\n", result.Mode)
	fmt.Fprintf(w, "output: %s\n", target)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tKEPT\tBOUNDARIES\tSUMMARIES\tZERO\tNO CONCEPT\tBLANK\tUNASSIGNED")
	for _, f := range result.Stats.Files {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\t%d\t%d\n",
			f.Source, f.Kept, f.Boundaries, f.Summaries, f.ZeroAmount, f.EmptyConcept, f.Blank, f.Unassigned)
	}
	tw.Flush()

	fmt.Fprintf(w, "total: %d rows kept, %d dropped\n", result.Stats.Kept(), result.Stats.Dropped())
	for _, warning := range result.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}
}
