package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"justfair/internal/config"
	"justfair/internal/dataprocessing"
	"justfair/internal/infrastructure"
	"justfair/internal/jurisdiction"
	"justfair/internal/plotting"
	"justfair/internal/report"
	"justfair/internal/schema"
	"justfair/pkg/contracts"
	"justfair/pkg/contracts/domain"
)

const usage = `usage: justfair <command> [flags]

commands:
  summary   multi-level summary of the jurisdiction
  trends    yearly outcome percentages of the jurisdiction
  section   one section against the jurisdiction average
  compare   one section against the rest of the jurisdiction
  version   print version information
`

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		slog.Error("justfair failed", "error", err)
		os.Exit(1)
	}
}

type options struct {
	configPath string
	mapping    string
	data       string
	sheet      string
	name       string
	groups     string
	years      string
	field      string
	section    string
	plot       string
	compressed bool
	out        string
	metrics    string
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stdout, usage)
		return errors.New("no command given")
	}
	command := args[0]
	if command == "version" {
		fmt.Fprintln(stdout, contracts.GetFullVersionString())
		return nil
	}

	var opts options
	fs := flag.NewFlagSet(command, flag.ContinueOnError)
	fs.SetOutput(stdout)
	fs.StringVar(&opts.configPath, "config", "", "YAML configuration file")
	fs.StringVar(&opts.mapping, "mapping", "", "schema mapping YAML (overrides paths.mapping)")
	fs.StringVar(&opts.data, "data", "", "data source path or URL (overrides paths.data_source)")
	fs.StringVar(&opts.sheet, "sheet", "", "worksheet to read from an XLSX source")
	fs.StringVar(&opts.name, "name", "Jurisdiction", "display name of the jurisdiction")
	fs.StringVar(&opts.groups, "groups", "departure", "comma separated grouping fields")
	fs.StringVar(&opts.years, "years", "", "years to include, e.g. 2015-2019 or 2016,2018")
	fs.StringVar(&opts.field, "field", "", "field identifying the section (section, compare)")
	fs.StringVar(&opts.section, "section", "", "value of -field selecting the section (section, compare)")
	fs.StringVar(&opts.plot, "plot", "stacked bar", "plot kind: bar, stacked bar, pie or none")
	fs.BoolVar(&opts.compressed, "compressed", false, "draw every outcome trend on one chart")
	fs.StringVar(&opts.out, "out", "", "output directory (overrides paths.output_dir)")
	fs.StringVar(&opts.metrics, "metrics", "", "write prometheus metrics to this file")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	switch command {
	case "summary", "trends", "section", "compare":
	default:
		fmt.Fprint(stdout, usage)
		return fmt.Errorf("unknown command %q", command)
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	applyOverrides(cfg, opts)

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer infrastructure.CloseLogFile()

	ctx = infrastructure.EnsureRunID(ctx)
	tel, err := infrastructure.InitializeTelemetry(cfg.Telemetry, logger)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			logger.Warn("telemetry shutdown failed", "error", err)
		}
	}()

	a, err := newAnalysis(ctx, cfg, opts, logger, tel)
	if err != nil {
		return err
	}
	a.stdout = stdout

	switch command {
	case "summary":
		err = a.summary(ctx)
	case "trends":
		err = a.trends(ctx)
	case "section":
		err = a.sectionAnalysis(ctx)
	case "compare":
		err = a.compare(ctx)
	}
	if err != nil {
		return err
	}

	if cfg.Telemetry.EnableMetrics && cfg.Telemetry.MetricsFile != "" {
		if err := tel.WriteMetrics(cfg.Telemetry.MetricsFile); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}

func applyOverrides(cfg *config.Config, opts options) {
	if opts.mapping != "" {
		cfg.Paths.Mapping = opts.mapping
	}
	if opts.data != "" {
		cfg.Paths.DataSource = opts.data
	}
	if opts.out != "" {
		cfg.Paths.OutputDir = opts.out
	}
	if opts.metrics != "" {
		cfg.Telemetry.EnableMetrics = true
		cfg.Telemetry.MetricsFile = opts.metrics
	}
}

// analysis bundles what every command needs once the jurisdiction is loaded
type analysis struct {
	j      *jurisdiction.Jurisdiction
	groups []domain.Field
	years  []int
	field  domain.Field
	value  string
	kind   plotting.Kind

	compressed bool
	writer     *report.Writer
	sink       *plotting.PNGSink
	logger     *slog.Logger
	stdout     io.Writer
}

func newAnalysis(ctx context.Context, cfg *config.Config, opts options, logger *slog.Logger, tel *infrastructure.Telemetry) (*analysis, error) {
	if cfg.Paths.Mapping == "" {
		return nil, errors.New("no schema mapping: set -mapping or paths.mapping")
	}
	if cfg.Paths.DataSource == "" {
		return nil, errors.New("no data source: set -data or paths.data_source")
	}

	years, err := parseYears(opts.years)
	if err != nil {
		return nil, err
	}
	kind, err := plotting.ParseKind(opts.plot)
	if err != nil {
		return nil, err
	}

	mapping, err := schema.LoadFile(cfg.Paths.Mapping)
	if err != nil {
		return nil, err
	}

	loader := dataprocessing.NewLoader(nil, logger).WithSheet(opts.sheet)
	j, err := jurisdiction.Load(ctx, opts.name, cfg.Paths.DataSource, loader, mapping, jurisdiction.Options{
		OutcomeOrder: cfg.Analysis.OutcomeOrder,
		Band:         cfg.Analysis.Band,
		Logger:       logger,
		Tracer:       tel.Tracer,
		Metrics:      tel.Metrics,
	})
	if err != nil {
		return nil, err
	}

	if err := cfg.Paths.EnsureDirectories(); err != nil {
		return nil, err
	}
	sink, err := plotting.NewPNGSink(cfg.Paths, cfg.Analysis.Colors, logger)
	if err != nil {
		return nil, err
	}

	return &analysis{
		j:          j,
		groups:     parseFields(opts.groups),
		years:      years,
		field:      domain.Field(opts.field),
		value:      opts.section,
		kind:       kind,
		compressed: opts.compressed,
		writer:     report.NewWriter(cfg.Paths, logger),
		sink:       sink,
		logger:     logger,
	}, nil
}

func (a *analysis) drawCharts() bool { return a.kind != plotting.KindNone }

func (a *analysis) summary(ctx context.Context) error {
	table, err := a.j.MultiLevelSummary(ctx, a.groups, a.years)
	if err != nil {
		return err
	}
	name := a.j.Name() + " summary"
	path, err := a.writer.WriteTable(name, report.SummaryTable(name, table))
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, path)

	chart, err := a.sink.Summary(name, table, a.j.OutcomeOrder(), a.kind)
	if err != nil {
		return err
	}
	if chart != "" {
		fmt.Fprintln(a.stdout, chart)
	}
	return nil
}

func (a *analysis) trends(ctx context.Context) error {
	series, err := a.j.Trends()
	if err != nil {
		return err
	}
	name := a.j.Name() + " trends"
	path, err := a.writer.WriteTable(name, report.TrendTable(name, series))
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, path)

	if a.years != nil {
		avg, err := a.j.AverageForYears(a.years)
		if err != nil {
			return err
		}
		for i, o := range a.j.OutcomeOrder() {
			fmt.Fprintf(a.stdout, "%s average %s rate in %v: %.2f\n", a.j.Name(), o, a.years, avg[i])
		}
	}

	if !a.drawCharts() {
		return nil
	}
	charts, err := a.sink.Trends(series, a.compressed)
	if err != nil {
		return err
	}
	for _, c := range charts {
		fmt.Fprintln(a.stdout, c)
	}
	a.logger.InfoContext(ctx, "trends written", "charts", len(charts))
	return nil
}

func (a *analysis) requireSection() error {
	if a.field == "" || a.value == "" {
		return errors.New("-field and -section are required")
	}
	return nil
}

func (a *analysis) sectionAnalysis(ctx context.Context) error {
	if err := a.requireSection(); err != nil {
		return err
	}
	r, err := a.j.SectionAnalysis(ctx, a.field, a.value, a.groups, a.years)
	if err != nil {
		return err
	}

	name := fmt.Sprintf("%s vs %s", r.Section, r.Jurisdiction)
	if _, err := a.writer.WriteWorkbook(name, report.SectionTables(r)); err != nil {
		return err
	}
	lines := report.SectionLines(r)
	if _, err := a.writer.WriteLines(name, lines); err != nil {
		return err
	}
	for _, l := range lines {
		fmt.Fprintln(a.stdout, l)
	}

	if !a.drawCharts() {
		return nil
	}
	if _, err := a.sink.SectionVsBaseline(name, r.Outcomes, r.Section, r.SectionAverages, r.Jurisdiction, r.JurisdictionAverages); err != nil {
		return err
	}
	if _, err := a.sink.SectionTrends(r.SectionTrend, r.JurisdictionTrend); err != nil {
		return err
	}
	_, err = a.sink.Summary(r.Section+" summary", r.Summary, r.Outcomes, plotting.KindStackedBar)
	return err
}

func (a *analysis) compare(ctx context.Context) error {
	if err := a.requireSection(); err != nil {
		return err
	}
	r, err := a.j.SectionVsRest(ctx, a.field, a.value, a.groups, a.years)
	if err != nil {
		return err
	}

	name := fmt.Sprintf("%s vs rest of %s", r.Section, r.Jurisdiction)
	tables := report.ComparisonTables(r)
	if _, err := a.writer.WriteWorkbook(name, tables); err != nil {
		return err
	}
	if _, err := a.writer.WriteTable(name, report.ClassificationTable(name, r.Groups, r.Overall)); err != nil {
		return err
	}
	lines := report.ComparisonLines(r)
	if _, err := a.writer.WriteLines(name, lines); err != nil {
		return err
	}
	for _, l := range lines {
		fmt.Fprintln(a.stdout, l)
	}

	if !a.drawCharts() {
		return nil
	}
	for _, kt := range r.Trends {
		if _, err := a.sink.KeyTrend(r.Section, "rest of "+r.Jurisdiction, kt); err != nil {
			return err
		}
	}
	return nil
}
