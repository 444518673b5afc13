package jurisdiction

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"justfair/internal/aggregation"
	"justfair/internal/dataprocessing"
	apperrors "justfair/internal/errors"
	"justfair/internal/infrastructure"
	"justfair/internal/schema"
	"justfair/pkg/contracts/domain"
)

// Options carries the settings every analysis of a jurisdiction uses
type Options struct {
	OutcomeOrder []string
	Band         float64
	Logger       *slog.Logger
	Tracer       trace.Tracer
	Metrics      *infrastructure.AnalysisMetrics
}

// Jurisdiction is a dataset scope such as a state. Its rows, overall
// averages and yearly table are computed once in New and only read after.
type Jurisdiction struct {
	name     string
	mapping  *schema.Mapping
	rows     []domain.CaseRow
	order    []string
	band     float64
	years    []int
	averages []float64
	yearly   *aggregation.YearlyTable

	base    *slog.Logger
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *infrastructure.AnalysisMetrics
}

// Load reads location through loader, converts it with mapping and builds
// the jurisdiction. Unreadable or malformed sources fail here.
func Load(ctx context.Context, name, location string, loader *dataprocessing.Loader, mapping *schema.Mapping, opts Options) (*Jurisdiction, error) {
	ctx, span := infrastructure.StartSpan(ctx, opts.Tracer, "jurisdiction.Load",
		attribute.String("jurisdiction", name))
	defer span.End()

	table, err := loader.Load(ctx, location)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	rows, err := dataprocessing.NewRowBuilder(mapping).Build(table)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, fmt.Errorf("build rows for %s: %w", name, err)
	}
	return New(ctx, name, rows, mapping, opts)
}

// New builds a jurisdiction over rows, computing the overall averages and
// the yearly table
func New(ctx context.Context, name string, rows []domain.CaseRow, mapping *schema.Mapping, opts Options) (*Jurisdiction, error) {
	return build(ctx, name, rows, mapping, opts, false)
}

func build(ctx context.Context, name string, rows []domain.CaseRow, mapping *schema.Mapping, opts Options, derived bool) (*Jurisdiction, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	// zero selects the default band
	band := opts.Band
	if band == 0 {
		band = domain.DefaultBand
	}

	if err := aggregation.ValidateOrder(opts.OutcomeOrder); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperrors.NewNoDataError(fmt.Sprintf("jurisdiction %s", name))
	}

	averages, err := aggregation.Averages(rows, opts.OutcomeOrder)
	if err != nil {
		return nil, fmt.Errorf("average percents: %w", err)
	}
	yearly, err := aggregation.YearlyAveragePercents(rows, opts.OutcomeOrder)
	if err != nil {
		return nil, fmt.Errorf("yearly average percents: %w", err)
	}

	j := &Jurisdiction{
		name:     name,
		mapping:  mapping,
		rows:     rows,
		order:    append([]string(nil), opts.OutcomeOrder...),
		band:     band,
		years:    yearly.Years(),
		averages: averages,
		yearly:   yearly,
		base:     logger,
		logger:   infrastructure.WithComponent(logger, "jurisdiction").With("jurisdiction", name),
		tracer:   opts.Tracer,
		metrics:  opts.Metrics,
	}

	if derived {
		return j, nil
	}

	labels, counts := dataprocessing.OutcomesOutside(rows, j.order)
	unordered := 0
	for _, l := range labels {
		unordered += counts[l]
		j.logger.WarnContext(ctx, "outcome not in outcome order",
			"outcome", l,
			"rows", counts[l],
		)
	}
	j.metrics.RecordLoad(ctx, name, len(rows), unordered)

	j.logger.InfoContext(ctx, "jurisdiction loaded",
		"rows", len(rows),
		"first_year", j.years[0],
		"last_year", j.years[len(j.years)-1],
	)
	return j, nil
}

// Name returns the display name of the jurisdiction
func (j *Jurisdiction) Name() string { return j.name }

// Years returns the years with data, ascending
func (j *Jurisdiction) Years() []int { return append([]int(nil), j.years...) }

// OutcomeOrder returns the canonical outcome order
func (j *Jurisdiction) OutcomeOrder() []string { return append([]string(nil), j.order...) }

// Band returns the comparison band
func (j *Jurisdiction) Band() float64 { return j.band }

// Len returns the number of rows
func (j *Jurisdiction) Len() int { return len(j.rows) }

// AveragePercents returns the share of each outcome over every row
func (j *Jurisdiction) AveragePercents() []float64 {
	return append([]float64(nil), j.averages...)
}

// Yearly returns the yearly average table
func (j *Jurisdiction) Yearly() *aggregation.YearlyTable { return j.yearly }

// MultiLevelSummary groups the rows of years (every row when years is nil)
// by groups. The departure field may be listed; it is always the last level.
func (j *Jurisdiction) MultiLevelSummary(ctx context.Context, groups []domain.Field, years []int) (*domain.PercentageTable, error) {
	ctx, span := j.startSpan(ctx, "jurisdiction.MultiLevelSummary")
	defer span.End()
	defer j.metrics.RecordDuration(ctx, "multi_level_summary", time.Now())

	summary, err := j.summarize(ctx, j.rows, groups, years)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, err
	}
	return summary, nil
}

func (j *Jurisdiction) summarize(ctx context.Context, rows []domain.CaseRow, groups []domain.Field, years []int) (*domain.PercentageTable, error) {
	if err := j.mapping.MustHave(groups...); err != nil {
		return nil, err
	}
	if years != nil {
		rows = domain.FilterRows(rows, domain.InYears(years))
		if len(rows) == 0 {
			return nil, apperrors.NewNoDataError(fmt.Sprintf("%s in years %v", j.name, years))
		}
	}
	summary, err := aggregation.Summarize(rows, aggregation.GroupFields(groups), j.order)
	if err != nil {
		return nil, err
	}
	j.metrics.RecordSummary(ctx, "multi_level")
	return summary, nil
}

// AverageForYears returns the mean of the yearly vectors of years. Every
// year must have data.
func (j *Jurisdiction) AverageForYears(years []int) ([]float64, error) {
	return aggregation.YearSpanAverage(j.yearly, years)
}

// Trends returns the yearly vectors of every year as a series named after
// the jurisdiction
func (j *Jurisdiction) Trends() (domain.TrendSeries, error) {
	return j.yearly.Series(j.name, nil)
}

// Subset derives a jurisdiction from the rows kept by keep. The derived
// object has its own yearly table; j is unchanged.
func (j *Jurisdiction) Subset(ctx context.Context, name string, keep func(domain.CaseRow) bool) (*Jurisdiction, error) {
	rows := domain.FilterRows(j.rows, keep)
	if len(rows) == 0 {
		return nil, apperrors.NewNoDataError(name)
	}
	return build(ctx, name, rows, j.mapping, j.options(), true)
}

func (j *Jurisdiction) options() Options {
	return Options{
		OutcomeOrder: j.order,
		Band:         j.band,
		Logger:       j.base,
		Tracer:       j.tracer,
		Metrics:      j.metrics,
	}
}

// split partitions the rows into those whose field equals value and the rest
func (j *Jurisdiction) split(field domain.Field, value string) (section, rest []domain.CaseRow, err error) {
	if err := j.mapping.MustHave(field); err != nil {
		return nil, nil, err
	}
	for _, r := range j.rows {
		if v, _ := r.Value(field); v == value {
			section = append(section, r)
		} else {
			rest = append(rest, r)
		}
	}
	if len(section) == 0 {
		return nil, nil, apperrors.NewNoDataError(fmt.Sprintf("%s %s in %s", field, value, j.name)).
			WithContext("field", field.String())
	}
	return section, rest, nil
}

func (j *Jurisdiction) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String("jurisdiction", j.name))
	return infrastructure.StartSpan(ctx, j.tracer, name, attrs...)
}

// activeYears returns the distinct years of rows, ascending
func activeYears(rows []domain.CaseRow) []int {
	seen := make(map[int]struct{})
	var years []int
	for _, r := range rows {
		if _, ok := seen[r.Year]; ok {
			continue
		}
		seen[r.Year] = struct{}{}
		years = append(years, r.Year)
	}
	sort.Ints(years)
	return years
}
