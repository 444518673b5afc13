package infrastructure

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// AnalysisMetrics records what each analysis run did. A nil
// *AnalysisMetrics records nothing.
type AnalysisMetrics struct {
	RowsLoaded      metric.Int64Counter
	SummariesBuilt  metric.Int64Counter
	Classifications metric.Int64Counter
	UnorderedRows   metric.Int64Counter
	Duration        metric.Float64Histogram
}

// NewAnalysisMetrics creates the analysis instruments on meter
func NewAnalysisMetrics(meter metric.Meter) (*AnalysisMetrics, error) {
	rowsLoaded, err := meter.Int64Counter(
		"justfair_rows_loaded",
		metric.WithDescription("Case rows loaded from data sources"),
	)
	if err != nil {
		return nil, err
	}

	summariesBuilt, err := meter.Int64Counter(
		"justfair_summaries_built",
		metric.WithDescription("Percentage tables built, by kind"),
	)
	if err != nil {
		return nil, err
	}

	classifications, err := meter.Int64Counter(
		"justfair_classifications",
		metric.WithDescription("Subgroup classifications, by level"),
	)
	if err != nil {
		return nil, err
	}

	unordered, err := meter.Int64Counter(
		"justfair_unordered_outcome_rows",
		metric.WithDescription("Rows whose outcome is not in the configured outcome order"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram(
		"justfair_analysis_duration",
		metric.WithDescription("Analysis duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &AnalysisMetrics{
		RowsLoaded:      rowsLoaded,
		SummariesBuilt:  summariesBuilt,
		Classifications: classifications,
		UnorderedRows:   unordered,
		Duration:        duration,
	}, nil
}

// RecordLoad counts rows loaded for a jurisdiction
func (m *AnalysisMetrics) RecordLoad(ctx context.Context, jurisdiction string, rows, unordered int) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("jurisdiction", jurisdiction))
	m.RowsLoaded.Add(ctx, int64(rows), attrs)
	if unordered > 0 {
		m.UnorderedRows.Add(ctx, int64(unordered), attrs)
	}
}

// RecordSummary counts one built table of the given kind
func (m *AnalysisMetrics) RecordSummary(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	m.SummariesBuilt.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}

// RecordClassification counts one classification at level
func (m *AnalysisMetrics) RecordClassification(ctx context.Context, level string) {
	if m == nil {
		return
	}
	m.Classifications.Add(ctx, 1, metric.WithAttributes(attribute.String("level", level)))
}

// RecordDuration observes how long operation took since start
func (m *AnalysisMetrics) RecordDuration(ctx context.Context, operation string, start time.Time) {
	if m == nil {
		return
	}
	m.Duration.Record(ctx, time.Since(start).Seconds(),
		metric.WithAttributes(attribute.String("operation", operation)))
}
