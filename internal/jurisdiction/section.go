package jurisdiction

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"justfair/internal/aggregation"
	apperrors "justfair/internal/errors"
	"justfair/internal/infrastructure"
	"justfair/pkg/contracts/domain"
)

// SectionReport compares one section with the jurisdiction average
type SectionReport struct {
	Jurisdiction string
	Field        domain.Field
	Section      string
	Years        []int
	Outcomes     []string

	// Summary is the section's rows in Years grouped by the requested fields
	Summary *domain.PercentageTable

	SectionAverages      []float64
	JurisdictionAverages []float64

	SectionTrend      domain.TrendSeries
	JurisdictionTrend domain.TrendSeries

	// Standings compares the last year of the span, one entry per outcome
	Standings []domain.Standing
}

// SectionAnalysis compares the rows whose field equals value with the whole
// jurisdiction over years, or over the years the section was active when
// years is nil. Every year of the span must have data on both sides.
func (j *Jurisdiction) SectionAnalysis(ctx context.Context, field domain.Field, value string, groups []domain.Field, years []int) (*SectionReport, error) {
	ctx, span := j.startSpan(ctx, "jurisdiction.SectionAnalysis",
		attribute.String("field", field.String()),
		attribute.String("section", value))
	defer span.End()
	defer j.metrics.RecordDuration(ctx, "section_analysis", time.Now())

	report, err := j.sectionAnalysis(ctx, field, value, groups, years)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, err
	}
	return report, nil
}

func (j *Jurisdiction) sectionAnalysis(ctx context.Context, field domain.Field, value string, groups []domain.Field, years []int) (*SectionReport, error) {
	sectionRows, _, err := j.split(field, value)
	if err != nil {
		return nil, err
	}
	if years == nil {
		years = activeYears(sectionRows)
	}
	if len(years) == 0 {
		return nil, apperrors.NewNoDataError("empty year span")
	}
	j.logger.InfoContext(ctx, "section active years",
		"section", value,
		"years", years,
	)

	section, err := j.Subset(ctx, value, func(r domain.CaseRow) bool {
		v, _ := r.Value(field)
		return v == value
	})
	if err != nil {
		return nil, err
	}

	inSpan := domain.FilterRows(sectionRows, domain.InYears(years))
	if len(inSpan) == 0 {
		return nil, apperrors.NewNoDataError(fmt.Sprintf("%s in years %v", value, years))
	}
	sectionAverages, err := aggregation.Averages(inSpan, j.order)
	if err != nil {
		return nil, err
	}
	jurisdictionAverages, err := j.AverageForYears(years)
	if err != nil {
		return nil, fmt.Errorf("%s average: %w", j.name, err)
	}

	sectionTrend, err := section.yearly.Series(value, years)
	if err != nil {
		return nil, fmt.Errorf("%s trend: %w", value, err)
	}
	jurisdictionTrend, err := j.yearly.Series(j.name, years)
	if err != nil {
		return nil, fmt.Errorf("%s trend: %w", j.name, err)
	}

	summary, err := j.summarize(ctx, inSpan, groups, nil)
	if err != nil {
		return nil, err
	}

	last := len(years) - 1
	standings := make([]domain.Standing, len(j.order))
	for i := range j.order {
		if sectionTrend.Values[last][i] >= jurisdictionTrend.Values[last][i] {
			standings[i] = domain.StandingAtOrAbove
		} else {
			standings[i] = domain.StandingBelow
		}
	}

	return &SectionReport{
		Jurisdiction:         j.name,
		Field:                field,
		Section:              value,
		Years:                append([]int(nil), years...),
		Outcomes:             j.OutcomeOrder(),
		Summary:              summary,
		SectionAverages:      sectionAverages,
		JurisdictionAverages: jurisdictionAverages,
		SectionTrend:         sectionTrend,
		JurisdictionTrend:    jurisdictionTrend,
		Standings:            standings,
	}, nil
}

// ComparisonReport compares one section with the rest of the jurisdiction
type ComparisonReport struct {
	Jurisdiction string
	Field        domain.Field
	Section      string
	Years        []int
	Outcomes     []string
	Groups       []domain.Field
	Band         float64

	SectionSummary *domain.PercentageTable
	RestSummary    *domain.PercentageTable

	// Overall classifies the whole span, ByYear each year of it
	Overall []domain.Classification
	ByYear  []domain.YearComparison
	// Trends has one entry per group of RestSummary
	Trends []domain.KeyTrend
}

// SectionVsRest compares the rows whose field equals value against every
// other row of the jurisdiction, both restricted to years (the section's
// active years when nil).
func (j *Jurisdiction) SectionVsRest(ctx context.Context, field domain.Field, value string, groups []domain.Field, years []int) (*ComparisonReport, error) {
	ctx, span := j.startSpan(ctx, "jurisdiction.SectionVsRest",
		attribute.String("field", field.String()),
		attribute.String("section", value))
	defer span.End()
	defer j.metrics.RecordDuration(ctx, "section_vs_rest", time.Now())

	report, err := j.sectionVsRest(ctx, field, value, groups, years)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, err
	}
	return report, nil
}

func (j *Jurisdiction) sectionVsRest(ctx context.Context, field domain.Field, value string, groups []domain.Field, years []int) (*ComparisonReport, error) {
	if err := j.mapping.MustHave(groups...); err != nil {
		return nil, err
	}
	sectionRows, restRows, err := j.split(field, value)
	if err != nil {
		return nil, err
	}
	if years == nil {
		years = activeYears(sectionRows)
	}
	j.logger.InfoContext(ctx, "comparing section with rest",
		"section", value,
		"years", years,
	)

	inSpan := domain.InYears(years)
	sectionRows = domain.FilterRows(sectionRows, inSpan)
	restRows = domain.FilterRows(restRows, inSpan)
	if len(sectionRows) == 0 {
		return nil, apperrors.NewNoDataError(fmt.Sprintf("%s in years %v", value, years))
	}
	if len(restRows) == 0 {
		return nil, apperrors.NewNoDataError(fmt.Sprintf("rest of %s in years %v", j.name, years))
	}

	fields := aggregation.GroupFields(groups)
	sectionSummary, err := aggregation.Summarize(sectionRows, fields, j.order)
	if err != nil {
		return nil, fmt.Errorf("summarize %s: %w", value, err)
	}
	restSummary, err := aggregation.Summarize(restRows, fields, j.order)
	if err != nil {
		return nil, fmt.Errorf("summarize rest of %s: %w", j.name, err)
	}
	j.metrics.RecordSummary(ctx, "section")
	j.metrics.RecordSummary(ctx, "rest")

	overall, err := aggregation.Compare(sectionSummary, restSummary, j.order, j.band)
	if err != nil {
		return nil, err
	}
	byYear, err := aggregation.CompareByYear(sectionRows, restRows, fields, j.order, years, j.band)
	if err != nil {
		return nil, err
	}
	trends, err := aggregation.KeyTrends(sectionRows, restRows, fields, j.order, years)
	if err != nil {
		return nil, err
	}

	for _, c := range overall {
		j.metrics.RecordClassification(ctx, string(c.Level))
	}

	return &ComparisonReport{
		Jurisdiction:   j.name,
		Field:          field,
		Section:        value,
		Years:          append([]int(nil), years...),
		Outcomes:       j.OutcomeOrder(),
		Groups:         fields,
		Band:           j.band,
		SectionSummary: sectionSummary,
		RestSummary:    restSummary,
		Overall:        overall,
		ByYear:         byYear,
		Trends:         trends,
	}, nil
}
