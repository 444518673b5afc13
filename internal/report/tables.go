package report

import (
	"justfair/internal/jurisdiction"
	"justfair/pkg/contracts/domain"
)

// Table is a named grid of strings ready for CSV or a workbook sheet
type Table struct {
	Name    string
	Headers []string
	Records [][]string
}

func fieldHeaders(fields []domain.Field, extra ...string) []string {
	h := make([]string, 0, len(fields)+len(extra))
	for _, f := range fields {
		h = append(h, f.String())
	}
	return append(h, extra...)
}

// SummaryTable lays out a percentage table as one record per grouping key:
// the group values, the outcome, the count and the percent
func SummaryTable(name string, t *domain.PercentageTable) Table {
	out := Table{
		Name:    name,
		Headers: fieldHeaders(t.Fields, domain.FieldDeparture.String(), "count", "percent"),
		Records: make([][]string, 0, len(t.Rows)),
	}
	for _, r := range t.Rows {
		rec := append(append([]string(nil), r.Key.Values...), r.Key.Outcome, formatInt(r.Count), formatFloat(r.Percent))
		out.Records = append(out.Records, rec)
	}
	return out
}

// ClassificationTable lists classifications with both percents and the level
func ClassificationTable(name string, fields []domain.Field, cs []domain.Classification) Table {
	out := Table{
		Name:    name,
		Headers: fieldHeaders(fields, domain.FieldDeparture.String(), "section_percent", "baseline_percent", "level"),
	}
	for _, c := range cs {
		out.Records = append(out.Records, classificationRecord(c))
	}
	return out
}

func classificationRecord(c domain.Classification) []string {
	return append(append([]string(nil), c.Values...),
		c.Outcome, formatFloat(c.Subgroup), formatFloat(c.Baseline), string(c.Level))
}

// YearComparisonTable flattens per-year classifications with a leading year column
func YearComparisonTable(name string, fields []domain.Field, ycs []domain.YearComparison) Table {
	out := Table{
		Name: name,
		Headers: append([]string{domain.FieldYear.String()},
			fieldHeaders(fields, domain.FieldDeparture.String(), "section_percent", "baseline_percent", "level")...),
	}
	for _, yc := range ycs {
		for _, c := range yc.Classifications {
			out.Records = append(out.Records, append([]string{formatInt(yc.Year)}, classificationRecord(c)...))
		}
	}
	return out
}

// TrendTable has one record per year and one column per outcome
func TrendTable(name string, s domain.TrendSeries) Table {
	out := Table{
		Name:    name,
		Headers: append([]string{domain.FieldYear.String()}, s.Outcomes...),
	}
	for i, y := range s.Years {
		rec := []string{formatInt(y)}
		for _, v := range s.Values[i] {
			rec = append(rec, formatFloat(v))
		}
		out.Records = append(out.Records, rec)
	}
	return out
}

// KeyTrendTable has one record per (group, year) with the section and
// baseline percent of every outcome
func KeyTrendTable(name string, fields []domain.Field, trends []domain.KeyTrend) Table {
	out := Table{Name: name}
	if len(trends) == 0 {
		return out
	}
	out.Headers = append(fieldHeaders(fields), domain.FieldYear.String())
	for _, o := range trends[0].Outcomes {
		out.Headers = append(out.Headers, o+" (section)", o+" (baseline)")
	}
	for _, kt := range trends {
		for yi, y := range kt.Years {
			rec := append(append([]string(nil), kt.Values...), formatInt(y))
			for oi := range kt.Outcomes {
				rec = append(rec, formatFloat(kt.Subgroup[oi][yi]), formatFloat(kt.Baseline[oi][yi]))
			}
			out.Records = append(out.Records, rec)
		}
	}
	return out
}

// AveragesTable compares two outcome vectors side by side
func AveragesTable(name string, outcomes []string, left string, l []float64, right string, r []float64) Table {
	out := Table{
		Name:    name,
		Headers: []string{domain.FieldDeparture.String(), left, right},
	}
	for i, o := range outcomes {
		out.Records = append(out.Records, []string{o, formatFloat(l[i]), formatFloat(r[i])})
	}
	return out
}

// SectionTables returns every table of a section analysis
func SectionTables(r *jurisdiction.SectionReport) []Table {
	return []Table{
		SummaryTable(r.Section+" summary", r.Summary),
		AveragesTable(r.Section+" averages", r.Outcomes, r.Section, r.SectionAverages, r.Jurisdiction, r.JurisdictionAverages),
		TrendTable(r.Section+" trend", r.SectionTrend),
		TrendTable(r.Jurisdiction+" trend", r.JurisdictionTrend),
	}
}

// ComparisonTables returns every table of a section versus rest comparison
func ComparisonTables(r *jurisdiction.ComparisonReport) []Table {
	return []Table{
		SummaryTable(r.Section+" summary", r.SectionSummary),
		SummaryTable("rest of "+r.Jurisdiction+" summary", r.RestSummary),
		ClassificationTable(r.Section+" vs rest", r.Groups, r.Overall),
		YearComparisonTable(r.Section+" vs rest by year", r.Groups, r.ByYear),
		KeyTrendTable(r.Section+" vs rest trends", r.Groups, r.Trends),
	}
}
