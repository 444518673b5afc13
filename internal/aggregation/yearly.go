package aggregation

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"

	apperrors "justfair/internal/errors"
	"justfair/pkg/contracts/domain"
)

// YearlyTable holds, for every year with data, the outcome counts of that
// year in canonical order. It is read-only after construction.
type YearlyTable struct {
	outcomes []string
	years    []int
	counts   map[int][]int
	totals   map[int]int
}

// YearlyAveragePercents splits rows by year and summarizes each year on its own
func YearlyAveragePercents(rows []domain.CaseRow, order []string) (*YearlyTable, error) {
	if err := ValidateOrder(order); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperrors.NewNoDataError("yearly averages")
	}

	byYear := make(map[int][]domain.CaseRow)
	for _, r := range rows {
		byYear[r.Year] = append(byYear[r.Year], r)
	}

	t := &YearlyTable{
		outcomes: append([]string(nil), order...),
		years:    make([]int, 0, len(byYear)),
		counts:   make(map[int][]int, len(byYear)),
		totals:   make(map[int]int, len(byYear)),
	}
	for year, yearRows := range byYear {
		summary, err := Summarize(yearRows, nil, order)
		if err != nil {
			return nil, fmt.Errorf("summarize year %d: %w", year, err)
		}
		t.years = append(t.years, year)
		t.counts[year] = summary.Counts([]string{}, order)
		t.totals[year] = summary.Total
	}
	sort.Ints(t.years)
	return t, nil
}

// Years returns the years with data, ascending
func (t *YearlyTable) Years() []int {
	return append([]int(nil), t.years...)
}

// Outcomes returns the canonical outcome order of the table
func (t *YearlyTable) Outcomes() []string {
	return append([]string(nil), t.outcomes...)
}

// Has reports whether year has data
func (t *YearlyTable) Has(year int) bool {
	_, ok := t.totals[year]
	return ok
}

// Total returns the number of rows in year
func (t *YearlyTable) Total(year int) int {
	return t.totals[year]
}

// Counts returns the outcome counts of year
func (t *YearlyTable) Counts(year int) ([]int, bool) {
	c, ok := t.counts[year]
	if !ok {
		return nil, false
	}
	return append([]int(nil), c...), true
}

// Percents returns the rounded outcome percents of year
func (t *YearlyTable) Percents(year int) ([]float64, bool) {
	exact, ok := t.exact(year)
	if !ok {
		return nil, false
	}
	for i := range exact {
		exact[i] = Round2(exact[i])
	}
	return exact, true
}

func (t *YearlyTable) exact(year int) ([]float64, bool) {
	counts, ok := t.counts[year]
	if !ok {
		return nil, false
	}
	out := make([]float64, len(counts))
	for i, c := range counts {
		out[i] = exactPercent(c, t.totals[year])
	}
	return out, true
}

// Series returns the rounded percents of the given years as a trend series.
// A nil years slice selects every year of the table.
func (t *YearlyTable) Series(name string, years []int) (domain.TrendSeries, error) {
	if years == nil {
		years = t.years
	}
	s := domain.TrendSeries{
		Name:     name,
		Years:    append([]int(nil), years...),
		Outcomes: t.Outcomes(),
		Values:   make([][]float64, len(years)),
	}
	for i, y := range years {
		p, ok := t.Percents(y)
		if !ok {
			return domain.TrendSeries{}, apperrors.NewMissingYearError(y)
		}
		s.Values[i] = p
	}
	return s, nil
}

// YearSpanAverage averages the yearly vectors of years column by column. Each
// year weighs the same regardless of its row count. Every requested year must
// be present in the table.
func YearSpanAverage(t *YearlyTable, years []int) ([]float64, error) {
	if len(years) == 0 {
		return nil, apperrors.NewNoDataError("empty year span")
	}

	columns := make([][]float64, len(t.outcomes))
	for _, y := range years {
		exact, ok := t.exact(y)
		if !ok {
			return nil, apperrors.NewMissingYearError(y)
		}
		for i, p := range exact {
			columns[i] = append(columns[i], p)
		}
	}

	means := make([]float64, len(columns))
	for i, col := range columns {
		means[i] = Round2(stat.Mean(col, nil))
	}
	return means, nil
}
