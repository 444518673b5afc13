package aggregation

import (
	"fmt"

	apperrors "justfair/internal/errors"
	"justfair/pkg/contracts/domain"
)

// Classify places subgroup relative to baseline with a relative band:
// above (1+band)*baseline is ABOVE, below (1-band)*baseline is BELOW.
func Classify(subgroup, baseline, band float64) domain.Level {
	switch {
	case subgroup > (1+band)*baseline:
		return domain.LevelAbove
	case subgroup < (1-band)*baseline:
		return domain.LevelBelow
	default:
		return domain.LevelWithin
	}
}

func validateBand(band float64) error {
	if band < 0 || band >= 1 {
		return apperrors.NewValidationError(fmt.Sprintf("band %.4f outside [0, 1)", band))
	}
	return nil
}

func sameFields(a, b []domain.Field) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Compare classifies every (group, outcome) of subgroup against baseline.
// Groups are taken from both summaries; a key missing from either side is
// skipped rather than compared against zero. With no grouping fields this is
// a flat per-outcome comparison.
func Compare(subgroup, baseline *domain.PercentageTable, order []string, band float64) ([]domain.Classification, error) {
	if err := ValidateOrder(order); err != nil {
		return nil, err
	}
	if err := validateBand(band); err != nil {
		return nil, err
	}
	if subgroup == nil || baseline == nil {
		return nil, apperrors.NewNoDataError("comparison")
	}
	if !sameFields(subgroup.Fields, baseline.Fields) {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("summaries grouped differently: %v vs %v", subgroup.Fields, baseline.Fields))
	}

	seen := make(map[string]struct{})
	var groups [][]string
	for _, g := range append(subgroup.Groups(), baseline.Groups()...) {
		id := domain.GroupID(g)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		groups = append(groups, g)
	}
	sortGroups(groups)

	var out []domain.Classification
	for _, values := range groups {
		for _, outcome := range order {
			key := domain.GroupingKey{Values: values, Outcome: outcome}
			s, okS := subgroup.Lookup(key)
			b, okB := baseline.Lookup(key)
			if !okS || !okB {
				continue
			}
			out = append(out, domain.Classification{
				Values:   values,
				Outcome:  outcome,
				Subgroup: s.Percent,
				Baseline: b.Percent,
				Level:    Classify(s.Percent, b.Percent, band),
			})
		}
	}
	return out, nil
}

// CompareRows summarizes both row sets by fields and compares them
func CompareRows(subgroup, baseline []domain.CaseRow, fields []domain.Field, order []string, band float64) ([]domain.Classification, error) {
	sub, err := Summarize(subgroup, fields, order)
	if err != nil {
		return nil, fmt.Errorf("summarize subgroup: %w", err)
	}
	base, err := Summarize(baseline, fields, order)
	if err != nil {
		return nil, fmt.Errorf("summarize baseline: %w", err)
	}
	return Compare(sub, base, order, band)
}

// CompareByYear runs CompareRows once per year of years on the rows of that
// year. Both sides must have data in every requested year.
func CompareByYear(subgroup, baseline []domain.CaseRow, fields []domain.Field, order []string, years []int, band float64) ([]domain.YearComparison, error) {
	out := make([]domain.YearComparison, 0, len(years))
	for _, y := range years {
		only := domain.InYears([]int{y})
		sub := domain.FilterRows(subgroup, only)
		base := domain.FilterRows(baseline, only)
		if len(sub) == 0 {
			return nil, apperrors.NewNoDataError(fmt.Sprintf("subgroup in year %d", y)).WithContext("year", y)
		}
		if len(base) == 0 {
			return nil, apperrors.NewNoDataError(fmt.Sprintf("baseline in year %d", y)).WithContext("year", y)
		}
		classes, err := CompareRows(sub, base, fields, order, band)
		if err != nil {
			return nil, fmt.Errorf("compare year %d: %w", y, err)
		}
		out = append(out, domain.YearComparison{Year: y, Classifications: classes})
	}
	return out, nil
}

// KeyTrends builds, for each group of the baseline summary over all years,
// the subgroup and baseline percents of every outcome in every year. A year
// in which a side has no rows, or lacks the group, reads as zero.
func KeyTrends(subgroup, baseline []domain.CaseRow, fields []domain.Field, order []string, years []int) ([]domain.KeyTrend, error) {
	overall, err := Summarize(baseline, fields, order)
	if err != nil {
		return nil, fmt.Errorf("summarize baseline: %w", err)
	}
	groups := overall.Groups()

	trends := make([]domain.KeyTrend, len(groups))
	for i, g := range groups {
		trends[i] = domain.NewKeyTrend(g, order, years)
	}

	for yi, y := range years {
		only := domain.InYears([]int{y})
		sub, err := summarizeOrNil(domain.FilterRows(subgroup, only), fields, order)
		if err != nil {
			return nil, err
		}
		base, err := summarizeOrNil(domain.FilterRows(baseline, only), fields, order)
		if err != nil {
			return nil, err
		}
		for i, g := range groups {
			sp := sub.Percents(g, order)
			bp := base.Percents(g, order)
			for oi := range order {
				trends[i].Subgroup[oi][yi] = sp[oi]
				trends[i].Baseline[oi][yi] = bp[oi]
			}
		}
	}
	return trends, nil
}

func summarizeOrNil(rows []domain.CaseRow, fields []domain.Field, order []string) (*domain.PercentageTable, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	return Summarize(rows, fields, order)
}
