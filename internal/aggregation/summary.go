package aggregation

import (
	"fmt"

	apperrors "justfair/internal/errors"
	"justfair/pkg/contracts/domain"
)

// ValidateOrder checks a canonical outcome order: at least one outcome and no repeats
func ValidateOrder(order []string) error {
	if len(order) == 0 {
		return apperrors.NewValidationError("outcome order is empty")
	}
	seen := make(map[string]struct{}, len(order))
	for _, o := range order {
		if _, ok := seen[o]; ok {
			return apperrors.NewValidationError(fmt.Sprintf("outcome %q repeated in outcome order", o))
		}
		seen[o] = struct{}{}
	}
	return nil
}

// Summarize builds the multi-level summary of rows grouped by fields. Groups
// follow the natural order of their values; inside each group there is
// exactly one row per outcome of order, zero when the group never had that
// outcome. Outcomes outside order still count toward the denominator.
func Summarize(rows []domain.CaseRow, fields []domain.Field, order []string) (*domain.PercentageTable, error) {
	if err := ValidateOrder(order); err != nil {
		return nil, err
	}
	raw, err := Aggregate(rows, fields)
	if err != nil {
		return nil, err
	}

	groups := raw.Groups()
	sortGroups(groups)

	out := make([]domain.PercentageRow, 0, len(groups)*len(order))
	for _, values := range groups {
		for _, outcome := range order {
			key := domain.GroupingKey{Values: values, Outcome: outcome}
			row, ok := raw.Lookup(key)
			if !ok {
				row = domain.PercentageRow{Key: key}
			}
			out = append(out, row)
		}
	}
	return domain.NewPercentageTable(raw.Fields, raw.Total, out), nil
}

// Averages returns the share of each outcome over all rows, in order
func Averages(rows []domain.CaseRow, order []string) ([]float64, error) {
	summary, err := Summarize(rows, nil, order)
	if err != nil {
		return nil, err
	}
	return summary.Percents([]string{}, order), nil
}
