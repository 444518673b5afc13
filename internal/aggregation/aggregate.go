package aggregation

import (
	"math"
	"sort"
	"strconv"

	apperrors "justfair/internal/errors"
	"justfair/pkg/contracts/domain"
)

// Round2 rounds to two decimals, halves away from zero
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// Percent returns 100*count/total rounded to two decimals
func Percent(count, total int) float64 {
	return Round2(exactPercent(count, total))
}

func exactPercent(count, total int) float64 {
	return 100 * float64(count) / float64(total)
}

// GroupFields strips the departure field from a grouping request. Callers may
// list departure last, as reports do; it is always the trailing key part.
func GroupFields(fields []domain.Field) []domain.Field {
	out := make([]domain.Field, 0, len(fields))
	for _, f := range fields {
		if f != domain.FieldDeparture {
			out = append(out, f)
		}
	}
	return out
}

// Aggregate partitions rows by the values of fields plus the outcome and
// returns the count and percent of each observed partition. Percents are taken
// over len(rows); callers filter rows first to get per-year or per-subgroup
// shares. Partitions with no rows are absent from the result.
func Aggregate(rows []domain.CaseRow, fields []domain.Field) (*domain.PercentageTable, error) {
	if len(rows) == 0 {
		return nil, apperrors.NewNoDataError("aggregation")
	}
	fields = GroupFields(fields)

	type bucket struct {
		key   domain.GroupingKey
		count int
	}
	buckets := make(map[string]*bucket)

	for i, row := range rows {
		values := make([]string, len(fields))
		for j, f := range fields {
			v, ok := row.Value(f)
			if !ok {
				return nil, apperrors.NewUnknownFieldError(f.String()).WithContext("row", i)
			}
			values[j] = v
		}
		key := domain.GroupingKey{Values: values, Outcome: row.Outcome}
		id := key.ID()
		if b, ok := buckets[id]; ok {
			b.count++
			continue
		}
		buckets[id] = &bucket{key: key, count: 1}
	}

	out := make([]domain.PercentageRow, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, domain.PercentageRow{
			Key:     b.key,
			Count:   b.count,
			Percent: Percent(b.count, len(rows)),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := compareValues(out[i].Key.Values, out[j].Key.Values); c != 0 {
			return c < 0
		}
		return naturalCompare(out[i].Key.Outcome, out[j].Key.Outcome) < 0
	})

	return domain.NewPercentageTable(fields, len(rows), out), nil
}

// naturalCompare orders numeric labels by value and everything else lexically.
// Numbers sort before text.
func naturalCompare(a, b string) int {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	switch {
	case errA == nil && errB == nil:
		if fa < fb {
			return -1
		}
		if fa > fb {
			return 1
		}
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareValues(a, b []string) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := naturalCompare(a[i], b[i]); c != 0 {
			return c
		}
	}
	return len(a) - len(b)
}

func sortGroups(groups [][]string) {
	sort.SliceStable(groups, func(i, j int) bool {
		return compareValues(groups[i], groups[j]) < 0
	})
}
