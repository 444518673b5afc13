package domain

import (
	"strconv"
	"strings"
)

// Field names a semantic column of the sentencing data. The two fixed fields
// are FieldYear and FieldDeparture; every other field is a categorical factor
// (race, sex, judge, offense type, ...) declared by the schema mapping.
type Field string

const (
	// FieldYear is the sentencing year
	FieldYear Field = "year"
	// FieldDeparture is the sentencing outcome measured by every analysis
	FieldDeparture Field = "departure"
)

// String returns the field name
func (f Field) String() string {
	return string(f)
}

// IsFixed reports whether the field is one of the two fields every mapping must declare
func (f Field) IsFixed() bool {
	return f == FieldYear || f == FieldDeparture
}

// CaseRow is one sentencing event with its codes already translated to labels.
// Rows are built once when a jurisdiction is loaded and never modified afterwards.
type CaseRow struct {
	Year    int              `json:"year"`
	Outcome string           `json:"outcome"`
	Factors map[Field]string `json:"factors,omitempty"`
}

// Value returns the label of a field for this row. Year is rendered in base 10
// so it can take part in a grouping key like any other factor.
func (r CaseRow) Value(field Field) (string, bool) {
	switch field {
	case FieldYear:
		return strconv.Itoa(r.Year), true
	case FieldDeparture:
		return r.Outcome, true
	}
	v, ok := r.Factors[field]
	return v, ok
}

// FilterRows returns the rows for which keep returns true, preserving order
func FilterRows(rows []CaseRow, keep func(CaseRow) bool) []CaseRow {
	out := make([]CaseRow, 0, len(rows))
	for _, r := range rows {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// InYears returns a predicate matching rows whose year is in years
func InYears(years []int) func(CaseRow) bool {
	set := make(map[int]struct{}, len(years))
	for _, y := range years {
		set[y] = struct{}{}
	}
	return func(r CaseRow) bool {
		_, ok := set[r.Year]
		return ok
	}
}

// JoinLabels renders grouping values as a single display label
func JoinLabels(values []string) string {
	return strings.Join(values, " ")
}
