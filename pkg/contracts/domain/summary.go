package domain

import (
	"strings"
)

// keySeparator joins key parts into a map key. It cannot appear in CSV labels
// produced by the loaders.
const keySeparator = "\x1f"

// GroupingKey identifies one row of a summary: the values of the grouping
// fields, in request order, followed by the outcome category.
type GroupingKey struct {
	Values  []string `json:"values"`
	Outcome string   `json:"outcome"`
}

// ID returns a comparable form of the key
func (k GroupingKey) ID() string {
	return GroupID(k.Values) + keySeparator + k.Outcome
}

// Label renders the grouping values for titles and reports
func (k GroupingKey) Label() string {
	return JoinLabels(k.Values)
}

// GroupID returns a comparable form of grouping values without an outcome
func GroupID(values []string) string {
	return strings.Join(values, keySeparator)
}

// PercentageRow holds the count and share of one grouping key within its slice
type PercentageRow struct {
	Key     GroupingKey `json:"key"`
	Count   int         `json:"count"`
	Percent float64     `json:"percent"`
}

// PercentageTable is an ordered set of percentage rows computed over a slice
// of Total case rows. Keys are unique.
type PercentageTable struct {
	Fields []Field         `json:"fields"`
	Total  int             `json:"total"`
	Rows   []PercentageRow `json:"rows"`
	index  map[string]int
}

// NewPercentageTable builds a table and indexes its rows by key
func NewPercentageTable(fields []Field, total int, rows []PercentageRow) *PercentageTable {
	t := &PercentageTable{
		Fields: fields,
		Total:  total,
		Rows:   rows,
		index:  make(map[string]int, len(rows)),
	}
	for i, r := range rows {
		t.index[r.Key.ID()] = i
	}
	return t
}

// Lookup returns the row for key
func (t *PercentageTable) Lookup(key GroupingKey) (PercentageRow, bool) {
	if t == nil {
		return PercentageRow{}, false
	}
	i, ok := t.index[key.ID()]
	if !ok {
		return PercentageRow{}, false
	}
	return t.Rows[i], true
}

// Len returns the number of rows
func (t *PercentageTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Groups returns the distinct grouping values in row order
func (t *PercentageTable) Groups() [][]string {
	if t == nil {
		return nil
	}
	seen := make(map[string]struct{})
	var groups [][]string
	for _, r := range t.Rows {
		id := GroupID(r.Key.Values)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		groups = append(groups, r.Key.Values)
	}
	return groups
}

// Percents returns the percent column for one group in the given outcome
// order. Outcomes absent from the table read as zero.
func (t *PercentageTable) Percents(values []string, outcomes []string) []float64 {
	out := make([]float64, len(outcomes))
	for i, o := range outcomes {
		if r, ok := t.Lookup(GroupingKey{Values: values, Outcome: o}); ok {
			out[i] = r.Percent
		}
	}
	return out
}

// Counts returns the count column for one group in the given outcome order
func (t *PercentageTable) Counts(values []string, outcomes []string) []int {
	out := make([]int, len(outcomes))
	for i, o := range outcomes {
		if r, ok := t.Lookup(GroupingKey{Values: values, Outcome: o}); ok {
			out[i] = r.Count
		}
	}
	return out
}
