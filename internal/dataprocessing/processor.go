package dataprocessing

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	apperrors "justfair/internal/errors"
	"justfair/internal/schema"
	"justfair/pkg/contracts/domain"
)

// boundField is a mapped field resolved against a table header
type boundField struct {
	field  domain.Field
	path   schema.FieldPath
	column int
}

// RowBuilder turns raw records into case rows through a schema mapping
type RowBuilder struct {
	mapping *schema.Mapping
}

// NewRowBuilder creates a builder for mapping
func NewRowBuilder(mapping *schema.Mapping) *RowBuilder {
	return &RowBuilder{mapping: mapping}
}

// Build resolves every mapped field against the table header and converts
// each record. Codes are translated to labels; years must be integral.
func (b *RowBuilder) Build(table *Table) ([]domain.CaseRow, error) {
	bound := make([]boundField, 0, len(b.mapping.Fields()))
	for _, f := range b.mapping.Fields() {
		path, err := b.mapping.Lookup(f)
		if err != nil {
			return nil, err
		}
		col, ok := table.Column(path.Column)
		if !ok {
			return nil, apperrors.NewParsingError(
				fmt.Sprintf("column %q for field %q not found in data source", path.Column, f), nil).
				WithContext("field", f.String())
		}
		bound = append(bound, boundField{field: f, path: path, column: col})
	}

	rows := make([]domain.CaseRow, 0, table.Len())
	for i, record := range table.Records {
		row := domain.CaseRow{Factors: make(map[domain.Field]string, len(bound)-2)}
		for _, bf := range bound {
			raw := ""
			if bf.column < len(record) {
				raw = record[bf.column]
			}
			switch bf.field {
			case domain.FieldYear:
				year, err := ParseYear(raw)
				if err != nil {
					// +2: one for the header, one for 1-based numbering
					return nil, apperrors.NewParsingError(fmt.Sprintf("record %d", i+2), err).
						WithContext("column", bf.path.Column)
				}
				row.Year = year
			case domain.FieldDeparture:
				row.Outcome = bf.path.Label(raw)
			default:
				row.Factors[bf.field] = bf.path.Label(raw)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ParseYear accepts integral years written as "2019" or "2019.0"
func ParseYear(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("year is empty")
	}
	if y, err := strconv.Atoi(s); err == nil {
		return y, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("year %q is not an integer", raw)
	}
	return int(f), nil
}

// OutcomesOutside returns the outcome labels present in rows that are not in
// order, in first-seen order, with their counts
func OutcomesOutside(rows []domain.CaseRow, order []string) ([]string, map[string]int) {
	known := make(map[string]struct{}, len(order))
	for _, o := range order {
		known[o] = struct{}{}
	}
	var labels []string
	counts := make(map[string]int)
	for _, r := range rows {
		if _, ok := known[r.Outcome]; ok {
			continue
		}
		if counts[r.Outcome] == 0 {
			labels = append(labels, r.Outcome)
		}
		counts[r.Outcome]++
	}
	return labels, counts
}
