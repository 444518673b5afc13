package report

import (
	"fmt"

	"justfair/internal/jurisdiction"
	"justfair/pkg/contracts/domain"
)

// ComparisonLines renders the overall classifications of a section versus
// rest comparison, one statement per (group, outcome), each group introduced
// by a heading line
func ComparisonLines(r *jurisdiction.ComparisonReport) []string {
	var lines []string
	current := "\x00"
	for _, c := range r.Overall {
		if label := c.Label(); label != current {
			current = label
			if label == "" {
				label = "all"
			}
			lines = append(lines, fmt.Sprintf("Looking at %s vs %s for %s", r.Section, r.Jurisdiction, label))
		}
		lines = append(lines, fmt.Sprintf("%s %s currently has an average %s rate %s %s average in years queried",
			r.Section, r.Field, c.Outcome, c.Level.Phrase(), r.Jurisdiction))
	}
	return lines
}

// SectionLines renders the standing of a section against the jurisdiction
// in the last year of the span
func SectionLines(r *jurisdiction.SectionReport) []string {
	lines := []string{fmt.Sprintf("%s was active in the years: %s", r.Section, formatYears(r.Years))}
	for i, o := range r.Outcomes {
		lines = append(lines, standingLine(r.Section, o, r.Standings[i], r.Jurisdiction))
	}
	return lines
}

func standingLine(section, outcome string, s domain.Standing, baseline string) string {
	return fmt.Sprintf("%s currently has a(n) %s rate %s %s average in years queried",
		section, outcome, s.Phrase(), baseline)
}
