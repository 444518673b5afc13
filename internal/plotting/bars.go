package plotting

import (
	"fmt"

	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	apperrors "justfair/internal/errors"
	"justfair/pkg/contracts/domain"
)

const percentLabel = "percentage (%)"

// Summary draws a multi-level summary: one bar position per group, one bar
// per outcome either side by side or stacked. KindNone draws nothing and
// returns an empty path.
func (s *PNGSink) Summary(title string, t *domain.PercentageTable, outcomes []string, kind Kind) (string, error) {
	switch kind {
	case KindNone:
		return "", nil
	case KindPie:
		return "", apperrors.NewValidationError("pie charts are not supported by the PNG sink")
	case KindBar, KindStackedBar:
	default:
		return "", apperrors.NewValidationError(fmt.Sprintf("unknown plot kind %q", kind))
	}
	if t.Len() == 0 {
		return "", apperrors.NewNoDataError(title)
	}

	groups := t.Groups()
	labels := make([]string, len(groups))
	columns := make([]plotter.Values, len(outcomes))
	for gi, g := range groups {
		labels[gi] = domain.JoinLabels(g)
		if labels[gi] == "" {
			labels[gi] = "all"
		}
		for oi, v := range t.Percents(g, outcomes) {
			columns[oi] = append(columns[oi], v)
		}
	}

	p := newPlot(title, "", percentLabel)
	width := vg.Points(40)
	if kind == KindBar {
		width = vg.Points(60) / vg.Length(len(outcomes))
	}

	var below *plotter.BarChart
	for oi, o := range outcomes {
		bars, err := plotter.NewBarChart(columns[oi], width)
		if err != nil {
			return "", fmt.Errorf("bar chart for %s: %w", o, err)
		}
		bars.Color = s.color(oi)
		bars.LineStyle.Width = vg.Length(0)
		if kind == KindStackedBar {
			if below != nil {
				bars.StackOn(below)
			}
			below = bars
		} else {
			bars.Offset = width * vg.Length(2*oi-len(outcomes)+1) / 2
		}
		p.Add(bars)
		p.Legend.Add(o, bars)
	}
	p.NominalX(labels...)
	if kind == KindStackedBar {
		p.Y.Max = 100
	}
	return s.save(p, title, s.height)
}

// SectionVsBaseline draws the outcome vectors of a section and its baseline
// as paired bars
func (s *PNGSink) SectionVsBaseline(title string, outcomes []string, section string, sectionValues []float64, baseline string, baselineValues []float64) (string, error) {
	if len(sectionValues) != len(outcomes) || len(baselineValues) != len(outcomes) {
		return "", apperrors.NewValidationError("vectors do not match the outcome order")
	}

	p := newPlot(title, "", percentLabel)
	width := vg.Points(20)
	for i, side := range []struct {
		name   string
		values plotter.Values
	}{
		{section, sectionValues},
		{baseline, baselineValues},
	} {
		bars, err := plotter.NewBarChart(side.values, width)
		if err != nil {
			return "", err
		}
		bars.Color = s.color(i * 2)
		bars.LineStyle.Width = vg.Length(0)
		bars.Offset = width * vg.Length(2*i-1) / 2
		p.Add(bars)
		p.Legend.Add(side.name, bars)
	}
	p.NominalX(outcomes...)
	return s.save(p, title, s.height)
}
