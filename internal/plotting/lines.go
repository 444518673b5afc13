package plotting

import (
	"fmt"
	"image/color"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	apperrors "justfair/internal/errors"
	"justfair/pkg/contracts/domain"
)

// Trends draws a jurisdiction's yearly vectors. Compressed puts every
// outcome on one chart; otherwise each outcome gets its own chart.
func (s *PNGSink) Trends(series domain.TrendSeries, compressed bool) ([]string, error) {
	if len(series.Years) == 0 {
		return nil, apperrors.NewNoDataError(series.Name + " trends")
	}

	if compressed {
		p := newPlot(series.Name+" Trends", "year", percentLabel)
		for oi, o := range series.Outcomes {
			if err := addLine(p, series.Years, series.Column(oi), o, s.color(oi), false); err != nil {
				return nil, err
			}
		}
		yearTicks(p, series.Years)
		path, err := s.save(p, series.Name+" trends", s.height)
		if err != nil {
			return nil, err
		}
		return []string{path}, nil
	}

	paths := make([]string, 0, len(series.Outcomes))
	for oi, o := range series.Outcomes {
		title := fmt.Sprintf("%s %s over time.", series.Name, o)
		p := newPlot(title, "year", percentLabel)
		if err := addLine(p, series.Years, series.Column(oi), "", s.color(oi), false); err != nil {
			return nil, err
		}
		yearTicks(p, series.Years)
		path, err := s.save(p, series.Name+" "+o+" trend", 4*vg.Inch)
		if err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// SectionTrends draws a section's yearly vectors (solid) against its
// baseline's (dashed) over the same years
func (s *PNGSink) SectionTrends(section, baseline domain.TrendSeries) (string, error) {
	if len(section.Years) != len(baseline.Years) {
		return "", apperrors.NewValidationError("section and baseline cover different years")
	}
	title := fmt.Sprintf("%s vs %s over time", section.Name, baseline.Name)
	p := newPlot(title, "year", percentLabel)
	for oi, o := range section.Outcomes {
		if err := addLine(p, section.Years, section.Column(oi), section.Name+" "+o, s.color(oi), false); err != nil {
			return "", err
		}
		if err := addLine(p, baseline.Years, baseline.Column(oi), baseline.Name+" "+o, s.color(oi), true); err != nil {
			return "", err
		}
	}
	yearTicks(p, section.Years)
	return s.save(p, title, s.height)
}

// KeyTrend draws one group of a section versus rest comparison across years
func (s *PNGSink) KeyTrend(section, baseline string, kt domain.KeyTrend) (string, error) {
	label := kt.Label
	if label == "" {
		label = "all"
	}
	title := fmt.Sprintf("%s vs %s: %s", section, baseline, label)
	p := newPlot(title, "year", percentLabel)
	for oi, o := range kt.Outcomes {
		if err := addLine(p, kt.Years, kt.Subgroup[oi], section+" "+o, s.color(oi), false); err != nil {
			return "", err
		}
		if err := addLine(p, kt.Years, kt.Baseline[oi], baseline+" "+o, s.color(oi), true); err != nil {
			return "", err
		}
	}
	yearTicks(p, kt.Years)
	return s.save(p, title, s.height)
}

func addLine(p *plot.Plot, years []int, values []float64, legend string, c color.Color, dashed bool) error {
	pts := make(plotter.XYs, len(years))
	for i, y := range years {
		pts[i] = plotter.XY{X: float64(y), Y: values[i]}
	}

	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return fmt.Errorf("line %s: %w", legend, err)
	}
	line.Color = c
	line.Width = vg.Points(2)
	if dashed {
		line.Dashes = []vg.Length{vg.Points(5), vg.Points(5)}
	}
	points.Color = c
	points.Shape = draw.CircleGlyph{}
	points.Radius = vg.Points(3)

	p.Add(line, points)
	if legend != "" {
		p.Legend.Add(legend, line, points)
	}
	return nil
}

// yearTicks labels the x axis with whole years only
func yearTicks(p *plot.Plot, years []int) {
	ticks := make([]plot.Tick, len(years))
	for i, y := range years {
		ticks[i] = plot.Tick{Value: float64(y), Label: strconv.Itoa(y)}
	}
	p.X.Tick.Marker = plot.ConstantTicks(ticks)
	if len(years) == 1 {
		p.X.Min = float64(years[0]) - 1
		p.X.Max = float64(years[0]) + 1
	}
}
