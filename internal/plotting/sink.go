package plotting

import (
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/colornames"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"

	"justfair/internal/config"
	apperrors "justfair/internal/errors"
)

// Kind selects how a multi-level summary is drawn
type Kind string

const (
	KindBar        Kind = "bar"
	KindStackedBar Kind = "stacked bar"
	KindPie        Kind = "pie"
	KindNone       Kind = "none"
)

// ParseKind accepts the kind names used on the command line
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindBar, KindStackedBar, KindPie, KindNone:
		return k, nil
	case "stacked", "stacked-bar":
		return KindStackedBar, nil
	case "":
		return KindNone, nil
	}
	return "", apperrors.NewValidationError(fmt.Sprintf("unknown plot kind %q", s))
}

// PNGSink renders computed series to PNG files in the charts directory.
// It never computes anything itself.
type PNGSink struct {
	paths   config.PathsConfig
	palette []color.Color
	width   vg.Length
	height  vg.Length
	logger  *slog.Logger
}

// NewPNGSink resolves the color names (SVG/CSS names such as "lightcoral")
// into a palette used in outcome order
func NewPNGSink(paths config.PathsConfig, colors []string, logger *slog.Logger) (*PNGSink, error) {
	if logger == nil {
		logger = slog.Default()
	}
	palette, err := Palette(colors)
	if err != nil {
		return nil, err
	}
	return &PNGSink{
		paths:   paths,
		palette: palette,
		width:   10 * vg.Inch,
		height:  7 * vg.Inch,
		logger:  logger.With("component", "plotting"),
	}, nil
}

// Palette converts color names to colors
func Palette(names []string) ([]color.Color, error) {
	out := make([]color.Color, len(names))
	for i, n := range names {
		c, ok := colornames.Map[strings.ToLower(strings.TrimSpace(n))]
		if !ok {
			return nil, apperrors.NewConfigError(fmt.Sprintf("unknown color %q", n), nil)
		}
		out[i] = c
	}
	return out, nil
}

func (s *PNGSink) color(i int) color.Color {
	if len(s.palette) == 0 {
		return color.Black
	}
	return s.palette[i%len(s.palette)]
}

func (s *PNGSink) save(p *plot.Plot, name string, height vg.Length) (string, error) {
	path := s.paths.ChartPath(name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", apperrors.NewStorageError("create directory", err).WithContext("path", path)
	}
	if err := p.Save(s.width, height, path); err != nil {
		return "", apperrors.NewStorageError("save chart", err).WithContext("path", path)
	}
	s.logger.Debug("Saved chart", slog.String("path", path))
	return path, nil
}

func newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Legend.Top = true
	return p
}
