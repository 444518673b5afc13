package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Output subdirectories under PathsConfig.OutputDir
const (
	TablesDir = "tables"
	ChartsDir = "charts"
	TextDir   = "text"
)

// EnsureDirectories creates the output directory and its subdirectories
func (p PathsConfig) EnsureDirectories() error {
	directories := []string{
		p.OutputDir,
		filepath.Join(p.OutputDir, TablesDir),
		filepath.Join(p.OutputDir, ChartsDir),
		filepath.Join(p.OutputDir, TextDir),
	}

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
		slog.Debug("Ensured directory exists", slog.String("directory", dir))
	}
	return nil
}

// TablePath returns the path of a table file named after the analysis
func (p PathsConfig) TablePath(name, ext string) string {
	return filepath.Join(p.OutputDir, TablesDir, FileStem(name)+ext)
}

// ChartPath returns the path of a chart image
func (p PathsConfig) ChartPath(name string) string {
	return filepath.Join(p.OutputDir, ChartsDir, FileStem(name)+".png")
}

// TextPath returns the path of a text summary
func (p PathsConfig) TextPath(name string) string {
	return filepath.Join(p.OutputDir, TextDir, FileStem(name)+".txt")
}

var unsafeChars = regexp.MustCompile(`[^a-z0-9]+`)

// FileStem lowercases name and collapses anything that is not a letter or
// digit into single underscores
func FileStem(name string) string {
	stem := unsafeChars.ReplaceAllString(strings.ToLower(name), "_")
	stem = strings.Trim(stem, "_")
	if stem == "" {
		return "output"
	}
	return stem
}
