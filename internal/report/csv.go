package report

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"justfair/internal/config"
	apperrors "justfair/internal/errors"
)

// Writer writes analysis outputs under the configured output directory
type Writer struct {
	paths  config.PathsConfig
	logger *slog.Logger
}

// NewWriter creates a new writer instance
func NewWriter(paths config.PathsConfig, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{paths: paths, logger: logger.With("component", "report")}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes a CSV file, replacing any existing file at path
func (w *Writer) WriteCSV(path string, options WriteOptions) error {
	w.logger.Info("Writing CSV file",
		slog.String("path", path),
		slog.Int("record_count", len(options.Records)))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.NewStorageError("create directory", err).WithContext("path", path)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return apperrors.NewStorageError("open file", err).WithContext("path", path)
	}
	defer file.Close()

	if options.BOMPrefix {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return apperrors.NewStorageError("write BOM", err).WithContext("path", path)
		}
	}

	writer := csv.NewWriter(file)
	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return apperrors.NewStorageError("write headers", err).WithContext("path", path)
		}
	}
	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return apperrors.NewStorageError(fmt.Sprintf("write record %d", i), err).WithContext("path", path)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return apperrors.NewStorageError("flush", err).WithContext("path", path)
	}
	return nil
}

// WriteTable writes one table as CSV under the tables directory and returns its path
func (w *Writer) WriteTable(name string, t Table) (string, error) {
	path := w.paths.TablePath(name, ".csv")
	err := w.WriteCSV(path, WriteOptions{Headers: t.Headers, Records: t.Records, BOMPrefix: true})
	return path, err
}

// WriteLines writes text lines under the text directory and returns the path
func (w *Writer) WriteLines(name string, lines []string) (string, error) {
	path := w.paths.TextPath(name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", apperrors.NewStorageError("create directory", err).WithContext("path", path)
	}
	var buf []byte
	for _, l := range lines {
		buf = append(buf, l...)
		buf = append(buf, '\n')
	}
	if err := os.WriteFile(path, buf, 0644); err != nil {
		return "", apperrors.NewStorageError("write lines", err).WithContext("path", path)
	}
	w.logger.Info("Wrote report lines", slog.String("path", path), slog.Int("lines", len(lines)))
	return path, nil
}
