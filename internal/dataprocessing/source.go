package dataprocessing

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	apperrors "justfair/internal/errors"
	"justfair/internal/validation"
)

// Loader reads a data source once into a Table. Sources are local file paths
// or http(s) URLs; files ending in .xlsx are read as workbooks, everything
// else as CSV.
type Loader struct {
	client    *http.Client
	validator *validation.SourceValidator
	logger    *slog.Logger
	sheet     string
}

// NewLoader creates a loader. A nil client gets a client with a one minute timeout.
func NewLoader(client *http.Client, logger *slog.Logger) *Loader {
	if client == nil {
		client = &http.Client{Timeout: time.Minute}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{client: client, validator: validation.NewSourceValidator(logger), logger: logger}
}

// WithSheet selects the workbook sheet to read
func (l *Loader) WithSheet(sheet string) *Loader {
	l.sheet = sheet
	return l
}

// IsRemote reports whether location is an http(s) URL
func IsRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// DriveURL rewrites a Google Drive share link (".../file/d/<id>/view") to its
// direct download form. Other URLs are returned unchanged.
func DriveURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host != "drive.google.com" {
		return raw
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := 0; i+1 < len(parts); i++ {
		if parts[i] == "d" {
			return "https://drive.google.com/uc?id=" + parts[i+1]
		}
	}
	return raw
}

// Load reads location into a table
func (l *Loader) Load(ctx context.Context, location string) (*Table, error) {
	start := time.Now()

	var (
		body io.ReadCloser
		name string
		err  error
	)
	if IsRemote(location) {
		body, name, err = l.fetch(ctx, location)
	} else {
		name = location
		if err = l.validator.ValidateSource(location); err == nil {
			body, err = os.Open(location)
			if err != nil {
				err = apperrors.NewStorageError("open data source", err).WithContext("path", location)
			}
		}
	}
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var table *Table
	if strings.EqualFold(path.Ext(name), ".xlsx") {
		table, err = ParseXLSX(body, l.sheet)
	} else {
		table, err = ParseCSV(body)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", location, err)
	}

	l.logger.InfoContext(ctx, "loaded data source",
		slog.String("location", location),
		slog.Int("columns", len(table.Header)),
		slog.Int("records", table.Len()),
		slog.Duration("duration", time.Since(start)))
	return table, nil
}

func (l *Loader) fetch(ctx context.Context, location string) (io.ReadCloser, string, error) {
	target := DriveURL(location)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, "", apperrors.NewNetworkError("build request", err).WithContext("url", target)
	}

	l.logger.DebugContext(ctx, "fetching remote data source", slog.String("url", target))
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, "", apperrors.NewNetworkError("fetch data source", err).WithContext("url", target)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, "", apperrors.NewNetworkError(
			fmt.Sprintf("fetch data source: unexpected status %s", resp.Status), nil).
			WithContext("url", target).
			WithContext("status", resp.StatusCode)
	}

	name := location
	if u, err := url.Parse(location); err == nil {
		name = u.Path
	}
	return resp.Body, name, nil
}
