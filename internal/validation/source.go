package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperrors "justfair/internal/errors"
)

// SourceValidator checks local data sources before they are parsed
type SourceValidator struct {
	logger *slog.Logger
}

// NewSourceValidator creates a new source validator
func NewSourceValidator(logger *slog.Logger) *SourceValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &SourceValidator{
		logger: logger,
	}
}

// ValidateSource checks that path is a readable, non-empty regular file in a
// format the loader can parse. Legacy .xls workbooks and Office lock files
// ("~$name.xlsx") are rejected.
func (v *SourceValidator) ValidateSource(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("Data source does not exist",
			slog.String("file", path))
		return apperrors.NewStorageError("data source does not exist", err).WithContext("path", path)
	}
	if err != nil {
		return apperrors.NewStorageError("stat data source", err).WithContext("path", path)
	}
	if info.IsDir() {
		return apperrors.NewValidationError(fmt.Sprintf("%s is a directory, not a file", path))
	}
	if info.Size() == 0 {
		return apperrors.NewValidationError(fmt.Sprintf("data source %s is empty", path))
	}

	base := filepath.Base(path)
	if strings.HasPrefix(base, "~$") {
		v.logger.Warn("Refusing temporary Excel file",
			slog.String("file", path))
		return apperrors.NewValidationError(fmt.Sprintf("%s is a temporary Excel file", path))
	}
	if ext := strings.ToLower(filepath.Ext(path)); ext == ".xls" {
		return apperrors.NewValidationError(fmt.Sprintf("%s: legacy .xls workbooks are not supported, save it as .xlsx", path))
	}

	// readable
	file, err := os.Open(path)
	if err != nil {
		return apperrors.NewStorageError("data source is not readable", err).WithContext("path", path)
	}
	file.Close()

	v.logger.Debug("Data source validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}
