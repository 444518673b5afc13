package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorType_Constants(t *testing.T) {
	tests := []struct {
		name     string
		errType  ErrorType
		expected string
	}{
		{name: "unknown field", errType: ErrTypeUnknownField, expected: "UNKNOWN_FIELD"},
		{name: "no data", errType: ErrTypeNoData, expected: "NO_DATA"},
		{name: "missing year", errType: ErrTypeMissingYear, expected: "MISSING_YEAR"},
		{name: "network", errType: ErrTypeNetwork, expected: "NETWORK"},
		{name: "parsing", errType: ErrTypeParsing, expected: "PARSING"},
		{name: "storage", errType: ErrTypeStorage, expected: "STORAGE"},
		{name: "validation", errType: ErrTypeValidation, expected: "VALIDATION"},
		{name: "config", errType: ErrTypeConfig, expected: "CONFIG"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(tt.errType))
		})
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name        string
		appError    *AppError
		wantMessage string
	}{
		{
			name:        "error without cause",
			appError:    &AppError{Type: ErrTypeNoData, Message: "no data for year 2020"},
			wantMessage: "[NO_DATA] no data for year 2020",
		},
		{
			name: "error with cause",
			appError: &AppError{
				Type:    ErrTypeNetwork,
				Message: "fetch data source",
				Cause:   fmt.Errorf("connection refused"),
			},
			wantMessage: "[NETWORK] fetch data source: connection refused",
		},
		{
			name:        "error with empty message",
			appError:    &AppError{Type: ErrTypeValidation},
			wantMessage: "[VALIDATION] ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMessage, tt.appError.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("bad header")
	err := NewParsingError("read csv", cause)

	assert.Equal(t, cause, err.Unwrap())
	assert.True(t, errors.Is(err, cause))
	assert.Nil(t, NewValidationError("x").Unwrap())
}

func TestAppError_WithContext(t *testing.T) {
	err := &AppError{Type: ErrTypeConfig, Message: "bad band"}
	require.Nil(t, err.Context)

	got := err.WithContext("band", 1.5).WithContext("field", "analysis.band")

	assert.Same(t, err, got)
	assert.Equal(t, 1.5, err.Context["band"])
	assert.Equal(t, "analysis.band", err.Context["field"])
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		wantType ErrorType
		contains string
	}{
		{name: "unknown field", err: NewUnknownFieldError("race"), wantType: ErrTypeUnknownField, contains: `unknown semantic field "race"`},
		{name: "no data", err: NewNoDataError("year 2019"), wantType: ErrTypeNoData, contains: "no data for year 2019"},
		{name: "missing year", err: NewMissingYearError(2021), wantType: ErrTypeMissingYear, contains: "year 2021"},
		{name: "network", err: NewNetworkError("fetch", nil), wantType: ErrTypeNetwork, contains: "fetch"},
		{name: "storage", err: NewStorageError("write", nil), wantType: ErrTypeStorage, contains: "write"},
		{name: "config", err: NewConfigError("load", nil), wantType: ErrTypeConfig, contains: "load"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.err.Type)
			assert.Contains(t, tt.err.Error(), tt.contains)
			assert.NotNil(t, tt.err.Context)
		})
	}

	assert.Equal(t, 2021, NewMissingYearError(2021).Context["year"])
	assert.Equal(t, "race", NewUnknownFieldError("race").Context["field"])
}

func TestIsType(t *testing.T) {
	noData := NewNoDataError("section")

	tests := []struct {
		name    string
		err     error
		errType ErrorType
		want    bool
	}{
		{name: "direct match", err: noData, errType: ErrTypeNoData, want: true},
		{name: "wrapped match", err: fmt.Errorf("summarize: %w", noData), errType: ErrTypeNoData, want: true},
		{name: "nested app error", err: NewStorageError("export", noData), errType: ErrTypeNoData, want: true},
		{name: "different type", err: noData, errType: ErrTypeMissingYear, want: false},
		{name: "plain error", err: errors.New("boom"), errType: ErrTypeNoData, want: false},
		{name: "nil error", err: nil, errType: ErrTypeNoData, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsType(tt.err, tt.errType))
		})
	}
}
