package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "justfair/internal/errors"
	"justfair/pkg/contracts/domain"
)

const sampleMapping = `
fields:
  year:
    column: sentyear
  departure:
    column: departure
    labels:
      "0": Within Range
      "1": Above Departure
      "2": Below Range
      "3": Missing, Indeterminable, or Inapplicable
  race:
    column: newrace
    labels:
      "1": White
      "2": Black
  judge:
    column: judge_id
`

func TestFieldPath_Label(t *testing.T) {
	path := FieldPath{Column: "departure", Labels: map[string]string{"0": "Within Range", "1": "Above Departure"}}

	tests := []struct {
		name string
		path FieldPath
		raw  string
		want string
	}{
		{name: "exact code", path: path, raw: "1", want: "Above Departure"},
		{name: "float code", path: path, raw: "0.0", want: "Within Range"},
		{name: "padded code", path: path, raw: " 1 ", want: "Above Departure"},
		{name: "unknown code kept", path: path, raw: "9", want: "9"},
		{name: "no labels", path: FieldPath{Column: "judge"}, raw: "Smith", want: "Smith"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.path.Label(tt.raw))
		})
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		paths    map[domain.Field]FieldPath
		wantType apperrors.ErrorType
	}{
		{
			name:     "missing year",
			paths:    map[domain.Field]FieldPath{domain.FieldDeparture: {Column: "dep"}},
			wantType: apperrors.ErrTypeUnknownField,
		},
		{
			name:     "missing departure",
			paths:    map[domain.Field]FieldPath{domain.FieldYear: {Column: "yr"}},
			wantType: apperrors.ErrTypeUnknownField,
		},
		{
			name: "empty column",
			paths: map[domain.Field]FieldPath{
				domain.FieldYear:      {Column: "yr"},
				domain.FieldDeparture: {Column: ""},
			},
			wantType: apperrors.ErrTypeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.paths)
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, tt.wantType), "got %v", err)
		})
	}
}

func TestMapping_Lookup(t *testing.T) {
	m, err := Parse([]byte(sampleMapping))
	require.NoError(t, err)

	path, err := m.Lookup("race")
	require.NoError(t, err)
	assert.Equal(t, "newrace", path.Column)
	assert.Equal(t, "Black", path.Label("2"))

	_, err = m.Lookup("sex")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeUnknownField))
	assert.Contains(t, err.Error(), `"sex"`)

	assert.Error(t, m.MustHave(domain.FieldYear, "sex"))
	assert.NoError(t, m.MustHave(domain.FieldYear, "judge"))
}

func TestMapping_Fields(t *testing.T) {
	m, err := Parse([]byte(sampleMapping))
	require.NoError(t, err)

	assert.Equal(t, []domain.Field{"judge", "race"}, m.Factors())
	assert.Equal(t, []domain.Field{domain.FieldYear, domain.FieldDeparture, "judge", "race"}, m.Fields())
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mapping.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleMapping), 0644))

	m, err := LoadFile(path)
	require.NoError(t, err)
	dep, err := m.Lookup(domain.FieldDeparture)
	require.NoError(t, err)
	assert.Len(t, dep.Labels, 4)

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))

	_, err = Parse([]byte("fields: [not, a, map]"))
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeParsing))
}
