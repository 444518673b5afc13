package schema

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "justfair/internal/errors"
	"justfair/pkg/contracts/domain"
)

// FieldPath locates a semantic field in the raw data: the column that holds it
// and an optional dictionary translating raw codes to display labels.
type FieldPath struct {
	Column string            `yaml:"column" json:"column" validate:"required"`
	Labels map[string]string `yaml:"labels,omitempty" json:"labels,omitempty"`
}

// Label translates a raw code. Codes without a label are returned trimmed and
// unchanged. Numeric codes written as floats ("2.0") match integer keys ("2").
func (p FieldPath) Label(raw string) string {
	code := strings.TrimSpace(raw)
	if len(p.Labels) == 0 {
		return code
	}
	if label, ok := p.Labels[code]; ok {
		return label
	}
	if f, err := strconv.ParseFloat(code, 64); err == nil && f == math.Trunc(f) {
		if label, ok := p.Labels[strconv.FormatInt(int64(f), 10)]; ok {
			return label
		}
	}
	return code
}

// Mapping resolves semantic fields to raw columns. It always declares
// domain.FieldYear and domain.FieldDeparture.
type Mapping struct {
	paths map[domain.Field]FieldPath
}

var validate = validator.New()

// New validates paths and builds a mapping
func New(paths map[domain.Field]FieldPath) (*Mapping, error) {
	for _, required := range []domain.Field{domain.FieldYear, domain.FieldDeparture} {
		if _, ok := paths[required]; !ok {
			return nil, apperrors.NewUnknownFieldError(required.String()).
				WithContext("reason", "required by every schema mapping")
		}
	}

	m := &Mapping{paths: make(map[domain.Field]FieldPath, len(paths))}
	for field, path := range paths {
		if strings.TrimSpace(field.String()) == "" {
			return nil, apperrors.NewValidationError("schema mapping contains an empty field name")
		}
		if err := validate.Struct(path); err != nil {
			return nil, apperrors.NewAppError(apperrors.ErrTypeValidation,
				fmt.Sprintf("invalid path for field %q", field), err)
		}
		m.paths[field] = path
	}
	return m, nil
}

// Lookup returns the path of a field, failing for fields the mapping does not declare
func (m *Mapping) Lookup(field domain.Field) (FieldPath, error) {
	path, ok := m.paths[field]
	if !ok {
		return FieldPath{}, apperrors.NewUnknownFieldError(field.String())
	}
	return path, nil
}

// MustHave checks that every field is declared
func (m *Mapping) MustHave(fields ...domain.Field) error {
	for _, f := range fields {
		if _, err := m.Lookup(f); err != nil {
			return err
		}
	}
	return nil
}

// Fields returns all declared fields, year and departure first, factors sorted
func (m *Mapping) Fields() []domain.Field {
	return append([]domain.Field{domain.FieldYear, domain.FieldDeparture}, m.Factors()...)
}

// Factors returns the declared categorical factors in name order
func (m *Mapping) Factors() []domain.Field {
	factors := make([]domain.Field, 0, len(m.paths))
	for f := range m.paths {
		if !f.IsFixed() {
			factors = append(factors, f)
		}
	}
	sort.Slice(factors, func(i, j int) bool { return factors[i] < factors[j] })
	return factors
}
