package aggregation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "justfair/internal/errors"
	"justfair/pkg/contracts/domain"
)

func TestRound2(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{in: 100.0 / 3, want: 33.33},
		{in: 200.0 / 3, want: 66.67},
		{in: 50, want: 50},
		{in: 0.005, want: 0.01},
		{in: 0, want: 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Round2(tt.in))
	}
}

func TestGroupFields(t *testing.T) {
	assert.Equal(t, []domain.Field{}, GroupFields([]domain.Field{domain.FieldDeparture}))
	assert.Equal(t, []domain.Field{"race", "sex"}, GroupFields([]domain.Field{"race", "sex", domain.FieldDeparture}))
	assert.Equal(t, []domain.Field{}, GroupFields(nil))
}

func TestAggregate_OutcomeOnly(t *testing.T) {
	table, err := Aggregate(scenarioRows(), nil)
	require.NoError(t, err)

	assert.Equal(t, 4, table.Total)
	require.Equal(t, 3, table.Len())

	tests := []struct {
		outcome string
		count   int
		percent float64
	}{
		{outcome: "Above", count: 1, percent: 25},
		{outcome: "Below", count: 1, percent: 25},
		{outcome: "Within", count: 2, percent: 50},
	}
	for i, tt := range tests {
		got := table.Rows[i]
		assert.Equal(t, tt.outcome, got.Key.Outcome)
		assert.Equal(t, tt.count, got.Count)
		assert.Equal(t, tt.percent, got.Percent)
	}
}

func TestAggregate_DenominatorIsWholeSlice(t *testing.T) {
	table, err := Aggregate(factorRows(), []domain.Field{"race"})
	require.NoError(t, err)

	// 9 rows in total: each percent is relative to all of them, not the group
	r, ok := table.Lookup(domain.GroupingKey{Values: []string{"White"}, Outcome: "Within"})
	require.True(t, ok)
	assert.Equal(t, 2, r.Count)
	assert.Equal(t, 22.22, r.Percent)

	_, ok = table.Lookup(domain.GroupingKey{Values: []string{"Asian"}, Outcome: "Above"})
	assert.False(t, ok, "unobserved combinations are absent from the raw aggregate")
}

func TestAggregate_YearAsGroupingField(t *testing.T) {
	table, err := Aggregate(scenarioRows(), []domain.Field{domain.FieldYear})
	require.NoError(t, err)

	assert.Equal(t, [][]string{{"2020"}, {"2021"}}, table.Groups())
}

func TestAggregate_Errors(t *testing.T) {
	_, err := Aggregate(nil, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNoData))

	_, err = Aggregate(scenarioRows(), []domain.Field{"judge"})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeUnknownField))
}

func TestNaturalCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{a: "2", b: "10", want: -1},
		{a: "10", b: "2", want: 1},
		{a: "2.0", b: "2", want: 1}, // equal numbers fall back to text
		{a: "9", b: "Asian", want: -1},
		{a: "Black", b: "7", want: 1},
		{a: "Asian", b: "Black", want: -1},
		{a: "Black", b: "Black", want: 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, naturalCompare(tt.a, tt.b), "%s vs %s", tt.a, tt.b)
	}
}
