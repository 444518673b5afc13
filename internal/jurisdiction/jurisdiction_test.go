package jurisdiction

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"justfair/internal/dataprocessing"
	apperrors "justfair/internal/errors"
	"justfair/internal/schema"
	"justfair/internal/shared/testutil"
	"justfair/pkg/contracts/domain"
)

var testOrder = []string{"Above", "Within", "Below", "Missing"}

const (
	fieldJudge domain.Field = "judge"
	fieldRace  domain.Field = "race"
)

func testMapping(t *testing.T) *schema.Mapping {
	t.Helper()
	m, err := schema.New(map[domain.Field]schema.FieldPath{
		domain.FieldYear: {Column: "year"},
		domain.FieldDeparture: {Column: "dep", Labels: map[string]string{
			"0": "Within",
			"1": "Above",
			"2": "Below",
			"3": "Missing",
		}},
		fieldJudge: {Column: "judge"},
		fieldRace:  {Column: "race"},
	})
	require.NoError(t, err)
	return m
}

func caseRow(year int, outcome, judge, race string) domain.CaseRow {
	return domain.CaseRow{
		Year:    year,
		Outcome: outcome,
		Factors: map[domain.Field]string{fieldJudge: judge, fieldRace: race},
	}
}

// courtRows has judge J1 active in 2019 and 2020 only
func courtRows() []domain.CaseRow {
	return []domain.CaseRow{
		caseRow(2019, "Above", "J1", "White"),
		caseRow(2019, "Within", "J2", "Black"),
		caseRow(2019, "Within", "J1", "White"),
		caseRow(2019, "Below", "J2", "Black"),
		caseRow(2020, "Above", "J1", "White"),
		caseRow(2020, "Within", "J1", "Black"),
		caseRow(2020, "Below", "J2", "White"),
		caseRow(2020, "Within", "J2", "Black"),
		caseRow(2021, "Within", "J2", "White"),
		caseRow(2021, "Below", "J2", "Black"),
	}
}

func newCourt(t *testing.T) *Jurisdiction {
	t.Helper()
	j, err := New(context.Background(), "Kansas", courtRows(), testMapping(t), Options{OutcomeOrder: testOrder})
	require.NoError(t, err)
	return j
}

func TestNew(t *testing.T) {
	j := newCourt(t)

	assert.Equal(t, "Kansas", j.Name())
	assert.Equal(t, 10, j.Len())
	assert.Equal(t, []int{2019, 2020, 2021}, j.Years())
	assert.Equal(t, domain.DefaultBand, j.Band())
	assert.Equal(t, []float64{20, 50, 30, 0}, j.AveragePercents())

	p, ok := j.Yearly().Percents(2021)
	require.True(t, ok)
	assert.Equal(t, []float64{0, 50, 50, 0}, p)
}

func TestNew_Errors(t *testing.T) {
	ctx := context.Background()
	m := testMapping(t)

	_, err := New(ctx, "Empty", nil, m, Options{OutcomeOrder: testOrder})
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNoData))

	_, err = New(ctx, "NoOrder", courtRows(), m, Options{})
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
}

func TestNew_OutcomeOutsideOrder(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	rows := append(courtRows(), caseRow(2021, "Unknown", "J2", "White"), caseRow(2021, "Unknown", "J2", "White"))
	j, err := New(context.Background(), "Kansas", rows, testMapping(t), Options{OutcomeOrder: testOrder, Logger: logger})
	require.NoError(t, err)

	warning := testutil.AssertLogContains(t, logs, slog.LevelWarn, "outcome not in outcome order")
	assert.Equal(t, "Unknown", warning.Attrs["outcome"])
	assert.EqualValues(t, 2, warning.Attrs["rows"])
	assert.Equal(t, "Kansas", warning.Attrs["jurisdiction"])

	// the two unordered rows still count toward every denominator
	assert.Equal(t, []float64{16.67, 41.67, 25, 0}, j.AveragePercents())
	p, _ := j.Yearly().Percents(2021)
	assert.Equal(t, []float64{0, 25, 25, 0}, p)
}

func TestMultiLevelSummary(t *testing.T) {
	j := newCourt(t)
	ctx := context.Background()

	summary, err := j.MultiLevelSummary(ctx, []domain.Field{fieldRace, domain.FieldDeparture}, []int{2021})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, [][]string{{"Black"}, {"White"}}, summary.Groups())
	assert.Equal(t, []float64{0, 0, 50, 0}, summary.Percents([]string{"Black"}, testOrder))
	assert.Equal(t, []float64{0, 50, 0, 0}, summary.Percents([]string{"White"}, testOrder))

	all, err := j.MultiLevelSummary(ctx, []domain.Field{domain.FieldDeparture}, nil)
	require.NoError(t, err)
	assert.Equal(t, j.AveragePercents(), all.Percents([]string{}, testOrder))

	_, err = j.MultiLevelSummary(ctx, []domain.Field{"court"}, nil)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeUnknownField))

	_, err = j.MultiLevelSummary(ctx, nil, []int{1999})
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNoData))
}

func TestAverageForYears(t *testing.T) {
	j := newCourt(t)

	got, err := j.AverageForYears([]int{2019, 2021})
	require.NoError(t, err)
	assert.Equal(t, []float64{12.5, 50, 37.5, 0}, got)

	_, err = j.AverageForYears([]int{2019, 2022})
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeMissingYear))
}

func TestTrends(t *testing.T) {
	series, err := newCourt(t).Trends()
	require.NoError(t, err)

	want := domain.TrendSeries{
		Name:     "Kansas",
		Years:    []int{2019, 2020, 2021},
		Outcomes: testOrder,
		Values: [][]float64{
			{25, 50, 25, 0},
			{25, 50, 25, 0},
			{0, 50, 50, 0},
		},
	}
	if diff := cmp.Diff(want, series); diff != "" {
		t.Errorf("Trends() mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []float64{50, 50, 50}, series.Column(1))
}

func TestSubset_LeavesParentUntouched(t *testing.T) {
	j := newCourt(t)
	sub, err := j.Subset(context.Background(), "White", func(r domain.CaseRow) bool {
		return r.Factors[fieldRace] == "White"
	})
	require.NoError(t, err)

	assert.Equal(t, 5, sub.Len())
	assert.Equal(t, []float64{40, 40, 20, 0}, sub.AveragePercents())
	assert.Equal(t, []float64{20, 50, 30, 0}, j.AveragePercents())

	_, err = j.Subset(context.Background(), "Nobody", func(domain.CaseRow) bool { return false })
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNoData))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kansas.csv")
	csv := "year,dep,judge,race\n" +
		"2019,1,J1,White\n" +
		"2019,0,J2,Black\n" +
		"2020,2,J1,Black\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0644))

	j, err := Load(context.Background(), "Kansas", path, dataprocessing.NewLoader(nil, nil), testMapping(t), Options{OutcomeOrder: testOrder})
	require.NoError(t, err)
	assert.Equal(t, 3, j.Len())
	assert.Equal(t, []int{2019, 2020}, j.Years())
	assert.Equal(t, []float64{33.33, 33.33, 33.33, 0}, j.AveragePercents())

	_, err = Load(context.Background(), "Kansas", filepath.Join(dir, "missing.csv"), dataprocessing.NewLoader(nil, nil), testMapping(t), Options{OutcomeOrder: testOrder})
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeStorage))
}
