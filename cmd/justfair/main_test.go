package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"justfair/internal/config"
	"justfair/pkg/contracts/domain"
)

func TestParseYears(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []int
		wantErr bool
	}{
		{name: "empty", input: "", want: nil},
		{name: "list", input: "2016, 2018", want: []int{2016, 2018}},
		{name: "range", input: "2015-2017", want: []int{2015, 2016, 2017}},
		{name: "mixed", input: "2010,2015-2016", want: []int{2010, 2015, 2016}},
		{name: "reversed range", input: "2017-2015", wantErr: true},
		{name: "not a year", input: "20x6", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseYears(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFields(t *testing.T) {
	assert.Equal(t, []domain.Field{"race", "departure"}, parseFields(" race, ,departure"))
	assert.Empty(t, parseFields(""))
}

const testMapping = `
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
  judge:
    column: judge
  race:
    column: race
`

const testData = `sentyear,departure,judge,race
2019,1,J1,White
2019,0,J2,Black
2019,0,J1,White
2019,2,J2,Black
2020,1,J1,White
2020,0,J1,Black
2020,2,J2,White
2020,0,J2,Black
`

func writeFixtures(t *testing.T) (mapping, data, out string) {
	t.Helper()
	dir := t.TempDir()
	mapping = filepath.Join(dir, "mapping.yaml")
	data = filepath.Join(dir, "court.csv")
	require.NoError(t, os.WriteFile(mapping, []byte(testMapping), 0644))
	require.NoError(t, os.WriteFile(data, []byte(testData), 0644))
	return mapping, data, filepath.Join(dir, "out")
}

func TestRun_Compare(t *testing.T) {
	mapping, data, out := writeFixtures(t)
	metrics := filepath.Join(out, "metrics.prom")

	var stdout bytes.Buffer
	err := run(context.Background(), []string{"compare",
		"-mapping", mapping, "-data", data, "-out", out, "-name", "Kansas",
		"-field", "judge", "-section", "J1", "-groups", "race",
		"-plot", "none", "-metrics", metrics,
	}, &stdout)
	require.NoError(t, err)

	assert.Contains(t, stdout.String(), "Looking at J1 vs Kansas for Black")
	paths := config.PathsConfig{OutputDir: out}
	assert.FileExists(t, paths.TablePath("J1 vs rest of Kansas", ".xlsx"))
	assert.FileExists(t, paths.TablePath("J1 vs rest of Kansas", ".csv"))
	assert.FileExists(t, paths.TextPath("J1 vs rest of Kansas"))

	content, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(content), "justfair_rows_loaded_total")
}

func TestRun_SummaryChart(t *testing.T) {
	mapping, data, out := writeFixtures(t)

	var stdout bytes.Buffer
	err := run(context.Background(), []string{"summary",
		"-mapping", mapping, "-data", data, "-out", out,
		"-groups", "race,departure", "-years", "2019-2020",
	}, &stdout)
	require.NoError(t, err)

	paths := config.PathsConfig{OutputDir: out}
	assert.FileExists(t, paths.TablePath("Jurisdiction summary", ".csv"))
	assert.FileExists(t, paths.ChartPath("Jurisdiction summary"))
}

func TestRun_Errors(t *testing.T) {
	mapping, data, out := writeFixtures(t)
	ctx := context.Background()

	tests := []struct {
		name string
		args []string
	}{
		{name: "no command", args: nil},
		{name: "unknown command", args: []string{"plot"}},
		{name: "missing section", args: []string{"section", "-mapping", mapping, "-data", data, "-out", out, "-plot", "none"}},
		{name: "bad years", args: []string{"trends", "-mapping", mapping, "-data", data, "-out", out, "-years", "soon"}},
		{name: "bad plot kind", args: []string{"summary", "-mapping", mapping, "-data", data, "-out", out, "-plot", "donut"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout bytes.Buffer
			assert.Error(t, run(ctx, tt.args, &stdout))
		})
	}
}

func TestRun_Version(t *testing.T) {
	var stdout bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"version"}, &stdout))
	assert.Contains(t, stdout.String(), "justfair v")
}
