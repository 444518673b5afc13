package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "justfair/internal/errors"
)

// TestLoad tests the Load function with various scenarios
func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		setupEnv    func(t *testing.T)
		setupFile   func(t *testing.T) string // returns temp file path
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "console", cfg.Logging.Output)
				assert.Equal(t, OutcomeList{
					"Above Departure",
					"Within Range",
					"Below Range",
					"Missing, Indeterminable, or Inapplicable",
				}, cfg.Analysis.OutcomeOrder)
				assert.Equal(t, []string{"lightcoral", "lightgrey", "cornflowerblue", "turquoise"}, cfg.Analysis.Colors)
				assert.Equal(t, 0.05, cfg.Analysis.Band)
				assert.Equal(t, "output", cfg.Paths.OutputDir)
				assert.False(t, cfg.Telemetry.EnableTracing)
				assert.True(t, cfg.Telemetry.EnableMetrics)
			},
		},
		{
			name: "yaml file overrides defaults",
			setupFile: func(t *testing.T) string {
				return writeConfig(t, `
logging:
  level: debug
analysis:
  band: 0.1
paths:
  data_source: data/kansas.csv
  output_dir: out
`)
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, 0.1, cfg.Analysis.Band)
				assert.Equal(t, "data/kansas.csv", cfg.Paths.DataSource)
				assert.Equal(t, "out", cfg.Paths.OutputDir)
				assert.Len(t, cfg.Analysis.OutcomeOrder, 4, "keys absent from the file keep defaults")
			},
		},
		{
			name: "environment overrides file",
			setupEnv: func(t *testing.T) {
				t.Setenv("JUSTFAIR_ANALYSIS_BAND", "0.2")
				t.Setenv("JUSTFAIR_ANALYSIS_OUTCOME_ORDER", "Above|Within|Below, or Other")
				t.Setenv("JUSTFAIR_ANALYSIS_COLORS", "red,grey,blue")
			},
			setupFile: func(t *testing.T) string {
				return writeConfig(t, "analysis:\n  band: 0.1\n")
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 0.2, cfg.Analysis.Band)
				assert.Equal(t, OutcomeList{"Above", "Within", "Below, or Other"}, cfg.Analysis.OutcomeOrder)
				assert.Equal(t, []string{"red", "grey", "blue"}, cfg.Analysis.Colors)
			},
		},
		{
			name: "missing file",
			setupFile: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "absent.yaml")
			},
			wantErr: true,
		},
		{
			name: "invalid yaml",
			setupFile: func(t *testing.T) string {
				return writeConfig(t, "analysis: [unclosed\n")
			},
			wantErr: true,
		},
		{
			name: "band out of range",
			setupEnv: func(t *testing.T) {
				t.Setenv("JUSTFAIR_ANALYSIS_BAND", "1.5")
			},
			wantErr: true,
		},
		{
			name: "fewer colors than outcomes",
			setupFile: func(t *testing.T) string {
				return writeConfig(t, "analysis:\n  colors: [red]\n")
			},
			wantErr: true,
		},
		{
			name: "duplicate outcome",
			setupEnv: func(t *testing.T) {
				t.Setenv("JUSTFAIR_ANALYSIS_OUTCOME_ORDER", "Above|Above")
			},
			wantErr: true,
		},
		{
			name: "unknown log level",
			setupEnv: func(t *testing.T) {
				t.Setenv("JUSTFAIR_LOGGING_LEVEL", "loud")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setupEnv != nil {
				tt.setupEnv(t)
			}
			path := ""
			if tt.setupFile != nil {
				path = tt.setupFile(t)
			}

			cfg, err := Load(path)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))
				return
			}
			require.NoError(t, err)
			if tt.validateCfg != nil {
				tt.validateCfg(t, cfg)
			}
		})
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "justfair.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestOutcomeList_Decode(t *testing.T) {
	var l OutcomeList
	require.NoError(t, l.Decode(" Above | | Missing, Indeterminable, or Inapplicable "))
	assert.Equal(t, OutcomeList{"Above", "Missing, Indeterminable, or Inapplicable"}, l)
}

func TestPaths(t *testing.T) {
	p := PathsConfig{OutputDir: filepath.Join(t.TempDir(), "out")}
	require.NoError(t, p.EnsureDirectories())

	for _, dir := range []string{TablesDir, ChartsDir, TextDir} {
		info, err := os.Stat(filepath.Join(p.OutputDir, dir))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}

	assert.Equal(t, filepath.Join(p.OutputDir, TablesDir, "kansas_race_summary.csv"),
		p.TablePath("Kansas race summary", ".csv"))
	assert.Equal(t, filepath.Join(p.OutputDir, ChartsDir, "judge_7_vs_rest.png"), p.ChartPath("Judge 7 vs. rest"))
	assert.Equal(t, filepath.Join(p.OutputDir, TextDir, "output.txt"), p.TextPath("!!"))
}
