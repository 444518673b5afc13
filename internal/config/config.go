package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "justfair/internal/errors"
)

// EnvPrefix namespaces every environment variable, e.g. JUSTFAIR_ANALYSIS_BAND
const EnvPrefix = "JUSTFAIR"

// Config represents the complete application configuration
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Analysis  AnalysisConfig  `yaml:"analysis" envconfig:"ANALYSIS"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required_unless=Output console"`
}

// AnalysisConfig carries the presentation and comparison settings passed to
// every analysis: outcome order, one color per outcome, comparison band
type AnalysisConfig struct {
	OutcomeOrder OutcomeList `yaml:"outcome_order" envconfig:"OUTCOME_ORDER" validate:"required,min=1,dive,required"`
	Colors       []string    `yaml:"colors" envconfig:"COLORS" validate:"required,dive,required"`
	Band         float64     `yaml:"band" envconfig:"BAND" validate:"gte=0,lt=1"`
}

// PathsConfig contains input and output locations
type PathsConfig struct {
	DataSource string `yaml:"data_source" envconfig:"DATA_SOURCE"`
	Mapping    string `yaml:"mapping" envconfig:"MAPPING"`
	OutputDir  string `yaml:"output_dir" envconfig:"OUTPUT_DIR" validate:"required"`
}

// TelemetryConfig controls tracing and metrics
type TelemetryConfig struct {
	EnableTracing bool    `yaml:"enable_tracing" envconfig:"ENABLE_TRACING"`
	TraceFile     string  `yaml:"trace_file" envconfig:"TRACE_FILE" validate:"required_if=EnableTracing true"`
	SampleRatio   float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO" validate:"gte=0,lte=1"`
	EnableMetrics bool    `yaml:"enable_metrics" envconfig:"ENABLE_METRICS"`
	MetricsFile   string  `yaml:"metrics_file" envconfig:"METRICS_FILE"`
}

// OutcomeList is an ordered list of outcome labels. Labels may contain commas,
// so the environment form separates them with "|".
type OutcomeList []string

// Decode implements envconfig.Decoder
func (l *OutcomeList) Decode(value string) error {
	var out OutcomeList
	for _, part := range strings.Split(value, "|") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	*l = out
	return nil
}

// Load builds the configuration: defaults, then the YAML file at path when
// path is not empty, then JUSTFAIR_* environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, apperrors.NewConfigError("load config file", err).WithContext("path", path)
		}
	}

	// Only variables that are set override; there are no default tags here.
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, apperrors.NewConfigError("load config from env", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

var validate = validator.New()

// Validate checks field constraints and that every outcome has a color
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return apperrors.NewConfigError("config validation failed", err)
	}
	if len(c.Analysis.Colors) < len(c.Analysis.OutcomeOrder) {
		return apperrors.NewConfigError(
			fmt.Sprintf("%d colors for %d outcomes", len(c.Analysis.Colors), len(c.Analysis.OutcomeOrder)), nil)
	}
	seen := make(map[string]struct{}, len(c.Analysis.OutcomeOrder))
	for _, o := range c.Analysis.OutcomeOrder {
		if _, dup := seen[o]; dup {
			return apperrors.NewConfigError(fmt.Sprintf("outcome %q listed twice", o), nil)
		}
		seen[o] = struct{}{}
	}
	return nil
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "console",
			FilePath: "logs/justfair.log",
		},
		Analysis: AnalysisConfig{
			OutcomeOrder: OutcomeList{
				"Above Departure",
				"Within Range",
				"Below Range",
				"Missing, Indeterminable, or Inapplicable",
			},
			Colors: []string{"lightcoral", "lightgrey", "cornflowerblue", "turquoise"},
			Band:   0.05,
		},
		Paths: PathsConfig{
			OutputDir: "output",
		},
		Telemetry: TelemetryConfig{
			EnableTracing: false,
			TraceFile:     "logs/trace.json",
			SampleRatio:   1.0,
			EnableMetrics: true,
		},
	}
}
