// Package config provides configuration management for justfair.
// It loads settings from defaults, an optional YAML file and the environment,
// validates them, and describes where outputs are written.
//
// # Configuration Sources
//
// Configuration is loaded in the following order, later sources winning:
//
//	1. Default values
//	2. YAML configuration file (when a path is given)
//	3. Environment variables
//
// # Environment Variables
//
// All environment variables follow the pattern JUSTFAIR_* for namespacing:
//
//	JUSTFAIR_LOGGING_LEVEL=debug
//	JUSTFAIR_ANALYSIS_BAND=0.10
//	JUSTFAIR_ANALYSIS_OUTCOME_ORDER="Above Departure|Within Range|Below Range"
//	JUSTFAIR_ANALYSIS_COLORS=lightcoral,lightgrey,cornflowerblue
//	JUSTFAIR_PATHS_OUTPUT_DIR=out
//
// Outcome labels may contain commas, so the outcome order is separated by "|".
//
// # Output Layout
//
// Tables, charts and text summaries go to sibling directories under the
// output directory:
//
//	cfg.Paths.EnsureDirectories()
//	cfg.Paths.TablePath("Kansas race summary", ".csv") // output/tables/kansas_race_summary.csv
package config
