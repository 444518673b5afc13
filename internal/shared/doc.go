// Package shared holds helpers used across the justfair packages.
//
// testutil captures slog records so tests can assert on the warnings an
// analysis logs, for example outcomes missing from the configured order.
package shared
