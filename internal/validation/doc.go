// Package validation checks local data sources before the loader parses them.
package validation
