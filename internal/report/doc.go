// Package report turns analysis results into files: CSV tables, an XLSX
// workbook with one sheet per table, and plain text statements.
//
// Tables are built from results first and written second:
//
//	w := report.NewWriter(cfg.Paths, logger)
//	tables := report.ComparisonTables(cmp)
//	w.WriteWorkbook("J1 vs rest", tables)
//	w.WriteLines("J1 vs rest", report.ComparisonLines(cmp))
package report
