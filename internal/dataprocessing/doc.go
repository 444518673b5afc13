// Package dataprocessing turns a raw sentencing data source into case rows.
// It covers reading the source, parsing it and converting records through a
// schema mapping.
//
// # Architecture
//
// The package is organized into three components:
//
// 1. Loader: reads a local file or an http(s) URL once. Google Drive share
// links are rewritten to their download form. Local files are checked by
// validation.SourceValidator first.
// 2. Parser: reads CSV (BOM tolerant) or an XLSX sheet into a Table of
// header plus string records
// 3. RowBuilder: resolves every mapped field against the header, translates
// codes to labels and produces domain.CaseRow values
//
// # Usage
//
//	loader := dataprocessing.NewLoader(nil, logger).WithSheet("2019")
//	table, err := loader.Load(ctx, "data/kansas.csv")
//	if err != nil {
//	    return err
//	}
//	rows, err := dataprocessing.NewRowBuilder(mapping).Build(table)
//
// # Data Flow
//
//	CSV/XLSX → Loader → Table → RowBuilder → []domain.CaseRow → aggregation
//
// # Error Handling
//
// Errors are apperrors.AppError values: STORAGE for unreadable local files,
// NETWORK for failed downloads, PARSING for malformed content and
// UNKNOWN_FIELD when the mapping names a column the header lacks.
package dataprocessing
