package report

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "justfair/internal/errors"
)

const maxSheetName = 31

// WriteWorkbook writes tables as sheets of one XLSX file under the tables
// directory. Numeric cells are stored as numbers.
func (w *Writer) WriteWorkbook(name string, tables []Table) (string, error) {
	path := w.paths.TablePath(name, ".xlsx")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", apperrors.NewStorageError("create directory", err).WithContext("path", path)
	}

	f := excelize.NewFile()
	defer f.Close()

	used := make(map[string]int)
	for i, t := range tables {
		sheet := sheetName(t.Name, used)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return "", apperrors.NewStorageError("rename sheet", err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return "", apperrors.NewStorageError("add sheet", err).WithContext("sheet", sheet)
		}
		if err := writeSheet(f, sheet, t); err != nil {
			return "", err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return "", apperrors.NewStorageError("save workbook", err).WithContext("path", path)
	}
	w.logger.Info("Wrote workbook", slog.String("path", path), slog.Int("sheets", len(tables)))
	return path, nil
}

func writeSheet(f *excelize.File, sheet string, t Table) error {
	rows := make([][]string, 0, len(t.Records)+1)
	if len(t.Headers) > 0 {
		rows = append(rows, t.Headers)
	}
	rows = append(rows, t.Records...)

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return apperrors.NewStorageError("cell name", err)
		}
		values := make([]interface{}, len(r))
		for j, v := range r {
			values[j] = cellValue(v)
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return apperrors.NewStorageError(fmt.Sprintf("write row %d", i+1), err).WithContext("sheet", sheet)
		}
	}
	return nil
}

func cellValue(s string) interface{} {
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return n
	}
	return s
}

// sheetName makes name a valid, unique sheet name: no []:*?/\ characters,
// at most 31 characters, numbered when it collides
func sheetName(name string, used map[string]int) string {
	clean := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
	if clean == "" {
		clean = "Sheet"
	}
	if r := []rune(clean); len(r) > maxSheetName {
		clean = string(r[:maxSheetName])
	}

	key := strings.ToLower(clean)
	used[key]++
	if n := used[key]; n > 1 {
		suffix := fmt.Sprintf(" (%d)", n)
		r := []rune(clean)
		if len(r)+len(suffix) > maxSheetName {
			r = r[:maxSheetName-len(suffix)]
		}
		clean = string(r) + suffix
		used[strings.ToLower(clean)]++
	}
	return clean
}
