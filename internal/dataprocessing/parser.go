package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "justfair/internal/errors"
)

// Table is a raw tabular snapshot: a header and string records of equal width
type Table struct {
	Header  []string
	Records [][]string
	index   map[string]int
}

// NewTable indexes the header of a table
func NewTable(header []string, records [][]string) *Table {
	t := &Table{Header: header, Records: records, index: make(map[string]int, len(header))}
	for i, name := range header {
		name = strings.TrimSpace(name)
		if _, dup := t.index[name]; !dup {
			t.index[name] = i
		}
	}
	return t
}

// Column returns the position of a named column
func (t *Table) Column(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// Len returns the number of records
func (t *Table) Len() int {
	return len(t.Records)
}

// ParseCSV reads a comma separated table with a header row. Every record must
// have as many fields as the header.
func ParseCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = false

	header, err := reader.Read()
	if err == io.EOF {
		return nil, apperrors.NewParsingError("csv source is empty", nil)
	}
	if err != nil {
		return nil, apperrors.NewParsingError("read csv header", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	var records [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.NewParsingError("read csv record", err)
		}
		records = append(records, record)
	}
	return NewTable(header, records), nil
}

// ParseXLSX reads the first sheet of a workbook, or the named sheet when
// sheet is not empty. The first row is the header; short rows are padded.
func ParseXLSX(r io.Reader, sheet string) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperrors.NewParsingError("open workbook", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, apperrors.NewParsingError("workbook has no sheets", nil)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("read sheet %q", sheet), err)
	}
	if len(rows) == 0 {
		return nil, apperrors.NewParsingError(fmt.Sprintf("sheet %q is empty", sheet), nil)
	}

	header := rows[0]
	records := make([][]string, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) > len(header) {
			return nil, apperrors.NewParsingError(
				fmt.Sprintf("row %d has %d cells, header has %d", i+2, len(row), len(header)), nil)
		}
		padded := make([]string, len(header))
		copy(padded, row)
		records = append(records, padded)
	}
	return NewTable(header, records), nil
}
