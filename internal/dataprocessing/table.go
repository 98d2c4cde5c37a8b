package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Table is a loaded spreadsheet: one header row plus data rows, every cell a
// string. Rows are padded to the header width so missing trailing cells read
// as empty strings.
type Table struct {
	SourceFile string
	Headers    []string
	Rows       [][]string
}

// LoadFile reads a CSV or Excel contact file into a Table. The format is
// chosen by file extension: .csv, .xlsx or .xls.
func LoadFile(filePath string) (*Table, error) {
	if _, err := os.Stat(filePath); err != nil {
		return nil, fmt.Errorf("input file not found: %s", filePath)
	}

	var (
		table *Table
		err   error
	)

	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".csv":
		table, err = loadCSV(filePath)
	case ".xlsx", ".xls":
		table, err = loadExcel(filePath)
	default:
		return nil, fmt.Errorf("unsupported file format %q: use CSV or Excel files", filepath.Ext(filePath))
	}
	if err != nil {
		return nil, err
	}

	table.SourceFile = filePath
	table.normalize()

	slog.Info("Loaded input file",
		slog.String("file", filePath),
		slog.Int("rows", len(table.Rows)),
		slog.Int("columns", len(table.Headers)))

	return table, nil
}

// loadCSV reads a CSV file, tolerating a UTF-8 BOM and ragged rows.
func loadCSV(filePath string) (*Table, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // rows may be ragged, we pad later

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("input file is empty: %s", filePath)
	}

	headers := records[0]
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], "\uFEFF")
	}

	return &Table{Headers: headers, Rows: records[1:]}, nil
}

// loadExcel reads the first sheet of an xlsx workbook.
func loadExcel(filePath string) (*Table, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets: %s", filePath)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("input file is empty: %s", filePath)
	}

	return &Table{Headers: rows[0], Rows: rows[1:]}, nil
}

// normalize trims header whitespace and pads every row to the header width.
func (t *Table) normalize() {
	for i, h := range t.Headers {
		t.Headers[i] = strings.TrimSpace(h)
	}
	width := len(t.Headers)
	for i, row := range t.Rows {
		if len(row) < width {
			padded := make([]string, width)
			copy(padded, row)
			t.Rows[i] = padded
		} else if len(row) > width {
			t.Rows[i] = row[:width]
		}
	}
}

// Cell returns the value at the given row and column, or "" when the column
// is not present.
func (t *Table) Cell(rowIndex int, column string) string {
	col := t.ColumnIndex(column)
	if col < 0 || rowIndex < 0 || rowIndex >= len(t.Rows) {
		return ""
	}
	return t.Rows[rowIndex][col]
}

// ColumnIndex returns the index of the named column, or -1.
func (t *Table) ColumnIndex(column string) int {
	for i, h := range t.Headers {
		if h == column {
			return i
		}
	}
	return -1
}

// RowCount returns the number of data rows.
func (t *Table) RowCount() int {
	return len(t.Rows)
}
