package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

const outputSheetName = "Sheet1"

// WriteExcel writes the table to an xlsx workbook with a single sheet.
func WriteExcel(filePath string, headers []string, records [][]string) error {
	slog.Info("Writing Excel file",
		slog.String("file_path", filePath),
		slog.Int("record_count", len(records)))

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	writeRow := func(rowNum int, values []string) error {
		cell, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return err
		}
		row := make([]interface{}, len(values))
		for i, v := range values {
			row[i] = v
		}
		return f.SetSheetRow(outputSheetName, cell, &row)
	}

	if err := writeRow(1, headers); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	for i, record := range records {
		if err := writeRow(i+2, record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	if err := f.SaveAs(filePath); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	return nil
}
