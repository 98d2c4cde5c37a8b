package exporter

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Format selects the output serialization.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatExcel Format = "excel"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "excel", "xlsx":
		return FormatExcel, nil
	default:
		return "", fmt.Errorf("unsupported output format %q: use csv or excel", s)
	}
}

// extension returns the file extension for the format.
func (f Format) extension() string {
	if f == FormatExcel {
		return ".xlsx"
	}
	return ".csv"
}

// Save writes the table in the requested format, correcting the file
// extension when it disagrees. The actual path written is returned.
func Save(filePath string, format Format, headers []string, records [][]string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filePath))

	switch format {
	case FormatExcel:
		if ext != ".xlsx" && ext != ".xls" {
			filePath = replaceExt(filePath, format.extension())
		}
		if err := WriteExcel(filePath, headers, records); err != nil {
			return "", err
		}
	default:
		if ext != ".csv" {
			filePath = replaceExt(filePath, format.extension())
		}
		if err := NewCSVWriter().WriteSimpleCSV(filePath, headers, records); err != nil {
			return "", err
		}
	}

	return filePath, nil
}

// OutputFilename derives the default output path from the input file:
// <stem>_verified_<timestamp><ext>, in the input file's directory.
func OutputFilename(inputPath string, format Format, now time.Time) string {
	dir := filepath.Dir(inputPath)
	base := filepath.Base(inputPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	name := fmt.Sprintf("%s_verified_%s%s", stem, now.Format("20060102_150405"), format.extension())
	return filepath.Join(dir, name)
}

func replaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
