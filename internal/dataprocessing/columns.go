package dataprocessing

import (
	"log/slog"
	"strings"
)

// SourceType classifies the column a number came from.
type SourceType string

const (
	SourceCell   SourceType = "Cell"
	SourceOffice SourceType = "Office"
)

// phoneColumnNames are the headers recognized as phone columns, matched
// exactly first and by case-insensitive substring as a fallback.
var phoneColumnNames = []string{
	"Téléphone", "Telephone", "Phone", "Portable", "Mobile", "Cell", "Office",
}

// cellIndicators mark a column as holding personal (mobile) numbers.
var cellIndicators = []string{"portable", "mobile", "cell", "cellulaire", "cellular"}

// PhoneEntry is one verifiable number found in the input, tied back to its
// source row and column.
type PhoneEntry struct {
	RowIndex     int
	RawPhone     string
	Normalized   string
	SourceColumn string
	SourceType   SourceType
}

// FindPhoneColumns returns the headers that hold phone numbers. Exact
// matches against the known set win; when none exist, headers containing a
// known name case-insensitively are used instead.
func FindPhoneColumns(headers []string) []string {
	var found []string
	for _, h := range headers {
		for _, name := range phoneColumnNames {
			if h == name {
				found = append(found, h)
				break
			}
		}
	}

	if len(found) > 0 {
		return found
	}

	for _, h := range headers {
		lower := strings.ToLower(h)
		for _, name := range phoneColumnNames {
			if strings.Contains(lower, strings.ToLower(name)) {
				found = append(found, h)
				break
			}
		}
	}

	return found
}

// ClassifySourceType determines whether a column holds personal or office
// numbers based on its header.
func ClassifySourceType(column string) SourceType {
	lower := strings.ToLower(column)
	for _, indicator := range cellIndicators {
		if strings.Contains(lower, indicator) {
			return SourceCell
		}
	}
	return SourceOffice
}

// ExtractPhoneEntries walks every row of the table and collects the values
// from phone columns that normalize to valid Canadian numbers.
func ExtractPhoneEntries(table *Table) []PhoneEntry {
	columns := FindPhoneColumns(table.Headers)
	slog.Info("Found phone columns", slog.Any("columns", columns))

	var entries []PhoneEntry
	for idx := range table.Rows {
		for _, col := range columns {
			raw := strings.TrimSpace(table.Cell(idx, col))
			if raw == "" {
				continue
			}

			normalized := NormalizePhone(raw)
			if normalized == "" || !ValidateCanadianPhone(normalized) {
				slog.Debug("Skipping unverifiable value",
					slog.Int("row", idx),
					slog.String("column", col),
					slog.String("value", raw))
				continue
			}

			entries = append(entries, PhoneEntry{
				RowIndex:     idx,
				RawPhone:     raw,
				Normalized:   normalized,
				SourceColumn: col,
				SourceType:   ClassifySourceType(col),
			})
		}
	}

	slog.Info("Extracted phone entries", slog.Int("count", len(entries)))
	return entries
}
