// Package exporter builds and writes the augmented output spreadsheet for a
// verification run.
//
// This package contains three main components:
//
// ResultSet: Collects per-number verification and business-check outcomes
// keyed by input row, aggregates them into the derived LNNTE, Cell or Office
// and Certainty columns, and produces the final column-ordered table.
//
// CSVWriter: Core CSV writing functionality with UTF-8 BOM for Excel
// compatibility, plus append mode used by the attempt log.
//
// ExcelWriter: xlsx serialization of the final table via excelize.
//
// Example usage:
//
//	rs := exporter.NewResultSet(table)
//	rs.AddResult(entry, result, businessResult)
//	headers, rows := rs.Build()
//	err := exporter.Save(outPath, exporter.FormatCSV, headers, rows)
package exporter
