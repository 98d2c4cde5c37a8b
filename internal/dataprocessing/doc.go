// Package dataprocessing handles the input side of a verification run: it
// loads contact spreadsheets and extracts the phone numbers to verify.
//
// The package is organized into three main components:
//
// 1. Table: Reads CSV and Excel contact files into a uniform string table
// 2. Column classification: Locates phone columns by header heuristics
// 3. Normalization: Canonicalizes raw values into 10-digit Canadian numbers
//
// Basic usage:
//
//	table, err := dataprocessing.LoadFile("contacts.xlsx")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	entries := dataprocessing.ExtractPhoneEntries(table)
//
// Every entry carries its source row index and column so results can be
// merged back into the original table on output.
package dataprocessing
