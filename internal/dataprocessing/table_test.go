package dataprocessing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "contacts.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFileCSV(t *testing.T) {
	path := writeTempCSV(t, "Nom,Téléphone\nTremblay,514-555-0199\nGagnon,\n")

	table, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"Nom", "Téléphone"}, table.Headers)
	assert.Equal(t, 2, table.RowCount())
	assert.Equal(t, "514-555-0199", table.Cell(0, "Téléphone"))
	assert.Equal(t, "", table.Cell(1, "Téléphone"))
	assert.Equal(t, path, table.SourceFile)
}

func TestLoadFileCSVWithBOM(t *testing.T) {
	path := writeTempCSV(t, "\uFEFFNom,Phone\nRoy,4165550142\n")

	table, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"Nom", "Phone"}, table.Headers)
	assert.Equal(t, "4165550142", table.Cell(0, "Phone"))
}

func TestLoadFileCSVRaggedRows(t *testing.T) {
	path := writeTempCSV(t, "Nom,Phone,Notes\nTremblay,5145550199\nRoy,4165550142,hello,extra\n")

	table, err := LoadFile(path)
	require.NoError(t, err)

	// Short rows pad, long rows truncate to the header width.
	assert.Equal(t, "", table.Cell(0, "Notes"))
	assert.Equal(t, "hello", table.Cell(1, "Notes"))
	assert.Len(t, table.Rows[1], 3)
}

func TestLoadFileExcel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.xlsx")

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Nom", "Téléphone"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"Tremblay", "514-555-0199"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	table, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"Nom", "Téléphone"}, table.Headers)
	require.Equal(t, 1, table.RowCount())
	assert.Equal(t, "514-555-0199", table.Cell(0, "Téléphone"))
}

func TestLoadFileErrors(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
	}{
		{
			name: "missing file",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "nope.csv")
			},
		},
		{
			name: "unsupported extension",
			setup: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "contacts.json")
				require.NoError(t, os.WriteFile(path, []byte("{}"), 0644))
				return path
			},
		},
		{
			name: "empty csv",
			setup: func(t *testing.T) string {
				return writeTempCSV(t, "")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(tt.setup(t))
			assert.Error(t, err)
		})
	}
}

func TestTableCellUnknownColumn(t *testing.T) {
	table := &Table{Headers: []string{"Nom"}, Rows: [][]string{{"Roy"}}}

	assert.Equal(t, "", table.Cell(0, "Phone"))
	assert.Equal(t, "", table.Cell(5, "Nom"))
	assert.Equal(t, -1, table.ColumnIndex("Phone"))
}
