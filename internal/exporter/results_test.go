package exporter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dnclcli/internal/business"
	"dnclcli/internal/dataprocessing"
	"dnclcli/internal/dncl"
)

func testTable() *dataprocessing.Table {
	return &dataprocessing.Table{
		Headers: []string{"Nom", "Téléphone", "Portable", "Notes"},
		Rows: [][]string{
			{"Tremblay", "514-555-0199", "438-555-0123", "client"},
			{"Gagnon", "416-555-0142", "", ""},
			{"Roy", "", "", "no phone"},
		},
	}
}

func entry(row int, phone string, source dataprocessing.SourceType) dataprocessing.PhoneEntry {
	return dataprocessing.PhoneEntry{
		RowIndex:   row,
		RawPhone:   phone,
		Normalized: phone,
		SourceType: source,
	}
}

func TestBuildColumnOrder(t *testing.T) {
	rs := NewResultSet(testTable())

	headers, rows := rs.Build()

	// Lead columns come first, then input columns not already present.
	require.GreaterOrEqual(t, len(headers), len(leadColumns))
	assert.Equal(t, leadColumns, headers[:len(leadColumns)])
	assert.Contains(t, headers, "Nom")
	assert.Contains(t, headers, "Notes")

	// No duplicates for input columns that are also lead columns.
	count := 0
	for _, h := range headers {
		if h == "Téléphone" {
			count++
		}
	}
	assert.Equal(t, 1, count)

	require.Len(t, rows, 3)
	for _, row := range rows {
		assert.Len(t, row, len(headers))
	}
}

func TestBuildPreservesInputValues(t *testing.T) {
	rs := NewResultSet(testTable())

	headers, rows := rs.Build()

	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[h] = i
	}

	assert.Equal(t, "Tremblay", rows[0][idx["Nom"]])
	assert.Equal(t, "514-555-0199", rows[0][idx["Téléphone"]])
	assert.Equal(t, "client", rows[0][idx["Notes"]])

	// Unverified rows leave the derived columns empty.
	assert.Equal(t, "", rows[2][idx[ColumnLNNTE]])
	assert.Equal(t, "", rows[2][idx[ColumnCertainty]])
}

func TestBuildResetsDerivedColumns(t *testing.T) {
	// Re-running the tool on a previously augmented file must not leak the
	// old statuses into the new output.
	table := &dataprocessing.Table{
		Headers: []string{"Nom", "Téléphone", "LNNTE", "Cell or Office", "Certainty"},
		Rows: [][]string{
			{"Tremblay", "514-555-0199", "On list", "Office", "10%"},
			{"Gagnon", "416-555-0142", "Not on list", "Cell", "90%"},
		},
	}
	rs := NewResultSet(table)

	rs.AddResult(entry(1, "416-555-0142", dataprocessing.SourceOffice),
		dncl.Result{Status: dncl.StatusNotOnList}, nil)

	headers, rows := rs.Build()
	lnnteIdx := columnIndex(t, headers, ColumnLNNTE)
	lineIdx := columnIndex(t, headers, ColumnCellOrOffice)
	certIdx := columnIndex(t, headers, ColumnCertainty)

	// Row without a lookup this run: stale values cleared.
	assert.Equal(t, "", rows[0][lnnteIdx])
	assert.Equal(t, "", rows[0][lineIdx])
	assert.Equal(t, "", rows[0][certIdx])

	// Row with a lookup gets this run's status; stale line and certainty
	// are cleared since no business check ran.
	assert.Equal(t, "Not on list", rows[1][lnnteIdx])
	assert.Equal(t, "", rows[1][lineIdx])
	assert.Equal(t, "", rows[1][certIdx])
}

func TestBuildAggregatesStatuses(t *testing.T) {
	tests := []struct {
		name     string
		statuses []dncl.Status
		want     string
	}{
		{
			name:     "single not on list",
			statuses: []dncl.Status{dncl.StatusNotOnList},
			want:     "Not on list",
		},
		{
			name:     "on list dominates",
			statuses: []dncl.Status{dncl.StatusNotOnList, dncl.StatusOnList},
			want:     "On list",
		},
		{
			name:     "unknown taints the row",
			statuses: []dncl.Status{dncl.StatusNotOnList, dncl.StatusUnknown},
			want:     "Unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs := NewResultSet(testTable())
			for _, status := range tt.statuses {
				rs.AddResult(entry(0, "514-555-0199", dataprocessing.SourceOffice),
					dncl.Result{Phone: "514-555-0199", Status: status}, nil)
			}

			headers, rows := rs.Build()
			idx := columnIndex(t, headers, ColumnLNNTE)
			assert.Equal(t, tt.want, rows[0][idx])
		})
	}
}

func TestBuildBusinessColumns(t *testing.T) {
	rs := NewResultSet(testTable())

	biz := &business.CheckResult{Status: business.StatusBusiness, MatchScore: 85}
	rs.AddResult(entry(0, "514-555-0199", dataprocessing.SourceOffice),
		dncl.Result{Status: dncl.StatusNotOnList}, biz)

	personal := &business.CheckResult{Status: business.StatusNotBusiness, MatchScore: 30}
	rs.AddResult(entry(1, "416-555-0142", dataprocessing.SourceOffice),
		dncl.Result{Status: dncl.StatusNotOnList}, personal)

	headers, rows := rs.Build()
	lineIdx := columnIndex(t, headers, ColumnCellOrOffice)
	certIdx := columnIndex(t, headers, ColumnCertainty)

	// Business number: not on list (+30), office (-20), strong match.
	assert.Equal(t, "Office", rows[0][lineIdx])
	assert.Equal(t, "60%", rows[0][certIdx])

	// Personal number: not on list (+30), cell (+20), weak match (-10).
	assert.Equal(t, "Cell", rows[1][lineIdx])
	assert.Equal(t, "90%", rows[1][certIdx])
}

func TestCertaintyClamped(t *testing.T) {
	assert.Equal(t, 0, certainty(dncl.StatusOnList, "Office", 10))
	assert.Equal(t, 100, certainty(dncl.StatusNotOnList, "Cell", 90))
	assert.Equal(t, 50, certainty(dncl.StatusUnknown, "", 0))
}

func TestSummarize(t *testing.T) {
	rs := NewResultSet(testTable())

	rs.AddResult(entry(0, "514-555-0199", dataprocessing.SourceOffice),
		dncl.Result{Status: dncl.StatusOnList}, nil)
	rs.AddResult(entry(1, "416-555-0142", dataprocessing.SourceOffice),
		dncl.Result{Status: dncl.StatusNotOnList}, nil)

	s := rs.Summarize()
	assert.Equal(t, 3, s.TotalRows)
	assert.Equal(t, 2, s.VerifiedRows)
	assert.Equal(t, 1, s.OnList)
	assert.Equal(t, 1, s.NotOnList)
	assert.Equal(t, 0, s.Unknown)
}

func columnIndex(t *testing.T, headers []string, name string) int {
	t.Helper()
	for i, h := range headers {
		if h == name {
			return i
		}
	}
	t.Fatalf("column %q not found in %v", name, headers)
	return -1
}
