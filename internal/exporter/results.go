package exporter

import (
	"fmt"
	"log/slog"

	"dnclcli/internal/business"
	"dnclcli/internal/dataprocessing"
	"dnclcli/internal/dncl"
)

// leadColumns is the fixed column order the output file starts with. Columns
// missing from the input are created empty; remaining input columns follow
// in their original order.
var leadColumns = []string{
	"Prénom", "Nom", "Société", "Titre", "Téléphone",
	"Cell or Office", "LNNTE", "Certainty", "ext", "Portable",
	"E-mail", "Email Secondaire", "Barreau", "Année Graduation",
}

// Derived column names.
const (
	ColumnLNNTE        = "LNNTE"
	ColumnCellOrOffice = "Cell or Office"
	ColumnCertainty    = "Certainty"
)

// entryResult is one verified number attributed to an input row.
type entryResult struct {
	phone  string
	source dataprocessing.SourceType
	status dncl.Status
	err    string
}

// ResultSet accumulates verification outcomes against the original input
// table and renders the augmented output table.
type ResultSet struct {
	table    *dataprocessing.Table
	results  map[int][]entryResult
	business map[int][]business.CheckResult
}

// NewResultSet wraps the input table the results will be merged into.
func NewResultSet(table *dataprocessing.Table) *ResultSet {
	return &ResultSet{
		table:    table,
		results:  make(map[int][]entryResult),
		business: make(map[int][]business.CheckResult),
	}
}

// AddResult records the registry outcome for one number, with an optional
// business-line check.
func (rs *ResultSet) AddResult(entry dataprocessing.PhoneEntry, res dncl.Result, biz *business.CheckResult) {
	rs.results[entry.RowIndex] = append(rs.results[entry.RowIndex], entryResult{
		phone:  entry.Normalized,
		source: entry.SourceType,
		status: res.Status,
		err:    res.Err,
	})

	if biz != nil {
		rs.business[entry.RowIndex] = append(rs.business[entry.RowIndex], *biz)
	}

	slog.Info("Recorded result",
		slog.Int("row", entry.RowIndex),
		slog.String("phone", entry.Normalized),
		slog.String("status", string(res.Status)))
}

// aggregateStatus folds the statuses of every number in a row into one
// verdict: any listed number marks the row listed.
func aggregateStatus(results []entryResult) dncl.Status {
	allClear := true
	for _, r := range results {
		switch r.status {
		case dncl.StatusOnList:
			return dncl.StatusOnList
		case dncl.StatusNotOnList:
		default:
			allClear = false
		}
	}
	if allClear {
		return dncl.StatusNotOnList
	}
	return dncl.StatusUnknown
}

// aggregateLine folds business checks into the Cell or Office column value.
// Rows with conflicting or unknown checks stay empty.
func aggregateLine(checks []business.CheckResult) string {
	allPersonal := true
	for _, c := range checks {
		switch c.Status {
		case business.StatusBusiness:
			return string(dataprocessing.SourceOffice)
		case business.StatusNotBusiness:
		default:
			allPersonal = false
		}
	}
	if allPersonal {
		return string(dataprocessing.SourceCell)
	}
	return ""
}

// certainty scores how confident we are that the row's number is callable:
// not on the registry and a personal line push the score up, a listed or
// office number pushes it down, and a weak company match costs a little.
func certainty(status dncl.Status, line string, matchScore float64) int {
	score := 50

	switch status {
	case dncl.StatusNotOnList:
		score += 30
	case dncl.StatusOnList:
		score -= 40
	}

	switch line {
	case string(dataprocessing.SourceCell):
		score += 20
	case string(dataprocessing.SourceOffice):
		score -= 20
	}

	switch {
	case matchScore >= 80:
	case matchScore >= 50:
		score -= 5
	case matchScore > 0:
		score -= 10
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

// Build renders the final table: lead columns first, remaining input columns
// after, derived columns filled for every row that had a verified number.
func (rs *ResultSet) Build() ([]string, [][]string) {
	headers := append([]string(nil), leadColumns...)
	seen := make(map[string]struct{}, len(headers))
	for _, h := range headers {
		seen[h] = struct{}{}
	}
	for _, h := range rs.table.Headers {
		if _, ok := seen[h]; !ok {
			headers = append(headers, h)
			seen[h] = struct{}{}
		}
	}

	rows := make([][]string, rs.table.RowCount())
	for idx := range rs.table.Rows {
		values := make(map[string]string, len(headers))
		for _, h := range rs.table.Headers {
			values[h] = rs.table.Cell(idx, h)
		}

		// Derived columns always reflect this run; values carried in from a
		// previously augmented input file must not survive.
		values[ColumnLNNTE] = ""
		values[ColumnCellOrOffice] = ""
		values[ColumnCertainty] = ""

		if results, ok := rs.results[idx]; ok {
			values[ColumnLNNTE] = string(aggregateStatus(results))
		}

		if checks, ok := rs.business[idx]; ok {
			line := aggregateLine(checks)
			values[ColumnCellOrOffice] = line

			best := 0.0
			for _, c := range checks {
				if c.MatchScore > best {
					best = c.MatchScore
				}
			}
			status := dncl.Status(values[ColumnLNNTE])
			values[ColumnCertainty] = fmt.Sprintf("%d%%", certainty(status, line, best))
		}

		row := make([]string, len(headers))
		for i, h := range headers {
			row[i] = values[h]
		}
		rows[idx] = row
	}

	return headers, rows
}

// Summary holds per-run counts for the final log line.
type Summary struct {
	TotalRows    int
	VerifiedRows int
	OnList       int
	NotOnList    int
	Unknown      int
}

// Summarize aggregates row-level outcomes for reporting.
func (rs *ResultSet) Summarize() Summary {
	s := Summary{
		TotalRows:    rs.table.RowCount(),
		VerifiedRows: len(rs.results),
	}

	for _, results := range rs.results {
		switch aggregateStatus(results) {
		case dncl.StatusOnList:
			s.OnList++
		case dncl.StatusNotOnList:
			s.NotOnList++
		default:
			s.Unknown++
		}
	}

	return s
}
