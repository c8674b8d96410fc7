// Package jobtable turns the delimited job table produced by the extraction
// service into job records. All functions are pure and never fail.
package jobtable

import (
	"strings"

	"github.com/kiranshivaraju/fieldplanner/pkg/models"
)

// Delimiter separates cells within a table row.
const Delimiter = "|"

// ColumnCount is the number of defined job columns. Rows with fewer cells are dropped.
const ColumnCount = 9

// Parse extracts job records from a markdown-style table, one per qualifying
// data row, in input order. Header, separator and non-table lines are ignored.
// Returns an empty slice (never nil) when nothing qualifies.
func Parse(text string) []models.JobRecord {
	jobs := []models.JobRecord{}

	for _, line := range strings.Split(text, "\n") {
		if !isDataRow(line) {
			continue
		}

		cells := SplitRow(line)
		if len(cells) < ColumnCount {
			continue
		}
		jobs = append(jobs, toJob(cells))
	}

	return jobs
}

// SplitRow splits a table line into trimmed cell values. The empty fragments
// produced by a line that opens and closes with the delimiter are discarded.
func SplitRow(line string) []string {
	trimmed := strings.TrimSpace(line)
	parts := strings.Split(trimmed, Delimiter)

	if len(parts) > 0 && strings.TrimSpace(parts[0]) == "" && strings.HasPrefix(trimmed, Delimiter) {
		parts = parts[1:]
	}
	if len(parts) > 0 && strings.TrimSpace(parts[len(parts)-1]) == "" && strings.HasSuffix(trimmed, Delimiter) {
		parts = parts[:len(parts)-1]
	}

	cells := make([]string, len(parts))
	for i, p := range parts {
		cells[i] = strings.TrimSpace(p)
	}
	return cells
}

func isDataRow(line string) bool {
	if !strings.Contains(line, Delimiter) {
		return false
	}
	return !isSeparator(line) && !isHeader(line)
}

// isSeparator matches rule lines such as "|---|:---:|".
func isSeparator(line string) bool {
	hasDash := false
	for _, r := range line {
		switch r {
		case '-':
			hasDash = true
		case '|', ':', ' ', '\t', '\r':
		default:
			return false
		}
	}
	return hasDash
}

func isHeader(line string) bool {
	lower := strings.ToLower(line)
	return strings.Contains(lower, "time") && strings.Contains(lower, "address")
}

func toJob(cells []string) models.JobRecord {
	job := models.JobRecord{
		Time:           cells[0],
		Address:        cells[1],
		ProductCode:    cells[2],
		ProductType:    cells[3],
		ProductBrand:   cells[4],
		Fault:          cells[5],
		ErrorCode:      cells[6],
		ProductionYear: cells[7],
		SerialNumber:   cells[8],
	}
	if job.Time == "" {
		job.Time = models.DefaultJobTime
	}
	if len(cells) > ColumnCount {
		job.Extra = append([]string(nil), cells[ColumnCount:]...)
	}
	return job
}
