package jobtable

import (
	"strings"
	"testing"

	"github.com/kiranshivaraju/fieldplanner/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTable = `Thursday, Nov 13
| Time | Address | Product Code | Type | Brand | Fault | Error Code | Year | Serial |
|------|---------|--------------|------|-------|-------|------------|------|--------|
| AM | 12 High St, Leeds LS1 4DY | WM123 | Washer | Bosch | Not draining | E18 | 2019 | SN001 |
| PM | 4 Mill Lane, York YO1 7HH | DW456 | Dishwasher | Miele | Leaking | F11 | 2021 | SN002 |
`

func TestParse_SampleTable(t *testing.T) {
	jobs := Parse(sampleTable)
	require.Len(t, jobs, 2)

	assert.Equal(t, models.JobRecord{
		Time:           "AM",
		Address:        "12 High St, Leeds LS1 4DY",
		ProductCode:    "WM123",
		ProductType:    "Washer",
		ProductBrand:   "Bosch",
		Fault:          "Not draining",
		ErrorCode:      "E18",
		ProductionYear: "2019",
		SerialNumber:   "SN001",
	}, jobs[0])
	assert.Equal(t, "4 Mill Lane, York YO1 7HH", jobs[1].Address)
	assert.Equal(t, "SN002", jobs[1].SerialNumber)
}

func TestParse_AddressComesFromSecondCell(t *testing.T) {
	rows := [][]string{
		{"09:00", "1 A Road", "c", "t", "b", "f", "e", "y", "s"},
		{"10:00", "2 B Road", "c", "t", "b", "f", "e", "y", "s"},
		{"11:00", "3 C Road", "c", "t", "b", "f", "e", "y", "s"},
	}
	var lines []string
	for _, r := range rows {
		lines = append(lines, "| "+strings.Join(r, " | ")+" |")
	}

	jobs := Parse(strings.Join(lines, "\n"))
	require.Len(t, jobs, len(rows))
	for i, r := range rows {
		assert.Equal(t, r[1], jobs[i].Address)
	}
}

func TestParse_Empty(t *testing.T) {
	jobs := Parse("")
	assert.NotNil(t, jobs)
	assert.Empty(t, jobs)
}

func TestParse_EdgeCases(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{name: "plain prose", input: "no table here\njust text", expected: 0},
		{name: "row with eight cells dropped", input: "| a | b | c | d | e | f | g | h |", expected: 0},
		{name: "separator only", input: "|---|---|:---:|", expected: 0},
		{name: "header only", input: "| TIME | ADDRESS | a | b | c | d | e | f | g |", expected: 0},
		{name: "row without outer pipes", input: "a | b | c | d | e | f | g | h | i", expected: 1},
		{name: "windows line endings", input: "| a | b | c | d | e | f | g | h | i |\r\n| a | b | c | d | e | f | g | h | i |\r\n", expected: 2},
		{name: "mixed short and full rows", input: "| a | b |\n| a | b | c | d | e | f | g | h | i |", expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, Parse(tt.input), tt.expected)
		})
	}
}

func TestParse_BlankCellsDefault(t *testing.T) {
	jobs := Parse("|  | 7 Elm Rd |  |  |  |  |  |  |  |")
	require.Len(t, jobs, 1)

	assert.Equal(t, models.DefaultJobTime, jobs[0].Time)
	assert.Equal(t, "7 Elm Rd", jobs[0].Address)
	assert.Equal(t, "", jobs[0].ProductCode)
	assert.Equal(t, "", jobs[0].SerialNumber)
	assert.Nil(t, jobs[0].Extra)
}

func TestParse_ExtraCellsPreserved(t *testing.T) {
	jobs := Parse("| 09:00 | addr | c | t | b | f | e | y | s | note one | note two |")
	require.Len(t, jobs, 1)
	assert.Equal(t, "s", jobs[0].SerialNumber)
	assert.Equal(t, []string{"note one", "note two"}, jobs[0].Extra)
}

func TestParse_PreservesOrderAndDuplicates(t *testing.T) {
	row := "| 09:00 | same | c | t | b | f | e | y | s |"
	other := "| 08:00 | other | c | t | b | f | e | y | s |"

	jobs := Parse(row + "\n" + other + "\n" + row)
	require.Len(t, jobs, 3)
	assert.Equal(t, "same", jobs[0].Address)
	assert.Equal(t, "other", jobs[1].Address)
	assert.Equal(t, "same", jobs[2].Address)
}

func TestSplitRow(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected []string
	}{
		{name: "outer pipes", line: "| a | b |", expected: []string{"a", "b"}},
		{name: "no outer pipes", line: "a | b", expected: []string{"a", "b"}},
		{name: "inner blank kept", line: "| a |  | c |", expected: []string{"a", "", "c"}},
		{name: "surrounding whitespace", line: "   | a | b |   ", expected: []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SplitRow(tt.line))
		})
	}
}
