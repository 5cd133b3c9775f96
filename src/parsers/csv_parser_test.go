package parsers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseAcceptsWellFormedRows(t *testing.T) {
	parser := NewSnapshotCSVParser()
	raw := "Date,Value,InvestmentChange,Notes\n" +
		`2024-01-15,10000,5000,"Initial deposit"` + "\n" +
		`15/02/2024,10500,0,"Monthly update"` + "\n"

	results := parser.Parse(raw)
	assert.Len(t, results, 2)

	first := results[0]
	assert.True(t, first.Accepted())
	assert.Equal(t, 2, first.Line)
	assert.True(t, first.Entry.Date.Equal(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 10000.0, first.Entry.Value)
	assert.Equal(t, 5000.0, first.Entry.InvestmentChange)
	assert.Equal(t, "Initial deposit", first.Entry.Notes)

	second := results[1]
	assert.True(t, second.Accepted())
	assert.True(t, second.Entry.Date.Equal(time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 10500.0, second.Entry.Value)
	assert.Equal(t, 0.0, second.Entry.InvestmentChange)
}

func TestParseRejectsBadRowsWithReasons(t *testing.T) {
	parser := NewSnapshotCSVParser()
	raw := "date,value,change,notes\n" +
		"not-a-date,100,0,\n" +
		"2024-03-01,0,0,\n" +
		"2024-03-02,-50,0,\n" +
		"2024-03-03,abc,0,\n"

	results := parser.Parse(raw)
	assert.Len(t, results, 4)
	for _, r := range results {
		assert.False(t, r.Accepted())
		assert.NotEmpty(t, r.Reason)
		assert.NotEmpty(t, r.Raw)
	}
	assert.Contains(t, results[0].Reason, "unparsable date")
	assert.Contains(t, results[1].Reason, "greater than zero")
	assert.Contains(t, results[2].Reason, "greater than zero")
	// Unparsable numbers default to zero, which fails the positive check.
	assert.Contains(t, results[3].Reason, "greater than zero")
}

func TestParseQuotedNotes(t *testing.T) {
	parser := NewSnapshotCSVParser()

	results := parser.Parse(`2024-01-15,100,0,"bonus, plus ""extra"" savings"`)
	assert.Len(t, results, 1)
	assert.True(t, results[0].Accepted())
	assert.Equal(t, `bonus, plus "extra" savings`, results[0].Entry.Notes)
}

func TestParseSkipsBlankLinesAndMissingHeader(t *testing.T) {
	parser := NewSnapshotCSVParser()

	// No header: the first line is data and must not be discarded.
	results := parser.Parse("2024-01-15,100,0\n\n ,,, \n2024-02-15,110,0\n")
	assert.Len(t, results, 2)
	assert.True(t, results[0].Accepted())
	assert.True(t, results[1].Accepted())
	assert.Equal(t, 1, results[0].Line)
	assert.Equal(t, 4, results[1].Line)
}

func TestParseEmptyInput(t *testing.T) {
	parser := NewSnapshotCSVParser()
	assert.Empty(t, parser.Parse(""))
	assert.Empty(t, parser.Parse("Date,Value,InvestmentChange,Notes\n"))
}

func TestParseMissingTrailingFields(t *testing.T) {
	parser := NewSnapshotCSVParser()

	results := parser.Parse("2024-01-15,100")
	assert.Len(t, results, 1)
	assert.True(t, results[0].Accepted())
	assert.Equal(t, 0.0, results[0].Entry.InvestmentChange)
	assert.Equal(t, "", results[0].Entry.Notes)
}
