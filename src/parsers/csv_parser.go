package parsers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/username/famfolio/backend/src/models"
	"github.com/username/famfolio/backend/src/utils"
)

// RowResult carries the outcome of one CSV line through the import
// pipeline. A row is never silently dropped: rejected rows keep their raw
// text and a specific reason so the caller can surface why each one failed.
type RowResult struct {
	Line   int
	Raw    string
	Entry  *models.ValueEntry
	Reason string
}

func (r RowResult) Accepted() bool {
	return r.Entry != nil
}

type SnapshotCSVParser struct{}

func NewSnapshotCSVParser() *SnapshotCSVParser {
	return &SnapshotCSVParser{}
}

// Parse turns raw CSV text into per-row results. Expected field order is
// Date,Value,InvestmentChange,Notes; any fields past the third are re-joined
// by commas into the notes. A header line whose lowercased text contains
// "date" is discarded. A row is accepted only when its date parses and its
// value is strictly positive; unparsable numbers default to zero.
func (p *SnapshotCSVParser) Parse(raw string) []RowResult {
	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")

	start := 0
	if len(lines) > 0 && strings.Contains(strings.ToLower(lines[0]), "date") {
		start = 1
	}

	var results []RowResult
	for i := start; i < len(lines); i++ {
		line := lines[i]
		// A line is blank when nothing remains after stripping commas.
		if strings.TrimSpace(strings.ReplaceAll(line, ",", "")) == "" {
			continue
		}

		fields := splitCSVLine(line)
		result := RowResult{Line: i + 1, Raw: line}

		date, ok := utils.ParseFlexibleDate(cleanField(fieldAt(fields, 0)))
		if !ok {
			result.Reason = fmt.Sprintf("unparsable date %q", cleanField(fieldAt(fields, 0)))
			results = append(results, result)
			continue
		}

		value := parseNumber(fieldAt(fields, 1))
		if value <= 0 {
			result.Reason = fmt.Sprintf("value must be greater than zero, got %q", cleanField(fieldAt(fields, 1)))
			results = append(results, result)
			continue
		}

		investmentChange := parseNumber(fieldAt(fields, 2))

		notes := ""
		if len(fields) > 3 {
			notes = cleanField(strings.Join(fields[3:], ","))
			notes = strings.ReplaceAll(notes, `""`, `"`)
		}

		result.Entry = &models.ValueEntry{
			Date:             date,
			Value:            value,
			InvestmentChange: investmentChange,
			Notes:            notes,
		}
		results = append(results, result)
	}

	return results
}

// splitCSVLine tokenizes one line, treating a double quote as a toggle for
// the inside-quotes state so commas inside quoted values do not split
// fields. Quote characters stay in the raw field; cleanField strips them.
func splitCSVLine(line string) []string {
	var fields []string
	var current strings.Builder
	inQuotes := false

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			current.WriteRune(r)
		case r == ',' && !inQuotes:
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	fields = append(fields, current.String())
	return fields
}

func fieldAt(fields []string, i int) string {
	if i >= len(fields) {
		return ""
	}
	return fields[i]
}

// cleanField trims whitespace and one pair of enclosing double quotes.
func cleanField(field string) string {
	s := strings.TrimSpace(field)
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		s = s[1 : len(s)-1]
	}
	return s
}

func parseNumber(field string) float64 {
	v, err := strconv.ParseFloat(cleanField(field), 64)
	if err != nil {
		return 0
	}
	return v
}
