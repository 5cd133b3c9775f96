package processors

import (
	"fmt"
	"sort"
	"time"

	"github.com/username/famfolio/backend/src/models"
)

type HeatmapProcessor struct{}

func NewHeatmapProcessor() *HeatmapProcessor {
	return &HeatmapProcessor{}
}

// Process buckets an asset's value history by calendar month and derives
// month-over-month and year-over-year returns. The last snapshot observed
// within a month is that month's representative value. Months without data
// render as nil cells but do not break the chain: the last known value is
// carried forward across any gap, so the next existing month's previous
// value is the one before the gap. The first cell ever has no prior month
// and uses its own value as the base, yielding a zero return.
//
// Years are returned newest first. Years with no observation at all emit no
// row. The walk is deterministic: the date sort is stable, so same-day
// entries keep their input order and "last value wins" is reproducible.
func (p *HeatmapProcessor) Process(entries []models.ValueEntry) []models.HeatmapYearRow {
	if len(entries) == 0 {
		return []models.HeatmapYearRow{}
	}

	sorted := make([]models.ValueEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	// Bucket by month index (year*12 + month), last value in month wins.
	buckets := make(map[int]float64)
	firstIdx := monthIndex(sorted[0].Date)
	lastIdx := firstIdx
	for _, e := range sorted {
		idx := monthIndex(e.Date)
		buckets[idx] = e.Value
		if idx < firstIdx {
			firstIdx = idx
		}
		if idx > lastIdx {
			lastIdx = idx
		}
	}

	rowByYear := make(map[int]*models.HeatmapYearRow)
	var years []int
	var lastKnown float64
	haveLast := false

	for idx := firstIdx; idx <= lastIdx; idx++ {
		value, exists := buckets[idx]
		if !exists {
			continue // gap month: nil cell, carry-forward untouched
		}

		year := idx / 12
		month := idx % 12

		previous := value
		if haveLast {
			previous = lastKnown
		}

		changeValue := value - previous
		changePercent := 0.0
		if previous != 0 {
			changePercent = changeValue / previous * 100
		}

		row, ok := rowByYear[year]
		if !ok {
			// Year start is the carried value just before the year's first
			// existing month, or that month's own value with no prior data.
			startValue := value
			if haveLast {
				startValue = lastKnown
			}
			row = &models.HeatmapYearRow{Year: year, StartValue: startValue}
			rowByYear[year] = row
			years = append(years, year)
		}

		row.Cells[month] = &models.HeatmapCell{
			Month:         fmt.Sprintf("%04d-%02d", year, month+1),
			Value:         value,
			PreviousValue: previous,
			ChangeValue:   changeValue,
			ChangePercent: changePercent,
		}
		row.EndValue = value

		lastKnown = value
		haveLast = true
	}

	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	rows := make([]models.HeatmapYearRow, 0, len(years))
	for _, year := range years {
		row := rowByYear[year]
		row.TotalChange = row.EndValue - row.StartValue
		if row.StartValue != 0 {
			row.TotalReturn = row.TotalChange / row.StartValue * 100
		}
		rows = append(rows, *row)
	}
	return rows
}

// MonthlyReturns collects the change percentages of existing cells only,
// oldest year first so the sequence reads chronologically.
func (p *HeatmapProcessor) MonthlyReturns(rows []models.HeatmapYearRow) []float64 {
	var returns []float64
	for i := len(rows) - 1; i >= 0; i-- {
		for _, cell := range rows[i].Cells {
			if cell != nil {
				returns = append(returns, cell.ChangePercent)
			}
		}
	}
	return returns
}

func monthIndex(t time.Time) int {
	return t.Year()*12 + int(t.Month()) - 1
}
