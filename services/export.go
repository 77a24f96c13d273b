package services

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// ExportPrioritizedCases writes a scored case list to an XLSX workbook with a
// summary sheet and a detail sheet, ready for download by reporting clients.
func ExportPrioritizedCases(cases []*ScoredCase, stats PriorityStats, generatedAt time.Time) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetSummary := "Summary"
	f.SetSheetName("Sheet1", sheetSummary)

	titleStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	headerStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 12}})

	// --- Summary sheet ---
	f.SetCellValue(sheetSummary, "A1", "Case Priority Report")
	f.SetCellStyle(sheetSummary, "A1", "A1", titleStyle)
	f.SetCellValue(sheetSummary, "A2", fmt.Sprintf("Generated at %s", generatedAt.Format("2006-01-02 15:04")))

	summaryRows := []struct {
		Label string
		Value interface{}
	}{
		{"Total cases", stats.TotalCases},
		{"Critical cases", stats.CriticalCases},
		{"Overdue cases", stats.OverdueCases},
		{"Due this week", stats.DueThisWeek},
		{"Unassigned cases", stats.UnassignedCases},
		{"Average urgency score", fmt.Sprintf("%.1f", stats.AverageUrgencyScore)},
	}
	for i, row := range summaryRows {
		f.SetCellValue(sheetSummary, fmt.Sprintf("A%d", i+4), row.Label)
		f.SetCellValue(sheetSummary, fmt.Sprintf("B%d", i+4), row.Value)
	}
	f.SetColWidth(sheetSummary, "A", "A", 24)

	// --- Cases sheet ---
	sheetCases := "Prioritized Cases"
	if _, err := f.NewSheet(sheetCases); err != nil {
		return nil, fmt.Errorf("failed to create cases sheet: %w", err)
	}

	headers := []string{
		"Case Number", "Title", "Type", "Status", "Priority Level",
		"Urgency Score", "Urgency Level", "Overdue", "Days Until Deadline",
		"Priority Factors", "Assigned Lawyer",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetCases, cell, h)
	}
	f.SetCellStyle(sheetCases, "A1", "K1", headerStyle)

	for i, sc := range cases {
		row := i + 2
		daysUntil := ""
		if sc.DaysUntilDeadline != nil {
			daysUntil = fmt.Sprintf("%d", *sc.DaysUntilDeadline)
		}
		lawyer := ""
		if sc.AssignedLawyerName != nil {
			lawyer = *sc.AssignedLawyerName
		}

		values := []interface{}{
			sc.CaseNumber,
			sc.Title,
			sc.CaseType,
			sc.Status,
			sc.PriorityLevel,
			sc.UrgencyScore,
			sc.UrgencyLevel,
			sc.IsOverdue,
			daysUntil,
			strings.Join(sc.PriorityFactors, ", "),
			lawyer,
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, row)
			f.SetCellValue(sheetCases, cell, v)
		}
	}
	f.SetColWidth(sheetCases, "A", "B", 24)
	f.SetColWidth(sheetCases, "J", "J", 40)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf, nil
}
