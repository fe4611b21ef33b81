package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
	"welfare-dashboard-go/models"
)

const (
	ReportSheet  = "Report"
	SummarySheet = "Summary"
)

// WriteXLSX writes a workbook with the enriched table on the Report sheet and
// the summary metrics on the Summary sheet.
func WriteXLSX(w io.Writer, report models.WelfareReport) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close workbook: %w", cerr)
		}
	}()

	if err := f.SetSheetName(f.GetSheetName(0), ReportSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if err := writeReportSheet(f, report.Records); err != nil {
		return err
	}
	if err := writeSummarySheet(f, report.Summary); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeReportSheet(f *excelize.File, records []models.EnrichedRecord) error {
	header := make([]interface{}, len(Headers))
	for i, h := range Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(ReportSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to resolve row %d: %w", i, err)
		}
		row := []interface{}{
			r.Name, r.Math, r.Science, r.English, r.AttendancePct, r.ActivityPoints,
			r.TotalMarks, r.AverageMarks, string(r.WelfareStatus),
		}
		if err := f.SetSheetRow(ReportSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	if len(records) == 0 {
		return nil
	}

	// two decimal display for the average column
	style, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		return fmt.Errorf("failed to create number style: %w", err)
	}
	col, err := excelize.ColumnNumberToName(indexOf(Headers, ColAverageMarks) + 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(ReportSheet, fmt.Sprintf("%s2", col), fmt.Sprintf("%s%d", col, len(records)+1), style)
}

func writeSummarySheet(f *excelize.File, s models.SummaryReport) error {
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}

	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Total Students", s.TotalStudents},
		{"Excellent Students", s.ExcellentCount},
		{"Good Students", s.GoodCount},
		{"Needs Support", s.NeedsSupportCount},
		{"Attendance-Marks Correlation", s.AttendanceMarksCorrelation.String()},
	}
	for i := range rows {
		if err := f.SetSheetRow(SummarySheet, fmt.Sprintf("A%d", i+1), &rows[i]); err != nil {
			return fmt.Errorf("failed to write summary row %d: %w", i, err)
		}
	}
	return nil
}

func indexOf(xs []string, s string) int {
	for i, x := range xs {
		if x == s {
			return i
		}
	}
	return -1
}
