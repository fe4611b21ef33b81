package analysis

import (
	"math"

	"welfare-dashboard-go/models"
)

const (
	supportMarksBelow      = 50.0
	supportAttendanceBelow = 60.0
	excellentMarksFrom     = 80.0
	excellentAttendance    = 85.0
)

// RoundMarks rounds to two decimals, ties to even.
func RoundMarks(x float64) float64 {
	return math.RoundToEven(x*100) / 100
}

// Classify assigns the welfare status. The support rule is checked first, so a
// high average with poor attendance is still NeedsSupport.
func Classify(averageMarks, attendancePct float64) models.WelfareStatus {
	if averageMarks < supportMarksBelow || attendancePct < supportAttendanceBelow {
		return models.StatusNeedsSupport
	}
	if averageMarks >= excellentMarksFrom && attendancePct >= excellentAttendance {
		return models.StatusExcellent
	}
	return models.StatusGood
}

// EnrichRecord derives total, average and status for a single row.
func EnrichRecord(r models.StudentRecord) models.EnrichedRecord {
	total := r.Math + r.Science + r.English
	avg := RoundMarks(float64(total) / 3)
	return models.EnrichedRecord{
		StudentRecord: r,
		TotalMarks:    total,
		AverageMarks:  avg,
		WelfareStatus: Classify(avg, r.AttendancePct),
	}
}

// Enrich derives the computed columns for every record, keeping input order.
func Enrich(records []models.StudentRecord) []models.EnrichedRecord {
	out := make([]models.EnrichedRecord, len(records))
	for i, r := range records {
		out[i] = EnrichRecord(r)
	}
	return out
}

// Summarize counts statuses and correlates attendance with average marks.
func Summarize(enriched []models.EnrichedRecord) models.SummaryReport {
	summary := models.SummaryReport{TotalStudents: len(enriched)}
	attendance := make([]float64, len(enriched))
	marks := make([]float64, len(enriched))

	for i, e := range enriched {
		switch e.WelfareStatus {
		case models.StatusExcellent:
			summary.ExcellentCount++
		case models.StatusNeedsSupport:
			summary.NeedsSupportCount++
		default:
			summary.GoodCount++
		}
		attendance[i] = e.AttendancePct
		marks[i] = e.AverageMarks
	}

	summary.AttendanceMarksCorrelation = Pearson(attendance, marks)
	return summary
}
