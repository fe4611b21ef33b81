package analysis

import (
	"context"
	"log/slog"
	"time"

	"welfare-dashboard-go/models"
)

// Analyzer runs a full welfare pass and logs the outcome.
type Analyzer struct {
	logger *slog.Logger
}

// NewAnalyzer creates an Analyzer. A nil logger falls back to slog.Default().
func NewAnalyzer(logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{logger: logger}
}

// Analyze enriches the records and summarizes the result.
func (a *Analyzer) Analyze(ctx context.Context, records []models.StudentRecord) models.WelfareReport {
	start := time.Now()
	enriched := Enrich(records)
	summary := Summarize(enriched)

	a.logger.DebugContext(ctx, "welfare analysis completed",
		slog.Int("total_students", summary.TotalStudents),
		slog.Int("excellent", summary.ExcellentCount),
		slog.Int("needs_support", summary.NeedsSupportCount),
		slog.String("correlation", summary.AttendanceMarksCorrelation.String()),
		slog.Duration("duration", time.Since(start)))

	return models.WelfareReport{Records: enriched, Summary: summary}
}
