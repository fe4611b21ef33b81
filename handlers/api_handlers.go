package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"welfare-dashboard-go/analysis"
	"welfare-dashboard-go/db"
	"welfare-dashboard-go/metrics"
	"welfare-dashboard-go/models"
	"welfare-dashboard-go/report"
	"welfare-dashboard-go/web"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// APIHandler holds the dependencies for API handlers
type APIHandler struct {
	Store          db.RosterStore
	Analyzer       *analysis.Analyzer
	Metrics        *metrics.Metrics
	ReportFilename string // Download name without extension
}

// NewAPIHandler creates a new APIHandler
func NewAPIHandler(store db.RosterStore, analyzer *analysis.Analyzer, m *metrics.Metrics, reportFilename string) *APIHandler {
	return &APIHandler{
		Store:          store,
		Analyzer:       analyzer,
		Metrics:        m,
		ReportFilename: reportFilename,
	}
}

// analyze loads the roster and runs a fresh welfare pass. On failure the
// response has already been written.
func (h *APIHandler) analyze(c *gin.Context) (models.WelfareReport, bool) {
	records, err := h.Store.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load student roster"})
		return models.WelfareReport{}, false
	}

	rep := h.Analyzer.Analyze(c.Request.Context(), records)
	h.Metrics.ObserveAnalysis(rep.Summary)
	return rep, true
}

// --- Roster Handlers ---

// GetStudents handles GET /api/students
func (h *APIHandler) GetStudents(c *gin.Context) {
	records, err := h.Store.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load student roster"})
		return
	}
	if records == nil {
		c.JSON(http.StatusOK, []models.StudentRecord{})
		return
	}
	c.JSON(http.StatusOK, records)
}

// --- Analysis Handlers ---

// GetReport handles GET /api/report
func (h *APIHandler) GetReport(c *gin.Context) {
	rep, ok := h.analyze(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, rep)
}

type summaryResponse struct {
	models.SummaryReport
	CorrelationDisplay string `json:"correlationDisplay"`
}

// GetSummary handles GET /api/summary
func (h *APIHandler) GetSummary(c *gin.Context) {
	rep, ok := h.analyze(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, summaryResponse{
		SummaryReport:      rep.Summary,
		CorrelationDisplay: rep.Summary.AttendanceMarksCorrelation.String(),
	})
}

// GetChart handles GET /api/chart?metric=
func (h *APIHandler) GetChart(c *gin.Context) {
	metric, err := report.ParseMetric(c.Query("metric"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rep, ok := h.analyze(c)
	if !ok {
		return
	}
	series := report.BuildChart(rep.Records, metric)
	c.JSON(http.StatusOK, gin.H{
		"metric": series.Metric,
		"title":  series.Title,
		"labels": series.Labels,
		"values": series.Values,
		"bars":   series.Bars(),
	})
}

// --- Export Handlers ---

// ExportCSV handles GET /api/export/csv
func (h *APIHandler) ExportCSV(c *gin.Context) {
	rep, ok := h.analyze(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := report.WriteCSV(&buf, rep.Records); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build CSV report"})
		return
	}

	h.Metrics.ObserveExport("csv")
	h.attachment(c, "csv")
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportXLSX handles GET /api/export/xlsx
func (h *APIHandler) ExportXLSX(c *gin.Context) {
	rep, ok := h.analyze(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := report.WriteXLSX(&buf, rep); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build Excel report"})
		return
	}

	h.Metrics.ObserveExport("xlsx")
	h.attachment(c, "xlsx")
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *APIHandler) attachment(c *gin.Context, ext string) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", h.ReportFilename+"."+ext))
}

// --- Dashboard Handler ---

type metricOption struct {
	Value    report.Metric
	Label    string
	Selected bool
}

// Dashboard handles GET / and renders the HTML page
func (h *APIHandler) Dashboard(c *gin.Context) {
	metric, err := report.ParseMetric(c.Query("metric"))
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	rep, ok := h.analyze(c)
	if !ok {
		return
	}

	options := make([]metricOption, len(report.Metrics))
	for i, m := range report.Metrics {
		options[i] = metricOption{Value: m, Label: m.Label(), Selected: m == metric}
	}
	chart := report.BuildChart(rep.Records, metric)

	c.HTML(http.StatusOK, web.DashboardTemplate, gin.H{
		"Report":  rep,
		"Metrics": options,
		"Chart":   chart,
		"Bars":    chart.Bars(),
	})
}

// --- Ping Handler ---
func PingHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Pong!"})
}
