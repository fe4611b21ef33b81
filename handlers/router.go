package handlers

import (
	"html/template"
	"log/slog"

	"github.com/gin-gonic/gin"
	"welfare-dashboard-go/logging"
)

// NewRouter wires the dashboard routes onto a gin engine
func NewRouter(h *APIHandler, tmpl *template.Template, logger *slog.Logger) *gin.Engine {
	if logger == nil {
		logger = slog.Default()
	}

	router := gin.New()
	router.Use(gin.Recovery(), logging.RequestLogger(logger))
	router.SetHTMLTemplate(tmpl)

	router.GET("/", h.Dashboard)
	router.GET("/metrics", gin.WrapH(h.Metrics.Handler()))

	api := router.Group("/api")
	{
		api.GET("/students", h.GetStudents)

		// Analysis routes
		api.GET("/report", h.GetReport)
		api.GET("/summary", h.GetSummary)
		api.GET("/chart", h.GetChart)

		// Download routes
		api.GET("/export/csv", h.ExportCSV)
		api.GET("/export/xlsx", h.ExportXLSX)

		api.GET("/ping", PingHandler)
	}

	return router
}
