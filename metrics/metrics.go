package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"welfare-dashboard-go/models"
)

// Metrics tracks analysis passes and report downloads
type Metrics struct {
	registry       *prometheus.Registry
	analysisRuns   prometheus.Counter
	exports        *prometheus.CounterVec
	students       prometheus.Gauge
	studentsStatus *prometheus.GaugeVec
}

// New registers the dashboard collectors on a fresh registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		analysisRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "welfare_analysis_runs_total",
			Help: "Number of welfare analysis passes.",
		}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "welfare_exports_total",
			Help: "Number of report downloads by format.",
		}, []string{"format"}),
		students: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "welfare_students",
			Help: "Students in the most recent analysis pass.",
		}),
		studentsStatus: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "welfare_students_by_status",
			Help: "Students per welfare status in the most recent analysis pass.",
		}, []string{"status"}),
	}
	m.registry.MustRegister(m.analysisRuns, m.exports, m.students, m.studentsStatus)
	return m
}

// ObserveAnalysis records one analysis pass
func (m *Metrics) ObserveAnalysis(s models.SummaryReport) {
	m.analysisRuns.Inc()
	m.students.Set(float64(s.TotalStudents))
	m.studentsStatus.WithLabelValues(string(models.StatusExcellent)).Set(float64(s.ExcellentCount))
	m.studentsStatus.WithLabelValues(string(models.StatusGood)).Set(float64(s.GoodCount))
	m.studentsStatus.WithLabelValues(string(models.StatusNeedsSupport)).Set(float64(s.NeedsSupportCount))
}

// ObserveExport records a report download
func (m *Metrics) ObserveExport(format string) {
	m.exports.WithLabelValues(format).Inc()
}

// Handler exposes the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
