package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"welfare-dashboard-go/analysis"
	"welfare-dashboard-go/db"
	"welfare-dashboard-go/metrics"
	"welfare-dashboard-go/models"
	"welfare-dashboard-go/report"
	"welfare-dashboard-go/web"
)

func setupRouter(t *testing.T, store db.RosterStore) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	tmpl, err := web.LoadTemplates()
	require.NoError(t, err)

	h := NewAPIHandler(store, analysis.NewAnalyzer(logger), metrics.New(), "student_welfare_report")
	return NewRouter(h, tmpl, logger)
}

func doGet(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestPingEndpoint(t *testing.T) {
	r := setupRouter(t, db.NewMemoryStore(nil))
	w := doGet(r, "/api/ping")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Pong!"}`, w.Body.String())
}

func TestGetStudents(t *testing.T) {
	t.Run("demo roster", func(t *testing.T) {
		r := setupRouter(t, db.NewMemoryStore(db.DemoRoster()))
		w := doGet(r, "/api/students")
		require.Equal(t, http.StatusOK, w.Code)

		var rows []models.StudentRecord
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
		assert.Equal(t, db.DemoRoster(), rows)
	})

	t.Run("empty roster is an empty list", func(t *testing.T) {
		r := setupRouter(t, db.NewMemoryStore(nil))
		w := doGet(r, "/api/students")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})
}

func TestGetReport(t *testing.T) {
	r := setupRouter(t, db.NewMemoryStore(db.DemoRoster()))
	w := doGet(r, "/api/report")
	require.Equal(t, http.StatusOK, w.Code)

	var rep models.WelfareReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rep))
	require.Len(t, rep.Records, 10)

	assert.Equal(t, "Aarav", rep.Records[0].Name)
	assert.Equal(t, 202, rep.Records[0].TotalMarks)
	assert.Equal(t, 67.33, rep.Records[0].AverageMarks)
	assert.Equal(t, models.StatusGood, rep.Records[0].WelfareStatus)

	assert.Equal(t, 10, rep.Summary.TotalStudents)
	assert.Equal(t, 3, rep.Summary.ExcellentCount)
	assert.Equal(t, 3, rep.Summary.GoodCount)
	assert.Equal(t, 4, rep.Summary.NeedsSupportCount)
	assert.True(t, rep.Summary.AttendanceMarksCorrelation.Defined)
}

func TestGetSummary(t *testing.T) {
	t.Run("example pair", func(t *testing.T) {
		r := setupRouter(t, db.NewMemoryStore([]models.StudentRecord{
			{Name: "A", Math: 90, Science: 90, English: 90, AttendancePct: 95},
			{Name: "B", Math: 30, Science: 40, English: 35, AttendancePct: 50},
		}))
		w := doGet(r, "/api/summary")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{
			"totalStudents": 2,
			"excellentCount": 1,
			"goodCount": 0,
			"needsSupportCount": 1,
			"attendanceMarksCorrelation": 1,
			"correlationDisplay": "1.00"
		}`, w.Body.String())
	})

	t.Run("undefined correlation renders N/A", func(t *testing.T) {
		r := setupRouter(t, db.NewMemoryStore(nil))
		w := doGet(r, "/api/summary")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{
			"totalStudents": 0,
			"excellentCount": 0,
			"goodCount": 0,
			"needsSupportCount": 0,
			"attendanceMarksCorrelation": null,
			"correlationDisplay": "N/A"
		}`, w.Body.String())
	})
}

func TestGetChart(t *testing.T) {
	r := setupRouter(t, db.NewMemoryStore(db.DemoRoster()))

	tests := []struct {
		name           string
		path           string
		expectedStatus int
		expectedTitle  string
	}{
		{name: "default metric", path: "/api/chart", expectedStatus: http.StatusOK, expectedTitle: "Average Marks"},
		{name: "attendance", path: "/api/chart?metric=attendance_pct", expectedStatus: http.StatusOK, expectedTitle: "Attendance (%)"},
		{name: "activity", path: "/api/chart?metric=activity_points", expectedStatus: http.StatusOK, expectedTitle: "Activity_Points"},
		{name: "unknown metric", path: "/api/chart?metric=math", expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doGet(r, tt.path)
			assert.Equal(t, tt.expectedStatus, w.Code)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			if tt.expectedStatus != http.StatusOK {
				assert.Contains(t, body, "error")
				return
			}
			assert.Equal(t, tt.expectedTitle, body["title"])
			assert.Len(t, body["labels"], 10)
			assert.Len(t, body["values"], 10)
			assert.Len(t, body["bars"], 10)
		})
	}
}

func TestExportCSV(t *testing.T) {
	r := setupRouter(t, db.NewMemoryStore(db.DemoRoster()))
	w := doGet(r, "/api/export/csv")
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="student_welfare_report.csv"`, w.Header().Get("Content-Disposition"))

	parsed, err := report.ReadCSV(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, analysis.Enrich(db.DemoRoster()), parsed)
}

func TestExportXLSX(t *testing.T) {
	r := setupRouter(t, db.NewMemoryStore(db.DemoRoster()))
	w := doGet(r, "/api/export/xlsx")
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="student_welfare_report.xlsx"`, w.Header().Get("Content-Disposition"))

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(report.ReportSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 11)
}

func TestDashboard(t *testing.T) {
	t.Run("renders tables, metrics and chart", func(t *testing.T) {
		r := setupRouter(t, db.NewMemoryStore(db.DemoRoster()))
		w := doGet(r, "/?metric=attendance_pct")
		require.Equal(t, http.StatusOK, w.Code)

		body := w.Body.String()
		assert.Contains(t, body, "Student Welfare Analysis Report")
		assert.Contains(t, body, "Saanvi")
		assert.Contains(t, body, "67.33")
		assert.Contains(t, body, "Needs Support")
		assert.Contains(t, body, `<option value="attendance_pct" selected>`)
		assert.Contains(t, body, "/api/export/csv")
	})

	t.Run("single student shows N/A correlation", func(t *testing.T) {
		r := setupRouter(t, db.NewMemoryStore([]models.StudentRecord{
			{Name: "Solo", Math: 70, Science: 70, English: 70, AttendancePct: 90, ActivityPoints: 12},
		}))
		w := doGet(r, "/")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `<div class="value">N/A</div>`)
		assert.NotContains(t, w.Body.String(), "NaN")
	})

	t.Run("unknown metric", func(t *testing.T) {
		r := setupRouter(t, db.NewMemoryStore(db.DemoRoster()))
		w := doGet(r, "/?metric=bogus")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestStoreFailure(t *testing.T) {
	r := setupRouter(t, brokenStore{})

	for _, path := range []string{"/api/students", "/api/report", "/api/summary", "/api/chart", "/api/export/csv", "/api/export/xlsx"} {
		t.Run(path, func(t *testing.T) {
			w := doGet(r, path)
			assert.Equal(t, http.StatusInternalServerError, w.Code)
			assert.JSONEq(t, `{"error":"Failed to load student roster"}`, w.Body.String())
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	r := setupRouter(t, db.NewMemoryStore(db.DemoRoster()))
	doGet(r, "/api/report")
	doGet(r, "/api/export/csv")

	w := doGet(r, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "welfare_analysis_runs_total 2")
	assert.Contains(t, w.Body.String(), `welfare_exports_total{format="csv"} 1`)
	assert.Contains(t, w.Body.String(), `welfare_students_by_status{status="Needs Support"} 4`)
}

type brokenStore struct{}

func (brokenStore) List(context.Context) ([]models.StudentRecord, error) {
	return nil, errors.New("connection refused")
}

func (brokenStore) Replace(context.Context, []models.StudentRecord) error {
	return errors.New("connection refused")
}

func (brokenStore) Count(context.Context) (int, error) {
	return 0, errors.New("connection refused")
}
