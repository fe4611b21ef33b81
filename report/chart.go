package report

import (
	"errors"
	"fmt"

	"welfare-dashboard-go/models"
)

// ErrUnknownMetric is returned for a chart metric that is not plotted.
var ErrUnknownMetric = errors.New("unknown chart metric")

// Metric names a per-student column that can be charted
type Metric string

const (
	MetricAverageMarks   Metric = "average_marks"
	MetricAttendance     Metric = "attendance_pct"
	MetricActivityPoints Metric = "activity_points"
)

// Metrics lists the selectable chart metrics, default first.
var Metrics = []Metric{MetricAverageMarks, MetricAttendance, MetricActivityPoints}

// Label is the column header the metric is shown under.
func (m Metric) Label() string {
	switch m {
	case MetricAverageMarks:
		return ColAverageMarks
	case MetricAttendance:
		return ColAttendance
	case MetricActivityPoints:
		return ColActivityPoints
	}
	return string(m)
}

// ParseMetric maps a query value to a Metric; empty selects average marks.
func ParseMetric(s string) (Metric, error) {
	if s == "" {
		return MetricAverageMarks, nil
	}
	for _, m := range Metrics {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMetric, s)
}

// Bar is one student's bar in the chart
type Bar struct {
	Label   string  `json:"label"`
	Value   float64 `json:"value"`
	Percent float64 `json:"percent"` // Height relative to the largest value
}

// ChartSeries is a bar chart of one metric indexed by student name
type ChartSeries struct {
	Metric Metric    `json:"metric"`
	Title  string    `json:"title"`
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// BuildChart extracts the metric for every record, keeping input order.
func BuildChart(records []models.EnrichedRecord, metric Metric) ChartSeries {
	series := ChartSeries{
		Metric: metric,
		Title:  metric.Label(),
		Labels: make([]string, len(records)),
		Values: make([]float64, len(records)),
	}
	for i, r := range records {
		series.Labels[i] = r.Name
		switch metric {
		case MetricAttendance:
			series.Values[i] = r.AttendancePct
		case MetricActivityPoints:
			series.Values[i] = float64(r.ActivityPoints)
		default:
			series.Values[i] = r.AverageMarks
		}
	}
	return series
}

// Bars scales each value against the series maximum. Non-positive values get
// a zero-height bar.
func (s ChartSeries) Bars() []Bar {
	maxV := 0.0
	for _, v := range s.Values {
		if v > maxV {
			maxV = v
		}
	}

	bars := make([]Bar, len(s.Values))
	for i, v := range s.Values {
		bars[i] = Bar{Label: s.Labels[i], Value: v}
		if maxV > 0 && v > 0 {
			bars[i].Percent = v / maxV * 100
		}
	}
	return bars
}
