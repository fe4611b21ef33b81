package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// StudentRecord is one input row of the roster
type StudentRecord struct {
	Name           string  `json:"name"`           // Student name, not required to be unique
	Math           int     `json:"math"`           // Math score
	Science        int     `json:"science"`        // Science score
	English        int     `json:"english"`        // English score
	AttendancePct  float64 `json:"attendancePct"`  // Attendance percentage
	ActivityPoints int     `json:"activityPoints"` // Extracurricular activity points
}

// WelfareStatus is the label assigned from average marks and attendance
type WelfareStatus string

const (
	StatusExcellent    WelfareStatus = "Excellent"
	StatusGood         WelfareStatus = "Good"
	StatusNeedsSupport WelfareStatus = "Needs Support"
)

// ParseWelfareStatus accepts the display label as well as the compact "NeedsSupport" form.
func ParseWelfareStatus(s string) (WelfareStatus, error) {
	switch strings.ReplaceAll(strings.TrimSpace(s), " ", "") {
	case "Excellent":
		return StatusExcellent, nil
	case "Good":
		return StatusGood, nil
	case "NeedsSupport":
		return StatusNeedsSupport, nil
	}
	return "", fmt.Errorf("unknown welfare status %q", s)
}

// EnrichedRecord is a StudentRecord with its derived columns
type EnrichedRecord struct {
	StudentRecord
	TotalMarks    int           `json:"totalMarks"`
	AverageMarks  float64       `json:"averageMarks"`
	WelfareStatus WelfareStatus `json:"welfareStatus"`
}

// Correlation holds a coefficient that may be undefined.
type Correlation struct {
	Value   float64
	Defined bool
}

// String renders two decimals, or "N/A" when undefined.
func (c Correlation) String() string {
	if !c.Defined {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", c.Value)
}

// MarshalJSON encodes an undefined correlation as null.
func (c Correlation) MarshalJSON() ([]byte, error) {
	if !c.Defined {
		return []byte("null"), nil
	}
	return json.Marshal(c.Value)
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (c *Correlation) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*c = Correlation{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*c = Correlation{Value: v, Defined: true}
	return nil
}

// SummaryReport is a snapshot of dataset-wide statistics
type SummaryReport struct {
	TotalStudents              int         `json:"totalStudents"`
	ExcellentCount             int         `json:"excellentCount"`
	GoodCount                  int         `json:"goodCount"`
	NeedsSupportCount          int         `json:"needsSupportCount"`
	AttendanceMarksCorrelation Correlation `json:"attendanceMarksCorrelation"`
}

// WelfareReport bundles the enriched table with its summary
type WelfareReport struct {
	Records []EnrichedRecord `json:"records"`
	Summary SummaryReport    `json:"summary"`
}
