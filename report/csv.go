package report

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"welfare-dashboard-go/models"
)

// ErrMalformedCSV is returned when an exported table cannot be read back.
var ErrMalformedCSV = errors.New("malformed welfare CSV")

// Column headers, in export order.
const (
	ColName           = "Name"
	ColMath           = "Math"
	ColScience        = "Science"
	ColEnglish        = "English"
	ColAttendance     = "Attendance (%)"
	ColActivityPoints = "Activity_Points"
	ColTotalMarks     = "Total Marks"
	ColAverageMarks   = "Average Marks"
	ColWelfareStatus  = "Welfare_Status"
)

// Headers lists the base columns followed by the derived ones.
var Headers = []string{
	ColName, ColMath, ColScience, ColEnglish, ColAttendance, ColActivityPoints,
	ColTotalMarks, ColAverageMarks, ColWelfareStatus,
}

var baseColumns = []string{ColName, ColMath, ColScience, ColEnglish, ColAttendance, ColActivityPoints}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// FormatNumber renders a float in its shortest natural decimal form.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatAverage renders average marks with exactly two decimals.
func FormatAverage(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// Row converts an enriched record to its CSV cells.
func Row(r models.EnrichedRecord) []string {
	return []string{
		r.Name,
		strconv.Itoa(r.Math),
		strconv.Itoa(r.Science),
		strconv.Itoa(r.English),
		FormatNumber(r.AttendancePct),
		strconv.Itoa(r.ActivityPoints),
		strconv.Itoa(r.TotalMarks),
		FormatAverage(r.AverageMarks),
		string(r.WelfareStatus),
	}
}

// WriteCSV writes the header and one row per record in input order.
func WriteCSV(w io.Writer, records []models.EnrichedRecord) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(Headers); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for i, r := range records {
		if err := writer.Write(Row(r)); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// ReadCSV parses a table produced by WriteCSV. Columns are matched by header
// name; derived columns are optional and left zero when absent.
func ReadCSV(r io.Reader) ([]models.EnrichedRecord, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && string(head) == string(utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCSV, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: missing header row", ErrMalformedCSV)
	}

	index := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		index[strings.TrimSpace(h)] = i
	}
	for _, col := range baseColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrMalformedCSV, col)
		}
	}

	records := make([]models.EnrichedRecord, 0, len(rows)-1)
	for line, row := range rows[1:] {
		rec, err := parseRow(index, row)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedCSV, line+2, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseRow(index map[string]int, row []string) (models.EnrichedRecord, error) {
	cell := func(col string) (string, bool) {
		i, ok := index[col]
		if !ok || i >= len(row) {
			return "", false
		}
		return row[i], true
	}

	var rec models.EnrichedRecord
	rec.Name, _ = cell(ColName)

	ints := []struct {
		col string
		dst *int
	}{
		{ColMath, &rec.Math},
		{ColScience, &rec.Science},
		{ColEnglish, &rec.English},
		{ColActivityPoints, &rec.ActivityPoints},
		{ColTotalMarks, &rec.TotalMarks},
	}
	for _, f := range ints {
		v, ok := cell(f.col)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return models.EnrichedRecord{}, fmt.Errorf("column %q: %w", f.col, err)
		}
		*f.dst = n
	}

	floats := []struct {
		col string
		dst *float64
	}{
		{ColAttendance, &rec.AttendancePct},
		{ColAverageMarks, &rec.AverageMarks},
	}
	for _, f := range floats {
		v, ok := cell(f.col)
		if !ok {
			continue
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return models.EnrichedRecord{}, fmt.Errorf("column %q: %w", f.col, err)
		}
		*f.dst = x
	}

	if v, ok := cell(ColWelfareStatus); ok && strings.TrimSpace(v) != "" {
		status, err := models.ParseWelfareStatus(v)
		if err != nil {
			return models.EnrichedRecord{}, err
		}
		rec.WelfareStatus = status
	}
	return rec, nil
}

// BaseRecords strips the derived columns.
func BaseRecords(records []models.EnrichedRecord) []models.StudentRecord {
	out := make([]models.StudentRecord, len(records))
	for i, r := range records {
		out[i] = r.StudentRecord
	}
	return out
}
