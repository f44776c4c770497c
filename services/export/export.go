// Package export renders grade rows as CSV or XLSX. Both writers are pure
// formatting over already-fetched rows.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"coursetrack/models/course"
	"coursetrack/services/grades"
)

const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// Headers is the fixed column order of every export.
var Headers = []string{"Student", "Email", "Course", "Chapter", "Quiz", "Marks", "Percentage", "Status", "Date"}

const dateLayout = "2006-01-02 15:04"

const sheetName = "Sheet1"

// ContentType returns the MIME type and file extension for a format.
func ContentType(format string) (string, string, error) {
	switch format {
	case FormatCSV:
		return "text/csv; charset=utf-8", "csv", nil
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "xlsx", nil
	default:
		return "", "", fmt.Errorf("unsupported export format %q", format)
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// textCell quotes cells a spreadsheet would otherwise read as a formula.
func textCell(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + s
	}
	return s
}

// Record formats one result in Headers order.
func Record(r course.QuizResult) []string {
	status := "Failed"
	if r.Passed {
		status = "Passed"
	}
	return []string{
		textCell(r.StudentName),
		textCell(r.StudentEmail),
		textCell(r.CourseTitle),
		textCell(r.ChapterTitle),
		textCell(r.QuizTitle),
		formatNumber(r.Score) + "/" + formatNumber(r.TotalPoints),
		strconv.Itoa(grades.AttemptPercentage(r.Score, r.TotalPoints)) + "%",
		status,
		r.SubmittedAt.UTC().Format(dateLayout),
	}
}

func WriteCSV(w io.Writer, rows []course.QuizResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Headers); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(Record(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteXLSX(w io.Writer, rows []course.QuizResult) error {
	f := excelize.NewFile()
	defer f.Close()

	write := func(rowNum int, values []string) error {
		cell, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return err
		}
		cells := make([]interface{}, len(values))
		for i, v := range values {
			cells[i] = v
		}
		return f.SetSheetRow(sheetName, cell, &cells)
	}

	if err := write(1, Headers); err != nil {
		return err
	}
	for i, r := range rows {
		if err := write(i+2, Record(r)); err != nil {
			return err
		}
	}
	_, err := f.WriteTo(w)
	return err
}

// Write dispatches on format.
func Write(w io.Writer, format string, rows []course.QuizResult) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, rows)
	case FormatXLSX:
		return WriteXLSX(w, rows)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}
