// Package grades computes descriptive statistics over fetched quiz results.
package grades

import (
	"math"
	"strings"

	"coursetrack/models/course"
)

// Summary is what the grade tables show above the rows.
type Summary struct {
	TotalAttempts     int `json:"total_attempts"`
	AveragePercentage int `json:"average_percentage"`
	PassRate          int `json:"pass_rate"`
}

// roundHalfUp rounds display percentages; NaN and infinities become 0.
func roundHalfUp(x float64) int {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return int(math.Floor(x + 0.5))
}

// AttemptPercentage returns round(score/total*100), 0 when total is not positive.
func AttemptPercentage(score, total float64) int {
	if total <= 0 {
		return 0
	}
	return roundHalfUp(score / total * 100)
}

// Summarize never fails: an empty collection yields a zero Summary.
func Summarize(rows []course.QuizResult) Summary {
	if len(rows) == 0 {
		return Summary{}
	}
	sum := 0
	passed := 0
	for _, r := range rows {
		sum += AttemptPercentage(r.Score, r.TotalPoints)
		if r.Passed {
			passed++
		}
	}
	n := len(rows)
	return Summary{
		TotalAttempts:     n,
		AveragePercentage: roundHalfUp(float64(sum) / float64(n)),
		PassRate:          roundHalfUp(100 * float64(passed) / float64(n)),
	}
}

// Filter narrows an in-memory result set without going back to the backend.
type Filter struct {
	Search   string
	CourseID *uint
}

func (f Filter) matches(r course.QuizResult) bool {
	if f.CourseID != nil && r.CourseID != *f.CourseID {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Search))
	if q == "" {
		return true
	}
	for _, field := range []string{r.StudentName, r.StudentEmail, r.CourseTitle, r.QuizTitle} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// Apply returns the matching rows in their original order.
func (f Filter) Apply(rows []course.QuizResult) []course.QuizResult {
	out := make([]course.QuizResult, 0, len(rows))
	for _, r := range rows {
		if f.matches(r) {
			out = append(out, r)
		}
	}
	return out
}

// Table is a filtered result set with its statistics recomputed.
type Table struct {
	Rows    []course.QuizResult `json:"rows"`
	Summary Summary             `json:"summary"`
}

func Build(rows []course.QuizResult, f Filter) Table {
	filtered := f.Apply(rows)
	return Table{Rows: filtered, Summary: Summarize(filtered)}
}
