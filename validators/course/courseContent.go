package courseValidator

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
)

type MarkLessonRequest struct {
	// IsCompleted defaults to true; false marks the lesson incomplete again.
	IsCompleted *bool `json:"is_completed"`
}

func MarkLessonComplete() fiber.Handler { return Body[MarkLessonRequest]() }

type SubmitQuizRequest struct {
	Score       *float64        `json:"score" validate:"required,min=0"`
	TotalPoints *float64        `json:"total_points" validate:"required,gt=0"`
	Answers     json.RawMessage `json:"answers"`
}

func (r *SubmitQuizRequest) Check() map[string]string {
	errs := make(map[string]string)
	if *r.Score > *r.TotalPoints {
		errs["score"] = "score cannot exceed total_points!"
	}
	if len(r.Answers) > 0 && !json.Valid(r.Answers) {
		errs["answers"] = "answers must be valid JSON!"
	}
	return errs
}

func SubmitQuiz() fiber.Handler { return Body[SubmitQuizRequest]() }

func CourseIDParam() fiber.Handler { return ParamID("course_id", "courseID") }

func LessonIDParam() fiber.Handler { return ParamID("lesson_id", "lessonID") }
