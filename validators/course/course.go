package courseValidator

import (
	"github.com/gofiber/fiber/v2"
)

type CourseListQuery struct {
	Page  int `query:"page" validate:"omitempty,min=1"`
	Limit int `query:"limit" validate:"omitempty,min=1,max=100"`
}

func CourseList() fiber.Handler { return Query[CourseListQuery]() }

func GetCourseDetail() fiber.Handler { return ParamID("id", "courseID") }

type CreateCourseRequest struct {
	Title        string `json:"title" validate:"required,min=3,max=200"`
	Description  string `json:"description" validate:"max=5000"`
	ThumbnailURL string `json:"thumbnail_url" validate:"omitempty,url"`
}

func CreateCourse() fiber.Handler { return Body[CreateCourseRequest]() }

type CreateChapterRequest struct {
	Title      string `json:"title" validate:"required,max=200"`
	OrderIndex int    `json:"order_index" validate:"min=0"`
}

func CreateChapter() fiber.Handler { return Body[CreateChapterRequest]() }

type CreateLessonRequest struct {
	ChapterID         uint   `json:"chapter_id" validate:"required"`
	Title             string `json:"title" validate:"required,max=200"`
	ContentType       string `json:"content_type" validate:"required,oneof=video pdf document url quiz assignment"`
	ContentURL        string `json:"content_url" validate:"omitempty,url"`
	OrderIndex        int    `json:"order_index" validate:"min=0"`
	DurationMinutes   *int   `json:"duration_minutes" validate:"omitempty,min=0"`
	PassingPercentage *int   `json:"passing_percentage" validate:"omitempty,min=1,max=100"`
}

func (r *CreateLessonRequest) Check() map[string]string {
	errs := make(map[string]string)
	if r.ContentType != "quiz" && r.PassingPercentage != nil {
		errs["passing_percentage"] = "passing_percentage only applies to quizzes!"
	}
	if r.ContentType != "quiz" && r.ContentURL == "" {
		errs["content_url"] = "content_url is required!"
	}
	return errs
}

func CreateLesson() fiber.Handler { return Body[CreateLessonRequest]() }
