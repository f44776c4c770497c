package courseRoutes_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursetrack/backend/gormstore"
	controllers "coursetrack/controllers/course"
	"coursetrack/middleware"
	"coursetrack/models"
	"coursetrack/models/course"
	"coursetrack/routers/courseRoutes"
	"coursetrack/services/certificate"
	"coursetrack/services/progress"
	"coursetrack/testutil"
)

const secret = "routes-secret"

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type client struct {
	t   *testing.T
	app *fiber.App
}

func newClient(t *testing.T) (*client, *gormstore.Store) {
	t.Helper()
	s := testutil.NewStore(t)
	app := fiber.New(fiber.Config{ErrorHandler: middleware.FiberErrorHandler})
	courseRoutes.Setup(app, controllers.NewHandler(s, controllers.Options{HeartbeatInterval: time.Minute}), secret)
	return &client{t: t, app: app}, s
}

func (c *client) token(userID uint, role string) string {
	c.t.Helper()
	token, err := middleware.GenerateJWT(secret, userID, fmt.Sprintf("User %d", userID), role, "", time.Hour)
	require.NoError(c.t, err)
	return token
}

func (c *client) raw(method, path, token string, body any) *http.Response {
	c.t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(c.t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := c.app.Test(req, -1)
	require.NoError(c.t, err)
	return resp
}

func (c *client) do(method, path, token string, body any) (int, envelope) {
	c.t.Helper()
	resp := c.raw(method, path, token, body)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	var env envelope
	require.NoError(c.t, json.Unmarshal(raw, &env), string(raw))
	return resp.StatusCode, env
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v), string(env.Data))
	return v
}

func TestStudentJourney(t *testing.T) {
	c, s := newClient(t)
	testutil.User(t, s, 1, models.RoleAdmin)
	testutil.User(t, s, 7, models.RoleStudent)
	seeded := testutil.SeedCourse(t, s, 2, "Go", 2)
	courseID := seeded.Course.ID
	student := c.token(7, models.RoleStudent)
	admin := c.token(1, models.RoleAdmin)

	code, env := c.do(http.MethodGet, "/course/list", student, nil)
	require.Equal(t, fiber.StatusOK, code, env.Message)
	assert.Len(t, decode[struct {
		Courses []course.Course `json:"courses"`
	}](t, env).Courses, 1)

	code, _ = c.do(http.MethodPost, fmt.Sprintf("/course/%d/enroll", courseID), student, nil)
	require.Equal(t, fiber.StatusCreated, code)
	code, env = c.do(http.MethodPost, fmt.Sprintf("/course/%d/enroll", courseID), student, nil)
	assert.Equal(t, fiber.StatusConflict, code)
	assert.Equal(t, "Already enrolled in this course!", env.Message)

	code, env = c.do(http.MethodPost, fmt.Sprintf("/course/%d/lesson/%d/complete", courseID, seeded.Lessons[0].ID), student, nil)
	require.Equal(t, fiber.StatusOK, code, env.Message)
	assert.Equal(t, 50, decode[progress.CourseProgress](t, env).ProgressPercentage)

	code, env = c.do(http.MethodGet, fmt.Sprintf("/course/%d/progress", courseID), student, nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, certificate.InProgress, decode[certificate.Eligibility](t, env).State)

	code, _ = c.do(http.MethodPost, fmt.Sprintf("/course/%d/certificate/request", courseID), student, nil)
	assert.Equal(t, fiber.StatusUnprocessableEntity, code)

	code, _ = c.do(http.MethodPost, fmt.Sprintf("/course/%d/lesson/%d/complete", courseID, seeded.Lessons[1].ID), student, map[string]any{"is_completed": true})
	require.Equal(t, fiber.StatusOK, code)

	code, env = c.do(http.MethodPost, fmt.Sprintf("/course/%d/certificate/request", courseID), student, nil)
	require.Equal(t, fiber.StatusCreated, code, env.Message)
	assert.Equal(t, course.CertificatePending, decode[course.Certificate](t, env).Status)

	code, env = c.do(http.MethodPost, "/admin/certificate/approve", admin, map[string]any{
		"student_id": 7, "course_id": courseID, "certificate_url": "",
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, code)
	assert.Contains(t, string(env.Data), "certificate_url")

	code, env = c.do(http.MethodPost, "/admin/certificate/approve", admin, map[string]any{
		"student_id": 7, "course_id": courseID, "certificate_url": "https://cert.example/x",
	})
	require.Equal(t, fiber.StatusOK, code, env.Message)
	approved := decode[course.Certificate](t, env)
	assert.Equal(t, course.CertificateApproved, approved.Status)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, uint(1), *approved.ApprovedBy)

	code, env = c.do(http.MethodGet, "/user/certificates", student, nil)
	require.Equal(t, fiber.StatusOK, code)
	certs := decode[struct {
		Certificates []course.Certificate `json:"certificates"`
		Pending      int                  `json:"pending_requests"`
	}](t, env)
	require.Len(t, certs.Certificates, 1)
	assert.Equal(t, 0, certs.Pending)

	code, env = c.do(http.MethodGet, "/admin/completions", admin, nil)
	require.Equal(t, fiber.StatusOK, code)
	completions := decode[[]course.CourseCompletion](t, env)
	require.Len(t, completions, 1)
	assert.True(t, completions[0].Completed)
	require.NotNil(t, completions[0].CertificateStatus)
	assert.Equal(t, course.CertificateApproved, *completions[0].CertificateStatus)
}

func TestCourseListPagination(t *testing.T) {
	c, s := newClient(t)
	testutil.SeedCourse(t, s, 2, "Go", 1)
	testutil.SeedCourse(t, s, 2, "Rust", 1)
	student := c.token(7, models.RoleStudent)

	type page struct {
		Courses    []course.Course `json:"courses"`
		Pagination struct {
			Page  int `json:"page"`
			Total int `json:"total"`
		} `json:"pagination"`
	}

	code, env := c.do(http.MethodGet, "/course/list?page=2&limit=1", student, nil)
	require.Equal(t, fiber.StatusOK, code, env.Message)
	got := decode[page](t, env)
	require.Len(t, got.Courses, 1)
	assert.Equal(t, "Rust", got.Courses[0].Title)
	assert.Equal(t, 2, got.Pagination.Total)

	code, env = c.do(http.MethodGet, "/course/list?page=3&limit=1", student, nil)
	require.Equal(t, fiber.StatusOK, code, env.Message)
	assert.Empty(t, decode[page](t, env).Courses)

	code, env = c.do(http.MethodGet, "/course/list?page=100000000000000000&limit=100", student, nil)
	require.Equal(t, fiber.StatusOK, code, env.Message)
	got = decode[page](t, env)
	assert.Empty(t, got.Courses)
	assert.Equal(t, 2, got.Pagination.Total)
}

func TestQuizSubmission(t *testing.T) {
	c, s := newClient(t)
	testutil.User(t, s, 2, models.RoleTeacher)
	testutil.User(t, s, 7, models.RoleStudent)
	seeded := testutil.SeedCourse(t, s, 2, "Go", 1)
	quiz := testutil.Quiz(t, s, seeded, "Checkpoint", 70)
	testutil.Enroll(t, s, 7, seeded.Course.ID)
	student := c.token(7, models.RoleStudent)
	path := fmt.Sprintf("/course/%d/lesson/%d/quiz", seeded.Course.ID, quiz.ID)

	code, env := c.do(http.MethodPost, path, student, map[string]any{"score": 11, "total_points": 10})
	assert.Equal(t, fiber.StatusUnprocessableEntity, code)
	assert.Contains(t, string(env.Data), "score")

	code, env = c.do(http.MethodPost, path, student, map[string]any{"score": 6, "total_points": 10})
	require.Equal(t, fiber.StatusCreated, code, env.Message)
	assert.False(t, decode[struct {
		Passed bool `json:"passed"`
	}](t, env).Passed)

	code, env = c.do(http.MethodPost, path, student, map[string]any{"score": 8, "total_points": 10, "answers": map[string]string{"q1": "b"}})
	require.Equal(t, fiber.StatusCreated, code, env.Message)
	assert.True(t, decode[struct {
		Passed bool `json:"passed"`
	}](t, env).Passed)

	code, env = c.do(http.MethodGet, fmt.Sprintf("/course/%d/progress", seeded.Course.ID), student, nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, 1, decode[certificate.Eligibility](t, env).Progress.CompletedLessons)

	code, _ = c.do(http.MethodPost, fmt.Sprintf("/course/%d/lesson/%d/quiz", seeded.Course.ID, seeded.Lessons[0].ID), student, map[string]any{"score": 1, "total_points": 1})
	assert.Equal(t, fiber.StatusUnprocessableEntity, code, "video lessons do not take quiz attempts")

	teacher := c.token(2, models.RoleTeacher)
	code, env = c.do(http.MethodGet, "/teacher/grades", teacher, nil)
	require.Equal(t, fiber.StatusOK, code, env.Message)
	table := decode[struct {
		Rows    []course.QuizResult `json:"rows"`
		Summary struct {
			TotalAttempts int `json:"total_attempts"`
			PassRate      int `json:"pass_rate"`
		} `json:"summary"`
	}](t, env)
	assert.Len(t, table.Rows, 2)
	assert.Equal(t, 2, table.Summary.TotalAttempts)
	assert.Equal(t, 50, table.Summary.PassRate)

	other := c.token(3, models.RoleTeacher)
	code, env = c.do(http.MethodGet, "/teacher/grades", other, nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.Empty(t, decode[struct {
		Rows []course.QuizResult `json:"rows"`
	}](t, env).Rows)

	resp := c.raw(http.MethodGet, "/teacher/grades?format=csv", teacher, nil)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), "text/csv")
	assert.True(t, strings.HasPrefix(resp.Header.Get(fiber.HeaderContentDisposition), `attachment; filename="grades-`))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(string(body)), "\n"), 3)

	code, _ = c.do(http.MethodGet, "/teacher/grades?format=pdf", teacher, nil)
	assert.Equal(t, fiber.StatusUnprocessableEntity, code)
}

func TestRoleChecks(t *testing.T) {
	c, s := newClient(t)
	seeded := testutil.SeedCourse(t, s, 2, "Go", 1)
	student := c.token(7, models.RoleStudent)
	teacher := c.token(3, models.RoleTeacher)

	code, _ := c.do(http.MethodGet, "/course/list", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, code)

	code, _ = c.do(http.MethodGet, "/admin/dashboard/stats", student, nil)
	assert.Equal(t, fiber.StatusForbidden, code)

	code, _ = c.do(http.MethodGet, "/teacher/grades", student, nil)
	assert.Equal(t, fiber.StatusForbidden, code)

	code, _ = c.do(http.MethodPost, fmt.Sprintf("/course/%d/enroll", seeded.Course.ID), teacher, nil)
	assert.Equal(t, fiber.StatusForbidden, code)

	code, _ = c.do(http.MethodDelete, fmt.Sprintf("/teacher/lesson/%d", seeded.Lessons[0].ID), teacher, nil)
	assert.Equal(t, fiber.StatusForbidden, code, "teachers only manage their own courses")

	code, _ = c.do(http.MethodGet, "/course/abc", student, nil)
	assert.Equal(t, fiber.StatusUnprocessableEntity, code)

	code, _ = c.do(http.MethodGet, "/course/999", student, nil)
	assert.Equal(t, fiber.StatusNotFound, code)

	code, _ = c.do(http.MethodGet, fmt.Sprintf("/course/%d/progress", seeded.Course.ID), student, nil)
	assert.Equal(t, fiber.StatusNotFound, code, "not enrolled")
}

func TestCourseAuthoringAndReview(t *testing.T) {
	c, s := newClient(t)
	testutil.User(t, s, 2, models.RoleTeacher)
	teacher := c.token(2, models.RoleTeacher)
	admin := c.token(1, models.RoleAdmin)
	student := c.token(7, models.RoleStudent)

	code, env := c.do(http.MethodPost, "/teacher/course", teacher, map[string]any{"title": "Rust", "description": "Ownership"})
	require.Equal(t, fiber.StatusCreated, code, env.Message)
	crs := decode[course.Course](t, env)
	assert.Equal(t, course.CourseDraft, crs.Status)

	code, env = c.do(http.MethodPost, fmt.Sprintf("/teacher/course/%d/chapter", crs.ID), teacher, map[string]any{"title": "Basics", "order_index": 1})
	require.Equal(t, fiber.StatusCreated, code, env.Message)
	ch := decode[course.Chapter](t, env)

	code, _ = c.do(http.MethodPost, fmt.Sprintf("/teacher/course/%d/lesson", crs.ID), teacher, map[string]any{
		"chapter_id": ch.ID, "title": "Intro", "content_type": "video",
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, code, "video lessons need a content_url")

	code, env = c.do(http.MethodPost, fmt.Sprintf("/teacher/course/%d/lesson", crs.ID), teacher, map[string]any{
		"chapter_id": ch.ID, "title": "Intro", "content_type": "video", "content_url": "https://video.example/1",
	})
	require.Equal(t, fiber.StatusCreated, code, env.Message)

	code, _ = c.do(http.MethodPost, fmt.Sprintf("/course/%d/enroll", crs.ID), student, nil)
	assert.Equal(t, fiber.StatusForbidden, code, "drafts are closed for enrollment")

	code, _ = c.do(http.MethodPost, fmt.Sprintf("/admin/course/%d/approve", crs.ID), admin, nil)
	assert.Equal(t, fiber.StatusConflict, code, "only pending courses can be reviewed")

	code, _ = c.do(http.MethodPost, fmt.Sprintf("/teacher/course/%d/submit", crs.ID), teacher, nil)
	require.Equal(t, fiber.StatusOK, code)
	code, _ = c.do(http.MethodPost, fmt.Sprintf("/admin/course/%d/approve", crs.ID), admin, nil)
	require.Equal(t, fiber.StatusOK, code)

	code, env = c.do(http.MethodGet, fmt.Sprintf("/course/%d", crs.ID), student, nil)
	require.Equal(t, fiber.StatusOK, code, env.Message)
	assert.Contains(t, string(env.Data), "Intro")

	code, _ = c.do(http.MethodPost, fmt.Sprintf("/course/%d/enroll", crs.ID), student, map[string]any{"cohort_name": "Evening"})
	assert.Equal(t, fiber.StatusCreated, code)
}

func TestCohortRequests(t *testing.T) {
	c, s := newClient(t)
	testutil.User(t, s, 7, models.RoleStudent)
	seeded := testutil.SeedCourse(t, s, 2, "Go", 1)
	testutil.Enroll(t, s, 7, seeded.Course.ID)
	student := c.token(7, models.RoleStudent)
	teacher := c.token(2, models.RoleTeacher)

	code, env := c.do(http.MethodPost, fmt.Sprintf("/course/%d/cohort/request", seeded.Course.ID), student, map[string]any{"cohort_name": "Evening"})
	require.Equal(t, fiber.StatusCreated, code, env.Message)
	req := decode[course.CohortJoinRequest](t, env)

	code, env = c.do(http.MethodGet, fmt.Sprintf("/teacher/course/%d/cohort/requests?search=%s", seeded.Course.ID, url.QueryEscape("user 7")), teacher, nil)
	require.Equal(t, fiber.StatusOK, code, env.Message)
	assert.Contains(t, string(env.Data), "Evening")

	code, _ = c.do(http.MethodPost, fmt.Sprintf("/teacher/cohort/request/%d/approve", req.ID), c.token(3, models.RoleTeacher), nil)
	assert.Equal(t, fiber.StatusForbidden, code)

	code, _ = c.do(http.MethodPost, fmt.Sprintf("/teacher/cohort/request/%d/approve", req.ID), teacher, nil)
	require.Equal(t, fiber.StatusOK, code)

	code, env = c.do(http.MethodGet, "/user/enrollments", student, nil)
	require.Equal(t, fiber.StatusOK, code)
	enrollments := decode[[]course.Enrollment](t, env)
	require.Len(t, enrollments, 1)
	require.NotNil(t, enrollments[0].CohortName)
	assert.Equal(t, "Evening", *enrollments[0].CohortName)
}

func TestDashboardAndHeartbeat(t *testing.T) {
	c, s := newClient(t)
	testutil.User(t, s, 7, models.RoleStudent)
	testutil.User(t, s, 8, models.RoleStudent)
	seeded := testutil.SeedCourse(t, s, 2, "Go", 1)
	testutil.Enroll(t, s, 7, seeded.Course.ID)
	testutil.Enroll(t, s, 8, seeded.Course.ID)
	testutil.Complete(t, s, 7, seeded.Lessons...)
	student := c.token(7, models.RoleStudent)

	code, env := c.do(http.MethodPost, "/activity/heartbeat", student, nil)
	require.Equal(t, fiber.StatusOK, code, env.Message)
	assert.JSONEq(t, `{"recorded":true}`, string(env.Data))
	_, env = c.do(http.MethodPost, "/activity/heartbeat", student, nil)
	assert.JSONEq(t, `{"recorded":false}`, string(env.Data))

	code, env = c.do(http.MethodGet, "/admin/dashboard/stats", c.token(1, models.RoleAdmin), nil)
	require.Equal(t, fiber.StatusOK, code, env.Message)
	stats := decode[controllers.DashboardStats](t, env)
	assert.Equal(t, 1, stats.TotalCourses)
	assert.Equal(t, 2, stats.TotalEnrollments)
	assert.Equal(t, 2, stats.EnrollmentsThisWeek)
	assert.Equal(t, 1, stats.CompletedEnrollments)
	assert.Equal(t, 50, stats.CompletionRatePercent)
	assert.Equal(t, 1, stats.ActiveStudentsWeek)
}
