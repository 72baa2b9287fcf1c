package routes_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/coursedesk/internal/app/fixtures"
	"github.com/yigit/coursedesk/internal/app/models/dto"
	"github.com/yigit/coursedesk/internal/app/repositories"
	"github.com/yigit/coursedesk/internal/bootstrap"
	"github.com/yigit/coursedesk/internal/config"
)

const coursesPath = "/api/v1/courses/"

type apiSuite struct {
	router  *gin.Engine
	repo    repositories.CourseRepository
	courses *fixtures.CourseFactory
	deps    *bootstrap.Dependencies
}

func newAPISuite(c *qt.C, configure ...func(*config.Config)) *apiSuite {
	cfg, err := config.LoadConfig(filepath.Join(c.TempDir(), "absent.yaml"))
	c.Assert(err, qt.IsNil)
	cfg.Server.Mode = "test"
	cfg.Database.Driver = config.DriverSQLite
	cfg.Database.Path = filepath.Join(c.TempDir(), "api.db")
	cfg.Database.Seed = false
	cfg.Auth.Enabled = false
	for _, fn := range configure {
		fn(cfg)
	}

	lgr := zerolog.Nop()
	database, err := bootstrap.SetupDatabase(context.Background(), cfg, lgr)
	c.Assert(err, qt.IsNil)
	c.Cleanup(database.Close)

	deps, err := bootstrap.BuildDependencies(cfg, database.Repos, lgr)
	c.Assert(err, qt.IsNil)

	repo := database.Repos.CourseRepository
	return &apiSuite{
		router:  bootstrap.SetupRouter(cfg, deps, lgr),
		repo:    repo,
		courses: fixtures.NewCourseFactory(repo),
		deps:    deps,
	}
}

func (s *apiSuite) do(method, path string, body io.Reader, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *apiSuite) doJSON(method, path string, payload interface{}) *httptest.ResponseRecorder {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			panic(err)
		}
		body = strings.NewReader(string(raw))
	}
	return s.do(method, path, body, http.Header{"Content-Type": {"application/json"}})
}

func (s *apiSuite) count(c *qt.C) int64 {
	n, err := s.repo.Count(context.Background(), repositories.CourseFilter{})
	c.Assert(err, qt.IsNil)
	return n
}

func coursePath(id int64) string {
	return fmt.Sprintf("%s%d/", coursesPath, id)
}

func decodeCourse(c *qt.C, rec *httptest.ResponseRecorder) dto.CourseResponse {
	var course dto.CourseResponse
	c.Assert(json.Unmarshal(rec.Body.Bytes(), &course), qt.IsNil, qt.Commentf("body: %s", rec.Body.String()))
	return course
}

func decodeCourses(c *qt.C, rec *httptest.ResponseRecorder) []dto.CourseResponse {
	var courses []dto.CourseResponse
	c.Assert(json.Unmarshal(rec.Body.Bytes(), &courses), qt.IsNil, qt.Commentf("body: %s", rec.Body.String()))
	return courses
}

func decodeError(c *qt.C, rec *httptest.ResponseRecorder) dto.ErrorResponse {
	var resp dto.ErrorResponse
	c.Assert(json.Unmarshal(rec.Body.Bytes(), &resp), qt.IsNil, qt.Commentf("body: %s", rec.Body.String()))
	return resp
}

func TestRetrieveCourse(t *testing.T) {
	c := qt.New(t)
	s := newAPISuite(c)
	course := s.courses.MustMake(t, 1)[0]

	rec := s.doJSON(http.MethodGet, coursePath(course.ID), nil)

	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	c.Assert(decodeCourse(c, rec), qt.DeepEquals, dto.CourseResponse{ID: course.ID, Name: course.Name})
}

func TestRetrieveMissingCourse(t *testing.T) {
	c := qt.New(t)
	s := newAPISuite(c)

	rec := s.doJSON(http.MethodGet, coursePath(42), nil)

	c.Assert(rec.Code, qt.Equals, http.StatusNotFound)
	c.Assert(decodeError(c, rec).Error.Code, qt.Equals, dto.ErrorCodeResourceNotFound)
}

func TestListCourses(t *testing.T) {
	c := qt.New(t)
	s := newAPISuite(c)
	created := s.courses.MustMake(t, 5)

	rec := s.doJSON(http.MethodGet, coursesPath, nil)

	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	courses := decodeCourses(c, rec)
	c.Assert(int64(len(courses)), qt.Equals, s.count(c))
	for i, course := range courses {
		c.Assert(course.ID, qt.Equals, created[i].ID)
	}
	c.Assert(rec.Header().Get("X-Total-Count"), qt.Equals, "5")
}

func TestListCoursesEmpty(t *testing.T) {
	c := qt.New(t)
	s := newAPISuite(c)

	rec := s.doJSON(http.MethodGet, coursesPath, nil)

	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	c.Assert(strings.TrimSpace(rec.Body.String()), qt.Equals, "[]")
}

func TestFilterCoursesByID(t *testing.T) {
	c := qt.New(t)
	s := newAPISuite(c)
	created := s.courses.MustMake(t, 5)
	target := created[2]

	rec := s.doJSON(http.MethodGet, coursesPath+"?id="+fmt.Sprint(target.ID), nil)

	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	c.Assert(decodeCourses(c, rec), qt.DeepEquals, []dto.CourseResponse{{ID: target.ID, Name: target.Name}})

	rec = s.doJSON(http.MethodGet, coursesPath+"?id=9999", nil)
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	c.Assert(decodeCourses(c, rec), qt.HasLen, 0)
}

func TestFilterCoursesByName(t *testing.T) {
	c := qt.New(t)
	s := newAPISuite(c)
	s.courses.MustMake(t, 3)
	shared := s.courses.Name()
	for i := 0; i < 2; i++ {
		_, err := s.courses.MakeNamed(context.Background(), shared)
		c.Assert(err, qt.IsNil)
	}

	rec := s.doJSON(http.MethodGet, coursesPath+"?name="+url.QueryEscape(shared), nil)

	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	courses := decodeCourses(c, rec)
	c.Assert(courses, qt.HasLen, 2)
	for _, course := range courses {
		c.Assert(course.Name, qt.Equals, shared)
	}
}

func TestFilterCoursesByIDAndName(t *testing.T) {
	c := qt.New(t)
	s := newAPISuite(c)
	created := s.courses.MustMake(t, 2)

	query := url.Values{"id": {fmt.Sprint(created[0].ID)}, "name": {created[1].Name}}
	rec := s.doJSON(http.MethodGet, coursesPath+"?"+query.Encode(), nil)

	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	c.Assert(decodeCourses(c, rec), qt.HasLen, 0)
}

func TestFilterCoursesInvalidID(t *testing.T) {
	c := qt.New(t)
	s := newAPISuite(c)

	rec := s.doJSON(http.MethodGet, coursesPath+"?id=abc", nil)

	c.Assert(rec.Code, qt.Equals, http.StatusBadRequest)
	c.Assert(decodeError(c, rec).Error.Field, qt.Equals, "id")
}

func TestListCoursesPaginated(t *testing.T) {
	c := qt.New(t)
	s := newAPISuite(c)
	created := s.courses.MustMake(t, 5)

	rec := s.doJSON(http.MethodGet, coursesPath+"?page=2&size=2", nil)

	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	courses := decodeCourses(c, rec)
	c.Assert(courses, qt.HasLen, 2)
	c.Assert(courses[0].ID, qt.Equals, created[2].ID)
	c.Assert(rec.Header().Get("X-Total-Count"), qt.Equals, "5")
	c.Assert(rec.Header().Get("X-Total-Pages"), qt.Equals, "3")
}

func TestCreateCourse(t *testing.T) {
	c := qt.New(t)
	s := newAPISuite(c)
	s.courses.MustMake(t, 2)
	before := s.count(c)

	rec := s.doJSON(http.MethodPost, coursesPath, map[string]string{"name": "Ivan"})

	c.Assert(rec.Code, qt.Equals, http.StatusCreated)
	created := decodeCourse(c, rec)
	c.Assert(created.Name, qt.Equals, "Ivan")
	c.Assert(s.count(c), qt.Equals, before+1)

	stored, err := s.repo.GetByID(context.Background(), created.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(stored.Name, qt.Equals, "Ivan")
}

func TestCreateCourseFromForm(t *testing.T) {
	c := qt.New(t)
	s := newAPISuite(c)

	form := url.Values{"name": {"Linear Algebra"}}
	rec := s.do(http.MethodPost, coursesPath, strings.NewReader(form.Encode()),
		http.Header{"Content-Type": {"application/x-www-form-urlencoded"}})

	c.Assert(rec.Code, qt.Equals, http.StatusCreated)
	c.Assert(decodeCourse(c, rec).Name, qt.Equals, "Linear Algebra")
}

func TestCreateCourseInvalidName(t *testing.T) {
	tests := []struct {
		name    string
		payload interface{}
	}{
		{"missing", map[string]string{}},
		{"empty", map[string]string{"name": ""}},
		{"blank", map[string]string{"name": "   "}},
		{"too long", map[string]string{"name": strings.Repeat("a", 256)}},
		{"wrong type", map[string]int{"name": 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)
			s := newAPISuite(c)

			rec := s.doJSON(http.MethodPost, coursesPath, tt.payload)

			c.Assert(rec.Code, qt.Equals, http.StatusBadRequest)
			c.Assert(decodeError(c, rec).Error.Code, qt.Equals, dto.ErrorCodeValidationFailed)
			c.Assert(s.count(c), qt.Equals, int64(0))
		})
	}
}

func TestUpdateCourse(t *testing.T) {
	c := qt.New(t)
	s := newAPISuite(c)
	course := s.courses.MustMake(t, 1)[0]

	rec := s.doJSON(http.MethodPut, coursePath(course.ID), map[string]string{"name": "Ivan"})

	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	c.Assert(decodeCourse(c, rec), qt.DeepEquals, dto.CourseResponse{ID: course.ID, Name: "Ivan"})

	stored, err := s.repo.GetByID(context.Background(), course.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(stored.Name, qt.Equals, "Ivan")
}

func TestUpdateMissingCourse(t *testing.T) {
	c := qt.New(t)
	s := newAPISuite(c)

	rec := s.doJSON(http.MethodPut, coursePath(7), map[string]string{"name": "Ivan"})

	c.Assert(rec.Code, qt.Equals, http.StatusNotFound)
}

func TestPatchCourse(t *testing.T) {
	c := qt.New(t)
	s := newAPISuite(c)
	course := s.courses.MustMake(t, 1)[0]

	rec := s.doJSON(http.MethodPatch, coursePath(course.ID), nil)
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	c.Assert(decodeCourse(c, rec).Name, qt.Equals, course.Name)

	rec = s.doJSON(http.MethodPatch, coursePath(course.ID), map[string]string{})
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	c.Assert(decodeCourse(c, rec).Name, qt.Equals, course.Name)

	rec = s.doJSON(http.MethodPatch, coursePath(course.ID), map[string]string{"name": "Compilers"})
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	c.Assert(decodeCourse(c, rec).Name, qt.Equals, "Compilers")

	rec = s.doJSON(http.MethodPatch, coursePath(course.ID), map[string]string{"name": " "})
	c.Assert(rec.Code, qt.Equals, http.StatusBadRequest)
}

func TestDeleteCourse(t *testing.T) {
	c := qt.New(t)
	s := newAPISuite(c)
	created := s.courses.MustMake(t, 5)
	target := created[1]

	rec := s.doJSON(http.MethodDelete, coursePath(target.ID), nil)

	c.Assert(rec.Code, qt.Equals, http.StatusNoContent)
	c.Assert(rec.Body.Len(), qt.Equals, 0)
	c.Assert(s.count(c), qt.Equals, int64(4))

	rec = s.doJSON(http.MethodGet, coursePath(target.ID), nil)
	c.Assert(rec.Code, qt.Equals, http.StatusNotFound)

	rec = s.doJSON(http.MethodDelete, coursePath(target.ID), nil)
	c.Assert(rec.Code, qt.Equals, http.StatusNotFound)
}

func TestMalformedCourseID(t *testing.T) {
	c := qt.New(t)
	s := newAPISuite(c)

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodPatch, http.MethodDelete} {
		rec := s.doJSON(method, coursesPath+"abc/", map[string]string{"name": "x"})
		c.Check(rec.Code, qt.Equals, http.StatusBadRequest, qt.Commentf("method %s", method))
	}

	rec := s.doJSON(http.MethodGet, coursePath(0), nil)
	c.Assert(rec.Code, qt.Equals, http.StatusBadRequest)
}

func TestTrailingSlashRedirect(t *testing.T) {
	c := qt.New(t)
	s := newAPISuite(c)

	rec := s.doJSON(http.MethodGet, "/api/v1/courses", nil)

	c.Assert(rec.Code, qt.Equals, http.StatusMovedPermanently)
	c.Assert(rec.Header().Get("Location"), qt.Equals, coursesPath)
}

func TestWriteRoutesRequireTokenWhenAuthEnabled(t *testing.T) {
	c := qt.New(t)
	s := newAPISuite(c, func(cfg *config.Config) {
		cfg.Auth.Enabled = true
		cfg.Auth.Secret = "api-test-secret"
	})
	course := s.courses.MustMake(t, 1)[0]

	rec := s.doJSON(http.MethodPost, coursesPath, map[string]string{"name": "Ivan"})
	c.Assert(rec.Code, qt.Equals, http.StatusUnauthorized)

	rec = s.doJSON(http.MethodDelete, coursePath(course.ID), nil)
	c.Assert(rec.Code, qt.Equals, http.StatusUnauthorized)
	c.Assert(s.count(c), qt.Equals, int64(1))

	// Reads stay public
	rec = s.doJSON(http.MethodGet, coursePath(course.ID), nil)
	c.Assert(rec.Code, qt.Equals, http.StatusOK)

	token, _, err := s.deps.JWTService.GenerateToken("tester")
	c.Assert(err, qt.IsNil)

	rec = s.do(http.MethodPost, coursesPath, strings.NewReader(`{"name":"Ivan"}`), http.Header{
		"Content-Type":  {"application/json"},
		"Authorization": {"Bearer " + token},
	})
	c.Assert(rec.Code, qt.Equals, http.StatusCreated)
	c.Assert(s.count(c), qt.Equals, int64(2))
}

func TestAmbientEndpoints(t *testing.T) {
	c := qt.New(t)
	s := newAPISuite(c)

	rec := s.doJSON(http.MethodGet, "/ping", nil)
	c.Assert(rec.Code, qt.Equals, http.StatusOK)

	rec = s.doJSON(http.MethodGet, "/api/v1/health", nil)
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	var health dto.HealthResponse
	c.Assert(json.Unmarshal(rec.Body.Bytes(), &health), qt.IsNil)
	c.Assert(health, qt.DeepEquals, dto.HealthResponse{Status: "ok", Database: "ok"})

	rec = s.doJSON(http.MethodGet, "/swagger/doc.json", nil)
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	c.Assert(rec.Body.String(), qt.Contains, `"/courses/{id}/"`)

	rec = s.doJSON(http.MethodGet, "/metrics", nil)
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	c.Assert(rec.Body.String(), qt.Contains, `coursedesk_http_requests_total{method="GET",route="/api/v1/health",status="200"} 1`)
}
