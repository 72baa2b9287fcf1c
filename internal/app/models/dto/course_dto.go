package dto

import "github.com/yigit/coursedesk/internal/app/models"

// CourseResponse represents a course as returned by the API
type CourseResponse struct {
	ID   int64  `json:"id" example:"1"`
	Name string `json:"name" example:"Distributed Systems"`
}

// CreateCourseRequest represents course creation data.
// Accepts JSON or form-encoded bodies.
type CreateCourseRequest struct {
	Name string `json:"name" form:"name" binding:"required,notblank,max=255" example:"Distributed Systems"`
}

// UpdateCourseRequest represents a full course update
type UpdateCourseRequest struct {
	Name string `json:"name" form:"name" binding:"required,notblank,max=255" example:"Operating Systems"`
}

// PatchCourseRequest represents a partial course update; omitted fields are left unchanged
type PatchCourseRequest struct {
	Name *string `json:"name" form:"name" binding:"omitempty,notblank,max=255" example:"Compilers"`
}

// CourseListQuery holds the optional list filters
type CourseListQuery struct {
	ID   string `form:"id"`
	Name string `form:"name"`
}

// FromCourse converts a models.Course to a CourseResponse
func FromCourse(course *models.Course) CourseResponse {
	if course == nil {
		return CourseResponse{}
	}
	return CourseResponse{
		ID:   course.ID,
		Name: course.Name,
	}
}

// FromCourses converts a slice of courses, never returning nil so that an
// empty result encodes as [].
func FromCourses(courses []*models.Course) []CourseResponse {
	out := make([]CourseResponse, 0, len(courses))
	for _, c := range courses {
		out = append(out, FromCourse(c))
	}
	return out
}
