// Package fixtures creates persisted test data.
package fixtures

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/yigit/coursedesk/internal/app/models"
	"github.com/yigit/coursedesk/internal/app/repositories"
)

// CourseFactory inserts courses with generated names
type CourseFactory struct {
	repo   repositories.CourseRepository
	prefix string
}

// NewCourseFactory creates a factory writing through repo
func NewCourseFactory(repo repositories.CourseRepository) *CourseFactory {
	return &CourseFactory{repo: repo, prefix: "Course"}
}

// Name returns a fresh unique course name
func (f *CourseFactory) Name() string {
	return f.prefix + " " + uuid.NewString()[:8]
}

// Make inserts n courses and returns them in creation order
func (f *CourseFactory) Make(ctx context.Context, n int) ([]*models.Course, error) {
	courses := make([]*models.Course, 0, n)
	for i := 0; i < n; i++ {
		course, err := f.MakeNamed(ctx, f.Name())
		if err != nil {
			return nil, err
		}
		courses = append(courses, course)
	}
	return courses, nil
}

// MakeNamed inserts a single course with the given name
func (f *CourseFactory) MakeNamed(ctx context.Context, name string) (*models.Course, error) {
	course := &models.Course{Name: name}
	id, err := f.repo.Create(ctx, course)
	if err != nil {
		return nil, err
	}
	course.ID = id
	return course, nil
}

// MustMake is Make for tests; it fails tb on error
func (f *CourseFactory) MustMake(tb testing.TB, n int) []*models.Course {
	tb.Helper()
	courses, err := f.Make(context.Background(), n)
	if err != nil {
		tb.Fatalf("creating %d courses: %v", n, err)
	}
	return courses
}
