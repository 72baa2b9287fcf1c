package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/yigit/coursedesk/internal/app/models"
	"github.com/yigit/coursedesk/internal/app/repositories"
	"github.com/yigit/coursedesk/internal/pkg/apperrors"
)

// MaxCourseNameLength bounds Course.Name in characters
const MaxCourseNameLength = 255

// CourseService defines the interface for course-related operations
type CourseService interface {
	CreateCourse(ctx context.Context, name string) (*models.Course, error)
	GetCourseByID(ctx context.Context, id int64) (*models.Course, error)
	// ListCourses returns the matching page and the total number of matches.
	ListCourses(ctx context.Context, filter repositories.CourseFilter) ([]*models.Course, int64, error)
	UpdateCourse(ctx context.Context, id int64, name string) (*models.Course, error)
	PatchCourse(ctx context.Context, id int64, name *string) (*models.Course, error)
	DeleteCourse(ctx context.Context, id int64) error
}

// courseServiceImpl implements the CourseService interface
type courseServiceImpl struct {
	courseRepo repositories.CourseRepository
}

// NewCourseService creates a new course service instance
func NewCourseService(courseRepo repositories.CourseRepository) CourseService {
	return &courseServiceImpl{
		courseRepo: courseRepo,
	}
}

// normalizeCourseName trims name and checks it is non-empty and within bounds.
func normalizeCourseName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperrors.NewValidationError("name", "name cannot be empty")
	}
	if utf8.RuneCountInString(name) > MaxCourseNameLength {
		return "", apperrors.NewValidationError("name", fmt.Sprintf("name must be at most %d characters", MaxCourseNameLength))
	}
	return name, nil
}

func validateCourseID(id int64) error {
	if id <= 0 {
		return apperrors.NewValidationError("id", "invalid course ID")
	}
	return nil
}

// CreateCourse creates a new course
func (s *courseServiceImpl) CreateCourse(ctx context.Context, name string) (*models.Course, error) {
	name, err := normalizeCourseName(name)
	if err != nil {
		return nil, err
	}

	course := &models.Course{Name: name}
	id, err := s.courseRepo.Create(ctx, course)
	if err != nil {
		return nil, fmt.Errorf("error creating course: %w", err)
	}

	course.ID = id
	return course, nil
}

// GetCourseByID retrieves a course by ID
func (s *courseServiceImpl) GetCourseByID(ctx context.Context, id int64) (*models.Course, error) {
	if err := validateCourseID(id); err != nil {
		return nil, err
	}

	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrCourseNotFound) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}
	return course, nil
}

// ListCourses retrieves courses matching filter. The total only costs an
// extra query when a page was requested.
func (s *courseServiceImpl) ListCourses(ctx context.Context, filter repositories.CourseFilter) ([]*models.Course, int64, error) {
	courses, err := s.courseRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("error retrieving courses: %w", err)
	}

	if filter.Limit == 0 {
		return courses, int64(len(courses)), nil
	}

	total, err := s.courseRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("error counting courses: %w", err)
	}
	return courses, total, nil
}

// UpdateCourse replaces the name of an existing course
func (s *courseServiceImpl) UpdateCourse(ctx context.Context, id int64, name string) (*models.Course, error) {
	if err := validateCourseID(id); err != nil {
		return nil, err
	}
	name, err := normalizeCourseName(name)
	if err != nil {
		return nil, err
	}

	course := &models.Course{ID: id, Name: name}
	if err := s.courseRepo.Update(ctx, course); err != nil {
		if errors.Is(err, apperrors.ErrCourseNotFound) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error updating course: %w", err)
	}
	return course, nil
}

// PatchCourse applies the provided fields to an existing course. With no
// fields it behaves like GetCourseByID.
func (s *courseServiceImpl) PatchCourse(ctx context.Context, id int64, name *string) (*models.Course, error) {
	if name == nil {
		return s.GetCourseByID(ctx, id)
	}
	return s.UpdateCourse(ctx, id, *name)
}

// DeleteCourse deletes a course by ID
func (s *courseServiceImpl) DeleteCourse(ctx context.Context, id int64) error {
	if err := validateCourseID(id); err != nil {
		return err
	}

	if err := s.courseRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, apperrors.ErrCourseNotFound) {
			return apperrors.ErrCourseNotFound
		}
		return fmt.Errorf("error deleting course: %w", err)
	}
	return nil
}
