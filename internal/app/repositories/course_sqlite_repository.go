package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/coursedesk/internal/app/models"
	"github.com/yigit/coursedesk/internal/pkg/apperrors"
	"github.com/yigit/coursedesk/internal/pkg/dberrors"
	"github.com/yigit/coursedesk/internal/pkg/logger"
)

// SQLCourseRepository handles course database operations through
// database/sql. It is used with the SQLite driver.
type SQLCourseRepository struct {
	db *sql.DB
	q  courseQueries
}

// NewSQLCourseRepository creates a new SQLCourseRepository
func NewSQLCourseRepository(db *sql.DB) *SQLCourseRepository {
	return &SQLCourseRepository{
		db: db,
		q:  newCourseQueries(squirrel.Question),
	}
}

// Create inserts a course and returns its new id
func (r *SQLCourseRepository) Create(ctx context.Context, course *models.Course) (int64, error) {
	query, args, err := r.q.insert(course)
	if err != nil {
		return 0, fmt.Errorf("failed to build create course query: %w", err)
	}

	var id int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		if dberrors.IsConstraintViolation(err) {
			return 0, fmt.Errorf("%w: %v", apperrors.ErrValidationFailed, err)
		}
		logger.Error().Err(err).Msg("Error executing create course query")
		return 0, fmt.Errorf("error creating course: %w", err)
	}

	return id, nil
}

// GetByID retrieves a course by ID
func (r *SQLCourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	query, args, err := r.q.selectByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to build get course query: %w", err)
	}

	course, err := scanCourse(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrCourseNotFound
		}
		logger.Error().Err(err).Int64("courseID", id).Msg("Error scanning course row")
		return nil, fmt.Errorf("error getting course by ID: %w", err)
	}

	return course, nil
}

// List returns courses matching filter ordered by id
func (r *SQLCourseRepository) List(ctx context.Context, filter CourseFilter) ([]*models.Course, error) {
	query, args, err := r.q.selectList(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to build list courses query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list courses query")
		return nil, fmt.Errorf("error querying courses: %w", err)
	}
	defer rows.Close()

	courses := []*models.Course{}
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning course row: %w", err)
		}
		courses = append(courses, course)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating course rows: %w", err)
	}

	return courses, nil
}

// Count returns the number of courses matching filter, ignoring paging
func (r *SQLCourseRepository) Count(ctx context.Context, filter CourseFilter) (int64, error) {
	query, args, err := r.q.count(filter)
	if err != nil {
		return 0, fmt.Errorf("failed to build count courses query: %w", err)
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error executing count courses query")
		return 0, fmt.Errorf("failed to count courses: %w", err)
	}

	return total, nil
}

// Update replaces the name of an existing course
func (r *SQLCourseRepository) Update(ctx context.Context, course *models.Course) error {
	query, args, err := r.q.update(course)
	if err != nil {
		return fmt.Errorf("failed to build update course query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if dberrors.IsConstraintViolation(err) {
			return fmt.Errorf("%w: %v", apperrors.ErrValidationFailed, err)
		}
		logger.Error().Err(err).Int64("courseID", course.ID).Msg("Error executing update course query")
		return fmt.Errorf("error updating course: %w", err)
	}

	return requireAffected(res)
}

// Delete removes a course by ID
func (r *SQLCourseRepository) Delete(ctx context.Context, id int64) error {
	query, args, err := r.q.delete(id)
	if err != nil {
		return fmt.Errorf("failed to build delete course query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Int64("courseID", id).Msg("Error executing delete course query")
		return fmt.Errorf("error deleting course: %w", err)
	}

	return requireAffected(res)
}

// Ping checks database connectivity
func (r *SQLCourseRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading affected rows: %w", err)
	}
	if n == 0 {
		return apperrors.ErrCourseNotFound
	}
	return nil
}
