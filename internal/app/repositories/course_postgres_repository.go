package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/coursedesk/internal/app/models"
	"github.com/yigit/coursedesk/internal/pkg/apperrors"
	"github.com/yigit/coursedesk/internal/pkg/dberrors"
	"github.com/yigit/coursedesk/internal/pkg/logger"
)

// PostgresCourseRepository handles course database operations on PostgreSQL
type PostgresCourseRepository struct {
	db *pgxpool.Pool
	q  courseQueries
}

// NewPostgresCourseRepository creates a new PostgresCourseRepository
func NewPostgresCourseRepository(db *pgxpool.Pool) *PostgresCourseRepository {
	return &PostgresCourseRepository{
		db: db,
		q:  newCourseQueries(squirrel.Dollar),
	}
}

// Create inserts a course and returns its new id
func (r *PostgresCourseRepository) Create(ctx context.Context, course *models.Course) (int64, error) {
	sql, args, err := r.q.insert(course)
	if err != nil {
		logger.Error().Err(err).Msg("Error building create course SQL")
		return 0, fmt.Errorf("failed to build create course query: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if dberrors.IsConstraintViolation(err) {
			return 0, fmt.Errorf("%w: %v", apperrors.ErrValidationFailed, err)
		}
		logger.Error().Err(err).Msg("Error executing create course query")
		return 0, fmt.Errorf("error creating course: %w", err)
	}

	return id, nil
}

// GetByID retrieves a course by ID
func (r *PostgresCourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	sql, args, err := r.q.selectByID(id)
	if err != nil {
		logger.Error().Err(err).Msg("Error building get course by ID SQL")
		return nil, fmt.Errorf("failed to build get course query: %w", err)
	}

	course, err := scanCourse(r.db.QueryRow(ctx, sql, args...))
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
func (r *PostgresCourseRepository) List(ctx context.Context, filter CourseFilter) ([]*models.Course, error) {
	sql, args, err := r.q.selectList(filter)
	if err != nil {
		logger.Error().Err(err).Msg("Error building list courses SQL")
		return nil, fmt.Errorf("failed to build list courses query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list courses query")
		return nil, fmt.Errorf("error querying courses: %w", err)
	}
	defer rows.Close()

	courses := []*models.Course{}
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning course row during list")
			return nil, fmt.Errorf("error scanning course row: %w", err)
		}
		courses = append(courses, course)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating course rows")
		return nil, fmt.Errorf("error iterating course rows: %w", err)
	}

	return courses, nil
}

// Count returns the number of courses matching filter, ignoring paging
func (r *PostgresCourseRepository) Count(ctx context.Context, filter CourseFilter) (int64, error) {
	sql, args, err := r.q.count(filter)
	if err != nil {
		logger.Error().Err(err).Msg("Error building count courses SQL")
		return 0, fmt.Errorf("failed to build count courses query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error executing count courses query")
		return 0, fmt.Errorf("failed to count courses: %w", err)
	}

	return total, nil
}

// Update replaces the name of an existing course
func (r *PostgresCourseRepository) Update(ctx context.Context, course *models.Course) error {
	sql, args, err := r.q.update(course)
	if err != nil {
		logger.Error().Err(err).Msg("Error building update course SQL")
		return fmt.Errorf("failed to build update course query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsConstraintViolation(err) {
			return fmt.Errorf("%w: %v", apperrors.ErrValidationFailed, err)
		}
		logger.Error().Err(err).Int64("courseID", course.ID).Msg("Error executing update course query")
		return fmt.Errorf("error updating course: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	return nil
}

// Delete removes a course by ID
func (r *PostgresCourseRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.q.delete(id)
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete course SQL")
		return fmt.Errorf("failed to build delete course query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("courseID", id).Msg("Error executing delete course query")
		return fmt.Errorf("error deleting course: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	return nil
}

// Ping checks database connectivity
func (r *PostgresCourseRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}
