package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/coursedesk/internal/app/models"
)

//go:generate go run go.uber.org/mock/mockgen -package mocks -destination mocks/course_repository_mock.go github.com/yigit/coursedesk/internal/app/repositories CourseRepository

// CourseRepository persists courses. Implementations return
// apperrors.ErrCourseNotFound when an id does not exist.
type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	List(ctx context.Context, filter CourseFilter) ([]*models.Course, error)
	Count(ctx context.Context, filter CourseFilter) (int64, error)
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id int64) error
	Ping(ctx context.Context) error
}

// CourseFilter narrows List and Count. Nil fields are not applied; a zero
// Limit means no limit.
type CourseFilter struct {
	ID     *int64
	Name   *string
	Limit  uint64
	Offset uint64
}

func (f CourseFilter) where() squirrel.And {
	cond := squirrel.And{}
	if f.ID != nil {
		cond = append(cond, squirrel.Eq{"id": *f.ID})
	}
	if f.Name != nil {
		cond = append(cond, squirrel.Eq{"name": *f.Name})
	}
	return cond
}

var courseColumns = []string{"id", "name"}

// courseQueries builds the SQL shared by every backend; only the
// placeholder format differs between PostgreSQL and SQLite.
type courseQueries struct {
	sb squirrel.StatementBuilderType
}

func newCourseQueries(format squirrel.PlaceholderFormat) courseQueries {
	return courseQueries{sb: squirrel.StatementBuilder.PlaceholderFormat(format)}
}

func (q courseQueries) insert(course *models.Course) (string, []interface{}, error) {
	return q.sb.Insert("courses").
		Columns("name").
		Values(course.Name).
		Suffix("RETURNING id").
		ToSql()
}

func (q courseQueries) selectByID(id int64) (string, []interface{}, error) {
	return q.sb.Select(courseColumns...).
		From("courses").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
}

func (q courseQueries) selectList(filter CourseFilter) (string, []interface{}, error) {
	query := q.sb.Select(courseColumns...).
		From("courses").
		Where(filter.where()).
		OrderBy("id ASC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}
	return query.ToSql()
}

func (q courseQueries) count(filter CourseFilter) (string, []interface{}, error) {
	return q.sb.Select("COUNT(*)").
		From("courses").
		Where(filter.where()).
		ToSql()
}

func (q courseQueries) update(course *models.Course) (string, []interface{}, error) {
	return q.sb.Update("courses").
		Set("name", course.Name).
		Where(squirrel.Eq{"id": course.ID}).
		ToSql()
}

func (q courseQueries) delete(id int64) (string, []interface{}, error) {
	return q.sb.Delete("courses").
		Where(squirrel.Eq{"id": id}).
		ToSql()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCourse(row rowScanner) (*models.Course, error) {
	course := &models.Course{}
	if err := row.Scan(&course.ID, &course.Name); err != nil {
		return nil, err
	}
	return course, nil
}
