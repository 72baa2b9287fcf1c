package repositories

import (
	"database/sql"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	CourseRepository CourseRepository
}

// NewPostgresRepositories initializes repositories backed by a pgx pool
func NewPostgresRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		CourseRepository: NewPostgresCourseRepository(pool),
	}
}

// NewSQLRepositories initializes repositories backed by database/sql
func NewSQLRepositories(db *sql.DB) *Repositories {
	return &Repositories{
		CourseRepository: NewSQLCourseRepository(db),
	}
}
