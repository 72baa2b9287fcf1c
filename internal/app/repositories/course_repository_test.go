package repositories

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"

	"github.com/yigit/coursedesk/internal/app/migrations"
	"github.com/yigit/coursedesk/internal/app/models"
	"github.com/yigit/coursedesk/internal/db"
	"github.com/yigit/coursedesk/internal/pkg/apperrors"
)

func newSQLiteCourseRepository(c *qt.C) CourseRepository {
	database, err := db.NewSQLiteDB(context.Background(), filepath.Join(c.TempDir(), "courses.db"))
	c.Assert(err, qt.IsNil)
	c.Cleanup(database.Close)

	m, err := migrations.NewMigrator(database.SQL(), migrations.DialectSQLite, zerolog.Nop())
	c.Assert(err, qt.IsNil)
	c.Assert(m.Migrate(context.Background()), qt.IsNil)

	return NewSQLCourseRepository(database.SQL())
}

func TestSQLCourseRepository(t *testing.T) {
	testCourseRepository(t, newSQLiteCourseRepository)
}

// TestPostgresCourseRepository runs against a disposable database named by
// COURSEDESK_TEST_POSTGRES_URL; the courses table is emptied first.
func TestPostgresCourseRepository(t *testing.T) {
	url := os.Getenv("COURSEDESK_TEST_POSTGRES_URL")
	if url == "" {
		t.Skip("COURSEDESK_TEST_POSTGRES_URL not set")
	}

	testCourseRepository(t, func(c *qt.C) CourseRepository {
		ctx := context.Background()
		pool, err := pgxpool.New(ctx, url)
		c.Assert(err, qt.IsNil)
		c.Cleanup(pool.Close)

		sqlDB := stdlib.OpenDBFromPool(pool)
		m, err := migrations.NewMigrator(sqlDB, migrations.DialectPostgres, zerolog.Nop())
		c.Assert(err, qt.IsNil)
		c.Assert(m.Migrate(ctx), qt.IsNil)

		_, err = pool.Exec(ctx, `TRUNCATE courses RESTART IDENTITY`)
		c.Assert(err, qt.IsNil)

		return NewPostgresCourseRepository(pool)
	})
}

func testCourseRepository(t *testing.T, newRepo func(c *qt.C) CourseRepository) {
	t.Run("CreateAndGet", func(t *testing.T) {
		c := qt.New(t)
		ctx := context.Background()
		repo := newRepo(c)

		id, err := repo.Create(ctx, &models.Course{Name: "Algorithms"})
		c.Assert(err, qt.IsNil)
		c.Assert(id > 0, qt.IsTrue)

		course, err := repo.GetByID(ctx, id)
		c.Assert(err, qt.IsNil)
		c.Assert(course, qt.DeepEquals, &models.Course{ID: id, Name: "Algorithms"})

		_, err = repo.GetByID(ctx, id+100)
		c.Assert(err, qt.ErrorIs, apperrors.ErrCourseNotFound)
	})

	t.Run("ListFilters", func(t *testing.T) {
		c := qt.New(t)
		ctx := context.Background()
		repo := newRepo(c)

		var ids []int64
		for _, name := range []string{"Go", "Rust", "Go", "Zig"} {
			id, err := repo.Create(ctx, &models.Course{Name: name})
			c.Assert(err, qt.IsNil)
			ids = append(ids, id)
		}

		all, err := repo.List(ctx, CourseFilter{})
		c.Assert(err, qt.IsNil)
		c.Assert(all, qt.HasLen, 4)
		for i := 1; i < len(all); i++ {
			c.Assert(all[i-1].ID < all[i].ID, qt.IsTrue)
		}

		name := "Go"
		byName, err := repo.List(ctx, CourseFilter{Name: &name})
		c.Assert(err, qt.IsNil)
		c.Assert(byName, qt.DeepEquals, []*models.Course{{ID: ids[0], Name: "Go"}, {ID: ids[2], Name: "Go"}})

		byID, err := repo.List(ctx, CourseFilter{ID: &ids[1]})
		c.Assert(err, qt.IsNil)
		c.Assert(byID, qt.DeepEquals, []*models.Course{{ID: ids[1], Name: "Rust"}})

		both, err := repo.List(ctx, CourseFilter{ID: &ids[1], Name: &name})
		c.Assert(err, qt.IsNil)
		c.Assert(both, qt.HasLen, 0)

		missing := ids[3] + 10
		none, err := repo.List(ctx, CourseFilter{ID: &missing})
		c.Assert(err, qt.IsNil)
		c.Assert(none, qt.IsNotNil)
		c.Assert(none, qt.HasLen, 0)
	})

	t.Run("ListPagingAndCount", func(t *testing.T) {
		c := qt.New(t)
		ctx := context.Background()
		repo := newRepo(c)

		for i := 0; i < 5; i++ {
			_, err := repo.Create(ctx, &models.Course{Name: "Course " + strings.Repeat("I", i+1)})
			c.Assert(err, qt.IsNil)
		}

		page, err := repo.List(ctx, CourseFilter{Limit: 2, Offset: 2})
		c.Assert(err, qt.IsNil)
		c.Assert(page, qt.HasLen, 2)
		c.Assert(page[0].Name, qt.Equals, "Course III")

		total, err := repo.Count(ctx, CourseFilter{Limit: 2, Offset: 2})
		c.Assert(err, qt.IsNil)
		c.Assert(total, qt.Equals, int64(5))
	})

	t.Run("UpdateAndDelete", func(t *testing.T) {
		c := qt.New(t)
		ctx := context.Background()
		repo := newRepo(c)

		id, err := repo.Create(ctx, &models.Course{Name: "Physics"})
		c.Assert(err, qt.IsNil)

		c.Assert(repo.Update(ctx, &models.Course{ID: id, Name: "Chemistry"}), qt.IsNil)
		course, err := repo.GetByID(ctx, id)
		c.Assert(err, qt.IsNil)
		c.Assert(course.Name, qt.Equals, "Chemistry")

		c.Assert(repo.Update(ctx, &models.Course{ID: id + 1, Name: "Biology"}), qt.ErrorIs, apperrors.ErrCourseNotFound)

		c.Assert(repo.Delete(ctx, id), qt.IsNil)
		c.Assert(repo.Delete(ctx, id), qt.ErrorIs, apperrors.ErrCourseNotFound)

		total, err := repo.Count(ctx, CourseFilter{})
		c.Assert(err, qt.IsNil)
		c.Assert(total, qt.Equals, int64(0))
	})

	t.Run("ConstraintViolation", func(t *testing.T) {
		c := qt.New(t)
		repo := newRepo(c)

		_, err := repo.Create(context.Background(), &models.Course{Name: "  "})
		c.Assert(err, qt.ErrorIs, apperrors.ErrValidationFailed)
	})

	t.Run("Ping", func(t *testing.T) {
		c := qt.New(t)
		c.Assert(newRepo(c).Ping(context.Background()), qt.IsNil)
	})
}
