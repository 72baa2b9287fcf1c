package db

import (
	"context"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestNewSQLiteDBFile(t *testing.T) {
	c := qt.New(t)

	database, err := NewSQLiteDB(context.Background(), filepath.Join(c.TempDir(), "courses.db"))
	c.Assert(err, qt.IsNil)
	defer database.Close()

	_, err = database.SQL().Exec(`CREATE TABLE t (id INTEGER PRIMARY KEY)`)
	c.Assert(err, qt.IsNil)
}

func TestNewSQLiteDBMemoryIsShared(t *testing.T) {
	c := qt.New(t)

	database, err := NewSQLiteDB(context.Background(), ":memory:")
	c.Assert(err, qt.IsNil)
	defer database.Close()

	_, err = database.DB.Exec(`CREATE TABLE t (id INTEGER PRIMARY KEY)`)
	c.Assert(err, qt.IsNil)

	var n int
	err = database.DB.QueryRow(`SELECT COUNT(*) FROM t`).Scan(&n)
	c.Assert(err, qt.IsNil)
	c.Assert(n, qt.Equals, 0)
}
