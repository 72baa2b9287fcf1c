package apperrors

import (
	"errors"
	"fmt"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestCourseNotFoundWrapsResourceNotFound(t *testing.T) {
	c := qt.New(t)

	err := fmt.Errorf("error retrieving course: %w", ErrCourseNotFound)
	c.Assert(err, qt.ErrorIs, ErrResourceNotFound)
	c.Assert(ErrCourseNotFound.Error(), qt.Equals, "course resource not found")
}

func TestNewValidationError(t *testing.T) {
	c := qt.New(t)

	err := fmt.Errorf("wrapped: %w", NewValidationError("name", "name cannot be empty"))
	c.Assert(err, qt.ErrorIs, ErrValidationFailed)

	ce, ok := AsCustomError(err)
	c.Assert(ok, qt.IsTrue)
	c.Assert(ce.Message, qt.Equals, "name cannot be empty")
	c.Assert(ce.Details["field"], qt.Equals, "name")
}

func TestCustomErrorMessageFallback(t *testing.T) {
	c := qt.New(t)

	c.Assert((&CustomError{Err: ErrBadRequest}).Error(), qt.Equals, "bad request")
	c.Assert((&CustomError{}).Error(), qt.Equals, "unknown error")

	_, ok := AsCustomError(errors.New("plain"))
	c.Assert(ok, qt.IsFalse)
}
