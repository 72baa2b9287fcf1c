package helpers

import (
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
)

func TestParseDuration(t *testing.T) {
	c := qt.New(t)

	c.Assert(ParseDuration("15s", time.Minute), qt.Equals, 15*time.Second)
	c.Assert(ParseDuration("", time.Minute), qt.Equals, time.Minute)
	c.Assert(ParseDuration("soon", time.Minute), qt.Equals, time.Minute)
}
