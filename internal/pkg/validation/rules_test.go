package validation

import (
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/go-playground/validator/v10"
)

type sample struct {
	Name  string  `validate:"notblank"`
	Alias *string `validate:"omitempty,notblank"`
}

func TestNotBlank(t *testing.T) {
	c := qt.New(t)

	v := validator.New()
	c.Assert(RegisterRules(v), qt.IsNil)

	blank := "  \t"
	ok := "x"
	tests := []struct {
		name  string
		input sample
		valid bool
	}{
		{"plain", sample{Name: "Go"}, true},
		{"padded", sample{Name: "  Go "}, true},
		{"empty", sample{Name: ""}, false},
		{"whitespace", sample{Name: "   "}, false},
		{"nil pointer", sample{Name: "Go", Alias: nil}, true},
		{"blank pointer", sample{Name: "Go", Alias: &blank}, false},
		{"set pointer", sample{Name: "Go", Alias: &ok}, true},
	}

	for _, tt := range tests {
		err := v.Struct(tt.input)
		c.Check(err == nil, qt.Equals, tt.valid, qt.Commentf("%s: %v", tt.name, err))
	}
}

func TestRegisterGinRules(t *testing.T) {
	qt.Assert(t, RegisterGinRules(), qt.IsNil)
}
