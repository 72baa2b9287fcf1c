package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// TagNotBlank rejects strings that are empty after trimming whitespace
const TagNotBlank = "notblank"

// RegisterRules adds the custom binding tags to v
func RegisterRules(v *validator.Validate) error {
	if err := v.RegisterValidation(TagNotBlank, notBlank); err != nil {
		return fmt.Errorf("register %s: %w", TagNotBlank, err)
	}
	return nil
}

// RegisterGinRules installs the custom tags on gin's default binding validator
func RegisterGinRules() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected binding validator %T", binding.Validator.Engine())
	}
	return RegisterRules(v)
}

func notBlank(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return true
	}
	return strings.TrimSpace(field.String()) != ""
}
