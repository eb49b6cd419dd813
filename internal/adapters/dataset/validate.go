package dataset

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// recordValidator wraps go-playground/validator and reports failures by
// JSON field name. Rules under the `validate` tag reject a record; rules
// under the `warn` tag only flag it.
type recordValidator struct {
	v    *validator.Validate
	warn *validator.Validate
}

func newRecordValidator() *recordValidator {
	return &recordValidator{v: newValidator("validate"), warn: newValidator("warn")}
}

func newValidator(tag string) *validator.Validate {
	v := validator.New()
	v.SetTagName(tag)
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// Validate returns an ErrInvalidRecord naming every failing field.
func (rv *recordValidator) Validate(s any) error {
	return describe(rv.v.Struct(s))
}

// Warnings checks the soft rules. A non-nil result names the suspect fields
// but the record stays usable.
func (rv *recordValidator) Warnings(s any) error {
	return describe(rv.warn.Struct(s))
}

func describe(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, e := range fieldErrs {
		msgs = append(msgs, e.Field()+" "+friendlyMessage(e))
	}
	return fmt.Errorf("%w: %s", ErrInvalidRecord, strings.Join(msgs, "; "))
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "max":
		return "must not exceed " + e.Param() + " characters"
	default:
		return "is invalid"
	}
}
