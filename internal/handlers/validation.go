package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"bloglist/internal/apperror"
)

// newValidator returns a validator that reports fields by their JSON names.
func newValidator() *validator.Validate {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return validate
}

// parseAndValidate decodes the request body into req and checks its
// validate tags.
func parseAndValidate(c *fiber.Ctx, validate *validator.Validate, req interface{}) error {
	if err := c.BodyParser(req); err != nil {
		return apperror.Validation("malformed request body").Wrap(err)
	}
	if err := validate.Struct(req); err != nil {
		return validationError(err)
	}
	return nil
}

// validationError turns the first failed constraint into a message naming
// the field and the constraint.
func validationError(err error) error {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return apperror.Validation("invalid request").Wrap(err)
	}

	fe := fieldErrors[0]
	var msg string
	switch fe.Tag() {
	case "required":
		msg = fmt.Sprintf("`%s` is required", fe.Field())
	case "min":
		msg = fmt.Sprintf("`%s` must be at least %s characters long", fe.Field(), fe.Param())
	case "max":
		msg = fmt.Sprintf("`%s` must be at most %s characters long", fe.Field(), fe.Param())
	case "gte":
		msg = fmt.Sprintf("`%s` must be at least %s", fe.Field(), fe.Param())
	default:
		msg = fmt.Sprintf("`%s` failed on the '%s' rule", fe.Field(), fe.Tag())
	}
	return apperror.Validation(msg)
}
