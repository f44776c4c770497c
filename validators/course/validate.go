package courseValidator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"coursetrack/middleware"
)

const validatedKey = "validatedRequest"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})
	return v
}

// checker is implemented by requests with rules that span fields.
type checker interface {
	Check() map[string]string
}

// Validated returns the request stored by Body or Query.
func Validated[T any](c *fiber.Ctx) *T {
	v, _ := c.Locals(validatedKey).(*T)
	return v
}

// Body parses the JSON body into T, validates it and stores it for the
// handler. An empty body validates the zero value.
func Body[T any]() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(T)
		if len(c.Body()) > 0 {
			if err := c.BodyParser(reqData); err != nil {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
			}
		}
		return store(c, reqData)
	}
}

// Query parses the query string into T, validates it and stores it.
func Query[T any]() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(T)
		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}
		return store(c, reqData)
	}
}

func store[T any](c *fiber.Ctx, reqData *T) error {
	errs := fieldErrors(validate.Struct(reqData))
	if ch, ok := any(reqData).(checker); ok && len(errs) == 0 {
		errs = ch.Check()
	}
	if len(errs) > 0 {
		return middleware.ValidationErrorResponse(c, errs)
	}
	c.Locals(validatedKey, reqData)
	return c.Next()
}

// ParamID validates a positive integer route parameter and stores it as uint
// under key.
func ParamID(param, key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt(param)
		if err != nil || id <= 0 {
			return middleware.ValidationErrorResponse(c, map[string]string{param: fmt.Sprintf("Invalid %s!", param)})
		}
		c.Locals(key, uint(id))
		return c.Next()
	}
}

func fieldErrors(err error) map[string]string {
	errs := make(map[string]string)
	if err == nil {
		return errs
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs["request"] = err.Error()
		return errs
	}
	for _, fe := range verrs {
		errs[fe.Field()] = message(fe)
	}
	return errs
}

func message(fe validator.FieldError) string {
	name := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required!", name)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters long!", name, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s!", name, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters long!", name, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s!", name, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s!", name, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s!", name, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "url":
		return fmt.Sprintf("%s must be a valid URL!", name)
	default:
		return fmt.Sprintf("%s is invalid!", name)
	}
}
