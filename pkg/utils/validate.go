package utils

import (
	"errors"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// NewValidator returns a validator that names fields by their json tag.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(FieldName)
	return v
}

// FieldName is the json name of f, or f's name with a lower-case first letter.
func FieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name != "" {
		return name
	}
	r, size := utf8.DecodeRuneInString(f.Name)
	return string(unicode.ToLower(r)) + f.Name[size:]
}

// ValidationMessage renders the first failed rule of err as a client-safe
// sentence. ok is false when err does not come from the validator.
func ValidationMessage(err error) (msg string, ok bool) {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) || len(ves) == 0 {
		return "", false
	}
	fe := ves[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required", true
	case "email":
		return field + " must be a valid email address", true
	case "uuid":
		return field + " must be a uuid", true
	case "min":
		return field + " must be at least " + fe.Param() + " characters", true
	case "max":
		return field + " must be at most " + fe.Param() + " characters", true
	case "oneof":
		return field + " must be one of " + strings.ReplaceAll(fe.Param(), " ", ", "), true
	}
	return field + " is invalid", true
}
