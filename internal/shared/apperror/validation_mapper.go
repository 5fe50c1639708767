package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// start_date -> Start Date
func formatFieldName(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	caser := cases.Title(language.English)
	return caser.String(s)
}

func MapValidationError(err error) error {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) && len(errs) > 0 {
		e := errs[0]
		appErr := fieldError(e)
		appErr.Details = map[string]string{
			"field": e.Field(),
			"rule":  e.Tag(),
		}
		return appErr
	}

	return New(
		CodeInvalidInput,
		"Invalid input",
		http.StatusBadRequest,
	)
}

func fieldError(e validator.FieldError) *AppError {
	field := formatFieldName(e.Field())

	switch e.Tag() {
	case "required":
		return RequiredField(field)
	case "oneof":
		return New(
			CodeInvalidInput,
			fmt.Sprintf("%s must be one of: %s", field, e.Param()),
			http.StatusBadRequest,
		)
	case "max":
		return New(
			CodeInvalidInput,
			fmt.Sprintf("%s must be at most %s characters", field, e.Param()),
			http.StatusBadRequest,
		)
	case "min":
		return New(
			CodeInvalidInput,
			fmt.Sprintf("%s must be at least %s characters", field, e.Param()),
			http.StatusBadRequest,
		)
	default:
		return InvalidField(field)
	}
}
