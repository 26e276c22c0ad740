package serverutils

import (
	"fmt"
	"strings"

	"rag-filesearch-be/internal/apperr"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateRequest runs struct tag validation and folds violations into a
// single validation error for the error handler middleware.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperr.Validationf("invalid request payload")
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fieldError := range validationErrors {
		messages = append(messages, fmt.Sprintf("field '%s' failed on '%s'", fieldError.Field(), fieldError.Tag()))
	}
	return apperr.Validationf("%s", strings.Join(messages, "; "))
}
