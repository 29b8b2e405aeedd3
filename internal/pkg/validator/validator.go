package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Shared validator instance to avoid creating multiple instances
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Get returns the shared validator instance
func Get() *validator.Validate {
	return validate
}

// Messages flattens a validation error into one message per failing field
func Messages(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is a required field", field))
		case "gt":
			messages = append(messages, fmt.Sprintf("%s must be greater than %s", field, fe.Param()))
		case "min":
			messages = append(messages, fmt.Sprintf("%s must be at least %s characters", field, fe.Param()))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", field))
		}
	}
	return messages
}
