package service

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

const (
	minPasswordLength = 6
	// bcrypt ignores everything past 72 bytes
	maxPasswordBytes = 72
)

var mailboxPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// mailbox accepts local@domain.tld without whitespace.
	v.RegisterValidation("mailbox", func(fl validator.FieldLevel) bool {
		return mailboxPattern.MatchString(fl.Field().String())
	})
	v.RegisterValidation("bcryptmax", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= maxPasswordBytes
	})
	return v
}

// validateInput checks the validate tags of in and reports the first
// violation as a validation Error. Missing fields win over malformed ones.
func validateInput(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			return newError(KindValidation, "email and password are required")
		}
	}

	switch fe := fieldErrs[0]; fe.Tag() {
	case "mailbox":
		return newError(KindValidation, "a valid email address is required")
	case "min":
		return newError(KindValidation, fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	case "bcryptmax":
		return newError(KindValidation, fmt.Sprintf("password must be at most %d bytes", maxPasswordBytes))
	default:
		return newError(KindValidation, fmt.Sprintf("%s is invalid", fe.Field()))
	}
}
