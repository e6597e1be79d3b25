package console

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Global validator instance (reused across all forms)
var validate = validator.New()

// loginForm holds the credentials entered on the login screen
type loginForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// registerForm holds the fields entered on the registration screen
type registerForm struct {
	Name     string `validate:"required,min=2,max=100"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
}

// createForm holds the fields entered in the create-user dialog
type createForm struct {
	Name     string `validate:"required,min=2,max=100"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
	Role     string `validate:"omitempty,oneof=admin user"`
}

// validateForm validates a form struct and returns a field-scoped message
// on failure.
func validateForm(form interface{}) error {
	if err := validate.Struct(form); err != nil {
		if ve, ok := err.(validator.ValidationErrors); ok && len(ve) > 0 {
			fe := ve[0]
			return fmt.Errorf("%s: %s", fe.Field(), formatFieldError(fe))
		}
		return err
	}
	return nil
}

// formatFieldError converts a validator FieldError to a user-friendly message
func formatFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must have a minimum of %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must have a maximum of %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("failed validation: %s", fe.Tag())
	}
}
