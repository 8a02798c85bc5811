package validation

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/duccv/webconf-gate/internal/constant"
)

// emailPattern is deliberately narrower than RFC 5322: letters, digits and _-. on both
// sides of the @, then a 2 to 5 letter top-level suffix.
var emailPattern = regexp.MustCompile(`^([a-zA-Z0-9_\-\.]+)@([a-zA-Z0-9_\-\.]+)\.([a-zA-Z]{2,5})$`)

var validate = New()

// New returns a validator with the loginemail rule registered.
func New() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("loginemail", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

type emailInput struct {
	Email string `validate:"required,loginemail"`
}

// ValidateEmail checks the syntax of a login email.
func ValidateEmail(email string) error {
	if err := validate.Struct(emailInput{Email: email}); err != nil {
		return fmt.Errorf("%w: %v", constant.ErrInvalidEmailSyntax, err)
	}
	return nil
}

// Struct validates any value carrying validate tags.
func Struct(v any) error {
	return validate.Struct(v)
}
