package auth

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type RegisterRequest struct {
	Username string `validate:"required,min=1,max=64"`
	Password string `validate:"required,max=72"`
	FullName string `validate:"max=128"`
}

// ValidateRegister checks the registration input. No complexity rules are
// enforced on the password itself; the directory accepts any non-empty
// credential.
func ValidateRegister(req RegisterRequest) error {
	return validate.Struct(req)
}
