package validation

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type RegisterForm struct {
	Email    string `validate:"required,max=254"`
	Password string `validate:"required,max=256"`
	Name     string `validate:"max=100"`
	Gender   string `validate:"oneof=unspecified male female"`
	Phone    string `validate:"max=32"`
}

type LoginForm struct {
	Email    string `validate:"required,max=254"`
	Password string `validate:"required,max=256"`
}

type ProfileForm struct {
	Name   string `validate:"max=100"`
	Gender string `validate:"oneof=unspecified male female"`
	Phone  string `validate:"max=32"`
}

// FormError lists the form fields that failed validation, lower-cased.
type FormError struct {
	Fields []string
}

func (e *FormError) Error() string {
	return "invalid form fields: " + strings.Join(e.Fields, ", ")
}

// ValidateForm checks a form struct and returns a *FormError naming the
// offending fields.
func ValidateForm(form any) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	fe := &FormError{}
	for _, e := range ve {
		fe.Fields = append(fe.Fields, strings.ToLower(e.Field()))
	}
	return fe
}
