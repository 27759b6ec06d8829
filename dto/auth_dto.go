package dto

import "strings"

type SignupInput struct {
	FirstName string `form:"firstName" json:"firstName" validate:"required"`
	LastName  string `form:"lastName" json:"lastName" validate:"required"`
	Email     string `form:"email" json:"email" validate:"required,email"`
	Password  string `form:"password" json:"password" validate:"required,min=8,max=64"`
}

// SignupFields is a validated signup form.
type SignupFields struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

var signupMessages = map[string]string{
	"firstName.required": "First name is required",
	"lastName.required":  "Last name is required",
	"email.required":     "Email is required",
	"email.email":        "Please enter a valid email address",
	"password.required":  "Password is required",
	"password.min":       "Password must be between 8 and 64 characters",
	"password.max":       "Password must be between 8 and 64 characters",
}

func (in SignupInput) Validate() (SignupFields, FieldErrors) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.TrimSpace(in.Email)
	in.Password = strings.TrimSpace(in.Password)

	if errs := validateStruct(in, signupMessages); errs != nil {
		return SignupFields{}, errs
	}
	return SignupFields(in), nil
}

type LoginInput struct {
	Email    string `form:"email" json:"email" validate:"required,email"`
	Password string `form:"password" json:"password" validate:"required"`
}

var loginMessages = map[string]string{
	"email.required":    "Email is required",
	"email.email":       "Please enter a valid email address",
	"password.required": "Password is required",
}

func (in LoginInput) Validate() (LoginInput, FieldErrors) {
	in.Email = strings.TrimSpace(in.Email)
	in.Password = strings.TrimSpace(in.Password)

	if errs := validateStruct(in, loginMessages); errs != nil {
		return LoginInput{}, errs
	}
	return in, nil
}
