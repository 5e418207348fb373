package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// RegisterForm is the registration form body
type RegisterForm struct {
	Username string `form:"username" binding:"required,max=150"`
	Password string `form:"password" binding:"required"`
}

// LoginForm is the login form body
type LoginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// ContactForm is the contact form body. Email and contact number are not
// format checked.
type ContactForm struct {
	Name    string `form:"name" binding:"required,max=150"`
	Email   string `form:"email" binding:"required,max=150"`
	Contact string `form:"contact" binding:"required,max=15"`
	Message string `form:"message" binding:"required"`
}

var fieldLabels = map[string]string{
	"Username": "Username",
	"Password": "Password",
	"Name":     "Name",
	"Email":    "Email",
	"Contact":  "Contact number",
	"Message":  "Message",
}

// validationMessage turns a binding error into a message fit for a flash
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Invalid form submission."
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		label, ok := fieldLabels[fe.Field()]
		if !ok {
			label = fe.Field()
		}
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required.", label))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters.", label, fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid.", label))
		}
	}
	return strings.Join(msgs, " ")
}
