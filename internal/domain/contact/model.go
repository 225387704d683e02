package contact

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
)

// Enquiry is the contact form. Every field is required.
type Enquiry struct {
	Name    string `json:"name" form:"name"`
	Email   string `json:"email" form:"email"`
	Phone   string `json:"phone" form:"phone"`
	Message string `json:"message" form:"message"`
}

const (
	maxNameLen    = 120
	maxPhoneLen   = 32
	maxMessageLen = 2000
)

// ValidationError lists the offending fields.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range []string{"name", "email", "phone", "message"} {
		if msg, ok := e.Fields[f]; ok {
			parts = append(parts, f+": "+msg)
		}
	}
	return "invalid enquiry: " + strings.Join(parts, "; ")
}

// Normalize trims every field.
func (e *Enquiry) Normalize() {
	e.Name = strings.TrimSpace(e.Name)
	e.Email = strings.TrimSpace(e.Email)
	e.Phone = strings.TrimSpace(e.Phone)
	e.Message = strings.TrimSpace(e.Message)
}

// Validate normalizes e and checks it.
func (e *Enquiry) Validate() error {
	e.Normalize()
	fields := map[string]string{}

	switch {
	case e.Name == "":
		fields["name"] = "is required"
	case len(e.Name) > maxNameLen:
		fields["name"] = fmt.Sprintf("must be at most %d characters", maxNameLen)
	}

	if e.Email == "" {
		fields["email"] = "is required"
	} else if addr, err := mail.ParseAddress(e.Email); err != nil || addr.Address != e.Email {
		fields["email"] = "is not a valid address"
	}

	switch {
	case e.Phone == "":
		fields["phone"] = "is required"
	case len(e.Phone) > maxPhoneLen || !phoneLike(e.Phone):
		fields["phone"] = "is not a valid number"
	}

	switch {
	case e.Message == "":
		fields["message"] = "is required"
	case len(e.Message) > maxMessageLen:
		fields["message"] = fmt.Sprintf("must be at most %d characters", maxMessageLen)
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// phoneLike accepts digits with the separators people type: spaces, dashes,
// dots, parentheses and a leading plus.
func phoneLike(s string) bool {
	digits := 0
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '+' && i == 0:
		case r == ' ' || r == '-' || r == '.' || r == '(' || r == ')':
		default:
			return false
		}
	}
	return digits >= 5
}

// IsValidation reports whether err came from Validate.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
