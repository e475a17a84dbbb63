// Package validation holds the input rules shared by the API and its clients.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/hongminglow/learnhub-be/internal/apperr"
)

var (
	phoneChars  = regexp.MustCompile(`^[0-9+\-\s()]+$`)
	phoneFormat = regexp.MustCompile(`^\+?[1-9]\d{7,15}$`)
)

// PhoneFormat is the permissive international check used by the login form:
// an optional leading "+" and 8 to 16 digits, whitespace ignored.
func PhoneFormat(phone string) bool {
	cleaned := strings.Join(strings.Fields(phone), "")
	return phoneFormat.MatchString(cleaned)
}

// PasswordStrong requires at least 6 characters including a letter and a digit.
func PasswordStrong(password string) bool {
	if len([]rune(password)) < 6 {
		return false
	}
	return hasLetterAndDigit(password)
}

func hasLetterAndDigit(s string) bool {
	var letter, digit bool
	for _, r := range s {
		switch {
		case r < unicode.MaxASCII && unicode.IsLetter(r):
			letter = true
		case r >= '0' && r <= '9':
			digit = true
		}
	}
	return letter && digit
}

// Credentials is the body accepted by register and login.
type Credentials struct {
	Phone    string `json:"phone" validate:"required,min=6,max=20,phonechars"`
	Password string `json:"password" validate:"required,min=6,max=100,letterdigit"`
}

// NewDiscussion is the body accepted when opening a community topic.
type NewDiscussion struct {
	Title   string `json:"title" validate:"required,min=3,max=200"`
	Content string `json:"content" validate:"required,min=1,max=5000"`
}

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation("phonechars", func(fl validator.FieldLevel) bool {
			return phoneChars.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation("letterdigit", func(fl validator.FieldLevel) bool {
			return hasLetterAndDigit(fl.Field().String())
		})
		validate = v
	})
	return validate
}

// Struct validates s and returns an apperr validation error carrying one entry
// per failing field, or nil.
func Struct(s any) error {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperr.Internal(err)
	}
	fields := make(map[string][]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields[fe.Field()] = append(fields[fe.Field()], message(fe))
	}
	return apperr.Validation(fields)
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "phonechars":
		return "phone may only contain digits, spaces, +, - and parentheses"
	case "letterdigit":
		return "password must contain at least one letter and one digit"
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
