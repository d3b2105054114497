package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const minPasswordLength = 6

// earliestBirthDate is exclusive.
var earliestBirthDate = time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)

var birthDateLayouts = []string{
	time.DateOnly,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
}

var ErrBadBirthDate = errors.New("unparsable birth date")

// IsPasswordAcceptable requires at least six characters including a letter and a digit.
func IsPasswordAcceptable(password string) bool {
	if utf8.RuneCountInString(password) < minPasswordLength {
		return false
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			hasLetter = true
		case r >= '0' && r <= '9':
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}

func IsBirthDatePlausible(date string) bool {
	return isBirthDatePlausibleAt(date, time.Now())
}

func isBirthDatePlausibleAt(date string, now time.Time) bool {
	t, err := ParseBirthDate(date)
	if err != nil {
		return false
	}
	return t.After(earliestBirthDate) && t.Before(now)
}

// ParseBirthDate reads a calendar date (UTC) or a full timestamp.
func ParseBirthDate(date string) (time.Time, error) {
	for _, layout := range birthDateLayouts {
		if t, err := time.Parse(layout, date); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrBadBirthDate
}

// New returns a validator with the "password" and "birthdate" tags registered.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// в ошибках поля называются так же, как в запросе
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return IsPasswordAcceptable(fl.Field().String())
	})
	_ = v.RegisterValidation("birthdate", func(fl validator.FieldLevel) bool {
		return IsBirthDatePlausible(fl.Field().String())
	})
	return v
}

// Describe renders validator errors by JSON field name and failed rule,
// e.g. "name: required; email: required".
func Describe(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return "The input could not be validated."
	}
	parts := make([]string, 0, len(ve))
	for _, fe := range ve {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}
