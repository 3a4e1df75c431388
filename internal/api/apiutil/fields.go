package apiutil

import (
	"strings"
)

const maxEmailLength = 254

// RequiredString trims raw and reports a FieldError when it is empty.
func RequiredString(raw string, field string) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", FieldError{Field: field, Reason: "is required"}
	}
	return value, nil
}

// EmailField validates the shape of an address: something before and after
// the last "@" and no whitespace.
func EmailField(raw string, field string) (string, error) {
	value, err := RequiredString(raw, field)
	if err != nil {
		return "", err
	}
	if len(value) > maxEmailLength {
		return "", FieldError{Field: field, Reason: "is too long"}
	}
	if strings.ContainsAny(value, " \t\r\n") {
		return "", FieldError{Field: field, Reason: "must not contain whitespace"}
	}
	at := strings.LastIndex(value, "@")
	if at <= 0 || at == len(value)-1 {
		return "", FieldError{Field: field, Reason: "must be an email address"}
	}
	return value, nil
}
