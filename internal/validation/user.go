// Package validation contains input validation helpers for user-facing fields.
package validation

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
)

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]{3,30}$`)

// ValidateUsername checks username format: 3-30 chars, alphanumeric and underscore.
func ValidateUsername(username string) error {
	if !usernameRe.MatchString(username) {
		return errors.New("Username must be 3-30 characters (letters, digits, underscore)")
	}
	return nil
}

// ValidateEmail performs a structural email check.
func ValidateEmail(email string) error {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return errors.New("Invalid email address")
	}
	domain := email[at+1:]
	if !strings.Contains(domain, ".") || strings.ContainsAny(email, " \t") {
		return errors.New("Invalid email address")
	}
	return nil
}

// ValidatePassword enforces a minimum password strength: at least 8 characters
// with one letter and one digit.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return errors.New("Password must be at least 8 characters")
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return errors.New("Password must contain at least one letter and one digit")
	}
	return nil
}
