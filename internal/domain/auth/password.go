package auth

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const DefaultPasswordMinLength = 8

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func CheckPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// PasswordIssues lists what a candidate password is missing. An empty result
// means the password is acceptable.
func PasswordIssues(password string, minLength int) []string {
	if minLength <= 0 {
		minLength = DefaultPasswordMinLength
	}
	var issues []string
	if len(password) < minLength {
		issues = append(issues, fmt.Sprintf("must be at least %d characters", minLength))
	}
	if len(password) > 72 {
		issues = append(issues, "must be at most 72 bytes")
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
		issues = append(issues, "must contain letters and digits")
	}
	if strings.TrimSpace(password) != password {
		issues = append(issues, "must not start or end with whitespace")
	}
	return issues
}
