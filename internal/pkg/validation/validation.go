package validation

import (
	"regexp"
	"strings"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Username: letters, digits, dots, hyphens, underscores; 3..64 chars.
var usernameRe = regexp.MustCompile(`^[A-Za-z0-9._-]{3,64}$`)

func IsValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

func IsValidUsername(username string) bool {
	return usernameRe.MatchString(username)
}

// IsValidPassword requires at least 8 characters.
func IsValidPassword(password string) bool {
	return len(password) >= 8
}

// IsBlank reports whether s is empty or whitespace-only. Completeness and
// suggestion recording both treat blank as absent.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
