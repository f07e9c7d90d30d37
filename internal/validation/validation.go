package validation

import (
	"regexp"
	"time"

	"reviewhub/internal/apperrors"
)

const (
	MaxUsernameLength = 150
	MaxEmailLength    = 254
	MinScore          = 1
	MaxScore          = 10
)

// usernameRe mirrors the allowed username alphabet: word characters
// plus '.', '@', '+' and '-'.
var usernameRe = regexp.MustCompile(`^[\w.@+-]+$`)

// Username checks format, length and the reserved literal "me", which is
// taken by the /users/me endpoint.
func Username(username string) error {
	if username == "" {
		return apperrors.Validationf("username is required")
	}
	if len(username) > MaxUsernameLength {
		return apperrors.Validationf("username must be at most %d characters", MaxUsernameLength)
	}
	if !usernameRe.MatchString(username) {
		return apperrors.Validationf("username may only contain letters, digits and .@+- characters")
	}
	if username == "me" {
		return apperrors.Validationf("username %q is reserved", "me")
	}
	return nil
}

// slugRe restricts slugs to the URL-safe alphabet.
var slugRe = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

// Slug checks a category or genre slug is URL-safe.
func Slug(slug string) error {
	if !slugRe.MatchString(slug) {
		return apperrors.Validationf("slug may only contain letters, digits, hyphens and underscores")
	}
	return nil
}

// Year rejects release years later than the current calendar year.
func Year(year int) error {
	if current := time.Now().Year(); year > current {
		return apperrors.Validationf("year %d has not happened yet", year)
	}
	return nil
}

// Score checks a review score is within the 1..10 scale.
func Score(score int) error {
	if score < MinScore || score > MaxScore {
		return apperrors.Validationf("score must be between %d and %d", MinScore, MaxScore)
	}
	return nil
}
