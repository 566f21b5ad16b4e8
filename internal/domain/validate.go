package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// EarliestReleaseDate is the date of the first public film screening; no film
// can predate it.
var EarliestReleaseDate = time.Date(1895, time.December, 28, 0, 0, 0, 0, time.UTC)

// MaxDescriptionLength bounds a film's description.
const MaxDescriptionLength = 200

// ValidateFilm enforces the film field rules. Both create and update paths
// must run it before touching the store.
func ValidateFilm(f Film) error {
	if strings.TrimSpace(f.Name) == "" {
		return fmt.Errorf("film name must not be blank")
	}
	if len([]rune(f.Description)) > MaxDescriptionLength {
		return fmt.Errorf("film description must not exceed %d characters", MaxDescriptionLength)
	}
	if f.ReleaseDate.Before(EarliestReleaseDate) {
		return fmt.Errorf("release date must not precede %s", EarliestReleaseDate.Format("2006-01-02"))
	}
	if f.Duration <= 0 {
		return fmt.Errorf("film duration must be positive")
	}
	if f.MPA.ID <= 0 {
		return fmt.Errorf("film must reference an MPA rating")
	}
	return nil
}

// ValidateUser enforces the user field rules. Email gets a minimal "@" check,
// not a full RFC parse.
func ValidateUser(u User, now time.Time) error {
	if strings.TrimSpace(u.Email) == "" {
		return fmt.Errorf("email must not be blank")
	}
	if !strings.Contains(u.Email, "@") {
		return fmt.Errorf("email must contain the '@' character")
	}
	if strings.TrimSpace(u.Login) == "" {
		return fmt.Errorf("login must not be blank")
	}
	if strings.IndexFunc(u.Login, unicode.IsSpace) >= 0 {
		return fmt.Errorf("login must not contain whitespace")
	}
	if u.Birthday != nil && u.Birthday.After(now) {
		return fmt.Errorf("birthday must not be in the future")
	}
	return nil
}

// NormalizeUser applies the display-name default: a blank name becomes the
// login. Runs once per write, before the store is called, so the stored value
// is final and never re-derived on read.
func NormalizeUser(u *User) {
	if strings.TrimSpace(u.Name) == "" {
		u.Name = u.Login
	}
}
