package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validFilm() Film {
	return Film{
		Name:        "Seven Samurai",
		Description: "Villagers hire seven ronin.",
		ReleaseDate: time.Date(1954, time.April, 26, 0, 0, 0, 0, time.UTC),
		Duration:    207,
		MPA:         MPARating{ID: 4},
	}
}

func TestValidateFilm(t *testing.T) {
	require.NoError(t, ValidateFilm(validFilm()))

	tests := []struct {
		name   string
		mutate func(*Film)
	}{
		{"blank name", func(f *Film) { f.Name = "   " }},
		{"empty name", func(f *Film) { f.Name = "" }},
		{"description too long", func(f *Film) {
			long := make([]byte, MaxDescriptionLength+1)
			for i := range long {
				long[i] = 'x'
			}
			f.Description = string(long)
		}},
		{"release before first screening", func(f *Film) {
			f.ReleaseDate = time.Date(1895, time.December, 27, 0, 0, 0, 0, time.UTC)
		}},
		{"zero release date", func(f *Film) { f.ReleaseDate = time.Time{} }},
		{"zero duration", func(f *Film) { f.Duration = 0 }},
		{"negative duration", func(f *Film) { f.Duration = -5 }},
		{"missing mpa", func(f *Film) { f.MPA = MPARating{} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validFilm()
			tt.mutate(&f)
			assert.Error(t, ValidateFilm(f))
		})
	}
}

func TestValidateFilm_BoundaryValues(t *testing.T) {
	f := validFilm()

	f.ReleaseDate = EarliestReleaseDate
	assert.NoError(t, ValidateFilm(f), "the first screening date itself is allowed")

	long := make([]byte, MaxDescriptionLength)
	for i := range long {
		long[i] = 'x'
	}
	f = validFilm()
	f.Description = string(long)
	assert.NoError(t, ValidateFilm(f), "description at the limit is allowed")

	f = validFilm()
	f.Description = ""
	assert.NoError(t, ValidateFilm(f), "description is optional")

	f = validFilm()
	f.Duration = 1
	assert.NoError(t, ValidateFilm(f))
}

func validUser() User {
	birthday := time.Date(1988, time.July, 2, 0, 0, 0, 0, time.UTC)
	return User{
		Email:    "kino@example.com",
		Login:    "kino",
		Name:     "Kino Fan",
		Birthday: &birthday,
	}
}

func TestValidateUser(t *testing.T) {
	now := time.Date(2026, time.August, 30, 12, 0, 0, 0, time.UTC)

	require.NoError(t, ValidateUser(validUser(), now))

	tests := []struct {
		name   string
		mutate func(*User)
	}{
		{"empty email", func(u *User) { u.Email = "" }},
		{"email without at sign", func(u *User) { u.Email = "kino.example.com" }},
		{"empty login", func(u *User) { u.Login = "" }},
		{"login with space", func(u *User) { u.Login = "ki no" }},
		{"login with tab", func(u *User) { u.Login = "kino\t" }},
		{"future birthday", func(u *User) {
			future := now.AddDate(1, 0, 0)
			u.Birthday = &future
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := validUser()
			tt.mutate(&u)
			assert.Error(t, ValidateUser(u, now))
		})
	}
}

func TestValidateUser_OptionalFields(t *testing.T) {
	now := time.Now()

	u := validUser()
	u.Birthday = nil
	assert.NoError(t, ValidateUser(u, now), "birthday is optional")

	u = validUser()
	u.Name = ""
	assert.NoError(t, ValidateUser(u, now), "name is filled in later from the login")

	u = validUser()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	u.Birthday = &today
	assert.NoError(t, ValidateUser(u, now), "born today is not in the future")
}

func TestNormalizeUser(t *testing.T) {
	u := User{Email: "a@b.c", Login: "lonely"}
	NormalizeUser(&u)
	assert.Equal(t, "lonely", u.Name)

	u = User{Email: "a@b.c", Login: "lonely", Name: "Explicit"}
	NormalizeUser(&u)
	assert.Equal(t, "Explicit", u.Name)

	u = User{Email: "a@b.c", Login: "lonely", Name: "   "}
	NormalizeUser(&u)
	assert.Equal(t, "lonely", u.Name)
}
