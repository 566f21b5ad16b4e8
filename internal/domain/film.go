package domain

import "time"

// Film represents the canonical film entity in the database/service.
// Genres and Likes are resolved by the film store at read time; the entity
// itself never reaches back into a lookup service.
type Film struct {
	ID          int64
	Name        string
	Description string
	ReleaseDate time.Time
	Duration    int // minutes
	MPA         MPARating
	Genres      []Genre
	Likes       []int64 // ids of users who liked the film, set semantics
}

// LikeCount is the film's popularity signal.
func (f Film) LikeCount() int {
	return len(f.Likes)
}
