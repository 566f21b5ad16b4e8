package domain

import "time"

// User represents a registered member of the service.
type User struct {
	ID       int64
	Email    string
	Login    string
	Name     string
	Birthday *time.Time
}

// FriendshipStatus tags a directed friendship edge. The store currently
// writes CONFIRMED directly on AddFriend; PENDING exists for a future
// request/accept flow.
type FriendshipStatus string

const (
	FriendshipPending   FriendshipStatus = "PENDING"
	FriendshipConfirmed FriendshipStatus = "CONFIRMED"
)
