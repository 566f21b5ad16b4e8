package domain

// MPARating is an immutable content-classification label. The catalog is
// seeded out-of-band and read-only to the service.
type MPARating struct {
	ID          int32
	Name        string
	Description string
}

// Genre is an immutable classification tag; a film may carry zero or more.
type Genre struct {
	ID   int32
	Name string
}
