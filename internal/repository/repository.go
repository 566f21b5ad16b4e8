package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/filmring/filmring/internal/store"
)

// ErrNotFound indicates the requested entity does not exist.
var ErrNotFound = errors.New("repository: not found")

// ErrInvalidReference indicates a film references an MPA rating or genre that
// is not present in the catalog.
var ErrInvalidReference = errors.New("repository: invalid reference")

// ErrDuplicateLike indicates the (film, user) like pair already exists.
var ErrDuplicateLike = errors.New("repository: duplicate like")

// ErrConflict indicates an integrity conflict, e.g. a user befriending
// themselves.
var ErrConflict = errors.New("repository: conflict")

// Repository aggregates all domain-specific repositories.
type Repository struct {
	Films   *FilmsRepository
	Users   *UsersRepository
	Catalog *CatalogRepository
}

// New constructs a Repository backed by the provided store.
func New(st *store.Store) *Repository {
	return NewWithPool(st.Pool())
}

// NewWithPool allows constructing repositories directly from a pgx pool.
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{
		Films:   &FilmsRepository{pool: pool},
		Users:   &UsersRepository{pool: pool},
		Catalog: &CatalogRepository{pool: pool},
	}
}

// Postgres error codes the repositories translate into typed errors.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

func pgErrCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
