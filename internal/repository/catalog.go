package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/filmring/filmring/internal/domain"
)

// CatalogRepository serves the MPA rating and genre reference data. The
// catalog is seeded by migration and read-only at runtime.
type CatalogRepository struct {
	pool *pgxpool.Pool
}

// ListMPA returns all MPA ratings ordered by identifier.
func (r *CatalogRepository) ListMPA(ctx context.Context) ([]domain.MPARating, error) {
	const query = `SELECT id, name, COALESCE(description, '') FROM mpa_ratings ORDER BY id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ratings := make([]domain.MPARating, 0)
	for rows.Next() {
		var m domain.MPARating
		if err := rows.Scan(&m.ID, &m.Name, &m.Description); err != nil {
			return nil, err
		}
		ratings = append(ratings, m)
	}
	return ratings, rows.Err()
}

// GetMPA fetches a single MPA rating by identifier.
func (r *CatalogRepository) GetMPA(ctx context.Context, id int32) (domain.MPARating, error) {
	const query = `SELECT id, name, COALESCE(description, '') FROM mpa_ratings WHERE id = $1`
	var m domain.MPARating
	err := r.pool.QueryRow(ctx, query, id).Scan(&m.ID, &m.Name, &m.Description)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.MPARating{}, ErrNotFound
		}
		return domain.MPARating{}, err
	}
	return m, nil
}

// ListGenres returns all genres ordered by identifier.
func (r *CatalogRepository) ListGenres(ctx context.Context) ([]domain.Genre, error) {
	const query = `SELECT id, name FROM genres ORDER BY id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	genres := make([]domain.Genre, 0)
	for rows.Next() {
		var g domain.Genre
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, err
		}
		genres = append(genres, g)
	}
	return genres, rows.Err()
}

// GetGenre fetches a single genre by identifier.
func (r *CatalogRepository) GetGenre(ctx context.Context, id int32) (domain.Genre, error) {
	const query = `SELECT id, name FROM genres WHERE id = $1`
	var g domain.Genre
	err := r.pool.QueryRow(ctx, query, id).Scan(&g.ID, &g.Name)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Genre{}, ErrNotFound
		}
		return domain.Genre{}, err
	}
	return g, nil
}
