package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/filmring/filmring/internal/domain"
)

// FilmsRepository provides persistence for films, their genre associations,
// and the like-set.
type FilmsRepository struct {
	pool *pgxpool.Pool
}

const filmColumns = `
    f.id,
    f.name,
    COALESCE(f.description, ''),
    f.release_date,
    f.duration,
    m.id,
    m.name,
    COALESCE(m.description, '')
`

const filmFrom = ` FROM films f JOIN mpa_ratings m ON f.mpa_id = m.id`

// querier is satisfied by both *pgxpool.Pool and pgx.Tx so reference checks
// and association writes can run inside a transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Create validates the film's MPA and genre references, inserts the film row
// and its genre associations in one transaction, and returns the stored film
// with resolved genres and an empty like-set.
func (r *FilmsRepository) Create(ctx context.Context, film domain.Film) (domain.Film, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.Film{}, fmt.Errorf("begin create film: %w", err)
	}
	defer tx.Rollback(ctx)

	mpa, err := resolveMPA(ctx, tx, film.MPA.ID)
	if err != nil {
		return domain.Film{}, err
	}
	genres, err := resolveGenres(ctx, tx, film.Genres)
	if err != nil {
		return domain.Film{}, err
	}

	const query = `
        INSERT INTO films (name, description, release_date, duration, mpa_id)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id
    `
	var id int64
	if err := tx.QueryRow(ctx, query, film.Name, film.Description, film.ReleaseDate, film.Duration, mpa.ID).Scan(&id); err != nil {
		return domain.Film{}, fmt.Errorf("insert film: %w", err)
	}

	if err := insertFilmGenres(ctx, tx, id, genres); err != nil {
		return domain.Film{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Film{}, fmt.Errorf("commit create film: %w", err)
	}

	film.ID = id
	film.MPA = mpa
	film.Genres = genres
	film.Likes = []int64{}
	return film, nil
}

// Update fully replaces the film's scalar fields and its genre set
// (remove-all-then-insert) in one transaction. The film id must already
// exist, else ErrNotFound. The like-set is untouched.
func (r *FilmsRepository) Update(ctx context.Context, film domain.Film) (domain.Film, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.Film{}, fmt.Errorf("begin update film: %w", err)
	}
	defer tx.Rollback(ctx)

	mpa, err := resolveMPA(ctx, tx, film.MPA.ID)
	if err != nil {
		return domain.Film{}, err
	}
	genres, err := resolveGenres(ctx, tx, film.Genres)
	if err != nil {
		return domain.Film{}, err
	}

	const query = `
        UPDATE films
        SET name = $2, description = $3, release_date = $4, duration = $5, mpa_id = $6
        WHERE id = $1
        RETURNING id
    `
	var id int64
	err = tx.QueryRow(ctx, query, film.ID, film.Name, film.Description, film.ReleaseDate, film.Duration, mpa.ID).Scan(&id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Film{}, ErrNotFound
		}
		return domain.Film{}, fmt.Errorf("update film: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM film_genres WHERE film_id = $1`, id); err != nil {
		return domain.Film{}, fmt.Errorf("clear film genres: %w", err)
	}
	if err := insertFilmGenres(ctx, tx, id, genres); err != nil {
		return domain.Film{}, err
	}

	likes, err := loadLikes(ctx, tx, id)
	if err != nil {
		return domain.Film{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Film{}, fmt.Errorf("commit update film: %w", err)
	}

	film.MPA = mpa
	film.Genres = genres
	film.Likes = likes
	return film, nil
}

// GetByID fetches a film with its genres and like-set fully populated.
func (r *FilmsRepository) GetByID(ctx context.Context, id int64) (domain.Film, error) {
	query := `SELECT` + filmColumns + filmFrom + ` WHERE f.id = $1`
	film, err := scanFilm(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Film{}, ErrNotFound
		}
		return domain.Film{}, err
	}

	film.Genres, err = loadGenres(ctx, r.pool, id)
	if err != nil {
		return domain.Film{}, err
	}
	film.Likes, err = loadLikes(ctx, r.pool, id)
	if err != nil {
		return domain.Film{}, err
	}
	return film, nil
}

// ListAll returns every film ordered by identifier ascending, each with
// genres and likes populated.
func (r *FilmsRepository) ListAll(ctx context.Context) ([]domain.Film, error) {
	query := `SELECT` + filmColumns + filmFrom + ` ORDER BY f.id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	films := make([]domain.Film, 0)
	for rows.Next() {
		film, err := scanFilm(rows)
		if err != nil {
			return nil, err
		}
		films = append(films, film)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(films) == 0 {
		return films, nil
	}

	ids := make([]int64, len(films))
	index := make(map[int64]*domain.Film, len(films))
	for i := range films {
		ids[i] = films[i].ID
		films[i].Genres = []domain.Genre{}
		films[i].Likes = []int64{}
		index[films[i].ID] = &films[i]
	}

	const genreQuery = `
        SELECT fg.film_id, g.id, g.name
        FROM film_genres fg
        JOIN genres g ON g.id = fg.genre_id
        WHERE fg.film_id = ANY($1)
        ORDER BY fg.film_id, g.id
    `
	genreRows, err := r.pool.Query(ctx, genreQuery, ids)
	if err != nil {
		return nil, err
	}
	defer genreRows.Close()
	for genreRows.Next() {
		var filmID int64
		var g domain.Genre
		if err := genreRows.Scan(&filmID, &g.ID, &g.Name); err != nil {
			return nil, err
		}
		if film, ok := index[filmID]; ok {
			film.Genres = append(film.Genres, g)
		}
	}
	if err := genreRows.Err(); err != nil {
		return nil, err
	}

	const likeQuery = `
        SELECT film_id, user_id FROM likes WHERE film_id = ANY($1) ORDER BY film_id, user_id
    `
	likeRows, err := r.pool.Query(ctx, likeQuery, ids)
	if err != nil {
		return nil, err
	}
	defer likeRows.Close()
	for likeRows.Next() {
		var filmID, userID int64
		if err := likeRows.Scan(&filmID, &userID); err != nil {
			return nil, err
		}
		if film, ok := index[filmID]; ok {
			film.Likes = append(film.Likes, userID)
		}
	}
	if err := likeRows.Err(); err != nil {
		return nil, err
	}

	return films, nil
}

// AddLike records that a user liked a film. Both ids must resolve, else
// ErrNotFound. A repeated add for the same pair fails with ErrDuplicateLike
// and never double-counts.
func (r *FilmsRepository) AddLike(ctx context.Context, filmID, userID int64) error {
	if err := r.checkFilmAndUser(ctx, filmID, userID); err != nil {
		return err
	}

	_, err := r.pool.Exec(ctx, `INSERT INTO likes (film_id, user_id) VALUES ($1,$2)`, filmID, userID)
	if err != nil {
		switch pgErrCode(err) {
		case pgUniqueViolation:
			return ErrDuplicateLike
		case pgForeignKeyViolation:
			// Film or user vanished between the check and the insert.
			return ErrNotFound
		}
		return fmt.Errorf("insert like: %w", err)
	}
	return nil
}

// RemoveLike deletes the like membership. Both ids must resolve, else
// ErrNotFound; removing a like that was never added is a no-op.
func (r *FilmsRepository) RemoveLike(ctx context.Context, filmID, userID int64) error {
	if err := r.checkFilmAndUser(ctx, filmID, userID); err != nil {
		return err
	}

	_, err := r.pool.Exec(ctx, `DELETE FROM likes WHERE film_id = $1 AND user_id = $2`, filmID, userID)
	if err != nil {
		return fmt.Errorf("delete like: %w", err)
	}
	return nil
}

func (r *FilmsRepository) checkFilmAndUser(ctx context.Context, filmID, userID int64) error {
	const query = `
        SELECT EXISTS (SELECT 1 FROM films WHERE id = $1),
               EXISTS (SELECT 1 FROM users WHERE id = $2)
    `
	var filmExists, userExists bool
	if err := r.pool.QueryRow(ctx, query, filmID, userID).Scan(&filmExists, &userExists); err != nil {
		return fmt.Errorf("check film/user: %w", err)
	}
	if !filmExists || !userExists {
		return ErrNotFound
	}
	return nil
}

// resolveMPA loads the referenced MPA rating, or ErrInvalidReference when the
// id is not in the catalog.
func resolveMPA(ctx context.Context, q querier, id int32) (domain.MPARating, error) {
	const query = `SELECT id, name, COALESCE(description, '') FROM mpa_ratings WHERE id = $1`
	var m domain.MPARating
	err := q.QueryRow(ctx, query, id).Scan(&m.ID, &m.Name, &m.Description)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.MPARating{}, fmt.Errorf("%w: mpa rating %d", ErrInvalidReference, id)
		}
		return domain.MPARating{}, err
	}
	return m, nil
}

// resolveGenres collapses the requested genre ids to a set and resolves each
// against the catalog. Any unknown id fails the whole call with
// ErrInvalidReference.
func resolveGenres(ctx context.Context, q querier, genres []domain.Genre) ([]domain.Genre, error) {
	ids := make([]int32, 0, len(genres))
	seen := make(map[int32]struct{}, len(genres))
	for _, g := range genres {
		if _, ok := seen[g.ID]; ok {
			continue
		}
		seen[g.ID] = struct{}{}
		ids = append(ids, g.ID)
	}
	if len(ids) == 0 {
		return []domain.Genre{}, nil
	}

	const query = `SELECT id, name FROM genres WHERE id = ANY($1) ORDER BY id`
	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	resolved := make([]domain.Genre, 0, len(ids))
	for rows.Next() {
		var g domain.Genre
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, err
		}
		resolved = append(resolved, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(resolved) != len(ids) {
		return nil, fmt.Errorf("%w: unknown genre id", ErrInvalidReference)
	}
	return resolved, nil
}

func insertFilmGenres(ctx context.Context, tx pgx.Tx, filmID int64, genres []domain.Genre) error {
	for _, g := range genres {
		if _, err := tx.Exec(ctx, `INSERT INTO film_genres (film_id, genre_id) VALUES ($1,$2)`, filmID, g.ID); err != nil {
			return fmt.Errorf("insert film genre %d: %w", g.ID, err)
		}
	}
	return nil
}

func loadGenres(ctx context.Context, q querier, filmID int64) ([]domain.Genre, error) {
	const query = `
        SELECT g.id, g.name
        FROM genres g
        JOIN film_genres fg ON g.id = fg.genre_id
        WHERE fg.film_id = $1
        ORDER BY g.id
    `
	rows, err := q.Query(ctx, query, filmID)
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

func loadLikes(ctx context.Context, q querier, filmID int64) ([]int64, error) {
	const query = `SELECT user_id FROM likes WHERE film_id = $1 ORDER BY user_id`
	rows, err := q.Query(ctx, query, filmID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	likes := make([]int64, 0)
	for rows.Next() {
		var userID int64
		if err := rows.Scan(&userID); err != nil {
			return nil, err
		}
		likes = append(likes, userID)
	}
	return likes, rows.Err()
}

func scanFilm(row pgx.Row) (domain.Film, error) {
	var (
		film        domain.Film
		releaseDate time.Time
	)
	err := row.Scan(
		&film.ID,
		&film.Name,
		&film.Description,
		&releaseDate,
		&film.Duration,
		&film.MPA.ID,
		&film.MPA.Name,
		&film.MPA.Description,
	)
	if err != nil {
		return domain.Film{}, err
	}
	film.ReleaseDate = releaseDate
	return film, nil
}
