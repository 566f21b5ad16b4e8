package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/filmring/filmring/internal/domain"
)

// UsersRepository provides persistence for users and the friendship graph.
//
// Friendships are directed edges carrying a status. AddFriend writes the edge
// as CONFIRMED directly; the PENDING state is reserved for a future
// request/accept flow. Visibility follows the edge direction: AddFriend(a, b)
// makes b appear in a's friend list only.
type UsersRepository struct {
	pool *pgxpool.Pool
}

const userColumns = ` id, email, login, name, birthday `

// Create inserts a new user row and returns the stored entity with its
// assigned identifier. Field validation is the caller's responsibility; the
// store persists what it is given.
func (r *UsersRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	const query = `
        INSERT INTO users (email, login, name, birthday)
        VALUES ($1,$2,$3,$4)
        RETURNING id
    `
	err := r.pool.QueryRow(ctx, query, user.Email, user.Login, user.Name, user.Birthday).Scan(&user.ID)
	if err != nil {
		return domain.User{}, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

// Update fully replaces the user's fields. The id must already exist, else
// ErrNotFound.
func (r *UsersRepository) Update(ctx context.Context, user domain.User) (domain.User, error) {
	const query = `
        UPDATE users
        SET email = $2, login = $3, name = $4, birthday = $5
        WHERE id = $1
        RETURNING id
    `
	var id int64
	err := r.pool.QueryRow(ctx, query, user.ID, user.Email, user.Login, user.Name, user.Birthday).Scan(&id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// GetByID fetches a user by identifier.
func (r *UsersRepository) GetByID(ctx context.Context, id int64) (domain.User, error) {
	query := `SELECT` + userColumns + `FROM users WHERE id = $1`
	user, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

// ListAll returns every user ordered by identifier ascending.
func (r *UsersRepository) ListAll(ctx context.Context) ([]domain.User, error) {
	query := `SELECT` + userColumns + `FROM users ORDER BY id`
	return r.queryUsers(ctx, query)
}

// AddFriend establishes the directed edge user -> friend with CONFIRMED
// status. Both ids must resolve, else ErrNotFound; a self-edge fails with
// ErrConflict. Re-adding an existing friendship is a no-op.
func (r *UsersRepository) AddFriend(ctx context.Context, userID, friendID int64) error {
	if userID == friendID {
		return fmt.Errorf("%w: user cannot befriend themselves", ErrConflict)
	}
	if err := r.checkUsers(ctx, userID, friendID); err != nil {
		return err
	}

	const query = `
        INSERT INTO friendships (user_id, friend_id, status)
        VALUES ($1,$2,$3)
        ON CONFLICT (user_id, friend_id) DO UPDATE SET status = EXCLUDED.status
    `
	_, err := r.pool.Exec(ctx, query, userID, friendID, domain.FriendshipConfirmed)
	if err != nil {
		switch pgErrCode(err) {
		case pgForeignKeyViolation:
			return ErrNotFound
		case pgCheckViolation:
			return ErrConflict
		}
		return fmt.Errorf("insert friendship: %w", err)
	}
	return nil
}

// RemoveFriend deletes the asker's outbound edge only. Both ids must resolve,
// else ErrNotFound; removing a friendship that does not exist is a no-op.
func (r *UsersRepository) RemoveFriend(ctx context.Context, userID, friendID int64) error {
	if err := r.checkUsers(ctx, userID, friendID); err != nil {
		return err
	}
	_, err := r.pool.Exec(ctx, `DELETE FROM friendships WHERE user_id = $1 AND friend_id = $2`, userID, friendID)
	if err != nil {
		return fmt.Errorf("delete friendship: %w", err)
	}
	return nil
}

// ListFriends resolves the user's outbound confirmed edges to full user
// records, ordered by identifier. The join skips ids that no longer resolve,
// preserving partial results.
func (r *UsersRepository) ListFriends(ctx context.Context, userID int64) ([]domain.User, error) {
	if err := r.checkUser(ctx, userID); err != nil {
		return nil, err
	}

	const query = `
        SELECT u.id, u.email, u.login, u.name, u.birthday
        FROM users u
        JOIN friendships f ON u.id = f.friend_id
        WHERE f.user_id = $1 AND f.status = 'CONFIRMED'
        ORDER BY u.id
    `
	return r.queryUsers(ctx, query, userID)
}

// CommonFriends returns the intersection of both users' friend sets as full
// user records, ordered by identifier for determinism.
func (r *UsersRepository) CommonFriends(ctx context.Context, userID, otherID int64) ([]domain.User, error) {
	if err := r.checkUsers(ctx, userID, otherID); err != nil {
		return nil, err
	}

	const query = `
        SELECT u.id, u.email, u.login, u.name, u.birthday
        FROM users u
        JOIN friendships f1 ON u.id = f1.friend_id AND f1.status = 'CONFIRMED'
        JOIN friendships f2 ON u.id = f2.friend_id AND f2.status = 'CONFIRMED'
        WHERE f1.user_id = $1 AND f2.user_id = $2
        ORDER BY u.id
    `
	return r.queryUsers(ctx, query, userID, otherID)
}

func (r *UsersRepository) queryUsers(ctx context.Context, query string, args ...any) ([]domain.User, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *UsersRepository) checkUser(ctx context.Context, id int64) error {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("check user: %w", err)
	}
	if !exists {
		return ErrNotFound
	}
	return nil
}

func (r *UsersRepository) checkUsers(ctx context.Context, a, b int64) error {
	const query = `
        SELECT EXISTS (SELECT 1 FROM users WHERE id = $1),
               EXISTS (SELECT 1 FROM users WHERE id = $2)
    `
	var aExists, bExists bool
	if err := r.pool.QueryRow(ctx, query, a, b).Scan(&aExists, &bExists); err != nil {
		return fmt.Errorf("check users: %w", err)
	}
	if !aExists || !bExists {
		return ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (domain.User, error) {
	var (
		user     domain.User
		birthday *time.Time
	)
	err := row.Scan(&user.ID, &user.Email, &user.Login, &user.Name, &birthday)
	if err != nil {
		return domain.User{}, err
	}
	user.Birthday = birthday
	return user, nil
}
