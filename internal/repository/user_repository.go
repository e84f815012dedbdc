package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/matildaw/happy-thoughts-api/internal/utils"
)

// User mirrors the 'users' table. The password hash and access token
// never carry JSON tags; handlers build dedicated response types from
// the safe fields.
type User struct {
	ID           uint64
	Email        string
	PasswordHash string
	AccessToken  string
	CreatedAt    time.Time
}

// UserRepo manages persistence for users and their liked thoughts.
type UserRepo struct{ db *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// Create inserts a user with a bcrypt password hash and a freshly issued
// access token, and returns the stored record. The email is lower-cased
// before the uniqueness check so lookups are case-insensitive. Returns
// ErrEmailExists on a duplicate.
//
// The token is stored raw rather than hashed: login must hand back the
// same never-rotated credential issued here, which a one-way hash would
// make impossible.
func (r *UserRepo) Create(ctx context.Context, email, password string, cost int) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return User{}, err
	}
	token, err := utils.NewAccessToken()
	if err != nil {
		return User{}, err
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, access_token) VALUES (?,?,?)",
		email, hash, token)
	if err != nil {
		// 1062 = MySQL duplicate entry
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return User{}, ErrEmailExists
		}
		return User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return User{}, err
	}
	return User{ID: uint64(id), Email: email, PasswordHash: hash, AccessToken: token}, nil
}

const userColumns = "id, email, password_hash, access_token, created_at"

func (r *UserRepo) scanUser(row *sql.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.AccessToken, &u.CreatedAt)
	return u, err
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// GetByAccessToken resolves a bearer token to its user. Returns
// sql.ErrNoRows when no user holds the token.
func (r *UserRepo) GetByAccessToken(ctx context.Context, token string) (User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE access_token=? LIMIT 1", token))
}

// AddLikedThought records that a user liked a thought. The composite
// primary key gives the liked set insert-once semantics, so liking the
// same thought again is a no-op here even though the heart counter still
// increments.
func (r *UserRepo) AddLikedThought(ctx context.Context, userID, thoughtID uint64) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT IGNORE INTO user_liked_thoughts (user_id, thought_id) VALUES (?,?)",
		userID, thoughtID)
	return err
}

// ListLikedThoughts returns the thoughts a user has liked, most recently
// liked first.
func (r *UserRepo) ListLikedThoughts(ctx context.Context, userID uint64) ([]Thought, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT t.id, t.message, t.hearts, t.created_at, t.user_id
		 FROM thoughts t
		 JOIN user_liked_thoughts l ON l.thought_id = t.id
		 WHERE l.user_id = ?
		 ORDER BY l.created_at DESC, t.id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Thought{}
	for rows.Next() {
		var t Thought
		if err := rows.Scan(&t.ID, &t.Message, &t.Hearts, &t.CreatedAt, &t.UserID); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
