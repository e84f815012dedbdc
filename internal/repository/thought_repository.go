package repository

import (
	"context"
	"database/sql"
	"time"
)

// Thought mirrors the 'thoughts' table. JSON tags match the public API
// shape, so handlers can return rows directly inside the response
// envelope.
type Thought struct {
	ID        uint64    `json:"id"`
	Message   string    `json:"message"`
	Hearts    uint64    `json:"hearts"`
	CreatedAt time.Time `json:"createdAt"`
	UserID    uint64    `json:"userId"`
}

// ThoughtRepo manages persistence for thoughts.
type ThoughtRepo struct{ db *sql.DB }

func NewThoughtRepo(db *sql.DB) *ThoughtRepo { return &ThoughtRepo{db: db} }

const thoughtColumns = "id, message, hearts, created_at, user_id"

func scanThought(row *sql.Row) (Thought, error) {
	var t Thought
	err := row.Scan(&t.ID, &t.Message, &t.Hearts, &t.CreatedAt, &t.UserID)
	return t, err
}

// List returns at most q.Limit thoughts matching the filter, in the
// requested order. An empty result is not an error.
func (r *ThoughtRepo) List(ctx context.Context, q ThoughtQuery) ([]Thought, error) {
	cond := "1=1"
	args := []any{}
	if q.MinHearts != nil {
		cond = "hearts >= ?"
		args = append(args, *q.MinHearts)
	}

	dir := "ASC"
	if q.Desc {
		dir = "DESC"
	}
	// SortColumn is whitelisted by BuildThoughtQuery; id breaks ties so
	// ordering is stable across requests.
	query := "SELECT " + thoughtColumns + " FROM thoughts WHERE " + cond +
		" ORDER BY " + q.SortColumn + " " + dir + ", id " + dir + " LIMIT ?"
	args = append(args, q.Limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Thought, 0, q.Limit)
	for rows.Next() {
		var t Thought
		if err := rows.Scan(&t.ID, &t.Message, &t.Hearts, &t.CreatedAt, &t.UserID); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// GetByID fetches a single thought. Returns sql.ErrNoRows when absent.
func (r *ThoughtRepo) GetByID(ctx context.Context, id uint64) (Thought, error) {
	return scanThought(r.db.QueryRowContext(ctx,
		"SELECT "+thoughtColumns+" FROM thoughts WHERE id=? LIMIT 1", id))
}

// Create inserts a new thought with zero hearts and a server-side
// creation timestamp, then returns the stored row.
func (r *ThoughtRepo) Create(ctx context.Context, userID uint64, message string) (Thought, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO thoughts (message, user_id) VALUES (?,?)", message, userID)
	if err != nil {
		return Thought{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Thought{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// Like increments the heart counter by exactly one as a single store-level
// update, so concurrent likes on the same thought never lose increments.
// The updated row is returned.
func (r *ThoughtRepo) Like(ctx context.Context, id uint64) (Thought, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE thoughts SET hearts = hearts + 1 WHERE id=?", id)
	if err != nil {
		return Thought{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Thought{}, err
	}
	if n == 0 {
		return Thought{}, sql.ErrNoRows
	}
	return r.GetByID(ctx, id)
}

// authorizeOwner is the single ownership predicate shared by UpdateMessage
// and Delete: the caller may mutate a thought only when they created it.
func authorizeOwner(owner, caller uint64) error {
	if owner != caller {
		return ErrForbidden
	}
	return nil
}

// ownerOf returns the owning user of a thought, or sql.ErrNoRows.
func (r *ThoughtRepo) ownerOf(ctx context.Context, id uint64) (uint64, error) {
	var owner uint64
	err := r.db.QueryRowContext(ctx,
		"SELECT user_id FROM thoughts WHERE id=? LIMIT 1", id).Scan(&owner)
	return owner, err
}

// UpdateMessage replaces a thought's message on behalf of callerID.
// Returns sql.ErrNoRows when the thought is absent and ErrForbidden when
// the caller is not the owner. The UPDATE itself is scoped to the owner
// as well, so the statement can never touch a row the fetch did not
// authorize.
func (r *ThoughtRepo) UpdateMessage(ctx context.Context, id, callerID uint64, message string) (Thought, error) {
	owner, err := r.ownerOf(ctx, id)
	if err != nil {
		return Thought{}, err
	}
	if err := authorizeOwner(owner, callerID); err != nil {
		return Thought{}, err
	}
	if _, err := r.db.ExecContext(ctx,
		"UPDATE thoughts SET message=? WHERE id=? AND user_id=?", message, id, callerID); err != nil {
		return Thought{}, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes a thought on behalf of callerID and returns the deleted
// row. Hard delete: the record is unrecoverable. Same failure modes as
// UpdateMessage. The DELETE is scoped to both id and owner, so a row
// that changed or vanished between the fetch and the delete is left
// alone and reported as missing.
func (r *ThoughtRepo) Delete(ctx context.Context, id, callerID uint64) (Thought, error) {
	t, err := r.GetByID(ctx, id)
	if err != nil {
		return Thought{}, err
	}
	if err := authorizeOwner(t.UserID, callerID); err != nil {
		return Thought{}, err
	}
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM thoughts WHERE id=? AND user_id=?", id, callerID)
	if err != nil {
		return Thought{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Thought{}, err
	}
	if n == 0 {
		return Thought{}, sql.ErrNoRows
	}
	return t, nil
}
