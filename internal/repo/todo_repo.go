package repo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	dom "github.com/Gokul-Webzenith/maestro-done/internal/domain"
)

// TodoRepo provides todo persistence. Every method is scoped to a user so a
// row that exists but belongs to someone else behaves exactly like a missing
// row (pgx.ErrNoRows), never like a silent no-op.
type TodoRepo interface {
	Create(ctx context.Context, t dom.Todo) (dom.Todo, error)
	GetByID(ctx context.Context, userID, id int64) (dom.Todo, error)
	List(ctx context.Context, userID int64) ([]dom.Todo, error)
	Update(ctx context.Context, t dom.Todo) (dom.Todo, error)
	Delete(ctx context.Context, userID, id int64) error
}

type PGTodoRepo struct {
	db *pgxpool.Pool
}

func NewPGTodoRepo(db *pgxpool.Pool) *PGTodoRepo {
	return &PGTodoRepo{db: db}
}

const todoColumns = `id, user_id, text, description, status, start_at, end_at, created_at, updated_at`

func (r *PGTodoRepo) Create(ctx context.Context, t dom.Todo) (dom.Todo, error) {
	query := `
		INSERT INTO todos (user_id, text, description, status, start_at, end_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + todoColumns
	var out dom.Todo
	err := r.db.QueryRow(ctx, query, t.UserID, t.Text, t.Description, t.Status, t.StartAt, t.EndAt).Scan(
		&out.ID, &out.UserID, &out.Text, &out.Description, &out.Status,
		&out.StartAt, &out.EndAt, &out.CreatedAt, &out.UpdatedAt,
	)
	return out, err
}

func (r *PGTodoRepo) GetByID(ctx context.Context, userID, id int64) (dom.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE id = $1 AND user_id = $2`
	var t dom.Todo
	err := r.db.QueryRow(ctx, query, id, userID).Scan(
		&t.ID, &t.UserID, &t.Text, &t.Description, &t.Status,
		&t.StartAt, &t.EndAt, &t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}

// List returns the user's todos in insertion order (serial PK ascending).
func (r *PGTodoRepo) List(ctx context.Context, userID int64) ([]dom.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE user_id = $1 ORDER BY id ASC`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.Todo
	for rows.Next() {
		var t dom.Todo
		if err := rows.Scan(&t.ID, &t.UserID, &t.Text, &t.Description, &t.Status,
			&t.StartAt, &t.EndAt, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func (r *PGTodoRepo) Update(ctx context.Context, t dom.Todo) (dom.Todo, error) {
	query := `
		UPDATE todos
		SET text = $3, description = $4, status = $5, start_at = $6, end_at = $7, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + todoColumns
	var out dom.Todo
	err := r.db.QueryRow(ctx, query, t.ID, t.UserID, t.Text, t.Description, t.Status, t.StartAt, t.EndAt).Scan(
		&out.ID, &out.UserID, &out.Text, &out.Description, &out.Status,
		&out.StartAt, &out.EndAt, &out.CreatedAt, &out.UpdatedAt,
	)
	return out, err
}

// Delete removes the row permanently. No soft delete: a deleted todo is gone.
func (r *PGTodoRepo) Delete(ctx context.Context, userID, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM todos WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
