package postgres

import (
	"context"
	"database/sql"
	"errors"

	"toolrent-bot/internal/domain"
	"toolrent-bot/internal/repository"
)

type toolRepository struct {
	db *sql.DB
}

func NewToolRepository(db *sql.DB) repository.ToolRepository {
	return &toolRepository{db: db}
}

func (r *toolRepository) Upsert(ctx context.Context, t *domain.Tool) error {
	query := `INSERT INTO tools (name, price) VALUES ($1, $2)
	          ON CONFLICT (name) DO UPDATE SET price = EXCLUDED.price
	          RETURNING id`
	return r.db.QueryRowContext(ctx, query, t.Name, t.Price).Scan(&t.ID)
}

func (r *toolRepository) GetByID(ctx context.Context, id int64) (*domain.Tool, error) {
	t := &domain.Tool{}
	query := `SELECT id, name, price FROM tools WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&t.ID, &t.Name, &t.Price)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *toolRepository) GetByName(ctx context.Context, name string) (*domain.Tool, error) {
	t := &domain.Tool{}
	query := `SELECT id, name, price FROM tools WHERE name = $1`
	err := r.db.QueryRowContext(ctx, query, name).Scan(&t.ID, &t.Name, &t.Price)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *toolRepository) List(ctx context.Context, limit int) ([]domain.Tool, error) {
	query := `SELECT id, name, price FROM tools ORDER BY name ASC LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tools []domain.Tool
	for rows.Next() {
		var t domain.Tool
		if err := rows.Scan(&t.ID, &t.Name, &t.Price); err != nil {
			return nil, err
		}
		tools = append(tools, t)
	}
	return tools, rows.Err()
}

func (r *toolRepository) Rename(ctx context.Context, id int64, name string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE tools SET name = $1 WHERE id = $2`, name, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *toolRepository) SetPrice(ctx context.Context, id, price int64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE tools SET price = $1 WHERE id = $2`, price, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *toolRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tools WHERE id = $1`, id)
	return err
}

func requireAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
