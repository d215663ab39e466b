package postgres

import (
	"context"
	"database/sql"

	"toolrent-bot/internal/domain"
	"toolrent-bot/internal/repository"
)

type revenueRepository struct {
	db *sql.DB
}

func NewRevenueRepository(db *sql.DB) repository.RevenueRepository {
	return &revenueRepository{db: db}
}

// Accrue is idempotent: the (date, rental_id) unique constraint makes a
// duplicate insert a no-op, which defends against repeated renew/close
// handlers firing for the same logical event.
func (r *revenueRepository) Accrue(ctx context.Context, e *domain.RevenueEntry) error {
	query := `INSERT INTO revenues (date, rental_id, amount, created_at)
	          VALUES ($1, $2, $3, $4)
	          ON CONFLICT (date, rental_id) DO NOTHING`
	_, err := r.db.ExecContext(ctx, query, e.Date, e.RentalID, e.Amount, e.CreatedAt)
	return err
}

func (r *revenueRepository) SumForDate(ctx context.Context, date string, userID int64) (int64, error) {
	var sum int64
	if userID == 0 {
		query := `SELECT COALESCE(SUM(amount), 0) FROM revenues WHERE date = $1`
		err := r.db.QueryRowContext(ctx, query, date).Scan(&sum)
		return sum, err
	}
	query := `SELECT COALESCE(SUM(rv.amount), 0)
	          FROM revenues rv
	          JOIN rentals rt ON rt.id = rv.rental_id
	          WHERE rv.date = $1 AND rt.user_id = $2`
	err := r.db.QueryRowContext(ctx, query, date, userID).Scan(&sum)
	return sum, err
}
