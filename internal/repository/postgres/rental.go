package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"toolrent-bot/internal/domain"
	"toolrent-bot/internal/repository"
)

type rentalRepository struct {
	db *sql.DB
}

func NewRentalRepository(db *sql.DB) repository.RentalRepository {
	return &rentalRepository{db: db}
}

func (r *rentalRepository) Create(ctx context.Context, rt *domain.Rental) error {
	query := `INSERT INTO rentals (tool_name, rent_price, start_time, user_id, active, deposit, payment_method, delivery_type, address, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`
	now := time.Now()
	return r.db.QueryRowContext(ctx, query,
		rt.ToolName, rt.RentPrice, rt.StartTime, rt.UserID, rt.Active,
		rt.Deposit, rt.PaymentMethod, rt.DeliveryType, rt.Address, now, now,
	).Scan(&rt.ID)
}

func (r *rentalRepository) GetByID(ctx context.Context, id int64) (*domain.Rental, error) {
	rt := &domain.Rental{}
	query := `SELECT id, tool_name, rent_price, start_time, user_id, active, deposit, payment_method, delivery_type, address, created_on, updated_on
	          FROM rentals WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&rt.ID, &rt.ToolName, &rt.RentPrice, &rt.StartTime, &rt.UserID, &rt.Active,
		&rt.Deposit, &rt.PaymentMethod, &rt.DeliveryType, &rt.Address, &rt.CreatedOn, &rt.UpdatedOn,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rt, nil
}

func (r *rentalRepository) UpdateWindow(ctx context.Context, id, startTime int64) error {
	query := `UPDATE rentals SET start_time = $1, active = TRUE, updated_on = $2 WHERE id = $3`
	res, err := r.db.ExecContext(ctx, query, startTime, time.Now(), id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *rentalRepository) Close(ctx context.Context, id int64) error {
	query := `UPDATE rentals SET active = FALSE, updated_on = $1 WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, time.Now(), id)
	return err
}

func (r *rentalRepository) ListActive(ctx context.Context, userID int64) ([]domain.Rental, error) {
	query := `SELECT id, tool_name, rent_price, start_time, user_id, active, deposit, payment_method, delivery_type, address, created_on, updated_on
	          FROM rentals WHERE active = TRUE`
	args := []interface{}{}
	if userID != 0 {
		query += ` AND user_id = $1`
		args = append(args, userID)
	}
	query += ` ORDER BY id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rentals []domain.Rental
	for rows.Next() {
		var rt domain.Rental
		if err := rows.Scan(
			&rt.ID, &rt.ToolName, &rt.RentPrice, &rt.StartTime, &rt.UserID, &rt.Active,
			&rt.Deposit, &rt.PaymentMethod, &rt.DeliveryType, &rt.Address, &rt.CreatedOn, &rt.UpdatedOn,
		); err != nil {
			return nil, err
		}
		rentals = append(rentals, rt)
	}
	return rentals, rows.Err()
}
