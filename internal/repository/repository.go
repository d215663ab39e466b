package repository

import (
	"context"

	"toolrent-bot/internal/domain"
)

type RentalRepository interface {
	Create(ctx context.Context, rental *domain.Rental) error
	GetByID(ctx context.Context, id int64) (*domain.Rental, error)
	// UpdateWindow moves the billing window anchor and forces the rental
	// active. Returns domain.ErrNotFound for an unknown id.
	UpdateWindow(ctx context.Context, id, startTime int64) error
	// Close marks the rental returned. Idempotent.
	Close(ctx context.Context, id int64) error
	// ListActive returns active rentals, most recently created first.
	// userID 0 means all operators.
	ListActive(ctx context.Context, userID int64) ([]domain.Rental, error)
}

type RevenueRepository interface {
	// Accrue inserts one revenue entry keyed by (date, rental id). A
	// duplicate key is silently ignored.
	Accrue(ctx context.Context, entry *domain.RevenueEntry) error
	// SumForDate aggregates revenue for one calendar date. userID 0 means
	// all operators; otherwise entries are scoped through rentals.user_id.
	SumForDate(ctx context.Context, date string, userID int64) (int64, error)
}

type ToolRepository interface {
	Upsert(ctx context.Context, tool *domain.Tool) error
	GetByID(ctx context.Context, id int64) (*domain.Tool, error)
	GetByName(ctx context.Context, name string) (*domain.Tool, error)
	List(ctx context.Context, limit int) ([]domain.Tool, error)
	Rename(ctx context.Context, id int64, name string) error
	SetPrice(ctx context.Context, id, price int64) error
	Delete(ctx context.Context, id int64) error
}

// Admin groups destructive maintenance operations.
type Admin interface {
	// ResetAll wipes rentals, revenues and the catalog, restarting
	// identity sequences. Administrative testing only.
	ResetAll(ctx context.Context) error
}
