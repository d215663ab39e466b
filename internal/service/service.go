package service

import (
	"context"
	"io"

	"toolrent-bot/internal/domain"
)

// CreateRentalInput carries everything the conversation flow collects before
// a checkout. RentPrice 0 means "look the price up in the catalog".
type CreateRentalInput struct {
	ToolName      string
	RentPrice     int64
	UserID        int64
	Deposit       int64
	PaymentMethod domain.PaymentMethod
	DeliveryType  domain.DeliveryType
	Address       string
}

type RentalService interface {
	// Create checks the tool out: start_time = now, active = true, today's
	// revenue accrued, expiration job scheduled.
	Create(ctx context.Context, in CreateRentalInput) (*domain.Rental, error)
	// Renew advances the billing window. Renewing before the deadline adds
	// 24h to it; renewing after expiry restarts a fresh 24h window from
	// now. Always reactivates, accrues today's revenue and replaces the
	// pending expiration job.
	Renew(ctx context.Context, id int64) (*domain.Rental, error)
	// Close marks the tool returned and cancels its expiration job.
	// Idempotent.
	Close(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*domain.Rental, error)
	// ListActive returns active rentals, newest first. userID 0 means all.
	ListActive(ctx context.Context, userID int64) ([]domain.Rental, error)
}

type LedgerService interface {
	Accrue(ctx context.Context, date string, rentalID, amount int64) error
	SumForDate(ctx context.Context, date string, userID int64) (int64, error)
}

type CatalogService interface {
	SetPrice(ctx context.Context, name string, price int64) (*domain.Tool, error)
	GetByID(ctx context.Context, id int64) (*domain.Tool, error)
	GetByName(ctx context.Context, name string) (*domain.Tool, error)
	List(ctx context.Context, limit int) ([]domain.Tool, error)
	Rename(ctx context.Context, id int64, name string) error
	Reprice(ctx context.Context, id, price int64) error
	Delete(ctx context.Context, id int64) error
	// ImportCSV upserts two-column (name, price) rows. Malformed rows are
	// skipped; the count of imported rows is returned.
	ImportCSV(ctx context.Context, r io.Reader) (int, error)
}

type ReportService interface {
	// BuildForOwner renders one operator's report for the date: active
	// rental lines plus the day's revenue sum.
	BuildForOwner(ctx context.Context, date string, userID int64) (string, error)
	// BuildAdminSummary renders the global revenue total for the date.
	BuildAdminSummary(ctx context.Context, date string) (string, error)
	// ActiveOwners lists the operators that currently hold active rentals.
	ActiveOwners(ctx context.Context) ([]int64, error)
}

// EmailService mirrors the admin daily summary by email. Implementations may
// be no-ops when email is not configured.
type EmailService interface {
	SendAdminSummary(ctx context.Context, subject, body string) error
}

// ExpirationScheduler is the slice of the timer engine the rental service
// needs: replace-or-create a job on create/renew, drop it on close.
type ExpirationScheduler interface {
	Schedule(r *domain.Rental)
	Cancel(rentalID int64)
}
