package postgres

import (
	"context"
	"database/sql"

	"toolrent-bot/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.RentalRepository
	repository.RevenueRepository
	repository.ToolRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                db,
		RentalRepository:  NewRentalRepository(db),
		RevenueRepository: NewRevenueRepository(db),
		ToolRepository:    NewToolRepository(db),
	}
}

const schema = `
CREATE TABLE IF NOT EXISTS rentals (
	id BIGSERIAL PRIMARY KEY,
	tool_name TEXT NOT NULL,
	rent_price BIGINT NOT NULL,
	start_time BIGINT NOT NULL,
	user_id BIGINT NOT NULL,
	active BOOLEAN NOT NULL DEFAULT TRUE,
	deposit BIGINT NOT NULL DEFAULT 0,
	payment_method TEXT NOT NULL DEFAULT 'cash',
	delivery_type TEXT NOT NULL DEFAULT 'pickup',
	address TEXT NOT NULL DEFAULT '',
	created_on TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_on TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_rentals_active ON rentals(active);

CREATE TABLE IF NOT EXISTS revenues (
	id BIGSERIAL PRIMARY KEY,
	date TEXT NOT NULL,
	rental_id BIGINT NOT NULL,
	amount BIGINT NOT NULL,
	created_at BIGINT NOT NULL,
	UNIQUE(date, rental_id)
);

CREATE TABLE IF NOT EXISTS tools (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	price BIGINT NOT NULL
);
`

// InitSchema creates the tables if they do not exist yet.
func (s *Store) InitSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// ResetAll wipes rentals, revenues and the catalog and restarts the identity
// sequences. Administrative testing only.
func (s *Store) ResetAll(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `TRUNCATE rentals, revenues, tools RESTART IDENTITY`)
	return err
}

// Ping verifies the database connection, used by the health endpoint.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
