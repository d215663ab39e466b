package postgres_test

import (
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func rentalRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "tool_name", "rent_price", "start_time", "user_id", "active",
		"deposit", "payment_method", "delivery_type", "address", "created_on", "updated_on",
	})
}

func now() time.Time {
	return time.Now()
}
