package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClock_Dates(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Fatalf("error loading location: %v", err)
	}

	// 2024-01-01 23:30 UTC is already 2024-01-02 08:30 in Tokyo
	at := time.Date(2024, 1, 1, 23, 30, 0, 0, time.UTC)
	clk := NewFixed(loc, at)

	assert.Equal(t, "2024-01-02", clk.Today())
	assert.Equal(t, "2024-01-01", clk.Yesterday())
}

func TestClock_DateOf(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Moscow")
	if err != nil {
		t.Fatalf("error loading location: %v", err)
	}
	clk := New(loc)

	// 2024-06-30 22:00 UTC is 2024-07-01 01:00 in Moscow
	ts := time.Date(2024, 6, 30, 22, 0, 0, 0, time.UTC).Unix()
	assert.Equal(t, "2024-07-01", clk.DateOf(ts))
}

func TestValidDate(t *testing.T) {
	assert.True(t, ValidDate("2024-01-01"))
	assert.False(t, ValidDate("2024-1-1"))
	assert.False(t, ValidDate("01-01-2024"))
	assert.False(t, ValidDate("2024-13-01"))
	assert.False(t, ValidDate("not a date"))
}
