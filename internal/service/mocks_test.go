package service_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"toolrent-bot/internal/domain"
)

type MockRentalRepository struct {
	mock.Mock
}

func (m *MockRentalRepository) Create(ctx context.Context, rental *domain.Rental) error {
	args := m.Called(ctx, rental)
	return args.Error(0)
}

func (m *MockRentalRepository) GetByID(ctx context.Context, id int64) (*domain.Rental, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}

func (m *MockRentalRepository) UpdateWindow(ctx context.Context, id, startTime int64) error {
	args := m.Called(ctx, id, startTime)
	return args.Error(0)
}

func (m *MockRentalRepository) Close(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRentalRepository) ListActive(ctx context.Context, userID int64) ([]domain.Rental, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Rental), args.Error(1)
}

type MockRevenueRepository struct {
	mock.Mock
}

func (m *MockRevenueRepository) Accrue(ctx context.Context, entry *domain.RevenueEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockRevenueRepository) SumForDate(ctx context.Context, date string, userID int64) (int64, error) {
	args := m.Called(ctx, date, userID)
	return args.Get(0).(int64), args.Error(1)
}

type MockToolRepository struct {
	mock.Mock
}

func (m *MockToolRepository) Upsert(ctx context.Context, tool *domain.Tool) error {
	args := m.Called(ctx, tool)
	return args.Error(0)
}

func (m *MockToolRepository) GetByID(ctx context.Context, id int64) (*domain.Tool, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tool), args.Error(1)
}

func (m *MockToolRepository) GetByName(ctx context.Context, name string) (*domain.Tool, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tool), args.Error(1)
}

func (m *MockToolRepository) List(ctx context.Context, limit int) ([]domain.Tool, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Tool), args.Error(1)
}

func (m *MockToolRepository) Rename(ctx context.Context, id int64, name string) error {
	args := m.Called(ctx, id, name)
	return args.Error(0)
}

func (m *MockToolRepository) SetPrice(ctx context.Context, id, price int64) error {
	args := m.Called(ctx, id, price)
	return args.Error(0)
}

func (m *MockToolRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockExpirationScheduler struct {
	mock.Mock
}

func (m *MockExpirationScheduler) Schedule(r *domain.Rental) {
	m.Called(r)
}

func (m *MockExpirationScheduler) Cancel(rentalID int64) {
	m.Called(rentalID)
}
