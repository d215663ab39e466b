package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"toolrent-bot/internal/domain"
	"toolrent-bot/internal/service"
)

func TestReportService_BuildForOwner(t *testing.T) {
	ctx := context.Background()

	t.Run("WithActiveRentals", func(t *testing.T) {
		rentalRepo := new(MockRentalRepository)
		revenueRepo := new(MockRevenueRepository)
		svc := service.NewReportService(rentalRepo, revenueRepo)

		rentalRepo.On("ListActive", ctx, int64(42)).Return([]domain.Rental{
			{ID: 2, ToolName: "saw", RentPrice: 700, UserID: 42},
			{ID: 1, ToolName: "drill", RentPrice: 500, UserID: 42},
		}, nil)
		revenueRepo.On("SumForDate", ctx, "2024-01-15", int64(42)).Return(int64(1200), nil)

		report, err := svc.BuildForOwner(ctx, "2024-01-15", 42)
		assert.NoError(t, err)
		assert.Contains(t, report, "saw — 700")
		assert.Contains(t, report, "drill — 500")
		assert.Contains(t, report, "2024-01-15")
		assert.Contains(t, report, "1200")
	})

	t.Run("NoActiveRentals", func(t *testing.T) {
		rentalRepo := new(MockRentalRepository)
		revenueRepo := new(MockRevenueRepository)
		svc := service.NewReportService(rentalRepo, revenueRepo)

		rentalRepo.On("ListActive", ctx, int64(42)).Return([]domain.Rental{}, nil)
		revenueRepo.On("SumForDate", ctx, "2024-01-15", int64(42)).Return(int64(0), nil)

		report, err := svc.BuildForOwner(ctx, "2024-01-15", 42)
		assert.NoError(t, err)
		assert.Contains(t, report, "No active rentals")
		assert.Contains(t, report, "Revenue for the day: 0")
	})

	t.Run("RejectsBadDate", func(t *testing.T) {
		svc := service.NewReportService(new(MockRentalRepository), new(MockRevenueRepository))
		_, err := svc.BuildForOwner(ctx, "15.01.2024", 42)
		assert.Error(t, err)
	})
}

func TestReportService_BuildAdminSummary(t *testing.T) {
	ctx := context.Background()
	revenueRepo := new(MockRevenueRepository)
	svc := service.NewReportService(new(MockRentalRepository), revenueRepo)

	revenueRepo.On("SumForDate", ctx, "2024-01-15", int64(0)).Return(int64(4200), nil)

	summary, err := svc.BuildAdminSummary(ctx, "2024-01-15")
	assert.NoError(t, err)
	assert.Contains(t, summary, "4200")
	assert.Contains(t, summary, "2024-01-15")
}

func TestReportService_ActiveOwners(t *testing.T) {
	ctx := context.Background()
	rentalRepo := new(MockRentalRepository)
	svc := service.NewReportService(rentalRepo, new(MockRevenueRepository))

	rentalRepo.On("ListActive", ctx, int64(0)).Return([]domain.Rental{
		{ID: 3, UserID: 42},
		{ID: 2, UserID: 99},
		{ID: 1, UserID: 42},
	}, nil)

	owners, err := svc.ActiveOwners(ctx)
	assert.NoError(t, err)
	assert.Equal(t, []int64{42, 99}, owners)
}
