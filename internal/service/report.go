package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"toolrent-bot/internal/clock"
	"toolrent-bot/internal/repository"
)

type reportService struct {
	rentalRepo  repository.RentalRepository
	revenueRepo repository.RevenueRepository
}

func NewReportService(rentalRepo repository.RentalRepository, revenueRepo repository.RevenueRepository) ReportService {
	return &reportService{rentalRepo: rentalRepo, revenueRepo: revenueRepo}
}

func (s *reportService) BuildForOwner(ctx context.Context, date string, userID int64) (string, error) {
	if !clock.ValidDate(date) {
		return "", errors.New("date must be YYYY-MM-DD")
	}
	rentals, err := s.rentalRepo.ListActive(ctx, userID)
	if err != nil {
		return "", err
	}
	revenue, err := s.revenueRepo.SumForDate(ctx, date, userID)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	if len(rentals) == 0 {
		b.WriteString("📊 Daily report:\n✅ No active rentals.")
	} else {
		b.WriteString("📊 Daily report:")
		for _, r := range rentals {
			fmt.Fprintf(&b, "\n- %s — %d", r.ToolName, r.RentPrice)
		}
	}
	fmt.Fprintf(&b, "\n📅 Date: %s\n💵 Revenue for the day: %d", date, revenue)
	return b.String(), nil
}

func (s *reportService) BuildAdminSummary(ctx context.Context, date string) (string, error) {
	if !clock.ValidDate(date) {
		return "", errors.New("date must be YYYY-MM-DD")
	}
	total, err := s.revenueRepo.SumForDate(ctx, date, 0)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("📢 Admin report\n📅 %s\n💵 Total revenue: %d", date, total), nil
}

// ActiveOwners returns the distinct operators holding active rentals, the
// recipient set for the nightly report.
func (s *reportService) ActiveOwners(ctx context.Context) ([]int64, error) {
	rentals, err := s.rentalRepo.ListActive(ctx, 0)
	if err != nil {
		return nil, err
	}
	seen := make(map[int64]bool)
	var owners []int64
	for _, r := range rentals {
		if !seen[r.UserID] {
			seen[r.UserID] = true
			owners = append(owners, r.UserID)
		}
	}
	return owners, nil
}
