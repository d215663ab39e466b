package service

import (
	"context"
	"errors"

	"toolrent-bot/internal/clock"
	"toolrent-bot/internal/domain"
	"toolrent-bot/internal/repository"
)

type ledgerService struct {
	revenueRepo repository.RevenueRepository
	clk         *clock.Clock
}

func NewLedgerService(revenueRepo repository.RevenueRepository, clk *clock.Clock) LedgerService {
	return &ledgerService{revenueRepo: revenueRepo, clk: clk}
}

func (s *ledgerService) Accrue(ctx context.Context, date string, rentalID, amount int64) error {
	if !clock.ValidDate(date) {
		return errors.New("date must be YYYY-MM-DD")
	}
	if amount <= 0 {
		return errors.New("amount must be positive")
	}
	entry := &domain.RevenueEntry{
		Date:      date,
		RentalID:  rentalID,
		Amount:    amount,
		CreatedAt: s.clk.Now().Unix(),
	}
	return s.revenueRepo.Accrue(ctx, entry)
}

func (s *ledgerService) SumForDate(ctx context.Context, date string, userID int64) (int64, error) {
	if !clock.ValidDate(date) {
		return 0, errors.New("date must be YYYY-MM-DD")
	}
	return s.revenueRepo.SumForDate(ctx, date, userID)
}
