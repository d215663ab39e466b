package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"toolrent-bot/internal/clock"
	"toolrent-bot/internal/domain"
	"toolrent-bot/internal/logger"
	"toolrent-bot/internal/repository"
)

type rentalService struct {
	rentalRepo  repository.RentalRepository
	revenueRepo repository.RevenueRepository
	toolRepo    repository.ToolRepository
	sched       ExpirationScheduler
	clk         *clock.Clock
}

func NewRentalService(
	rentalRepo repository.RentalRepository,
	revenueRepo repository.RevenueRepository,
	toolRepo repository.ToolRepository,
	sched ExpirationScheduler,
	clk *clock.Clock,
) RentalService {
	return &rentalService{
		rentalRepo:  rentalRepo,
		revenueRepo: revenueRepo,
		toolRepo:    toolRepo,
		sched:       sched,
		clk:         clk,
	}
}

func (s *rentalService) Create(ctx context.Context, in CreateRentalInput) (*domain.Rental, error) {
	in.ToolName = strings.TrimSpace(in.ToolName)
	if in.ToolName == "" {
		return nil, errors.New("tool name must not be empty")
	}
	if in.RentPrice == 0 {
		tool, err := s.toolRepo.GetByName(ctx, in.ToolName)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("no catalog price for %q, specify one explicitly", in.ToolName)
			}
			return nil, err
		}
		in.RentPrice = tool.Price
	}
	if in.RentPrice <= 0 {
		return nil, errors.New("rent price must be positive")
	}
	if in.Deposit < 0 {
		return nil, errors.New("deposit must not be negative")
	}
	if in.PaymentMethod == "" {
		in.PaymentMethod = domain.PaymentCash
	}
	if in.DeliveryType == "" {
		in.DeliveryType = domain.DeliveryPickup
	}
	if in.DeliveryType == domain.DeliveryCourier && strings.TrimSpace(in.Address) == "" {
		return nil, errors.New("delivery address is required")
	}

	now := s.clk.Now()
	rental := &domain.Rental{
		ToolName:      in.ToolName,
		RentPrice:     in.RentPrice,
		StartTime:     now.Unix(),
		UserID:        in.UserID,
		Active:        true,
		Deposit:       in.Deposit,
		PaymentMethod: in.PaymentMethod,
		DeliveryType:  in.DeliveryType,
		Address:       in.Address,
	}
	if err := s.rentalRepo.Create(ctx, rental); err != nil {
		return nil, err
	}
	logger.Info("Rental created", "rental_id", rental.ID, "tool", rental.ToolName, "price", rental.RentPrice, "user_id", rental.UserID)

	// Accrual and scheduling are independent follow-ups, not one atomic
	// unit with the insert. A crash between them leaves the rental created
	// without revenue or timer, which the ledger dedup and the startup
	// rescan absorb.
	if err := s.accrueToday(ctx, rental); err != nil {
		return rental, err
	}
	s.sched.Schedule(rental)
	return rental, nil
}

func (s *rentalService) Renew(ctx context.Context, id int64) (*domain.Rental, error) {
	rental, err := s.rentalRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	newStart := rental.NextStart(s.clk.Now())
	if err := s.rentalRepo.UpdateWindow(ctx, id, newStart); err != nil {
		return nil, err
	}
	rental.StartTime = newStart
	rental.Active = true
	logger.Info("Rental renewed", "rental_id", id, "new_deadline", rental.Deadline().Format("2006-01-02 15:04"))

	if err := s.accrueToday(ctx, rental); err != nil {
		return rental, err
	}
	s.sched.Schedule(rental)
	return rental, nil
}

func (s *rentalService) Close(ctx context.Context, id int64) error {
	if err := s.rentalRepo.Close(ctx, id); err != nil {
		return err
	}
	s.sched.Cancel(id)
	logger.Info("Rental closed", "rental_id", id)
	return nil
}

func (s *rentalService) Get(ctx context.Context, id int64) (*domain.Rental, error) {
	return s.rentalRepo.GetByID(ctx, id)
}

func (s *rentalService) ListActive(ctx context.Context, userID int64) ([]domain.Rental, error) {
	return s.rentalRepo.ListActive(ctx, userID)
}

// accrueToday books one revenue entry for the current calendar date. Revenue
// is booked at the start of each paid 24h window (create and renew); the
// (date, rental) uniqueness in the ledger absorbs duplicate handler fires.
func (s *rentalService) accrueToday(ctx context.Context, r *domain.Rental) error {
	entry := &domain.RevenueEntry{
		Date:      s.clk.Today(),
		RentalID:  r.ID,
		Amount:    r.RentPrice,
		CreatedAt: s.clk.Now().Unix(),
	}
	return s.revenueRepo.Accrue(ctx, entry)
}
