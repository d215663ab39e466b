package service

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"

	"toolrent-bot/internal/domain"
	"toolrent-bot/internal/logger"
	"toolrent-bot/internal/repository"
)

type catalogService struct {
	toolRepo repository.ToolRepository
}

func NewCatalogService(toolRepo repository.ToolRepository) CatalogService {
	return &catalogService{toolRepo: toolRepo}
}

func (s *catalogService) SetPrice(ctx context.Context, name string, price int64) (*domain.Tool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("tool name must not be empty")
	}
	if price <= 0 {
		return nil, errors.New("price must be positive")
	}
	tool := &domain.Tool{Name: name, Price: price}
	if err := s.toolRepo.Upsert(ctx, tool); err != nil {
		return nil, err
	}
	return tool, nil
}

func (s *catalogService) GetByID(ctx context.Context, id int64) (*domain.Tool, error) {
	return s.toolRepo.GetByID(ctx, id)
}

func (s *catalogService) GetByName(ctx context.Context, name string) (*domain.Tool, error) {
	return s.toolRepo.GetByName(ctx, strings.TrimSpace(name))
}

func (s *catalogService) List(ctx context.Context, limit int) ([]domain.Tool, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.toolRepo.List(ctx, limit)
}

func (s *catalogService) Rename(ctx context.Context, id int64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("tool name must not be empty")
	}
	return s.toolRepo.Rename(ctx, id, name)
}

func (s *catalogService) Reprice(ctx context.Context, id, price int64) error {
	if price <= 0 {
		return errors.New("price must be positive")
	}
	return s.toolRepo.SetPrice(ctx, id, price)
}

func (s *catalogService) Delete(ctx context.Context, id int64) error {
	return s.toolRepo.Delete(ctx, id)
}

// ImportCSV reads two-column (name, price) rows and upserts each into the
// catalog. Rows with a missing name, a non-numeric or non-positive price, or
// fewer than two columns are skipped, not fatal.
func (s *catalogService) ImportCSV(ctx context.Context, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	count := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, err
		}
		if len(record) < 2 {
			logger.Warn("Skipping malformed catalog row", "row", strings.Join(record, ","))
			continue
		}
		name := strings.TrimSpace(record[0])
		price, convErr := strconv.ParseInt(strings.TrimSpace(record[1]), 10, 64)
		if name == "" || convErr != nil || price <= 0 {
			logger.Warn("Skipping malformed catalog row", "row", strings.Join(record, ","))
			continue
		}
		if err := s.toolRepo.Upsert(ctx, &domain.Tool{Name: name, Price: price}); err != nil {
			return count, err
		}
		count++
	}
	logger.Info("Catalog imported", "count", count)
	return count, nil
}
