package medicine

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/medicore/portal-api/internal/model"
	"github.com/medicore/portal-api/internal/repository"
	apperrors "github.com/medicore/portal-api/pkg/errors"
)

type Service struct {
	repo repository.MedicineRepository
}

func NewService(repo repository.MedicineRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, req *model.CreateMedicineRequest) (*model.Medicine, error) {
	medicine := &model.Medicine{
		Name:         req.Name,
		Manufacturer: req.Manufacturer,
		Unit:         req.Unit,
		Price:        req.Price,
		Stock:        req.Stock,
	}
	if err := s.repo.Create(ctx, medicine); err != nil {
		return nil, fmt.Errorf("failed to create medicine: %w", err)
	}
	return medicine, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Medicine, error) {
	medicine, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("medicine")
		}
		return nil, fmt.Errorf("failed to get medicine: %w", err)
	}
	return medicine, nil
}

func (s *Service) List(ctx context.Context, filters *model.MedicineFilters, page *model.Pagination) ([]*model.Medicine, int, error) {
	medicines, total, err := s.repo.List(ctx, filters, page)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list medicines: %w", err)
	}
	return medicines, total, nil
}

func (s *Service) Update(ctx context.Context, medicine *model.Medicine) error {
	if err := s.repo.Update(ctx, medicine); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("medicine")
		}
		return fmt.Errorf("failed to update medicine: %w", err)
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("medicine")
		}
		return fmt.Errorf("failed to delete medicine: %w", err)
	}
	return nil
}
