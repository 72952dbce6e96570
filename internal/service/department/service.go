package department

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
	repo repository.DepartmentRepository
}

func NewService(repo repository.DepartmentRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, req *model.CreateDepartmentRequest) (*model.Department, error) {
	department := &model.Department{
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.repo.Create(ctx, department); err != nil {
		return nil, fmt.Errorf("failed to create department: %w", err)
	}
	return department, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Department, error) {
	department, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("department")
		}
		return nil, fmt.Errorf("failed to get department: %w", err)
	}
	return department, nil
}

func (s *Service) List(ctx context.Context) ([]*model.Department, error) {
	departments, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	return departments, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("department")
		}
		return fmt.Errorf("failed to delete department: %w", err)
	}
	return nil
}
