package doctor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/medicore/portal-api/internal/model"
	"github.com/medicore/portal-api/internal/repository"
	apperrors "github.com/medicore/portal-api/pkg/errors"
)

const (
	cacheTTL     = 5 * time.Minute
	cacheCleanup = 10 * time.Minute
)

// Service serves the doctor directory. Unfiltered first-page listings are the
// hottest read in the system, so they go through an in-process cache that is
// flushed on every write.
type Service struct {
	repo     repository.DoctorRepository
	deptRepo repository.DepartmentRepository
	cache    *gocache.Cache
}

func NewService(repo repository.DoctorRepository, deptRepo repository.DepartmentRepository) *Service {
	return &Service{
		repo:     repo,
		deptRepo: deptRepo,
		cache:    gocache.New(cacheTTL, cacheCleanup),
	}
}

func (s *Service) Create(ctx context.Context, req *model.CreateDoctorRequest) (*model.Doctor, error) {
	if _, err := s.deptRepo.Get(ctx, req.DepartmentID); err != nil {
		return nil, apperrors.NotFound("department")
	}

	doctor := &model.Doctor{
		UserID:         req.UserID,
		DepartmentID:   req.DepartmentID,
		FullName:       req.FullName,
		Specialization: req.Specialization,
		Type:           req.Type,
		Price:          req.Price,
		AvatarURL:      req.AvatarURL,
		Phone:          req.Phone,
	}
	if err := s.repo.Create(ctx, doctor); err != nil {
		return nil, fmt.Errorf("failed to create doctor: %w", err)
	}

	s.cache.Flush()
	return doctor, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	doctor, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("doctor")
		}
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	return doctor, nil
}

func (s *Service) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Doctor, error) {
	doctor, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("doctor")
		}
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	return doctor, nil
}

type listResult struct {
	doctors []*model.Doctor
	total   int
}

func (s *Service) List(ctx context.Context, filters *model.DoctorFilters, page *model.Pagination) ([]*model.Doctor, int, error) {
	key, cacheable := listCacheKey(filters, page)
	if cacheable {
		if hit, ok := s.cache.Get(key); ok {
			res := hit.(listResult)
			return res.doctors, res.total, nil
		}
	}

	doctors, total, err := s.repo.List(ctx, filters, page)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list doctors: %w", err)
	}

	if cacheable {
		s.cache.Set(key, listResult{doctors: doctors, total: total}, gocache.DefaultExpiration)
	}
	return doctors, total, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateDoctorRequest) (*model.Doctor, error) {
	doctor, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		doctor.FullName = *req.FullName
	}
	if req.Specialization != nil {
		doctor.Specialization = *req.Specialization
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			return nil, apperrors.BadRequest("price must be positive")
		}
		doctor.Price = *req.Price
	}
	if req.AvatarURL != nil {
		doctor.AvatarURL = *req.AvatarURL
	}
	if req.Phone != nil {
		doctor.Phone = *req.Phone
	}

	if err := s.repo.Update(ctx, doctor); err != nil {
		return nil, fmt.Errorf("failed to update doctor: %w", err)
	}

	s.cache.Flush()
	return doctor, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("doctor")
		}
		return fmt.Errorf("failed to delete doctor: %w", err)
	}
	s.cache.Flush()
	return nil
}

// listCacheKey returns a cache key for the listing, or cacheable=false for
// filtered or searched listings which vary too much to be worth caching.
func listCacheKey(filters *model.DoctorFilters, page *model.Pagination) (string, bool) {
	if filters != nil && (filters.DepartmentID != uuid.Nil || filters.Specialization != "" || filters.SearchTerm != "") {
		return "", false
	}
	if page == nil {
		return "doctors:all", true
	}
	return fmt.Sprintf("doctors:%d:%d", page.Page, page.PageSize), true
}
