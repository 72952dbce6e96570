package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medicore/portal-api/internal/model"
	"github.com/medicore/portal-api/internal/repository"
	apperrors "github.com/medicore/portal-api/pkg/errors"
)

type Service struct {
	repo       repository.ScheduleRepository
	doctorRepo repository.DoctorRepository
}

func NewService(repo repository.ScheduleRepository, doctorRepo repository.DoctorRepository) *Service {
	return &Service{repo: repo, doctorRepo: doctorRepo}
}

func (s *Service) Create(ctx context.Context, req *model.CreateScheduleRequest) (*model.Schedule, error) {
	if _, err := s.doctorRepo.Get(ctx, req.DoctorID); err != nil {
		return nil, apperrors.NotFound("doctor")
	}

	workDate, err := time.ParseInLocation(model.DateLayout, req.WorkDate, time.Local)
	if err != nil {
		return nil, apperrors.BadRequest("invalid work date, expected YYYY-MM-DD")
	}

	start, err := time.Parse(model.TimeOfDayLayout, req.StartTime)
	if err != nil {
		return nil, apperrors.BadRequest("invalid start time, expected HH:MM:SS")
	}
	end, err := time.Parse(model.TimeOfDayLayout, req.EndTime)
	if err != nil {
		return nil, apperrors.BadRequest("invalid end time, expected HH:MM:SS")
	}
	if !end.After(start) {
		return nil, apperrors.BadRequest("end time must be after start time")
	}

	// One schedule per doctor, date and shift keeps slot resolution unambiguous.
	if _, err := s.repo.FindForSlot(ctx, req.DoctorID, workDate, req.Shift); err == nil {
		return nil, apperrors.Conflict("doctor already has a schedule for this shift")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing schedule: %w", err)
	}

	schedule := &model.Schedule{
		DoctorID:  req.DoctorID,
		WorkDate:  workDate,
		Shift:     req.Shift,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Room:      req.Room,
		Building:  req.Building,
		Floor:     req.Floor,
	}
	if err := s.repo.Create(ctx, schedule); err != nil {
		return nil, fmt.Errorf("failed to create schedule: %w", err)
	}
	return schedule, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Schedule, error) {
	schedule, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("schedule")
		}
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}
	return schedule, nil
}

func (s *Service) List(ctx context.Context, filters *model.ScheduleFilters) ([]*model.Schedule, error) {
	schedules, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	return schedules, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("schedule")
		}
		return fmt.Errorf("failed to delete schedule: %w", err)
	}
	return nil
}
