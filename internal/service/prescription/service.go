package prescription

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
	repo         repository.PrescriptionRepository
	apptRepo     repository.AppointmentRepository
	medicineRepo repository.MedicineRepository
}

func NewService(repo repository.PrescriptionRepository, apptRepo repository.AppointmentRepository,
	medicineRepo repository.MedicineRepository) *Service {
	return &Service{repo: repo, apptRepo: apptRepo, medicineRepo: medicineRepo}
}

// Create issues a prescription against an in-progress or completed visit. The
// issuing doctor comes from the session, not the request body.
func (s *Service) Create(ctx context.Context, doctorID uuid.UUID, req *model.CreatePrescriptionRequest) (*model.Prescription, error) {
	appt, err := s.apptRepo.Get(ctx, req.AppointmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("appointment")
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	if appt.DoctorID != doctorID {
		return nil, apperrors.Forbidden("appointment belongs to another doctor")
	}
	if appt.Status != model.AppointmentStatusInProgress && appt.Status != model.AppointmentStatusCompleted {
		return nil, apperrors.Conflict("appointment has not started")
	}

	items := make([]model.PrescriptionItem, 0, len(req.Items))
	for _, item := range req.Items {
		if _, err := s.medicineRepo.Get(ctx, item.MedicineID); err != nil {
			return nil, apperrors.BadRequest("unknown medicine " + item.MedicineID.String())
		}
		items = append(items, model.PrescriptionItem{
			MedicineID:   item.MedicineID,
			Dosage:       item.Dosage,
			Frequency:    item.Frequency,
			DurationDays: item.DurationDays,
			Quantity:     item.Quantity,
		})
	}

	prescription := &model.Prescription{
		AppointmentID: req.AppointmentID,
		PatientID:     appt.PatientID,
		DoctorID:      doctorID,
		Diagnosis:     req.Diagnosis,
		Notes:         req.Notes,
		Items:         items,
	}
	if err := s.repo.Create(ctx, prescription); err != nil {
		return nil, fmt.Errorf("failed to create prescription: %w", err)
	}
	return prescription, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Prescription, error) {
	prescription, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("prescription")
		}
		return nil, fmt.Errorf("failed to get prescription: %w", err)
	}
	return prescription, nil
}

func (s *Service) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Prescription, error) {
	prescriptions, err := s.repo.ListForPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list prescriptions: %w", err)
	}
	return prescriptions, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("prescription")
		}
		return fmt.Errorf("failed to delete prescription: %w", err)
	}
	return nil
}
