package appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medicore/portal-api/internal/email"
	"github.com/medicore/portal-api/internal/model"
	"github.com/medicore/portal-api/internal/repository"
	apperrors "github.com/medicore/portal-api/pkg/errors"
	"github.com/medicore/portal-api/pkg/metrics"
)

// SlotDuration is the fixed booking granularity.
const SlotDuration = 30 * time.Minute

// Allowed status transitions. Terminal states have no entries.
var transitions = map[model.AppointmentStatus][]model.AppointmentStatus{
	model.AppointmentStatusPending:    {model.AppointmentStatusConfirmed, model.AppointmentStatusCancelled},
	model.AppointmentStatusConfirmed:  {model.AppointmentStatusInProgress, model.AppointmentStatusCancelled, model.AppointmentStatusNoShow},
	model.AppointmentStatusInProgress: {model.AppointmentStatusCompleted},
}

type Service struct {
	repo         repository.AppointmentRepository
	scheduleRepo repository.ScheduleRepository
	patientRepo  repository.PatientRepository
	doctorRepo   repository.DoctorRepository
	userRepo     repository.UserRepository
	emailSvc     email.Service
	metrics      *metrics.Metrics
	logger       *zerolog.Logger
	now          func() time.Time
}

func NewService(repo repository.AppointmentRepository, scheduleRepo repository.ScheduleRepository,
	patientRepo repository.PatientRepository, doctorRepo repository.DoctorRepository,
	userRepo repository.UserRepository, emailSvc email.Service,
	m *metrics.Metrics, logger *zerolog.Logger) *Service {
	return &Service{
		repo:         repo,
		scheduleRepo: scheduleRepo,
		patientRepo:  patientRepo,
		doctorRepo:   doctorRepo,
		userRepo:     userRepo,
		emailSvc:     emailSvc,
		metrics:      m,
		logger:       logger,
		now:          time.Now,
	}
}

// WithClock overrides the wall clock, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// SlotEnd computes the end of a slot by adding the fixed duration, carrying
// minute overflow into the hour.
func SlotEnd(slotStart string) (string, error) {
	t, err := time.Parse(model.TimeOfDayLayout, slotStart)
	if err != nil {
		return "", fmt.Errorf("invalid slot start %q: %w", slotStart, err)
	}
	return t.Add(SlotDuration).Format(model.TimeOfDayLayout), nil
}

// PartitionSlots buckets slots by period: hour < 12 is morning, the rest
// afternoon. Unparseable starts are dropped. Both buckets are always non-nil.
func PartitionSlots(slots []model.Slot) model.SlotGroups {
	groups := model.SlotGroups{
		Morning:   []model.Slot{},
		Afternoon: []model.Slot{},
	}
	for _, slot := range slots {
		t, err := time.Parse(model.TimeOfDayLayout, slot.SlotStart)
		if err != nil {
			continue
		}
		if t.Hour() < 12 {
			groups.Morning = append(groups.Morning, slot)
		} else {
			groups.Afternoon = append(groups.Afternoon, slot)
		}
	}
	return groups
}

// ScheduleSlots returns the schedule's 30-minute slots, each tagged
// available/unavailable. A slot is unavailable when an active appointment
// holds it, or when the schedule is for today and the slot start is not
// strictly in the future. Past slots stay in the list so clients can render
// them disabled rather than have them vanish.
func (s *Service) ScheduleSlots(ctx context.Context, scheduleID uuid.UUID) ([]model.Slot, error) {
	schedule, err := s.scheduleRepo.Get(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("schedule")
		}
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}

	booked, err := s.repo.ListForSchedule(ctx, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list booked slots: %w", err)
	}
	taken := make(map[string]bool, len(booked))
	for _, apt := range booked {
		taken[apt.SlotStart] = true
	}

	start, err := time.Parse(model.TimeOfDayLayout, schedule.StartTime)
	if err != nil {
		return nil, fmt.Errorf("schedule has invalid start time %q: %w", schedule.StartTime, err)
	}
	end, err := time.Parse(model.TimeOfDayLayout, schedule.EndTime)
	if err != nil {
		return nil, fmt.Errorf("schedule has invalid end time %q: %w", schedule.EndTime, err)
	}

	now := s.now()
	sameDay := schedule.WorkDate.Format(model.DateLayout) == now.Format(model.DateLayout)

	slots := []model.Slot{}
	for t := start; t.Before(end); t = t.Add(SlotDuration) {
		slotStart := t.Format(model.TimeOfDayLayout)
		available := !taken[slotStart]

		if available && sameDay {
			startAt := combine(schedule.WorkDate, t)
			if !startAt.After(now) {
				available = false
			}
		}

		slots = append(slots, model.Slot{
			SlotStart: slotStart,
			SlotEnd:   t.Add(SlotDuration).Format(model.TimeOfDayLayout),
			Available: available,
		})
	}
	return slots, nil
}

// ResolveSlots is the availability view for a doctor and date: every slot of
// every schedule that day, bucketed into morning and afternoon. A doctor
// with no schedule yields two empty lists, not an error.
func (s *Service) ResolveSlots(ctx context.Context, doctorID uuid.UUID, date time.Time) (*model.SlotGroups, error) {
	schedules, err := s.scheduleRepo.List(ctx, &model.ScheduleFilters{
		DoctorID: doctorID,
		WorkDate: date,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}

	all := []model.Slot{}
	for _, schedule := range schedules {
		slots, err := s.ScheduleSlots(ctx, schedule.ID)
		if err != nil {
			return nil, err
		}
		all = append(all, slots...)
	}

	groups := PartitionSlots(all)
	return &groups, nil
}

// Book runs the booking preconditions and creates a pending appointment.
// Nothing is persisted when any precondition fails.
func (s *Service) Book(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	patient, err := s.patientRepo.Get(ctx, req.PatientID)
	if err != nil {
		s.metrics.BookingRejected.WithLabelValues("patient_missing").Inc()
		return nil, apperrors.NotFound("patient")
	}

	schedule, err := s.scheduleRepo.Get(ctx, req.ScheduleID)
	if err != nil {
		s.metrics.BookingRejected.WithLabelValues("schedule_missing").Inc()
		return nil, apperrors.NotFound("schedule")
	}
	if schedule.DoctorID != req.DoctorID {
		s.metrics.BookingRejected.WithLabelValues("schedule_mismatch").Inc()
		return nil, apperrors.BadRequest("schedule does not belong to the selected doctor")
	}

	if strings.TrimSpace(req.SlotStart) == "" {
		s.metrics.BookingRejected.WithLabelValues("no_slot").Inc()
		return nil, apperrors.BadRequest("a time slot must be selected")
	}

	slotTime, err := time.Parse(model.TimeOfDayLayout, req.SlotStart)
	if err != nil {
		s.metrics.BookingRejected.WithLabelValues("bad_slot").Inc()
		return nil, apperrors.BadRequest("invalid slot start time")
	}

	startAt := combine(schedule.WorkDate, slotTime)
	if !startAt.After(s.now()) {
		s.metrics.BookingRejected.WithLabelValues("past_slot").Inc()
		return nil, apperrors.BadRequest("the selected time is in the past")
	}

	taken, err := s.repo.SlotTaken(ctx, schedule.ID, req.SlotStart)
	if err != nil {
		return nil, fmt.Errorf("failed to check slot availability: %w", err)
	}
	if taken {
		s.metrics.BookingRejected.WithLabelValues("slot_taken").Inc()
		return nil, apperrors.Conflict("the selected slot is no longer available")
	}

	slotEnd, err := SlotEnd(req.SlotStart)
	if err != nil {
		return nil, apperrors.BadRequest("invalid slot start time")
	}

	appointment := &model.Appointment{
		PatientID:  req.PatientID,
		DoctorID:   req.DoctorID,
		ScheduleID: req.ScheduleID,
		SlotStart:  req.SlotStart,
		SlotEnd:    slotEnd,
		Status:     model.AppointmentStatusPending,
		Symptoms:   joinSymptoms(req.SymptomCodes, req.Note),
	}

	if err := s.repo.Create(ctx, appointment); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}
	s.metrics.AppointmentsBooked.Inc()

	s.notifyBooked(ctx, appointment, patient)

	return appointment, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	appointment, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("appointment")
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return appointment, nil
}

func (s *Service) List(ctx context.Context, filters *model.AppointmentFilters, page *model.Pagination) ([]*model.Appointment, int, error) {
	appointments, total, err := s.repo.List(ctx, filters, page)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, total, nil
}

// UpdateStatus applies a status transition after validating it against the
// transition table.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus) (*model.Appointment, error) {
	if !status.Valid() {
		return nil, apperrors.BadRequest("unknown appointment status")
	}

	appointment, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !transitionAllowed(appointment.Status, status) {
		return nil, apperrors.Conflict(fmt.Sprintf(
			"cannot change appointment status from %s to %s", appointment.Status, status))
	}

	appointment.Status = status
	if err := s.repo.Update(ctx, appointment); err != nil {
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}
	return appointment, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateAppointmentRequest) (*model.Appointment, error) {
	if req.Status != nil {
		return s.UpdateStatus(ctx, id, *req.Status)
	}

	appointment, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Symptoms != nil {
		appointment.Symptoms = *req.Symptoms
	}
	if err := s.repo.Update(ctx, appointment); err != nil {
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}
	return appointment, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	appointment, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if appointment.Status != model.AppointmentStatusCancelled {
		return apperrors.Conflict("only cancelled appointments can be deleted")
	}
	return s.repo.Delete(ctx, id)
}

func transitionAllowed(from, to model.AppointmentStatus) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// joinSymptoms builds the stored symptoms string from the selected codes and
// the optional free-text note.
func joinSymptoms(codes []string, note string) string {
	symptoms := strings.Join(codes, ",")
	note = strings.TrimSpace(note)
	if note == "" {
		return symptoms
	}
	if symptoms == "" {
		return note
	}
	return symptoms + "; " + note
}

func combine(date time.Time, timeOfDay time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(),
		timeOfDay.Hour(), timeOfDay.Minute(), timeOfDay.Second(), 0, time.Local)
}

func (s *Service) notifyBooked(ctx context.Context, appointment *model.Appointment, patient *model.Patient) {
	doctor, err := s.doctorRepo.Get(ctx, appointment.DoctorID)
	if err != nil {
		s.logger.Warn().Err(err).Msg("skipping booking email, doctor lookup failed")
		return
	}
	user, err := s.userRepo.Get(ctx, patient.UserID)
	if err != nil {
		s.logger.Warn().Err(err).Msg("skipping booking email, user lookup failed")
		return
	}
	if err := s.emailSvc.SendBookingConfirmation(ctx, user.Email, appointment, doctor.FullName); err != nil {
		s.logger.Warn().Err(err).Str("appointment_id", appointment.ID.String()).Msg("failed to send booking email")
	}
}
