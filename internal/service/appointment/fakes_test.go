package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medicore/portal-api/internal/model"
	"github.com/medicore/portal-api/internal/repository"
	"github.com/medicore/portal-api/pkg/metrics"
)

// Registered once; promauto panics on duplicate registration.
var testMetrics = metrics.NewMetrics("test", "appointment")

type fakeAppointmentRepo struct {
	appointments map[uuid.UUID]*model.Appointment
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appointments: make(map[uuid.UUID]*model.Appointment)}
}

func (r *fakeAppointmentRepo) Create(_ context.Context, a *model.Appointment) error {
	a.ID = uuid.New()
	a.CreatedAt = time.Now()
	r.appointments[a.ID] = a
	return nil
}

func (r *fakeAppointmentRepo) Get(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	a, ok := r.appointments[id]
	if !ok {
		return nil, fmt.Errorf("appointment: %w", repository.ErrNotFound)
	}
	return a, nil
}

func (r *fakeAppointmentRepo) Update(_ context.Context, a *model.Appointment) error {
	if _, ok := r.appointments[a.ID]; !ok {
		return fmt.Errorf("appointment: %w", repository.ErrNotFound)
	}
	r.appointments[a.ID] = a
	return nil
}

func (r *fakeAppointmentRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.appointments[id]; !ok {
		return fmt.Errorf("appointment: %w", repository.ErrNotFound)
	}
	delete(r.appointments, id)
	return nil
}

func (r *fakeAppointmentRepo) List(_ context.Context, _ *model.AppointmentFilters, _ *model.Pagination) ([]*model.Appointment, int, error) {
	out := []*model.Appointment{}
	for _, a := range r.appointments {
		out = append(out, a)
	}
	return out, len(out), nil
}

func (r *fakeAppointmentRepo) ListForSchedule(_ context.Context, scheduleID uuid.UUID) ([]*model.Appointment, error) {
	out := []*model.Appointment{}
	for _, a := range r.appointments {
		if a.ScheduleID == scheduleID && a.Status != model.AppointmentStatusCancelled && a.Status != model.AppointmentStatusNoShow {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAppointmentRepo) SlotTaken(_ context.Context, scheduleID uuid.UUID, slotStart string) (bool, error) {
	for _, a := range r.appointments {
		if a.ScheduleID == scheduleID && a.SlotStart == slotStart &&
			a.Status != model.AppointmentStatusCancelled && a.Status != model.AppointmentStatusNoShow {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeAppointmentRepo) ListStartingBetween(_ context.Context, _, _ time.Time) ([]*model.Appointment, error) {
	return nil, nil
}

type fakeScheduleRepo struct {
	schedules map[uuid.UUID]*model.Schedule
}

func newFakeScheduleRepo() *fakeScheduleRepo {
	return &fakeScheduleRepo{schedules: make(map[uuid.UUID]*model.Schedule)}
}

func (r *fakeScheduleRepo) Create(_ context.Context, s *model.Schedule) error {
	s.ID = uuid.New()
	r.schedules[s.ID] = s
	return nil
}

func (r *fakeScheduleRepo) Get(_ context.Context, id uuid.UUID) (*model.Schedule, error) {
	s, ok := r.schedules[id]
	if !ok {
		return nil, fmt.Errorf("schedule: %w", repository.ErrNotFound)
	}
	return s, nil
}

func (r *fakeScheduleRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.schedules, id)
	return nil
}

func (r *fakeScheduleRepo) List(_ context.Context, filters *model.ScheduleFilters) ([]*model.Schedule, error) {
	out := []*model.Schedule{}
	for _, s := range r.schedules {
		if filters != nil {
			if filters.DoctorID != uuid.Nil && s.DoctorID != filters.DoctorID {
				continue
			}
			if !filters.WorkDate.IsZero() &&
				s.WorkDate.Format(model.DateLayout) != filters.WorkDate.Format(model.DateLayout) {
				continue
			}
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *fakeScheduleRepo) FindForSlot(_ context.Context, doctorID uuid.UUID, workDate time.Time, shift model.Shift) (*model.Schedule, error) {
	for _, s := range r.schedules {
		if s.DoctorID == doctorID && s.Shift == shift &&
			s.WorkDate.Format(model.DateLayout) == workDate.Format(model.DateLayout) {
			return s, nil
		}
	}
	return nil, fmt.Errorf("schedule: %w", repository.ErrNotFound)
}

type fakePatientRepo struct {
	patients map[uuid.UUID]*model.Patient
}

func newFakePatientRepo() *fakePatientRepo {
	return &fakePatientRepo{patients: make(map[uuid.UUID]*model.Patient)}
}

func (r *fakePatientRepo) Create(_ context.Context, p *model.Patient) error {
	p.ID = uuid.New()
	r.patients[p.ID] = p
	return nil
}

func (r *fakePatientRepo) Get(_ context.Context, id uuid.UUID) (*model.Patient, error) {
	p, ok := r.patients[id]
	if !ok {
		return nil, fmt.Errorf("patient: %w", repository.ErrNotFound)
	}
	return p, nil
}

func (r *fakePatientRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*model.Patient, error) {
	for _, p := range r.patients {
		if p.UserID == userID {
			return p, nil
		}
	}
	return nil, fmt.Errorf("patient: %w", repository.ErrNotFound)
}

func (r *fakePatientRepo) Update(_ context.Context, p *model.Patient) error {
	r.patients[p.ID] = p
	return nil
}

func (r *fakePatientRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.patients, id)
	return nil
}

func (r *fakePatientRepo) List(_ context.Context, _ *model.Pagination) ([]*model.Patient, int, error) {
	return nil, 0, nil
}

type fakeDoctorRepo struct {
	doctors map[uuid.UUID]*model.Doctor
}

func newFakeDoctorRepo() *fakeDoctorRepo {
	return &fakeDoctorRepo{doctors: make(map[uuid.UUID]*model.Doctor)}
}

func (r *fakeDoctorRepo) Create(_ context.Context, d *model.Doctor) error {
	d.ID = uuid.New()
	r.doctors[d.ID] = d
	return nil
}

func (r *fakeDoctorRepo) Get(_ context.Context, id uuid.UUID) (*model.Doctor, error) {
	d, ok := r.doctors[id]
	if !ok {
		return nil, fmt.Errorf("doctor: %w", repository.ErrNotFound)
	}
	return d, nil
}

func (r *fakeDoctorRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*model.Doctor, error) {
	for _, d := range r.doctors {
		if d.UserID == userID {
			return d, nil
		}
	}
	return nil, fmt.Errorf("doctor: %w", repository.ErrNotFound)
}

func (r *fakeDoctorRepo) Update(_ context.Context, d *model.Doctor) error {
	r.doctors[d.ID] = d
	return nil
}

func (r *fakeDoctorRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.doctors, id)
	return nil
}

func (r *fakeDoctorRepo) List(_ context.Context, _ *model.DoctorFilters, _ *model.Pagination) ([]*model.Doctor, int, error) {
	return nil, 0, nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, u *model.User) error {
	u.ID = uuid.New()
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) Get(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user: %w", repository.ErrNotFound)
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, fmt.Errorf("user: %w", repository.ErrNotFound)
}

func (r *fakeUserRepo) Update(_ context.Context, u *model.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.users, id)
	return nil
}

type fakeEmailService struct {
	bookings  int
	receipts  int
	reminders int
}

func (s *fakeEmailService) SendBookingConfirmation(_ context.Context, _ string, _ *model.Appointment, _ string) error {
	s.bookings++
	return nil
}

func (s *fakeEmailService) SendPaymentReceipt(_ context.Context, _ string, _ *model.Bill) error {
	s.receipts++
	return nil
}

func (s *fakeEmailService) SendReminder(_ context.Context, _ string, _ *model.Appointment, _ string) error {
	s.reminders++
	return nil
}

func (s *fakeEmailService) SendCustom(_ context.Context, _, _, _ string) error {
	return nil
}

func nopLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}
