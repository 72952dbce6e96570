package billing

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
var testMetrics = metrics.NewMetrics("test", "billing")

type fakeBillRepo struct {
	bills      map[uuid.UUID]*model.Bill
	nextBillNo int64
}

func newFakeBillRepo() *fakeBillRepo {
	return &fakeBillRepo{bills: make(map[uuid.UUID]*model.Bill), nextBillNo: 100}
}

func (r *fakeBillRepo) Create(_ context.Context, b *model.Bill) error {
	b.ID = uuid.New()
	b.CreatedAt = time.Now()
	r.nextBillNo++
	b.BillNo = r.nextBillNo
	r.bills[b.ID] = b
	return nil
}

func (r *fakeBillRepo) Get(_ context.Context, id uuid.UUID) (*model.Bill, error) {
	b, ok := r.bills[id]
	if !ok {
		return nil, fmt.Errorf("bill: %w", repository.ErrNotFound)
	}
	return b, nil
}

func (r *fakeBillRepo) GetByOrderCode(_ context.Context, orderCode int64) (*model.Bill, error) {
	for _, b := range r.bills {
		if b.OrderCode != 0 && b.OrderCode == orderCode {
			return b, nil
		}
	}
	return nil, fmt.Errorf("bill: %w", repository.ErrNotFound)
}

func (r *fakeBillRepo) GetByBillNo(_ context.Context, billNo int64) (*model.Bill, error) {
	for _, b := range r.bills {
		if b.BillNo == billNo {
			return b, nil
		}
	}
	return nil, fmt.Errorf("bill: %w", repository.ErrNotFound)
}

func (r *fakeBillRepo) SetOrderCode(_ context.Context, id uuid.UUID, orderCode int64) error {
	b, ok := r.bills[id]
	if !ok {
		return fmt.Errorf("bill: %w", repository.ErrNotFound)
	}
	b.OrderCode = orderCode
	return nil
}

func (r *fakeBillRepo) GetByAppointment(_ context.Context, appointmentID uuid.UUID) (*model.Bill, error) {
	for _, b := range r.bills {
		if b.AppointmentID == appointmentID {
			return b, nil
		}
	}
	return nil, fmt.Errorf("bill: %w", repository.ErrNotFound)
}

func (r *fakeBillRepo) UpdateStatus(_ context.Context, id uuid.UUID, status model.BillStatus) error {
	b, ok := r.bills[id]
	if !ok {
		return fmt.Errorf("bill: %w", repository.ErrNotFound)
	}
	b.Status = status
	return nil
}

func (r *fakeBillRepo) ListUnpaidBefore(_ context.Context, cutoff time.Time) ([]*model.Bill, error) {
	out := []*model.Bill{}
	for _, b := range r.bills {
		if b.Status == model.BillStatusUnpaid && b.CreatedAt.Before(cutoff) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBillRepo) List(_ context.Context, patientID uuid.UUID, _ *model.Pagination) ([]*model.Bill, int, error) {
	out := []*model.Bill{}
	for _, b := range r.bills {
		if patientID == uuid.Nil || b.PatientID == patientID {
			out = append(out, b)
		}
	}
	return out, len(out), nil
}

type fakeAppointmentRepo struct {
	appointments map[uuid.UUID]*model.Appointment
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appointments: make(map[uuid.UUID]*model.Appointment)}
}

func (r *fakeAppointmentRepo) Create(_ context.Context, a *model.Appointment) error {
	a.ID = uuid.New()
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
	r.appointments[a.ID] = a
	return nil
}

func (r *fakeAppointmentRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.appointments, id)
	return nil
}

func (r *fakeAppointmentRepo) List(_ context.Context, _ *model.AppointmentFilters, _ *model.Pagination) ([]*model.Appointment, int, error) {
	return nil, 0, nil
}

func (r *fakeAppointmentRepo) ListForSchedule(_ context.Context, _ uuid.UUID) ([]*model.Appointment, error) {
	return nil, nil
}

func (r *fakeAppointmentRepo) SlotTaken(_ context.Context, _ uuid.UUID, _ string) (bool, error) {
	return false, nil
}

func (r *fakeAppointmentRepo) ListStartingBetween(_ context.Context, _, _ time.Time) ([]*model.Appointment, error) {
	return nil, nil
}

type fakeScheduleRepo struct{}

func (fakeScheduleRepo) Create(_ context.Context, _ *model.Schedule) error { return nil }
func (fakeScheduleRepo) Get(_ context.Context, _ uuid.UUID) (*model.Schedule, error) {
	return nil, fmt.Errorf("schedule: %w", repository.ErrNotFound)
}
func (fakeScheduleRepo) Delete(_ context.Context, _ uuid.UUID) error { return nil }
func (fakeScheduleRepo) List(_ context.Context, _ *model.ScheduleFilters) ([]*model.Schedule, error) {
	return nil, nil
}
func (fakeScheduleRepo) FindForSlot(_ context.Context, _ uuid.UUID, _ time.Time, _ model.Shift) (*model.Schedule, error) {
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

func (r *fakeDoctorRepo) GetByUserID(_ context.Context, _ uuid.UUID) (*model.Doctor, error) {
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

func (r *fakeUserRepo) GetByEmail(_ context.Context, _ string) (*model.User, error) {
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

type fakeGateway struct {
	calls int
	fail  bool
}

func (g *fakeGateway) CreatePaymentLink(_ context.Context, bill *model.Bill, _ string) (string, error) {
	g.calls++
	if g.fail {
		return "", fmt.Errorf("gateway unavailable")
	}
	return fmt.Sprintf("https://pay.example/checkout/%d", bill.OrderCode), nil
}

type fakeEmailService struct {
	receipts int
}

func (s *fakeEmailService) SendBookingConfirmation(_ context.Context, _ string, _ *model.Appointment, _ string) error {
	return nil
}

func (s *fakeEmailService) SendPaymentReceipt(_ context.Context, _ string, _ *model.Bill) error {
	s.receipts++
	return nil
}

func (s *fakeEmailService) SendReminder(_ context.Context, _ string, _ *model.Appointment, _ string) error {
	return nil
}

func (s *fakeEmailService) SendCustom(_ context.Context, _, _, _ string) error {
	return nil
}

func nopLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}
