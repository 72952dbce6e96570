package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/medicore/portal-api/internal/model"
)

// ErrNotFound is returned by all repositories when a row does not exist.
var ErrNotFound = errors.New("not found")

// All repository interfaces in one file
type (
	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
		Update(ctx context.Context, user *model.User) error
		Delete(ctx context.Context, id uuid.UUID) error
	}

	DoctorRepository interface {
		Create(ctx context.Context, doctor *model.Doctor) error
		Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error)
		GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Doctor, error)
		Update(ctx context.Context, doctor *model.Doctor) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.DoctorFilters, page *model.Pagination) ([]*model.Doctor, int, error)
	}

	PatientRepository interface {
		Create(ctx context.Context, patient *model.Patient) error
		Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
		GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Patient, error)
		Update(ctx context.Context, patient *model.Patient) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, page *model.Pagination) ([]*model.Patient, int, error)
	}

	ScheduleRepository interface {
		Create(ctx context.Context, schedule *model.Schedule) error
		Get(ctx context.Context, id uuid.UUID) (*model.Schedule, error)
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.ScheduleFilters) ([]*model.Schedule, error)
		FindForSlot(ctx context.Context, doctorID uuid.UUID, workDate time.Time, shift model.Shift) (*model.Schedule, error)
	}

	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		Update(ctx context.Context, appointment *model.Appointment) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.AppointmentFilters, page *model.Pagination) ([]*model.Appointment, int, error)
		ListForSchedule(ctx context.Context, scheduleID uuid.UUID) ([]*model.Appointment, error)
		SlotTaken(ctx context.Context, scheduleID uuid.UUID, slotStart string) (bool, error)
		ListStartingBetween(ctx context.Context, from, to time.Time) ([]*model.Appointment, error)
	}

	BillRepository interface {
		Create(ctx context.Context, bill *model.Bill) error
		Get(ctx context.Context, id uuid.UUID) (*model.Bill, error)
		GetByOrderCode(ctx context.Context, orderCode int64) (*model.Bill, error)
		GetByBillNo(ctx context.Context, billNo int64) (*model.Bill, error)
		SetOrderCode(ctx context.Context, id uuid.UUID, orderCode int64) error
		GetByAppointment(ctx context.Context, appointmentID uuid.UUID) (*model.Bill, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.BillStatus) error
		ListUnpaidBefore(ctx context.Context, cutoff time.Time) ([]*model.Bill, error)
		List(ctx context.Context, patientID uuid.UUID, page *model.Pagination) ([]*model.Bill, int, error)
	}

	PrescriptionRepository interface {
		Create(ctx context.Context, prescription *model.Prescription) error
		Get(ctx context.Context, id uuid.UUID) (*model.Prescription, error)
		ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Prescription, error)
		Delete(ctx context.Context, id uuid.UUID) error
	}

	DepartmentRepository interface {
		Create(ctx context.Context, department *model.Department) error
		Get(ctx context.Context, id uuid.UUID) (*model.Department, error)
		List(ctx context.Context) ([]*model.Department, error)
		Delete(ctx context.Context, id uuid.UUID) error
	}

	MedicineRepository interface {
		Create(ctx context.Context, medicine *model.Medicine) error
		Get(ctx context.Context, id uuid.UUID) (*model.Medicine, error)
		Update(ctx context.Context, medicine *model.Medicine) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.MedicineFilters, page *model.Pagination) ([]*model.Medicine, int, error)
	}
)
