package model

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus uses the single-letter codes shared with clients.
type AppointmentStatus string

const (
	AppointmentStatusPending    AppointmentStatus = "P"
	AppointmentStatusConfirmed  AppointmentStatus = "C"
	AppointmentStatusInProgress AppointmentStatus = "I"
	AppointmentStatusCompleted  AppointmentStatus = "D"
	AppointmentStatusCancelled  AppointmentStatus = "X"
	AppointmentStatusNoShow     AppointmentStatus = "N"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusConfirmed, AppointmentStatusInProgress,
		AppointmentStatusCompleted, AppointmentStatusCancelled, AppointmentStatusNoShow:
		return true
	}
	return false
}

type Appointment struct {
	Base
	PatientID      uuid.UUID         `db:"patient_id" json:"patient"`
	DoctorID       uuid.UUID         `db:"doctor_id" json:"doctor"`
	ScheduleID     uuid.UUID         `db:"schedule_id" json:"schedule"`
	SlotStart      string            `db:"slot_start" json:"slot_start"`
	SlotEnd        string            `db:"slot_end" json:"slot_end"`
	Status         AppointmentStatus `db:"status" json:"status"`
	Symptoms       string            `db:"symptoms" json:"symptoms"`
	PrescriptionID *uuid.UUID        `db:"prescription_id" json:"prescription_id,omitempty"`
}

// CreateAppointmentRequest carries the booking form: the selected slot start,
// the symptom codes chosen by the patient and an optional free-text note.
// SlotEnd and the stored symptoms string are computed server-side.
type CreateAppointmentRequest struct {
	DoctorID     uuid.UUID `json:"doctor" validate:"required"`
	PatientID    uuid.UUID `json:"patient" validate:"required"`
	ScheduleID   uuid.UUID `json:"schedule" validate:"required"`
	SlotStart    string    `json:"slot_start" validate:"required"`
	SymptomCodes []string  `json:"symptoms" validate:"max=20"`
	Note         string    `json:"note" validate:"max=500"`
}

type UpdateAppointmentRequest struct {
	Status   *AppointmentStatus `json:"status"`
	Symptoms *string            `json:"symptoms"`
}

type AppointmentFilters struct {
	PatientID uuid.UUID
	DoctorID  uuid.UUID
	Status    AppointmentStatus
	StartDate time.Time
	EndDate   time.Time
}
