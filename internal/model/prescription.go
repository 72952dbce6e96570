package model

import "github.com/google/uuid"

type Prescription struct {
	Base
	AppointmentID uuid.UUID          `db:"appointment_id" json:"appointment_id"`
	PatientID     uuid.UUID          `db:"patient_id" json:"patient_id"`
	DoctorID      uuid.UUID          `db:"doctor_id" json:"doctor_id"`
	Diagnosis     string             `db:"diagnosis" json:"diagnosis"`
	Notes         string             `db:"notes" json:"notes,omitempty"`
	Items         []PrescriptionItem `db:"-" json:"items"`
}

type PrescriptionItem struct {
	Base
	PrescriptionID uuid.UUID `db:"prescription_id" json:"prescription_id"`
	MedicineID     uuid.UUID `db:"medicine_id" json:"medicine_id"`
	Dosage         string    `db:"dosage" json:"dosage"`
	Frequency      string    `db:"frequency" json:"frequency"`
	DurationDays   int       `db:"duration_days" json:"duration_days"`
	Quantity       int       `db:"quantity" json:"quantity"`
}

type CreatePrescriptionRequest struct {
	AppointmentID uuid.UUID                       `json:"appointment_id" validate:"required"`
	Diagnosis     string                          `json:"diagnosis" validate:"required,max=500"`
	Notes         string                          `json:"notes" validate:"max=1000"`
	Items         []CreatePrescriptionItemRequest `json:"items" validate:"required,min=1,dive"`
}

type CreatePrescriptionItemRequest struct {
	MedicineID   uuid.UUID `json:"medicine_id" validate:"required"`
	Dosage       string    `json:"dosage" validate:"required,max=100"`
	Frequency    string    `json:"frequency" validate:"required,max=100"`
	DurationDays int       `json:"duration_days" validate:"required,gt=0"`
	Quantity     int       `json:"quantity" validate:"required,gt=0"`
}
