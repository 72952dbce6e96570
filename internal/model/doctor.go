package model

import "github.com/google/uuid"

type DoctorType string

const (
	DoctorTypeExamination DoctorType = "E"
	DoctorTypeService     DoctorType = "S"
)

type Doctor struct {
	Base
	UserID         uuid.UUID  `db:"user_id" json:"user_id"`
	DepartmentID   uuid.UUID  `db:"department_id" json:"department_id"`
	FullName       string     `db:"full_name" json:"full_name"`
	Specialization string     `db:"specialization" json:"specialization"`
	Type           DoctorType `db:"type" json:"type"`
	Price          int64      `db:"price" json:"price"`
	AvatarURL      string     `db:"avatar_url" json:"avatar_url,omitempty"`
	Phone          string     `db:"phone" json:"phone,omitempty"`
}

type CreateDoctorRequest struct {
	UserID         uuid.UUID  `json:"user_id" validate:"required"`
	DepartmentID   uuid.UUID  `json:"department_id" validate:"required"`
	FullName       string     `json:"full_name" validate:"required,max=100"`
	Specialization string     `json:"specialization" validate:"required,max=100"`
	Type           DoctorType `json:"type" validate:"required,oneof=E S"`
	Price          int64      `json:"price" validate:"required,gt=0"`
	AvatarURL      string     `json:"avatar_url" validate:"max=500"`
	Phone          string     `json:"phone" validate:"max=20"`
}

type UpdateDoctorRequest struct {
	FullName       *string `json:"full_name"`
	Specialization *string `json:"specialization"`
	Price          *int64  `json:"price"`
	AvatarURL      *string `json:"avatar_url"`
	Phone          *string `json:"phone"`
}

type DoctorFilters struct {
	DepartmentID   uuid.UUID
	Specialization string
	SearchTerm     string
}
