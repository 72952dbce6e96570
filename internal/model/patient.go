package model

import (
	"time"

	"github.com/google/uuid"
)

type Patient struct {
	Base
	UserID      uuid.UUID  `db:"user_id" json:"user_id"`
	FullName    string     `db:"full_name" json:"full_name"`
	DateOfBirth *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty"`
	Gender      string     `db:"gender" json:"gender,omitempty"`
	Phone       string     `db:"phone" json:"phone,omitempty"`
	Address     string     `db:"address" json:"address,omitempty"`
	Insurance   string     `db:"insurance" json:"insurance,omitempty"`
	AvatarURL   string     `db:"avatar_url" json:"avatar_url,omitempty"`
	Allergies   string     `db:"allergies" json:"allergies,omitempty"`
	BloodType   string     `db:"blood_type" json:"blood_type,omitempty"`
}

type CreatePatientRequest struct {
	UserID      uuid.UUID  `json:"user_id" validate:"required"`
	FullName    string     `json:"full_name" validate:"required,max=100"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	Gender      string     `json:"gender" validate:"omitempty,oneof=male female other"`
	Phone       string     `json:"phone" validate:"max=20"`
	Address     string     `json:"address" validate:"max=255"`
	Insurance   string     `json:"insurance" validate:"max=50"`
}

type UpdatePatientRequest struct {
	FullName  *string    `json:"full_name"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	Gender    *string    `json:"gender"`
	Phone     *string    `json:"phone"`
	Address   *string    `json:"address"`
	Insurance *string    `json:"insurance"`
	AvatarURL *string    `json:"avatar_url"`
	Allergies *string    `json:"allergies"`
	BloodType *string    `json:"blood_type"`
}
