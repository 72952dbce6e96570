package model

import (
	"time"

	"github.com/google/uuid"
)

type Shift string

const (
	ShiftMorning   Shift = "M"
	ShiftAfternoon Shift = "A"
)

// Schedule is a doctor's working block on a given date. Slot granularity is
// fixed at 30 minutes between StartTime and EndTime.
type Schedule struct {
	Base
	DoctorID  uuid.UUID `db:"doctor_id" json:"doctor_id"`
	WorkDate  time.Time `db:"work_date" json:"work_date"`
	Shift     Shift     `db:"shift" json:"shift"`
	StartTime string    `db:"start_time" json:"start_time"`
	EndTime   string    `db:"end_time" json:"end_time"`
	Room      string    `db:"room" json:"room,omitempty"`
	Building  string    `db:"building" json:"building,omitempty"`
	Floor     int       `db:"floor" json:"floor,omitempty"`
}

type CreateScheduleRequest struct {
	DoctorID  uuid.UUID `json:"doctor_id" validate:"required"`
	WorkDate  string    `json:"work_date" validate:"required"`
	Shift     Shift     `json:"shift" validate:"required,oneof=M A"`
	StartTime string    `json:"start_time" validate:"required"`
	EndTime   string    `json:"end_time" validate:"required"`
	Room      string    `json:"room" validate:"max=20"`
	Building  string    `json:"building" validate:"max=20"`
	Floor     int       `json:"floor"`
}

type ScheduleFilters struct {
	DoctorID uuid.UUID
	WorkDate time.Time
	Shift    Shift
}

// Slot is a bookable 30-minute increment within a schedule.
type Slot struct {
	SlotStart string `json:"slot_start"`
	SlotEnd   string `json:"slot_end"`
	Available bool   `json:"available"`
}

// SlotGroups buckets a schedule's slots by period: morning when the slot's
// hour is before 12, afternoon otherwise. Both lists are empty, never nil,
// when the doctor has no schedule for the date.
type SlotGroups struct {
	Morning   []Slot `json:"morning"`
	Afternoon []Slot `json:"afternoon"`
}

type AvailableSlotsRequest struct {
	ScheduleID uuid.UUID `json:"schedule_id" validate:"required"`
}
