package model

import "github.com/google/uuid"

type BillStatus string

const (
	BillStatusUnpaid    BillStatus = "U"
	BillStatusPaid      BillStatus = "S"
	BillStatusCancelled BillStatus = "C"
)

// Bill carries both a UUID primary key and a sequential BillNo. The gateway
// order code encodes BillNo as billNo*1000 + a 3-digit sequence; the stored
// OrderCode is authoritative, the arithmetic is only a fallback for callbacks.
type Bill struct {
	Base
	BillNo            int64      `db:"bill_no" json:"bill_no"`
	AppointmentID     uuid.UUID  `db:"appointment_id" json:"appointment_id"`
	PatientID         uuid.UUID  `db:"patient_id" json:"patient_id"`
	TotalCost         int64      `db:"total_cost" json:"total_cost"`
	InsuranceDiscount int64      `db:"insurance_discount" json:"insurance_discount"`
	Amount            int64      `db:"amount" json:"amount"`
	Status            BillStatus `db:"status" json:"status"`
	OrderCode         int64      `db:"order_code" json:"order_code"`
	Details           string     `db:"details" json:"bill_details,omitempty"`
}

type CreateBillRequest struct {
	AppointmentID uuid.UUID `json:"appointment_id" validate:"required"`
	PatientID     uuid.UUID `json:"patient_id" validate:"required"`
	TotalCost     int64     `json:"total_cost" validate:"required,gt=0"`
	Insured       bool      `json:"insured"`
	Details       string    `json:"bill_details" validate:"max=500"`
}

// PaymentInfo is the bill + appointment snapshot shown after returning from
// the gateway.
type PaymentInfo struct {
	Bill        *Bill        `json:"bill"`
	Appointment *Appointment `json:"appointment"`
}

// PaymentLink is returned when a gateway checkout is created. Both the bill id
// and the order code are included so clients never derive one from the other.
type PaymentLink struct {
	BillID      uuid.UUID `json:"bill_id"`
	OrderCode   int64     `json:"order_code"`
	CheckoutURL string    `json:"data"`
}
