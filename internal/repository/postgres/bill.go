package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medicore/portal-api/internal/model"
	"github.com/medicore/portal-api/internal/repository"
)

const billColumns = `id, bill_no, appointment_id, patient_id, total_cost, insurance_discount,
	   amount, status, order_code, details, created_at, updated_at`

func (r *billRepository) Create(ctx context.Context, bill *model.Bill) error {
	// bill_no is a sequence owned by the database; RETURNING feeds it back
	// so the caller can derive the gateway order code.
	query := `
		INSERT INTO bills (
			id, appointment_id, patient_id, total_cost, insurance_discount,
			amount, status, order_code, details, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING bill_no
	`
	bill.ID = uuid.New()
	bill.CreatedAt = time.Now()
	bill.UpdatedAt = time.Now()

	err := r.db.QueryRowContext(ctx, query,
		bill.ID,
		bill.AppointmentID,
		bill.PatientID,
		bill.TotalCost,
		bill.InsuranceDiscount,
		bill.Amount,
		bill.Status,
		bill.OrderCode,
		bill.Details,
		bill.CreatedAt,
		bill.UpdatedAt,
	).Scan(&bill.BillNo)
	if err != nil {
		return fmt.Errorf("failed to create bill: %w", err)
	}
	return nil
}

func (r *billRepository) SetOrderCode(ctx context.Context, id uuid.UUID, orderCode int64) error {
	result, err := r.db.ExecContext(ctx, `UPDATE bills SET order_code = $1, updated_at = $2 WHERE id = $3`,
		orderCode, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to set order code: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("bill: %w", repository.ErrNotFound)
	}
	return nil
}

func (r *billRepository) GetByBillNo(ctx context.Context, billNo int64) (*model.Bill, error) {
	query := `SELECT ` + billColumns + ` FROM bills WHERE bill_no = $1`

	var bill model.Bill
	err := r.db.GetContext(ctx, &bill, query, billNo)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("bill: %w", repository.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bill by number: %w", err)
	}
	return &bill, nil
}

func (r *billRepository) Get(ctx context.Context, id uuid.UUID) (*model.Bill, error) {
	query := `SELECT ` + billColumns + ` FROM bills WHERE id = $1`

	var bill model.Bill
	err := r.db.GetContext(ctx, &bill, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("bill: %w", repository.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}
	return &bill, nil
}

func (r *billRepository) GetByOrderCode(ctx context.Context, orderCode int64) (*model.Bill, error) {
	query := `SELECT ` + billColumns + ` FROM bills WHERE order_code = $1`

	var bill model.Bill
	err := r.db.GetContext(ctx, &bill, query, orderCode)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("bill: %w", repository.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bill by order code: %w", err)
	}
	return &bill, nil
}

func (r *billRepository) GetByAppointment(ctx context.Context, appointmentID uuid.UUID) (*model.Bill, error) {
	query := `SELECT ` + billColumns + ` FROM bills WHERE appointment_id = $1 ORDER BY created_at DESC LIMIT 1`

	var bill model.Bill
	err := r.db.GetContext(ctx, &bill, query, appointmentID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("bill: %w", repository.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bill by appointment: %w", err)
	}
	return &bill, nil
}

func (r *billRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.BillStatus) error {
	query := `UPDATE bills SET status = $1, updated_at = $2 WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update bill status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("bill: %w", repository.ErrNotFound)
	}
	return nil
}

func (r *billRepository) ListUnpaidBefore(ctx context.Context, cutoff time.Time) ([]*model.Bill, error) {
	query := `
		SELECT ` + billColumns + `
		FROM bills
		WHERE status = 'U' AND created_at < $1
		ORDER BY created_at ASC
	`
	var bills []*model.Bill
	if err := r.db.SelectContext(ctx, &bills, query, cutoff); err != nil {
		return nil, fmt.Errorf("failed to list unpaid bills: %w", err)
	}
	return bills, nil
}

func (r *billRepository) List(ctx context.Context, patientID uuid.UUID, page *model.Pagination) ([]*model.Bill, int, error) {
	where := " WHERE 1=1"
	args := []interface{}{}
	argCount := 1

	if patientID != uuid.Nil {
		where += fmt.Sprintf(" AND patient_id = $%d", argCount)
		args = append(args, patientID)
		argCount++
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM bills`+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count bills: %w", err)
	}

	query := `SELECT ` + billColumns + ` FROM bills` + where + " ORDER BY created_at DESC"
	if page != nil {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount, argCount+1)
		args = append(args, page.PageSize, page.Offset())
	}

	var bills []*model.Bill
	if err := r.db.SelectContext(ctx, &bills, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list bills: %w", err)
	}
	return bills, total, nil
}
