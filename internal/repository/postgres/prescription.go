package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/medicore/portal-api/internal/model"
	"github.com/medicore/portal-api/internal/repository"
)

func (r *prescriptionRepository) Create(ctx context.Context, prescription *model.Prescription) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	prescription.ID = uuid.New()
	prescription.CreatedAt = time.Now()
	prescription.UpdatedAt = time.Now()

	query := `
		INSERT INTO prescriptions (
			id, appointment_id, patient_id, doctor_id, diagnosis, notes,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = tx.ExecContext(ctx, query,
		prescription.ID,
		prescription.AppointmentID,
		prescription.PatientID,
		prescription.DoctorID,
		prescription.Diagnosis,
		prescription.Notes,
		prescription.CreatedAt,
		prescription.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create prescription: %w", err)
	}

	itemQuery := `
		INSERT INTO prescription_items (
			id, prescription_id, medicine_id, dosage, frequency,
			duration_days, quantity, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	for i := range prescription.Items {
		item := &prescription.Items[i]
		item.ID = uuid.New()
		item.PrescriptionID = prescription.ID
		item.CreatedAt = prescription.CreatedAt
		item.UpdatedAt = prescription.UpdatedAt

		if _, err := tx.ExecContext(ctx, itemQuery,
			item.ID,
			item.PrescriptionID,
			item.MedicineID,
			item.Dosage,
			item.Frequency,
			item.DurationDays,
			item.Quantity,
			item.CreatedAt,
			item.UpdatedAt,
		); err != nil {
			return fmt.Errorf("failed to create prescription item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit prescription: %w", err)
	}
	return nil
}

func (r *prescriptionRepository) Get(ctx context.Context, id uuid.UUID) (*model.Prescription, error) {
	query := `
		SELECT id, appointment_id, patient_id, doctor_id, diagnosis, notes,
			   created_at, updated_at
		FROM prescriptions
		WHERE id = $1
	`
	var prescription model.Prescription
	err := r.db.GetContext(ctx, &prescription, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("prescription: %w", repository.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get prescription: %w", err)
	}

	if err := r.loadItems(ctx, &prescription); err != nil {
		return nil, err
	}
	return &prescription, nil
}

func (r *prescriptionRepository) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Prescription, error) {
	query := `
		SELECT id, appointment_id, patient_id, doctor_id, diagnosis, notes,
			   created_at, updated_at
		FROM prescriptions
		WHERE patient_id = $1
		ORDER BY created_at DESC
	`
	var prescriptions []*model.Prescription
	if err := r.db.SelectContext(ctx, &prescriptions, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list prescriptions: %w", err)
	}

	for _, p := range prescriptions {
		if err := r.loadItems(ctx, p); err != nil {
			return nil, err
		}
	}
	return prescriptions, nil
}

func (r *prescriptionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM prescriptions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete prescription: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("prescription: %w", repository.ErrNotFound)
	}
	return nil
}

func (r *prescriptionRepository) loadItems(ctx context.Context, prescription *model.Prescription) error {
	query := `
		SELECT id, prescription_id, medicine_id, dosage, frequency,
			   duration_days, quantity, created_at, updated_at
		FROM prescription_items
		WHERE prescription_id = $1
	`
	items := []model.PrescriptionItem{}
	if err := sqlx.SelectContext(ctx, r.db, &items, query, prescription.ID); err != nil {
		return fmt.Errorf("failed to load prescription items: %w", err)
	}
	prescription.Items = items
	return nil
}
