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

const scheduleColumns = `id, doctor_id, work_date, shift, start_time, end_time,
	   room, building, floor, created_at, updated_at`

func (r *scheduleRepository) Create(ctx context.Context, schedule *model.Schedule) error {
	query := `
		INSERT INTO schedules (
			id, doctor_id, work_date, shift, start_time, end_time,
			room, building, floor, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	schedule.ID = uuid.New()
	schedule.CreatedAt = time.Now()
	schedule.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		schedule.ID,
		schedule.DoctorID,
		schedule.WorkDate,
		schedule.Shift,
		schedule.StartTime,
		schedule.EndTime,
		schedule.Room,
		schedule.Building,
		schedule.Floor,
		schedule.CreatedAt,
		schedule.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create schedule: %w", err)
	}
	return nil
}

func (r *scheduleRepository) Get(ctx context.Context, id uuid.UUID) (*model.Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules WHERE id = $1`

	var schedule model.Schedule
	err := r.db.GetContext(ctx, &schedule, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("schedule: %w", repository.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}
	return &schedule, nil
}

func (r *scheduleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM schedules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete schedule: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("schedule: %w", repository.ErrNotFound)
	}
	return nil
}

func (r *scheduleRepository) List(ctx context.Context, filters *model.ScheduleFilters) ([]*model.Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules WHERE 1=1`
	args := []interface{}{}
	argCount := 1

	if filters != nil {
		if filters.DoctorID != uuid.Nil {
			query += fmt.Sprintf(" AND doctor_id = $%d", argCount)
			args = append(args, filters.DoctorID)
			argCount++
		}
		if !filters.WorkDate.IsZero() {
			query += fmt.Sprintf(" AND work_date = $%d", argCount)
			args = append(args, filters.WorkDate)
			argCount++
		}
		if filters.Shift != "" {
			query += fmt.Sprintf(" AND shift = $%d", argCount)
			args = append(args, filters.Shift)
			argCount++
		}
	}

	query += " ORDER BY work_date ASC, start_time ASC"

	var schedules []*model.Schedule
	if err := r.db.SelectContext(ctx, &schedules, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	return schedules, nil
}

func (r *scheduleRepository) FindForSlot(ctx context.Context, doctorID uuid.UUID, workDate time.Time, shift model.Shift) (*model.Schedule, error) {
	query := `
		SELECT ` + scheduleColumns + `
		FROM schedules
		WHERE doctor_id = $1 AND work_date = $2 AND shift = $3
	`
	var schedule model.Schedule
	err := r.db.GetContext(ctx, &schedule, query, doctorID, workDate, shift)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("schedule: %w", repository.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find schedule for slot: %w", err)
	}
	return &schedule, nil
}
