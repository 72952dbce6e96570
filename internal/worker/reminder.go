package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/medicore/portal-api/internal/email"
	"github.com/medicore/portal-api/internal/repository"
)

// ReminderWorker emails patients about their confirmed appointments for the
// next day. It is scheduled once daily, so a window of exactly one calendar
// day avoids duplicate reminders.
type ReminderWorker struct {
	apptRepo    repository.AppointmentRepository
	patientRepo repository.PatientRepository
	doctorRepo  repository.DoctorRepository
	userRepo    repository.UserRepository
	emailSvc    email.Service
	logger      *zerolog.Logger
	now         func() time.Time
}

func NewReminderWorker(apptRepo repository.AppointmentRepository, patientRepo repository.PatientRepository,
	doctorRepo repository.DoctorRepository, userRepo repository.UserRepository,
	emailSvc email.Service, logger *zerolog.Logger) *ReminderWorker {
	return &ReminderWorker{
		apptRepo:    apptRepo,
		patientRepo: patientRepo,
		doctorRepo:  doctorRepo,
		userRepo:    userRepo,
		emailSvc:    emailSvc,
		logger:      logger,
		now:         time.Now,
	}
}

// Run sends reminders for appointments starting tomorrow. Per-appointment
// failures are logged and skipped so one bad address cannot starve the rest.
func (w *ReminderWorker) Run(ctx context.Context) (int, error) {
	now := w.now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local).AddDate(0, 0, 1)
	to := from.AddDate(0, 0, 1)

	appointments, err := w.apptRepo.ListStartingBetween(ctx, from, to)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, appt := range appointments {
		patient, err := w.patientRepo.Get(ctx, appt.PatientID)
		if err != nil {
			w.logger.Warn().Err(err).Str("appointment_id", appt.ID.String()).Msg("reminder skipped, patient lookup failed")
			continue
		}
		user, err := w.userRepo.Get(ctx, patient.UserID)
		if err != nil {
			w.logger.Warn().Err(err).Str("appointment_id", appt.ID.String()).Msg("reminder skipped, user lookup failed")
			continue
		}
		doctor, err := w.doctorRepo.Get(ctx, appt.DoctorID)
		if err != nil {
			w.logger.Warn().Err(err).Str("appointment_id", appt.ID.String()).Msg("reminder skipped, doctor lookup failed")
			continue
		}

		if err := w.emailSvc.SendReminder(ctx, user.Email, appt, doctor.FullName); err != nil {
			w.logger.Warn().Err(err).Str("appointment_id", appt.ID.String()).Msg("failed to send reminder")
			continue
		}
		sent++
	}

	return sent, nil
}
