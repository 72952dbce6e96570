package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/medicore/portal-api/internal/config"
	"github.com/medicore/portal-api/internal/service/billing"
)

const jobTimeout = 5 * time.Minute

// Runner schedules the background jobs: unpaid bill expiry and appointment
// reminders.
type Runner struct {
	cron       *cron.Cron
	billingSvc *billing.Service
	reminders  *ReminderWorker
	cfg        config.WorkerConfig
	logger     *zerolog.Logger
}

func NewRunner(billingSvc *billing.Service, reminders *ReminderWorker,
	cfg config.WorkerConfig, logger *zerolog.Logger) *Runner {
	return &Runner{
		cron:       cron.New(),
		billingSvc: billingSvc,
		reminders:  reminders,
		cfg:        cfg,
		logger:     logger,
	}
}

func (r *Runner) Start() error {
	if _, err := r.cron.AddFunc(r.cfg.BillExpirySpec, r.expireBills); err != nil {
		return fmt.Errorf("failed to schedule bill expiry: %w", err)
	}
	if _, err := r.cron.AddFunc(r.cfg.ReminderSpec, r.sendReminders); err != nil {
		return fmt.Errorf("failed to schedule reminders: %w", err)
	}

	r.cron.Start()
	r.logger.Info().
		Str("bill_expiry", r.cfg.BillExpirySpec).
		Str("reminders", r.cfg.ReminderSpec).
		Msg("worker schedules registered")
	return nil
}

// Stop waits for running jobs to finish.
func (r *Runner) Stop() {
	<-r.cron.Stop().Done()
}

func (r *Runner) expireBills() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	expired, err := r.billingSvc.ExpireUnpaid(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("bill expiry run failed")
		return
	}
	if expired > 0 {
		r.logger.Info().Int("expired", expired).Msg("expired unpaid bills")
	}
}

func (r *Runner) sendReminders() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	sent, err := r.reminders.Run(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("reminder run failed")
		return
	}
	r.logger.Info().Int("sent", sent).Msg("appointment reminders sent")
}
