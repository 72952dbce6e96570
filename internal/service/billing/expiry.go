package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/medicore/portal-api/internal/model"
)

// ExpireUnpaid cancels bills that stayed unpaid past the configured age and
// releases their slots by cancelling the associated appointment. Returns the
// number of bills expired.
func (s *Service) ExpireUnpaid(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(-time.Duration(s.cfg.UnpaidExpiryHours) * time.Hour)

	bills, err := s.repo.ListUnpaidBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to list expired bills: %w", err)
	}

	expired := 0
	for _, bill := range bills {
		if err := s.repo.UpdateStatus(ctx, bill.ID, model.BillStatusCancelled); err != nil {
			s.logger.Error().Err(err).Int64("order_code", bill.OrderCode).Msg("failed to expire bill")
			continue
		}
		expired++
		s.metrics.BillsExpired.Inc()

		// Best effort: the appointment may already be cancelled or completed.
		if _, err := s.apptSvc.UpdateStatus(ctx, bill.AppointmentID, model.AppointmentStatusCancelled); err != nil {
			s.logger.Warn().Err(err).
				Str("appointment_id", bill.AppointmentID.String()).
				Msg("could not release slot for expired bill")
		}
	}

	return expired, nil
}
