package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/medicore/portal-api/internal/config"
	"github.com/medicore/portal-api/internal/model"
)

type Service interface {
	SendBookingConfirmation(ctx context.Context, to string, appointment *model.Appointment, doctorName string) error
	SendPaymentReceipt(ctx context.Context, to string, bill *model.Bill) error
	SendReminder(ctx context.Context, to string, appointment *model.Appointment, doctorName string) error
	SendCustom(ctx context.Context, to, subject, content string) error
}

type service struct {
	dialer *gomail.Dialer
	from   string
}

func NewService(cfg config.SMTPConfig) Service {
	return &service{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *service) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (s *service) SendBookingConfirmation(_ context.Context, to string, appointment *model.Appointment, doctorName string) error {
	body := fmt.Sprintf(
		"<p>Your appointment with %s has been booked for %s.</p><p>Please complete payment to confirm your visit.</p>",
		doctorName, appointment.SlotStart,
	)
	return s.send(to, "Appointment booked", body)
}

func (s *service) SendPaymentReceipt(_ context.Context, to string, bill *model.Bill) error {
	body := fmt.Sprintf(
		"<p>We received your payment of %d for bill #%d.</p><p>Your appointment is confirmed.</p>",
		bill.Amount, bill.BillNo,
	)
	return s.send(to, "Payment received", body)
}

func (s *service) SendReminder(_ context.Context, to string, appointment *model.Appointment, doctorName string) error {
	body := fmt.Sprintf(
		"<p>Reminder: you have an appointment with %s tomorrow at %s.</p>",
		doctorName, appointment.SlotStart,
	)
	return s.send(to, "Appointment reminder", body)
}

func (s *service) SendCustom(_ context.Context, to, subject, content string) error {
	return s.send(to, subject, content)
}
