package billing

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medicore/portal-api/internal/config"
	"github.com/medicore/portal-api/internal/email"
	"github.com/medicore/portal-api/internal/model"
	"github.com/medicore/portal-api/internal/payment"
	"github.com/medicore/portal-api/internal/repository"
	"github.com/medicore/portal-api/internal/service/appointment"
	apperrors "github.com/medicore/portal-api/pkg/errors"
	"github.com/medicore/portal-api/pkg/metrics"
)

type Service struct {
	repo        repository.BillRepository
	apptSvc     *appointment.Service
	doctorRepo  repository.DoctorRepository
	patientRepo repository.PatientRepository
	userRepo    repository.UserRepository
	gateway     payment.Gateway
	emailSvc    email.Service
	metrics     *metrics.Metrics
	logger      *zerolog.Logger
	cfg         config.BillingConfig
}

func NewService(repo repository.BillRepository, apptSvc *appointment.Service,
	doctorRepo repository.DoctorRepository, patientRepo repository.PatientRepository,
	userRepo repository.UserRepository, gateway payment.Gateway, emailSvc email.Service,
	m *metrics.Metrics, logger *zerolog.Logger, cfg config.BillingConfig) *Service {
	return &Service{
		repo:        repo,
		apptSvc:     apptSvc,
		doctorRepo:  doctorRepo,
		patientRepo: patientRepo,
		userRepo:    userRepo,
		gateway:     gateway,
		emailSvc:    emailSvc,
		metrics:     m,
		logger:      logger,
		cfg:         cfg,
	}
}

// InsuranceDiscount computes the discount for an insured patient as a
// percentage of the total, truncating fractions.
func InsuranceDiscount(total int64, insured bool, pct int) int64 {
	if !insured {
		return 0
	}
	return total * int64(pct) / 100
}

// CreateBill creates an unpaid bill and assigns its gateway order code:
// billNo*1000 plus a random 3-digit sequence. The response carries both the
// bill id and the order code so clients never decode one from the other.
func (s *Service) CreateBill(ctx context.Context, req *model.CreateBillRequest) (*model.Bill, error) {
	discount := InsuranceDiscount(req.TotalCost, req.Insured, s.cfg.InsuranceDiscountPct)

	bill := &model.Bill{
		AppointmentID:     req.AppointmentID,
		PatientID:         req.PatientID,
		TotalCost:         req.TotalCost,
		InsuranceDiscount: discount,
		Amount:            req.TotalCost - discount,
		Status:            model.BillStatusUnpaid,
		Details:           req.Details,
	}

	if err := s.repo.Create(ctx, bill); err != nil {
		return nil, fmt.Errorf("failed to create bill: %w", err)
	}

	bill.OrderCode = payment.OrderCode(bill.BillNo, rand.Intn(1000))
	if err := s.repo.SetOrderCode(ctx, bill.ID, bill.OrderCode); err != nil {
		return nil, fmt.Errorf("failed to assign order code: %w", err)
	}

	return bill, nil
}

// ConfirmAndPay runs the confirmation flow for a pending appointment:
// transition to confirmed, bill the doctor's price, then request a checkout
// link. The confirmed status is not rolled back if a later step fails; the
// client retries payment against the existing bill.
func (s *Service) ConfirmAndPay(ctx context.Context, appointmentID uuid.UUID, insured bool) (*model.PaymentLink, error) {
	appt, err := s.apptSvc.Get(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if appt.Status != model.AppointmentStatusPending {
		return nil, apperrors.Conflict("appointment is not awaiting confirmation")
	}

	doctor, err := s.doctorRepo.Get(ctx, appt.DoctorID)
	if err != nil {
		return nil, apperrors.NotFound("doctor")
	}
	if doctor.Price <= 0 {
		return nil, apperrors.BadRequest("doctor has no valid consultation price")
	}

	if _, err := s.patientRepo.Get(ctx, appt.PatientID); err != nil {
		return nil, apperrors.NotFound("patient")
	}

	if _, err := s.apptSvc.UpdateStatus(ctx, appointmentID, model.AppointmentStatusConfirmed); err != nil {
		return nil, err
	}

	bill, err := s.CreateBill(ctx, &model.CreateBillRequest{
		AppointmentID: appointmentID,
		PatientID:     appt.PatientID,
		TotalCost:     doctor.Price,
		Insured:       insured,
		Details:       "Consultation with " + doctor.FullName,
	})
	if err != nil {
		return nil, err
	}

	return s.paymentLink(ctx, bill)
}

// CreatePaymentLink requests a checkout URL for an existing unpaid bill,
// e.g. when the payer abandoned or cancelled an earlier checkout.
func (s *Service) CreatePaymentLink(ctx context.Context, billID uuid.UUID) (*model.PaymentLink, error) {
	bill, err := s.GetBill(ctx, billID)
	if err != nil {
		return nil, err
	}
	if bill.Status != model.BillStatusUnpaid {
		return nil, apperrors.Conflict("bill is not payable")
	}
	return s.paymentLink(ctx, bill)
}

func (s *Service) paymentLink(ctx context.Context, bill *model.Bill) (*model.PaymentLink, error) {
	url, err := s.gateway.CreatePaymentLink(ctx, bill, bill.Details)
	if err != nil {
		s.metrics.GatewayRequestErrors.Inc()
		return nil, fmt.Errorf("failed to create payment link: %w", err)
	}
	s.metrics.PaymentLinksCreated.Inc()

	return &model.PaymentLink{
		BillID:      bill.ID,
		OrderCode:   bill.OrderCode,
		CheckoutURL: url,
	}, nil
}

// HandleCallback reconciles a gateway return for the given order code. The
// operation is idempotent: a bill that already left the unpaid state is
// returned unchanged, so repeated callbacks are harmless.
func (s *Service) HandleCallback(ctx context.Context, orderCode int64, outcome payment.Outcome) (*model.Bill, error) {
	bill, err := s.findByOrderCode(ctx, orderCode)
	if err != nil {
		return nil, err
	}

	if bill.Status != model.BillStatusUnpaid {
		return bill, nil
	}

	switch outcome {
	case payment.OutcomeSuccess:
		if err := s.repo.UpdateStatus(ctx, bill.ID, model.BillStatusPaid); err != nil {
			return nil, fmt.Errorf("failed to mark bill paid: %w", err)
		}
		bill.Status = model.BillStatusPaid
		s.metrics.PaymentsReconciled.WithLabelValues("success").Inc()
		s.sendReceipt(ctx, bill)
	case payment.OutcomeCancelled:
		if err := s.repo.UpdateStatus(ctx, bill.ID, model.BillStatusCancelled); err != nil {
			return nil, fmt.Errorf("failed to cancel bill: %w", err)
		}
		bill.Status = model.BillStatusCancelled
		s.metrics.PaymentsReconciled.WithLabelValues("cancelled").Inc()
	default:
		s.metrics.PaymentsReconciled.WithLabelValues("pending").Inc()
	}

	return bill, nil
}

// findByOrderCode resolves a bill by stored order code, falling back to the
// legacy arithmetic encoding when no direct match exists.
func (s *Service) findByOrderCode(ctx context.Context, orderCode int64) (*model.Bill, error) {
	bill, err := s.repo.GetByOrderCode(ctx, orderCode)
	if err == nil {
		return bill, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up order code: %w", err)
	}

	bill, err = s.repo.GetByBillNo(ctx, payment.BillNoFromOrderCode(orderCode))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("bill")
		}
		return nil, fmt.Errorf("failed to look up bill number: %w", err)
	}
	return bill, nil
}

// PaymentInfo returns the bill and appointment snapshot for a reference that
// may be a bill UUID, an order code or a bare bill number.
func (s *Service) PaymentInfo(ctx context.Context, ref string) (*model.PaymentInfo, error) {
	bill, err := s.resolveRef(ctx, ref)
	if err != nil {
		return nil, err
	}

	appt, err := s.apptSvc.Get(ctx, bill.AppointmentID)
	if err != nil {
		return nil, err
	}

	return &model.PaymentInfo{Bill: bill, Appointment: appt}, nil
}

func (s *Service) resolveRef(ctx context.Context, ref string) (*model.Bill, error) {
	if id, err := uuid.Parse(ref); err == nil {
		return s.GetBill(ctx, id)
	}

	code, err := strconv.ParseInt(ref, 10, 64)
	if err != nil {
		return nil, apperrors.BadRequest("invalid bill reference")
	}
	return s.findByOrderCode(ctx, code)
}

func (s *Service) GetBill(ctx context.Context, id uuid.UUID) (*model.Bill, error) {
	bill, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("bill")
		}
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}
	return bill, nil
}

func (s *Service) ListBills(ctx context.Context, patientID uuid.UUID, page *model.Pagination) ([]*model.Bill, int, error) {
	bills, total, err := s.repo.List(ctx, patientID, page)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bills: %w", err)
	}
	return bills, total, nil
}

func (s *Service) sendReceipt(ctx context.Context, bill *model.Bill) {
	patient, err := s.patientRepo.Get(ctx, bill.PatientID)
	if err != nil {
		s.logger.Warn().Err(err).Msg("skipping receipt email, patient lookup failed")
		return
	}
	user, err := s.userRepo.Get(ctx, patient.UserID)
	if err != nil {
		s.logger.Warn().Err(err).Msg("skipping receipt email, user lookup failed")
		return
	}
	if err := s.emailSvc.SendPaymentReceipt(ctx, user.Email, bill); err != nil {
		s.logger.Warn().Err(err).Int64("order_code", bill.OrderCode).Msg("failed to send receipt email")
	}
}
