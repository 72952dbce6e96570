package billing

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medicore/portal-api/internal/config"
	"github.com/medicore/portal-api/internal/model"
	"github.com/medicore/portal-api/internal/payment"
	appointmentsvc "github.com/medicore/portal-api/internal/service/appointment"
	apperrors "github.com/medicore/portal-api/pkg/errors"
)

type testEnv struct {
	svc         *Service
	billRepo    *fakeBillRepo
	apptRepo    *fakeAppointmentRepo
	patientRepo *fakePatientRepo
	doctorRepo  *fakeDoctorRepo
	userRepo    *fakeUserRepo
	gateway     *fakeGateway
	emailSvc    *fakeEmailService
}

func newTestEnv() *testEnv {
	billRepo := newFakeBillRepo()
	apptRepo := newFakeAppointmentRepo()
	patientRepo := newFakePatientRepo()
	doctorRepo := newFakeDoctorRepo()
	userRepo := newFakeUserRepo()
	gateway := &fakeGateway{}
	emailSvc := &fakeEmailService{}

	apptSvc := appointmentsvc.NewService(apptRepo, fakeScheduleRepo{}, patientRepo,
		doctorRepo, userRepo, emailSvc, testMetrics, nopLogger())

	cfg := config.BillingConfig{InsuranceDiscountPct: 10, UnpaidExpiryHours: 24}
	svc := NewService(billRepo, apptSvc, doctorRepo, patientRepo, userRepo,
		gateway, emailSvc, testMetrics, nopLogger(), cfg)

	return &testEnv{
		svc:         svc,
		billRepo:    billRepo,
		apptRepo:    apptRepo,
		patientRepo: patientRepo,
		doctorRepo:  doctorRepo,
		userRepo:    userRepo,
		gateway:     gateway,
		emailSvc:    emailSvc,
	}
}

func (e *testEnv) seedAppointment(t *testing.T, status model.AppointmentStatus, price int64) (*model.Appointment, *model.Patient, *model.Doctor) {
	t.Helper()
	ctx := context.Background()

	user := &model.User{Email: "patient@example.com", Role: model.RolePatient}
	require.NoError(t, e.userRepo.Create(ctx, user))

	patient := &model.Patient{UserID: user.ID, FullName: "Pat Example"}
	require.NoError(t, e.patientRepo.Create(ctx, patient))

	doctor := &model.Doctor{FullName: "Dr. Example", Price: price}
	require.NoError(t, e.doctorRepo.Create(ctx, doctor))

	appt := &model.Appointment{
		PatientID: patient.ID,
		DoctorID:  doctor.ID,
		SlotStart: "09:00:00",
		Status:    status,
	}
	require.NoError(t, e.apptRepo.Create(ctx, appt))

	return appt, patient, doctor
}

func TestInsuranceDiscount(t *testing.T) {
	assert.Equal(t, int64(0), InsuranceDiscount(200000, false, 10))
	assert.Equal(t, int64(20000), InsuranceDiscount(200000, true, 10))
	assert.Equal(t, int64(0), InsuranceDiscount(200000, true, 0))
	// Truncates fractions.
	assert.Equal(t, int64(15), InsuranceDiscount(155, true, 10))
}

func TestCreateBillAssignsOrderCode(t *testing.T) {
	env := newTestEnv()
	appt, patient, _ := env.seedAppointment(t, model.AppointmentStatusConfirmed, 200000)

	bill, err := env.svc.CreateBill(context.Background(), &model.CreateBillRequest{
		AppointmentID: appt.ID,
		PatientID:     patient.ID,
		TotalCost:     200000,
		Insured:       true,
		Details:       "Consultation",
	})
	require.NoError(t, err)

	assert.Equal(t, model.BillStatusUnpaid, bill.Status)
	assert.Equal(t, int64(20000), bill.InsuranceDiscount)
	assert.Equal(t, int64(180000), bill.Amount)
	assert.NotZero(t, bill.BillNo)
	assert.Equal(t, bill.BillNo, payment.BillNoFromOrderCode(bill.OrderCode))

	stored, err := env.billRepo.Get(context.Background(), bill.ID)
	require.NoError(t, err)
	assert.Equal(t, bill.OrderCode, stored.OrderCode)
}

func TestConfirmAndPay(t *testing.T) {
	env := newTestEnv()
	appt, _, doctor := env.seedAppointment(t, model.AppointmentStatusPending, 200000)

	link, err := env.svc.ConfirmAndPay(context.Background(), appt.ID, false)
	require.NoError(t, err)

	assert.NotEmpty(t, link.CheckoutURL)
	assert.NotZero(t, link.OrderCode)
	assert.Equal(t, 1, env.gateway.calls)

	updated, err := env.apptRepo.Get(context.Background(), appt.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusConfirmed, updated.Status)

	bill, err := env.billRepo.Get(context.Background(), link.BillID)
	require.NoError(t, err)
	assert.Equal(t, doctor.Price, bill.TotalCost)
	assert.Equal(t, doctor.Price, bill.Amount)
	assert.Equal(t, model.BillStatusUnpaid, bill.Status)
}

func TestConfirmAndPayRejectsNonPending(t *testing.T) {
	env := newTestEnv()
	appt, _, _ := env.seedAppointment(t, model.AppointmentStatusConfirmed, 200000)

	_, err := env.svc.ConfirmAndPay(context.Background(), appt.ID, false)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeConflict, apperrors.AsAppError(err).Code)
	assert.Zero(t, env.gateway.calls)
}

func TestConfirmAndPayRejectsFreeDoctor(t *testing.T) {
	env := newTestEnv()
	appt, _, _ := env.seedAppointment(t, model.AppointmentStatusPending, 0)

	_, err := env.svc.ConfirmAndPay(context.Background(), appt.ID, false)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeBadRequest, apperrors.AsAppError(err).Code)
}

func TestHandleCallbackSuccessIsIdempotent(t *testing.T) {
	env := newTestEnv()
	appt, patient, _ := env.seedAppointment(t, model.AppointmentStatusConfirmed, 200000)

	bill, err := env.svc.CreateBill(context.Background(), &model.CreateBillRequest{
		AppointmentID: appt.ID,
		PatientID:     patient.ID,
		TotalCost:     200000,
	})
	require.NoError(t, err)

	got, err := env.svc.HandleCallback(context.Background(), bill.OrderCode, payment.OutcomeSuccess)
	require.NoError(t, err)
	assert.Equal(t, model.BillStatusPaid, got.Status)
	assert.Equal(t, 1, env.emailSvc.receipts)

	// Replayed callback leaves the bill untouched and sends nothing.
	got, err = env.svc.HandleCallback(context.Background(), bill.OrderCode, payment.OutcomeSuccess)
	require.NoError(t, err)
	assert.Equal(t, model.BillStatusPaid, got.Status)
	assert.Equal(t, 1, env.emailSvc.receipts)

	// A late cancel after payment is ignored too.
	got, err = env.svc.HandleCallback(context.Background(), bill.OrderCode, payment.OutcomeCancelled)
	require.NoError(t, err)
	assert.Equal(t, model.BillStatusPaid, got.Status)
}

func TestHandleCallbackCancelled(t *testing.T) {
	env := newTestEnv()
	appt, patient, _ := env.seedAppointment(t, model.AppointmentStatusConfirmed, 200000)

	bill, err := env.svc.CreateBill(context.Background(), &model.CreateBillRequest{
		AppointmentID: appt.ID,
		PatientID:     patient.ID,
		TotalCost:     200000,
	})
	require.NoError(t, err)

	got, err := env.svc.HandleCallback(context.Background(), bill.OrderCode, payment.OutcomeCancelled)
	require.NoError(t, err)
	assert.Equal(t, model.BillStatusCancelled, got.Status)
	assert.Zero(t, env.emailSvc.receipts)
}

func TestHandleCallbackFallsBackToBillNo(t *testing.T) {
	env := newTestEnv()
	appt, patient, _ := env.seedAppointment(t, model.AppointmentStatusConfirmed, 200000)

	bill, err := env.svc.CreateBill(context.Background(), &model.CreateBillRequest{
		AppointmentID: appt.ID,
		PatientID:     patient.ID,
		TotalCost:     200000,
	})
	require.NoError(t, err)

	// An order code with a different sequence still resolves via billNo.
	altCode := payment.OrderCode(bill.BillNo, 999)
	if altCode == bill.OrderCode {
		altCode = payment.OrderCode(bill.BillNo, 998)
	}

	got, err := env.svc.HandleCallback(context.Background(), altCode, payment.OutcomeSuccess)
	require.NoError(t, err)
	assert.Equal(t, bill.ID, got.ID)
	assert.Equal(t, model.BillStatusPaid, got.Status)
}

func TestHandleCallbackUnknownOrderCode(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.HandleCallback(context.Background(), 999999, payment.OutcomeSuccess)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.AsAppError(err).Code)
}

func TestCreatePaymentLinkRequiresUnpaidBill(t *testing.T) {
	env := newTestEnv()
	appt, patient, _ := env.seedAppointment(t, model.AppointmentStatusConfirmed, 200000)

	bill, err := env.svc.CreateBill(context.Background(), &model.CreateBillRequest{
		AppointmentID: appt.ID,
		PatientID:     patient.ID,
		TotalCost:     200000,
	})
	require.NoError(t, err)

	link, err := env.svc.CreatePaymentLink(context.Background(), bill.ID)
	require.NoError(t, err)
	assert.Equal(t, bill.OrderCode, link.OrderCode)

	require.NoError(t, env.billRepo.UpdateStatus(context.Background(), bill.ID, model.BillStatusPaid))
	_, err = env.svc.CreatePaymentLink(context.Background(), bill.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeConflict, apperrors.AsAppError(err).Code)
}

func TestPaymentInfoResolvesRefs(t *testing.T) {
	env := newTestEnv()
	appt, patient, _ := env.seedAppointment(t, model.AppointmentStatusConfirmed, 200000)

	bill, err := env.svc.CreateBill(context.Background(), &model.CreateBillRequest{
		AppointmentID: appt.ID,
		PatientID:     patient.ID,
		TotalCost:     200000,
	})
	require.NoError(t, err)

	// By bill UUID.
	info, err := env.svc.PaymentInfo(context.Background(), bill.ID.String())
	require.NoError(t, err)
	assert.Equal(t, bill.ID, info.Bill.ID)
	assert.Equal(t, appt.ID, info.Appointment.ID)

	// By order code.
	info, err = env.svc.PaymentInfo(context.Background(), strconv.FormatInt(bill.OrderCode, 10))
	require.NoError(t, err)
	assert.Equal(t, bill.ID, info.Bill.ID)

	// Garbage ref.
	_, err = env.svc.PaymentInfo(context.Background(), "not-a-ref")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeBadRequest, apperrors.AsAppError(err).Code)
}

func TestExpireUnpaid(t *testing.T) {
	env := newTestEnv()
	appt, patient, _ := env.seedAppointment(t, model.AppointmentStatusConfirmed, 200000)

	bill, err := env.svc.CreateBill(context.Background(), &model.CreateBillRequest{
		AppointmentID: appt.ID,
		PatientID:     patient.ID,
		TotalCost:     200000,
	})
	require.NoError(t, err)

	// Age the bill past the expiry window.
	bill.CreatedAt = time.Now().Add(-48 * time.Hour)

	expired, err := env.svc.ExpireUnpaid(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, expired)

	stored, err := env.billRepo.Get(context.Background(), bill.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BillStatusCancelled, stored.Status)

	updated, err := env.apptRepo.Get(context.Background(), appt.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCancelled, updated.Status)
}
