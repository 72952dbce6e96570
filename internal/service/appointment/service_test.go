package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medicore/portal-api/internal/model"
	apperrors "github.com/medicore/portal-api/pkg/errors"
)

func newTestService() (*Service, *fakeAppointmentRepo, *fakeScheduleRepo, *fakePatientRepo, *fakeDoctorRepo, *fakeUserRepo, *fakeEmailService) {
	apptRepo := newFakeAppointmentRepo()
	scheduleRepo := newFakeScheduleRepo()
	patientRepo := newFakePatientRepo()
	doctorRepo := newFakeDoctorRepo()
	userRepo := newFakeUserRepo()
	emailSvc := &fakeEmailService{}

	svc := NewService(apptRepo, scheduleRepo, patientRepo, doctorRepo, userRepo,
		emailSvc, testMetrics, nopLogger())
	return svc, apptRepo, scheduleRepo, patientRepo, doctorRepo, userRepo, emailSvc
}

func seedBookingFixture(t *testing.T, scheduleRepo *fakeScheduleRepo, patientRepo *fakePatientRepo,
	doctorRepo *fakeDoctorRepo, userRepo *fakeUserRepo, workDate time.Time) (*model.Patient, *model.Doctor, *model.Schedule) {
	t.Helper()
	ctx := context.Background()

	user := &model.User{Email: "patient@example.com", Role: model.RolePatient}
	require.NoError(t, userRepo.Create(ctx, user))

	patient := &model.Patient{UserID: user.ID, FullName: "Pat Example"}
	require.NoError(t, patientRepo.Create(ctx, patient))

	doctor := &model.Doctor{FullName: "Dr. Example", Type: model.DoctorTypeExamination, Price: 200000}
	require.NoError(t, doctorRepo.Create(ctx, doctor))

	schedule := &model.Schedule{
		DoctorID:  doctor.ID,
		WorkDate:  workDate,
		Shift:     model.ShiftMorning,
		StartTime: "08:00:00",
		EndTime:   "11:00:00",
	}
	require.NoError(t, scheduleRepo.Create(ctx, schedule))

	return patient, doctor, schedule
}

func TestSlotEnd(t *testing.T) {
	tests := []struct {
		start string
		want  string
	}{
		{"09:00:00", "09:30:00"},
		{"09:30:00", "10:00:00"},
		{"09:45:00", "10:15:00"},
		{"11:30:00", "12:00:00"},
	}
	for _, tt := range tests {
		got, err := SlotEnd(tt.start)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := SlotEnd("not-a-time")
	assert.Error(t, err)
}

func TestPartitionSlots(t *testing.T) {
	slots := []model.Slot{
		{SlotStart: "08:00:00", SlotEnd: "08:30:00", Available: true},
		{SlotStart: "11:30:00", SlotEnd: "12:00:00", Available: true},
		{SlotStart: "12:00:00", SlotEnd: "12:30:00", Available: true},
		{SlotStart: "15:00:00", SlotEnd: "15:30:00", Available: false},
	}

	groups := PartitionSlots(slots)
	assert.Len(t, groups.Morning, 2)
	assert.Len(t, groups.Afternoon, 2)
	assert.Equal(t, "11:30:00", groups.Morning[1].SlotStart)
	assert.Equal(t, "12:00:00", groups.Afternoon[0].SlotStart)
}

func TestPartitionSlotsEmpty(t *testing.T) {
	groups := PartitionSlots(nil)
	assert.NotNil(t, groups.Morning)
	assert.NotNil(t, groups.Afternoon)
	assert.Empty(t, groups.Morning)
	assert.Empty(t, groups.Afternoon)
}

func TestJoinSymptoms(t *testing.T) {
	assert.Equal(t, "fever,cough", joinSymptoms([]string{"fever", "cough"}, ""))
	assert.Equal(t, "fever; sore throat", joinSymptoms([]string{"fever"}, "sore throat"))
	assert.Equal(t, "sore throat", joinSymptoms(nil, "  sore throat "))
	assert.Equal(t, "", joinSymptoms(nil, ""))
}

func TestBookCreatesPendingAppointment(t *testing.T) {
	svc, apptRepo, scheduleRepo, patientRepo, doctorRepo, userRepo, emailSvc := newTestService()
	svc.WithClock(func() time.Time {
		return time.Date(2026, 3, 9, 10, 0, 0, 0, time.Local)
	})

	workDate := time.Date(2026, 3, 10, 0, 0, 0, 0, time.Local)
	patient, doctor, schedule := seedBookingFixture(t, scheduleRepo, patientRepo, doctorRepo, userRepo, workDate)

	appt, err := svc.Book(context.Background(), &model.CreateAppointmentRequest{
		DoctorID:     doctor.ID,
		PatientID:    patient.ID,
		ScheduleID:   schedule.ID,
		SlotStart:    "09:00:00",
		SymptomCodes: []string{"fever"},
		Note:         "three days",
	})
	require.NoError(t, err)

	assert.Equal(t, model.AppointmentStatusPending, appt.Status)
	assert.Equal(t, "09:30:00", appt.SlotEnd)
	assert.Equal(t, "fever; three days", appt.Symptoms)
	assert.Len(t, apptRepo.appointments, 1)
	assert.Equal(t, 1, emailSvc.bookings)
}

func TestBookRejectsMissingSlot(t *testing.T) {
	svc, apptRepo, scheduleRepo, patientRepo, doctorRepo, userRepo, _ := newTestService()

	workDate := time.Now().AddDate(0, 0, 1)
	patient, doctor, schedule := seedBookingFixture(t, scheduleRepo, patientRepo, doctorRepo, userRepo, workDate)

	_, err := svc.Book(context.Background(), &model.CreateAppointmentRequest{
		DoctorID:   doctor.ID,
		PatientID:  patient.ID,
		ScheduleID: schedule.ID,
		SlotStart:  "   ",
	})
	require.Error(t, err)

	appErr := apperrors.AsAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.CodeBadRequest, appErr.Code)
	assert.Empty(t, apptRepo.appointments, "nothing should be persisted")
}

func TestBookRejectsPastSlotSameDay(t *testing.T) {
	svc, apptRepo, scheduleRepo, patientRepo, doctorRepo, userRepo, _ := newTestService()
	svc.WithClock(func() time.Time {
		return time.Date(2026, 3, 10, 10, 0, 0, 0, time.Local)
	})

	workDate := time.Date(2026, 3, 10, 0, 0, 0, 0, time.Local)
	patient, doctor, schedule := seedBookingFixture(t, scheduleRepo, patientRepo, doctorRepo, userRepo, workDate)

	_, err := svc.Book(context.Background(), &model.CreateAppointmentRequest{
		DoctorID:   doctor.ID,
		PatientID:  patient.ID,
		ScheduleID: schedule.ID,
		SlotStart:  "09:00:00",
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeBadRequest, apperrors.AsAppError(err).Code)
	assert.Empty(t, apptRepo.appointments)
}

func TestBookRejectsTakenSlot(t *testing.T) {
	svc, _, scheduleRepo, patientRepo, doctorRepo, userRepo, _ := newTestService()
	svc.WithClock(func() time.Time {
		return time.Date(2026, 3, 9, 10, 0, 0, 0, time.Local)
	})

	workDate := time.Date(2026, 3, 10, 0, 0, 0, 0, time.Local)
	patient, doctor, schedule := seedBookingFixture(t, scheduleRepo, patientRepo, doctorRepo, userRepo, workDate)

	req := &model.CreateAppointmentRequest{
		DoctorID:   doctor.ID,
		PatientID:  patient.ID,
		ScheduleID: schedule.ID,
		SlotStart:  "09:00:00",
	}
	_, err := svc.Book(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Book(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeConflict, apperrors.AsAppError(err).Code)
}

func TestBookRejectsScheduleMismatch(t *testing.T) {
	svc, _, scheduleRepo, patientRepo, doctorRepo, userRepo, _ := newTestService()

	workDate := time.Now().AddDate(0, 0, 1)
	patient, _, schedule := seedBookingFixture(t, scheduleRepo, patientRepo, doctorRepo, userRepo, workDate)

	_, err := svc.Book(context.Background(), &model.CreateAppointmentRequest{
		DoctorID:   uuid.New(),
		PatientID:  patient.ID,
		ScheduleID: schedule.ID,
		SlotStart:  "09:00:00",
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeBadRequest, apperrors.AsAppError(err).Code)
}

func TestScheduleSlotsMarksTakenAndPast(t *testing.T) {
	svc, _, scheduleRepo, patientRepo, doctorRepo, userRepo, _ := newTestService()
	svc.WithClock(func() time.Time {
		return time.Date(2026, 3, 10, 9, 10, 0, 0, time.Local)
	})

	workDate := time.Date(2026, 3, 10, 0, 0, 0, 0, time.Local)
	patient, doctor, schedule := seedBookingFixture(t, scheduleRepo, patientRepo, doctorRepo, userRepo, workDate)

	// Take the 10:00 slot.
	_, err := svc.Book(context.Background(), &model.CreateAppointmentRequest{
		DoctorID:   doctor.ID,
		PatientID:  patient.ID,
		ScheduleID: schedule.ID,
		SlotStart:  "10:00:00",
	})
	require.NoError(t, err)

	slots, err := svc.ScheduleSlots(context.Background(), schedule.ID)
	require.NoError(t, err)
	require.Len(t, slots, 6)

	bySlot := make(map[string]model.Slot, len(slots))
	for _, s := range slots {
		bySlot[s.SlotStart] = s
	}

	assert.False(t, bySlot["08:00:00"].Available, "past slot")
	assert.False(t, bySlot["09:00:00"].Available, "slot already started")
	assert.True(t, bySlot["09:30:00"].Available)
	assert.False(t, bySlot["10:00:00"].Available, "booked slot")
	assert.True(t, bySlot["10:30:00"].Available)
}

func TestResolveSlotsNoSchedules(t *testing.T) {
	svc, _, _, _, _, _, _ := newTestService()

	groups, err := svc.ResolveSlots(context.Background(), uuid.New(), time.Now())
	require.NoError(t, err)
	assert.NotNil(t, groups.Morning)
	assert.NotNil(t, groups.Afternoon)
	assert.Empty(t, groups.Morning)
	assert.Empty(t, groups.Afternoon)
}

func TestUpdateStatusTransitions(t *testing.T) {
	svc, apptRepo, _, _, _, _, _ := newTestService()

	appt := &model.Appointment{Status: model.AppointmentStatusPending}
	require.NoError(t, apptRepo.Create(context.Background(), appt))

	// P -> C -> I -> D is the happy path.
	for _, status := range []model.AppointmentStatus{
		model.AppointmentStatusConfirmed,
		model.AppointmentStatusInProgress,
		model.AppointmentStatusCompleted,
	} {
		updated, err := svc.UpdateStatus(context.Background(), appt.ID, status)
		require.NoError(t, err)
		assert.Equal(t, status, updated.Status)
	}

	// Completed is terminal.
	_, err := svc.UpdateStatus(context.Background(), appt.ID, model.AppointmentStatusCancelled)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeConflict, apperrors.AsAppError(err).Code)
}

func TestUpdateStatusRejectsSkippedStates(t *testing.T) {
	svc, apptRepo, _, _, _, _, _ := newTestService()

	appt := &model.Appointment{Status: model.AppointmentStatusPending}
	require.NoError(t, apptRepo.Create(context.Background(), appt))

	_, err := svc.UpdateStatus(context.Background(), appt.ID, model.AppointmentStatusCompleted)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeConflict, apperrors.AsAppError(err).Code)
}

func TestDeleteOnlyCancelled(t *testing.T) {
	svc, apptRepo, _, _, _, _, _ := newTestService()

	appt := &model.Appointment{Status: model.AppointmentStatusPending}
	require.NoError(t, apptRepo.Create(context.Background(), appt))

	err := svc.Delete(context.Background(), appt.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeConflict, apperrors.AsAppError(err).Code)

	_, err = svc.UpdateStatus(context.Background(), appt.ID, model.AppointmentStatusCancelled)
	require.NoError(t, err)
	require.NoError(t, svc.Delete(context.Background(), appt.ID))
	assert.Empty(t, apptRepo.appointments)
}
