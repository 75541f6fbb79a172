package appointment

import (
	"context"
	"testing"
	"time"

	"dermacare-backend/internal/models"
	"dermacare-backend/internal/repository"
	"dermacare-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db       *gorm.DB
	svc      *Service
	notifier *testutil.RecordingNotifier

	patient      *models.User
	otherPatient *models.User
	doctorUser   *models.User
	doctor       *models.Doctor
	otherDoctor  *models.User
	staff        *models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	f := &fixture{db: db, notifier: &testutil.RecordingNotifier{}}
	f.svc = New(repository.New(db), f.notifier, zap.NewNop())
	f.svc.now = func() time.Time { return time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC) }

	f.patient, _ = testutil.CreatePatient(t, db, "pat@example.com", "Pat")
	f.otherPatient, _ = testutil.CreatePatient(t, db, "other@example.com", "Other")
	f.doctorUser, f.doctor = testutil.CreateDoctor(t, db, "house@hospital.com", "Gregory House")
	f.otherDoctor, _ = testutil.CreateDoctor(t, db, "wilson@hospital.com", "James Wilson")
	f.staff = testutil.CreateUser(t, db, "staff@example.com", models.RolePatient)
	f.staff.IsStaff = true
	require.NoError(t, db.Save(f.staff).Error)

	require.NoError(t, db.Model(f.doctorUser).Update("fcm_token", "doctor-device").Error)
	require.NoError(t, db.Model(f.patient).Update("fcm_token", "patient-device").Error)
	return f
}

func (f *fixture) book(t *testing.T) *models.Appointment {
	t.Helper()
	appt, err := f.svc.Create(context.Background(), f.patient, CreateRequest{DoctorID: f.doctor.ID})
	require.NoError(t, err)
	return appt
}

func (f *fixture) force(t *testing.T, appt *models.Appointment, status models.AppointmentStatus) {
	t.Helper()
	require.NoError(t, f.db.Model(&models.Appointment{}).Where("id = ?", appt.ID).Update("status", status).Error)
}

func (f *fixture) status(t *testing.T, id uint64) models.AppointmentStatus {
	t.Helper()
	var a models.Appointment
	require.NoError(t, f.db.First(&a, id).Error)
	return a.Status
}

func TestCreate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	appt := f.book(t)
	assert.Equal(t, models.StatusPending, appt.Status)
	assert.Equal(t, "2026-03-14", appt.Date)
	assert.Equal(t, "10:00", appt.Time)
	assert.Equal(t, "Gregory House", appt.Doctor.Name)
	assert.Nil(t, appt.PredictionID)
	assert.Equal(t, []string{"doctor-device"}, f.notifier.Tokens())

	pred := testutil.CreatePrediction(t, f.db, f.patient.ID, "Melanoma")
	withPred, err := f.svc.Create(ctx, f.patient, CreateRequest{
		DoctorID: f.doctor.ID, PredictionID: pred.ID, PreferredDate: "2026-04-01", PreferredTime: "9:30",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, withPred.Status)
	require.NotNil(t, withPred.Prediction)
	assert.Equal(t, "Melanoma", withPred.Prediction.Disease)
	assert.Equal(t, "2026-04-01", withPred.Date)
	assert.Equal(t, "09:30", withPred.Time)

	rep := &models.Report{UserID: f.patient.ID, PredictionID: pred.ID, PatientName: "Pat"}
	require.NoError(t, f.db.Omit("Prediction").Create(rep).Error)
	viaReport, err := f.svc.Create(ctx, f.patient, CreateRequest{DoctorID: f.doctor.ID, ReportID: rep.ID})
	require.NoError(t, err)
	require.NotNil(t, viaReport.PredictionID)
	assert.Equal(t, pred.ID, *viaReport.PredictionID)
}

func TestCreateRejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	incomplete := testutil.CreateUser(t, f.db, "new@example.com", models.RolePatient)
	require.NoError(t, f.db.Create(&models.Patient{UserID: incomplete.ID, Name: "New"}).Error)
	noProfile := testutil.CreateUser(t, f.db, "bare@example.com", models.RolePatient)
	foreignPred := testutil.CreatePrediction(t, f.db, f.otherPatient.ID, "Eczema")

	tests := []struct {
		name    string
		user    *models.User
		req     CreateRequest
		wantErr error
	}{
		{"doctor cannot book", f.doctorUser, CreateRequest{DoctorID: f.doctor.ID}, ErrForbidden},
		{"profile missing email", incomplete, CreateRequest{DoctorID: f.doctor.ID}, ErrIncompleteProfile},
		{"no profile", noProfile, CreateRequest{DoctorID: f.doctor.ID}, ErrIncompleteProfile},
		{"unknown doctor", f.patient, CreateRequest{DoctorID: 9999}, ErrDoctorNotFound},
		{"missing doctor id", f.patient, CreateRequest{}, ErrDoctorNotFound},
		{"doctor without doctor id", f.doctorUser, CreateRequest{}, ErrForbidden},
		{"bad date", f.patient, CreateRequest{DoctorID: f.doctor.ID, PreferredDate: "14/03/2026"}, ErrInvalidSchedule},
		{"bad time", f.patient, CreateRequest{DoctorID: f.doctor.ID, PreferredTime: "noon"}, ErrInvalidSchedule},
		{"unknown prediction", f.patient, CreateRequest{DoctorID: f.doctor.ID, PredictionID: 9999}, ErrPredictionNotFound},
		{"someone else's prediction", f.patient, CreateRequest{DoctorID: f.doctor.ID, PredictionID: foreignPred.ID}, ErrPredictionNotFound},
		{"unknown report", f.patient, CreateRequest{DoctorID: f.doctor.ID, ReportID: 9999}, ErrPredictionNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Create(ctx, tt.user, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	var count int64
	f.db.Model(&models.Appointment{}).Count(&count)
	assert.Zero(t, count)
}

func TestOwnerCancelFromAnyStatus(t *testing.T) {
	for _, prior := range []models.AppointmentStatus{
		models.StatusPending, models.StatusConfirmed, models.StatusCompleted, models.StatusCancelled,
	} {
		t.Run(string(prior), func(t *testing.T) {
			f := newFixture(t)
			appt := f.book(t)
			f.force(t, appt, prior)

			got, err := f.svc.Cancel(context.Background(), f.patient, appt.ID)
			require.NoError(t, err)
			assert.Equal(t, models.StatusCancelled, got.Status)
			assert.Equal(t, models.StatusCancelled, f.status(t, appt.ID))
		})
	}
}

func TestCancelPermissions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	appt := f.book(t)
	_, err := f.svc.Cancel(ctx, f.otherPatient, appt.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, models.StatusPending, f.status(t, appt.ID))

	_, err = f.svc.Cancel(ctx, f.patient, 9999)
	assert.ErrorIs(t, err, ErrNotFound)

	for _, u := range []*models.User{f.otherDoctor, f.doctorUser, f.staff} {
		a := f.book(t)
		got, err := f.svc.Cancel(ctx, u, a.ID)
		require.NoError(t, err, u.Email)
		assert.Equal(t, models.StatusCancelled, got.Status)
	}
}

func TestCancelCompletedByNonOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, u := range []*models.User{f.otherDoctor, f.doctorUser, f.staff} {
		appt := f.book(t)
		f.force(t, appt, models.StatusCompleted)

		_, err := f.svc.Cancel(ctx, u, appt.ID)
		assert.ErrorIs(t, err, ErrInvalidTransition, u.Email)
		assert.Equal(t, models.StatusCompleted, f.status(t, appt.ID))
	}

	// already cancelled stays a no-op success
	appt := f.book(t)
	f.force(t, appt, models.StatusCancelled)
	got, err := f.svc.Cancel(ctx, f.staff, appt.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, got.Status)
}

func TestConfirm(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	appt := f.book(t)
	for _, u := range []*models.User{f.patient, f.otherPatient} {
		_, err := f.svc.Confirm(ctx, u, appt.ID)
		assert.ErrorIs(t, err, ErrForbidden)
		assert.Equal(t, models.StatusPending, f.status(t, appt.ID))
	}

	// wrong role wins over unknown id
	_, err := f.svc.Confirm(ctx, f.patient, 9999)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = f.svc.Confirm(ctx, f.doctorUser, 9999)
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := f.svc.Confirm(ctx, f.doctorUser, appt.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, got.Status)
	assert.Contains(t, f.notifier.Tokens(), "patient-device")

	// idempotent
	got, err = f.svc.Confirm(ctx, f.staff, appt.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, got.Status)

	f.force(t, appt, models.StatusCancelled)
	_, err = f.svc.Confirm(ctx, f.otherDoctor, appt.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, models.StatusCancelled, f.status(t, appt.ID))
}

func TestUpdateStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	appt := f.book(t)

	// invalid value is rejected before anything else, even for an unknown id
	_, err := f.svc.UpdateStatus(ctx, f.otherPatient, 9999, "archived")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = f.svc.UpdateStatus(ctx, f.patient, appt.ID, "confirmed")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.svc.UpdateStatus(ctx, f.doctorUser, appt.ID, "cancelled")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.svc.UpdateStatus(ctx, f.doctorUser, appt.ID, "completed")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = f.svc.UpdateStatus(ctx, f.doctorUser, 9999, "confirmed")
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := f.svc.UpdateStatus(ctx, f.doctorUser, appt.ID, "confirmed")
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, got.Status)

	got, err = f.svc.UpdateStatus(ctx, f.otherDoctor, appt.ID, "completed")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, got.Status)

	_, err = f.svc.UpdateStatus(ctx, f.patient, appt.ID, "cancelled")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	second := f.book(t)
	_, err = f.svc.UpdateStatus(ctx, f.otherPatient, second.ID, "cancelled")
	assert.ErrorIs(t, err, ErrForbidden)

	got, err = f.svc.UpdateStatus(ctx, f.patient, second.ID, "cancelled")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, got.Status)
}

func TestListAndStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a1 := f.book(t)
	f.book(t)
	_, err := f.svc.Confirm(ctx, f.doctorUser, a1.ID)
	require.NoError(t, err)

	mine, err := f.svc.List(ctx, f.patient)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	theirs, err := f.svc.List(ctx, f.otherPatient)
	require.NoError(t, err)
	assert.Empty(t, theirs)

	assigned, err := f.svc.List(ctx, f.doctorUser)
	require.NoError(t, err)
	assert.Len(t, assigned, 2)

	unassigned, err := f.svc.List(ctx, f.otherDoctor)
	require.NoError(t, err)
	assert.Empty(t, unassigned)

	everything, err := f.svc.List(ctx, f.staff)
	require.NoError(t, err)
	assert.Len(t, everything, 2)

	stats, err := f.svc.Stats(ctx, f.doctorUser)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.TotalPatients)
	assert.EqualValues(t, 1, stats.Pending)
	assert.EqualValues(t, 1, stats.Confirmed)

	_, err = f.svc.Stats(ctx, f.patient)
	assert.ErrorIs(t, err, ErrForbidden)
}
