package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dermacare-backend/internal/models"
	"dermacare-backend/internal/repository"
	"dermacare-backend/pkg/utils"

	"go.uber.org/zap"
)

const defaultTime = "10:00"

type CreateRequest struct {
	DoctorID      uint64
	PredictionID  uint64 // 0 when absent
	ReportID      uint64 // resolved to its prediction when PredictionID is 0
	PreferredDate string // YYYY-MM-DD, today when empty
	PreferredTime string // HH:MM, 10:00 when empty
}

type Stats struct {
	TotalPatients int64
	Pending       int64
	Confirmed     int64
	Completed     int64
	Cancelled     int64
}

type Service struct {
	appointments repository.AppointmentRepository
	doctors      repository.DoctorRepository
	patients     repository.PatientRepository
	predictions  repository.PredictionRepository
	reports      repository.ReportRepository
	users        repository.UserRepository
	notifier     utils.Notifier
	log          *zap.Logger
	now          func() time.Time
}

func New(repos *repository.Repositories, notifier utils.Notifier, log *zap.Logger) *Service {
	return &Service{
		appointments: repos.Appointments,
		doctors:      repos.Doctors,
		patients:     repos.Patients,
		predictions:  repos.Predictions,
		reports:      repos.Reports,
		users:        repos.Users,
		notifier:     notifier,
		log:          log,
		now:          time.Now,
	}
}

// Create books a pending appointment for a patient with a complete profile.
func (s *Service) Create(ctx context.Context, actor *models.User, req CreateRequest) (*models.Appointment, error) {
	if !actor.IsPatient() {
		return nil, ErrForbidden
	}

	profile, err := s.patients.FindByUserID(ctx, actor.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrIncompleteProfile
	}
	if err != nil {
		return nil, err
	}
	if !profile.Complete() {
		return nil, ErrIncompleteProfile
	}

	date, clock, err := s.schedule(req.PreferredDate, req.PreferredTime)
	if err != nil {
		return nil, err
	}

	if req.DoctorID == 0 {
		return nil, ErrDoctorNotFound
	}
	doctor, err := s.doctors.FindByID(ctx, req.DoctorID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrDoctorNotFound
	}
	if err != nil {
		return nil, err
	}

	predictionID, err := s.resolvePrediction(ctx, actor, req)
	if err != nil {
		return nil, err
	}

	appt := &models.Appointment{
		PatientID:    actor.ID,
		DoctorID:     doctor.ID,
		PredictionID: predictionID,
		Date:         date,
		Time:         clock,
		Status:       models.StatusPending,
	}
	if err := s.appointments.Create(ctx, appt); err != nil {
		return nil, err
	}

	s.notifyUser(ctx, doctor.UserID, "New appointment request",
		fmt.Sprintf("%s requested an appointment on %s at %s", profile.Name, date, clock), appt)

	return s.appointments.FindByID(ctx, appt.ID)
}

func (s *Service) schedule(date, clock string) (string, string, error) {
	if date == "" {
		date = s.now().Format(models.AppointmentDateLayout)
	} else if _, err := time.Parse(models.AppointmentDateLayout, date); err != nil {
		return "", "", ErrInvalidSchedule
	}

	if clock == "" {
		clock = defaultTime
	} else {
		t, err := time.Parse(models.AppointmentTimeLayout, clock)
		if err != nil {
			return "", "", ErrInvalidSchedule
		}
		clock = t.Format(models.AppointmentTimeLayout)
	}
	return date, clock, nil
}

// resolvePrediction returns the caller's prediction named directly or through a report.
func (s *Service) resolvePrediction(ctx context.Context, actor *models.User, req CreateRequest) (*uint64, error) {
	id := req.PredictionID
	if id == 0 && req.ReportID != 0 {
		rep, err := s.reports.FindByID(ctx, req.ReportID)
		if errors.Is(err, repository.ErrNotFound) || (err == nil && rep.UserID != actor.ID) {
			return nil, ErrPredictionNotFound
		}
		if err != nil {
			return nil, err
		}
		id = rep.PredictionID
	}
	if id == 0 {
		return nil, nil
	}

	pred, err := s.predictions.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && pred.UserID != actor.ID) {
		return nil, ErrPredictionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &pred.ID, nil
}

// Cancel moves the appointment to cancelled. The owning patient may cancel
// from any status; everyone else only from a non-terminal one.
func (s *Service) Cancel(ctx context.Context, actor *models.User, id uint64) (*models.Appointment, error) {
	appt, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanCancel(actor, appt) {
		return nil, ErrForbidden
	}
	if appt.PatientID != actor.ID && appt.Status.Terminal() && appt.Status != models.StatusCancelled {
		return nil, ErrInvalidTransition
	}
	return s.setStatus(ctx, actor, appt, models.StatusCancelled)
}

// Confirm moves pending to confirmed. Terminal appointments cannot be confirmed.
func (s *Service) Confirm(ctx context.Context, actor *models.User, id uint64) (*models.Appointment, error) {
	appt, err := s.load(ctx, id)
	if errors.Is(err, ErrNotFound) && !canConfirmAny(actor) {
		return nil, ErrForbidden
	}
	if err != nil {
		return nil, err
	}
	if !CanConfirm(actor, appt) {
		return nil, ErrForbidden
	}
	if !CanTransition(appt.Status, models.StatusConfirmed) {
		return nil, ErrInvalidTransition
	}
	return s.setStatus(ctx, actor, appt, models.StatusConfirmed)
}

// UpdateStatus validates the value first, then the role rule, then ownership and the workflow.
func (s *Service) UpdateStatus(ctx context.Context, actor *models.User, id uint64, status string) (*models.Appointment, error) {
	target := models.AppointmentStatus(status)
	if !target.Valid() {
		return nil, ErrInvalidStatus
	}
	if !CanSetStatus(actor, target) {
		return nil, ErrForbidden
	}

	appt, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.IsPatient() && appt.PatientID != actor.ID {
		return nil, ErrForbidden
	}
	if !CanTransition(appt.Status, target) {
		return nil, ErrInvalidTransition
	}
	return s.setStatus(ctx, actor, appt, target)
}

// List returns what the caller may see: staff everything, doctors their
// assigned appointments, patients their own.
func (s *Service) List(ctx context.Context, actor *models.User) ([]models.Appointment, error) {
	var filter repository.AppointmentFilter
	switch {
	case actor.IsStaff:
	case actor.IsDoctor():
		doctor, err := s.doctors.FindByUserID(ctx, actor.ID)
		if errors.Is(err, repository.ErrNotFound) {
			return []models.Appointment{}, nil
		}
		if err != nil {
			return nil, err
		}
		filter.DoctorID = &doctor.ID
	default:
		filter.PatientID = &actor.ID
	}
	return s.appointments.List(ctx, filter)
}

// Stats summarises the calling doctor's appointments.
func (s *Service) Stats(ctx context.Context, actor *models.User) (*Stats, error) {
	if !actor.IsDoctor() {
		return nil, ErrForbidden
	}
	doctor, err := s.doctors.FindByUserID(ctx, actor.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrDoctorNotFound
	}
	if err != nil {
		return nil, err
	}

	counts, err := s.appointments.CountByStatus(ctx, doctor.ID)
	if err != nil {
		return nil, err
	}
	patients, err := s.appointments.CountPatients(ctx, doctor.ID)
	if err != nil {
		return nil, err
	}

	return &Stats{
		TotalPatients: patients,
		Pending:       counts[models.StatusPending],
		Confirmed:     counts[models.StatusConfirmed],
		Completed:     counts[models.StatusCompleted],
		Cancelled:     counts[models.StatusCancelled],
	}, nil
}

func (s *Service) load(ctx context.Context, id uint64) (*models.Appointment, error) {
	appt, err := s.appointments.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	return appt, err
}

func (s *Service) setStatus(ctx context.Context, actor *models.User, appt *models.Appointment, status models.AppointmentStatus) (*models.Appointment, error) {
	if appt.Status == status {
		return appt, nil
	}
	if err := s.appointments.UpdateStatus(ctx, appt.ID, status); err != nil {
		return nil, err
	}

	s.log.Info("appointment status changed",
		zap.Uint64("appointment_id", appt.ID),
		zap.String("from", string(appt.Status)),
		zap.String("to", string(status)),
		zap.Uint64("actor_id", actor.ID),
	)
	appt.Status = status

	// tell whichever side did not make the change
	recipient := appt.PatientID
	if actor.ID == appt.PatientID {
		recipient = appt.Doctor.UserID
	}
	s.notifyUser(ctx, recipient, "Appointment "+string(status),
		fmt.Sprintf("Your appointment on %s at %s is now %s", appt.Date, appt.Time, status), appt)

	return appt, nil
}

func (s *Service) notifyUser(ctx context.Context, userID uint64, title, body string, appt *models.Appointment) {
	if userID == 0 {
		return
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil || user.FCMToken == "" {
		return
	}
	data := map[string]string{
		"type":           "appointment",
		"appointment_id": utils.FormatID(appt.ID),
		"status":         string(appt.Status),
	}
	if err := s.notifier.Notify(ctx, user.FCMToken, title, body, data); err != nil {
		s.log.Warn("appointment notification failed", zap.Uint64("user_id", userID), zap.Error(err))
	}
}
