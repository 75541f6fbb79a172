package report

import (
	"context"
	"errors"
	"fmt"

	"dermacare-backend/internal/models"
	"dermacare-backend/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const unknownGender = "unknown"

type Service struct {
	reports     repository.ReportRepository
	predictions repository.PredictionRepository
	patients    repository.PatientRepository
	log         *zap.Logger
	newID       func() string
}

func New(repos *repository.Repositories, log *zap.Logger) *Service {
	return &Service{
		reports:     repos.Reports,
		predictions: repos.Predictions,
		patients:    repos.Patients,
		log:         log,
		newID:       uuid.NewString,
	}
}

// Generate stores a report for one of the caller's predictions. The patient
// fields are copied now and never follow later profile edits.
func (s *Service) Generate(ctx context.Context, user *models.User, predictionID uint64) (*models.Report, error) {
	pred, err := s.predictions.FindByID(ctx, predictionID)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && pred.UserID != user.ID) {
		return nil, ErrPredictionNotFound
	}
	if err != nil {
		return nil, err
	}

	rep := &models.Report{
		UserID:        user.ID,
		PredictionID:  pred.ID,
		PatientName:   user.Email,
		PatientGender: unknownGender,
		PDFURL:        fmt.Sprintf("/reports/report_%s.pdf", s.newID()),
	}

	profile, err := s.patients.FindByUserID(ctx, user.ID)
	switch {
	case err == nil:
		rep.PatientName = profile.Name
		rep.PatientAge = profile.Age
		rep.PatientGender = profile.Gender
	case !errors.Is(err, repository.ErrNotFound):
		return nil, err
	}

	if err := s.reports.Create(ctx, rep); err != nil {
		return nil, err
	}
	rep.Prediction = *pred

	s.log.Info("report generated",
		zap.Uint64("report_id", rep.ID),
		zap.Uint64("prediction_id", pred.ID),
		zap.Uint64("user_id", user.ID),
	)
	return rep, nil
}

func (s *Service) List(ctx context.Context, user *models.User) ([]models.Report, error) {
	return s.reports.ListByUser(ctx, user.ID)
}
