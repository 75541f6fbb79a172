package repository

import (
	"context"

	"dermacare-backend/internal/models"

	"gorm.io/gorm"
)

// PredictionRepository has no update method: predictions are immutable once stored.
type PredictionRepository interface {
	Create(ctx context.Context, p *models.Prediction) error
	FindByID(ctx context.Context, id uint64) (*models.Prediction, error)
	ListByUser(ctx context.Context, userID uint64) ([]models.Prediction, error)
}

type ReportRepository interface {
	Create(ctx context.Context, r *models.Report) error
	FindByID(ctx context.Context, id uint64) (*models.Report, error)
	ListByUser(ctx context.Context, userID uint64) ([]models.Report, error)
}

type predictionRepository struct {
	db *gorm.DB
}

func NewPredictionRepository(db *gorm.DB) PredictionRepository {
	return &predictionRepository{db: db}
}

func (r *predictionRepository) Create(ctx context.Context, p *models.Prediction) error {
	return translate(r.db.WithContext(ctx).Create(p).Error, "create prediction")
}

func (r *predictionRepository) FindByID(ctx context.Context, id uint64) (*models.Prediction, error) {
	var p models.Prediction
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, translate(err, "find prediction")
	}
	return &p, nil
}

func (r *predictionRepository) ListByUser(ctx context.Context, userID uint64) ([]models.Prediction, error) {
	var preds []models.Prediction
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp desc").Order("id desc").
		Find(&preds).Error
	return preds, translate(err, "list predictions")
}

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) Create(ctx context.Context, rep *models.Report) error {
	return translate(r.db.WithContext(ctx).Omit("Prediction").Create(rep).Error, "create report")
}

func (r *reportRepository) FindByID(ctx context.Context, id uint64) (*models.Report, error) {
	var rep models.Report
	if err := r.db.WithContext(ctx).Preload("Prediction").First(&rep, id).Error; err != nil {
		return nil, translate(err, "find report")
	}
	return &rep, nil
}

func (r *reportRepository) ListByUser(ctx context.Context, userID uint64) ([]models.Report, error) {
	var reps []models.Report
	err := r.db.WithContext(ctx).
		Preload("Prediction").
		Where("user_id = ?", userID).
		Order("created_at desc").Order("id desc").
		Find(&reps).Error
	return reps, translate(err, "list reports")
}
