package repository

import (
	"context"
	"errors"

	"dermacare-backend/internal/models"

	"gorm.io/gorm"
)

type PatientRepository interface {
	FindByUserID(ctx context.Context, userID uint64) (*models.Patient, error)
	Save(ctx context.Context, patient *models.Patient) error
}

type DoctorRepository interface {
	List(ctx context.Context) ([]models.Doctor, error)
	FindByID(ctx context.Context, id uint64) (*models.Doctor, error)
	FindByUserID(ctx context.Context, userID uint64) (*models.Doctor, error)
	Save(ctx context.Context, doctor *models.Doctor) error
}

type patientRepository struct {
	db *gorm.DB
}

func NewPatientRepository(db *gorm.DB) PatientRepository {
	return &patientRepository{db: db}
}

func (r *patientRepository) FindByUserID(ctx context.Context, userID uint64) (*models.Patient, error) {
	var p models.Patient
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error; err != nil {
		return nil, translate(err, "find patient")
	}
	return &p, nil
}

// Save upserts the profile keyed by user_id. On return patient carries the stored row.
func (r *patientRepository) Save(ctx context.Context, patient *models.Patient) error {
	db := r.db.WithContext(ctx)

	var existing models.Patient
	err := db.Where("user_id = ?", patient.UserID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return translate(db.Create(patient).Error, "create patient")
	}
	if err != nil {
		return translate(err, "find patient")
	}

	patient.ID = existing.ID
	patient.CreatedAt = existing.CreatedAt
	return translate(db.Save(patient).Error, "update patient")
}

type doctorRepository struct {
	db *gorm.DB
}

func NewDoctorRepository(db *gorm.DB) DoctorRepository {
	return &doctorRepository{db: db}
}

func (r *doctorRepository) List(ctx context.Context) ([]models.Doctor, error) {
	var doctors []models.Doctor
	err := r.db.WithContext(ctx).Order("name asc").Find(&doctors).Error
	return doctors, translate(err, "list doctors")
}

func (r *doctorRepository) FindByID(ctx context.Context, id uint64) (*models.Doctor, error) {
	var d models.Doctor
	if err := r.db.WithContext(ctx).First(&d, id).Error; err != nil {
		return nil, translate(err, "find doctor")
	}
	return &d, nil
}

func (r *doctorRepository) FindByUserID(ctx context.Context, userID uint64) (*models.Doctor, error) {
	var d models.Doctor
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&d).Error; err != nil {
		return nil, translate(err, "find doctor by user")
	}
	return &d, nil
}

func (r *doctorRepository) Save(ctx context.Context, doctor *models.Doctor) error {
	db := r.db.WithContext(ctx)

	var existing models.Doctor
	err := db.Where("user_id = ?", doctor.UserID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return translate(db.Omit("User").Create(doctor).Error, "create doctor")
	}
	if err != nil {
		return translate(err, "find doctor")
	}

	doctor.ID = existing.ID
	doctor.CreatedAt = existing.CreatedAt
	return translate(db.Omit("User").Save(doctor).Error, "update doctor")
}
