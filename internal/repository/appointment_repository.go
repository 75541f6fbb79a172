package repository

import (
	"context"

	"dermacare-backend/internal/models"

	"gorm.io/gorm"
)

// AppointmentFilter narrows List; nil fields are ignored.
type AppointmentFilter struct {
	PatientID *uint64
	DoctorID  *uint64
	Status    *models.AppointmentStatus
}

type AppointmentRepository interface {
	Create(ctx context.Context, a *models.Appointment) error
	FindByID(ctx context.Context, id uint64) (*models.Appointment, error)
	List(ctx context.Context, f AppointmentFilter) ([]models.Appointment, error)
	UpdateStatus(ctx context.Context, id uint64, status models.AppointmentStatus) error
	CountByStatus(ctx context.Context, doctorID uint64) (map[models.AppointmentStatus]int64, error)
	CountPatients(ctx context.Context, doctorID uint64) (int64, error)
}

type appointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) AppointmentRepository {
	return &appointmentRepository{db: db}
}

func (r *appointmentRepository) Create(ctx context.Context, a *models.Appointment) error {
	err := r.db.WithContext(ctx).Omit("Patient", "Doctor", "Prediction").Create(a).Error
	return translate(err, "create appointment")
}

func (r *appointmentRepository) FindByID(ctx context.Context, id uint64) (*models.Appointment, error) {
	var a models.Appointment
	err := r.db.WithContext(ctx).
		Preload("Patient").
		Preload("Doctor").
		Preload("Prediction").
		First(&a, id).Error
	if err != nil {
		return nil, translate(err, "find appointment")
	}
	return &a, nil
}

func (r *appointmentRepository) List(ctx context.Context, f AppointmentFilter) ([]models.Appointment, error) {
	query := r.db.WithContext(ctx).
		Preload("Patient").
		Preload("Doctor").
		Preload("Prediction").
		Order("date desc").Order("time desc").Order("id desc")

	if f.PatientID != nil {
		query = query.Where("patient_id = ?", *f.PatientID)
	}
	if f.DoctorID != nil {
		query = query.Where("doctor_id = ?", *f.DoctorID)
	}
	if f.Status != nil {
		query = query.Where("status = ?", *f.Status)
	}

	var appts []models.Appointment
	err := query.Find(&appts).Error
	return appts, translate(err, "list appointments")
}

// UpdateStatus writes the status column only. Concurrent writers are last-write-wins.
func (r *appointmentRepository) UpdateStatus(ctx context.Context, id uint64, status models.AppointmentStatus) error {
	err := r.db.WithContext(ctx).Model(&models.Appointment{}).Where("id = ?", id).Update("status", status).Error
	return translate(err, "update appointment status")
}

func (r *appointmentRepository) CountByStatus(ctx context.Context, doctorID uint64) (map[models.AppointmentStatus]int64, error) {
	var rows []struct {
		Status models.AppointmentStatus
		Total  int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Select("status, COUNT(*) AS total").
		Where("doctor_id = ?", doctorID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, "count appointments")
	}

	counts := make(map[models.AppointmentStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}

func (r *appointmentRepository) CountPatients(ctx context.Context, doctorID uint64) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("doctor_id = ?", doctorID).
		Distinct("patient_id").
		Count(&total).Error
	return total, translate(err, "count patients")
}
