package models

import "time"

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

const (
	AppointmentDateLayout = "2006-01-02"
	AppointmentTimeLayout = "15:04"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Terminal statuses accept no further transitions.
func (s AppointmentStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

type Appointment struct {
	ID           uint64            `gorm:"primaryKey" json:"id"`
	PatientID    uint64            `gorm:"index;not null" json:"patient_id"` // users.id
	DoctorID     uint64            `gorm:"index;not null" json:"doctor_id"`  // doctors.id
	PredictionID *uint64           `json:"prediction_id"`
	Date         string            `gorm:"size:10;not null" json:"date"`
	Time         string            `gorm:"size:5;not null" json:"time"`
	Status       AppointmentStatus `gorm:"size:20;not null;index" json:"status"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`

	Patient    User        `gorm:"foreignKey:PatientID" json:"-"`
	Doctor     Doctor      `gorm:"foreignKey:DoctorID" json:"-"`
	Prediction *Prediction `gorm:"foreignKey:PredictionID" json:"-"`
}

type CreateAppointmentInput struct {
	DoctorID      string `json:"doctorId" binding:"required"`
	PredictionID  string `json:"predictionId"`
	ReportID      string `json:"reportId"`
	PreferredDate string `json:"preferredDate"`
	PreferredTime string `json:"preferredTime"`
	Message       string `json:"message"`
}

type UpdateAppointmentStatusInput struct {
	Status string `json:"status" binding:"required"`
}
