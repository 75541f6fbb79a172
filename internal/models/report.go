package models

import "time"

// Report copies the patient fields at creation; later profile edits do not touch it.
type Report struct {
	ID            uint64    `gorm:"primaryKey" json:"id"`
	UserID        uint64    `gorm:"index;not null" json:"user_id"`
	PredictionID  uint64    `gorm:"index;not null" json:"prediction_id"`
	PatientName   string    `gorm:"size:100" json:"patient_name"`
	PatientAge    int       `json:"patient_age"`
	PatientGender string    `gorm:"size:10" json:"patient_gender"`
	PDFURL        string    `gorm:"size:255" json:"pdf_url"`
	CreatedAt     time.Time `json:"created_at"`

	Prediction Prediction `gorm:"foreignKey:PredictionID" json:"prediction"`
}

type GenerateReportInput struct {
	PredictionID string `json:"predictionId" binding:"required"`
}
