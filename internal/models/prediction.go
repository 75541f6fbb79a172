package models

import "time"

// Prediction is a disease classification result. Rows are never updated.
type Prediction struct {
	ID         uint64    `gorm:"primaryKey" json:"id"`
	UserID     uint64    `gorm:"index;not null" json:"user_id"`
	Disease    string    `gorm:"size:100;not null" json:"disease"`
	Confidence float64   `json:"confidence"`
	ImageURL   string    `gorm:"size:500" json:"image_url"`
	BodyPart   string    `gorm:"size:50" json:"body_part"`
	Symptoms   string    `gorm:"type:text" json:"symptoms"`
	Duration   string    `gorm:"size:50" json:"duration"`
	Timestamp  time.Time `gorm:"autoCreateTime" json:"timestamp"`
}

type CreatePredictionInput struct {
	Disease    string  `json:"disease" binding:"required"`
	Confidence float64 `json:"confidence" binding:"gte=0,lte=100"`
	ImageURL   string  `json:"imageUrl" binding:"required"`
	BodyPart   string  `json:"bodyPart"`
	Symptoms   string  `json:"symptoms"`
	Duration   string  `json:"duration"`
}
