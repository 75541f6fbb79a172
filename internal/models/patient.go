package models

import "time"

// Patient is the profile extension of a patient-role user.
type Patient struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	UserID    uint64    `gorm:"uniqueIndex;not null" json:"user_id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Age       int       `json:"age"`
	Gender    string    `gorm:"size:10" json:"gender"` // male, female, other
	MailID    string    `gorm:"size:191" json:"mail_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Complete reports whether the profile is good enough to book appointments.
func (p *Patient) Complete() bool {
	return p.Name != "" && p.MailID != ""
}

type PatientProfileInput struct {
	Name   string `json:"name" binding:"required"`
	Age    int    `json:"age" binding:"gte=0,lte=150"`
	Gender string `json:"gender" binding:"omitempty,oneof=male female other"`
	MailID string `json:"mail_id" binding:"omitempty,email"`
}
