package models

import "time"

type Doctor struct {
	ID               uint64    `gorm:"primaryKey" json:"id"`
	UserID           uint64    `gorm:"uniqueIndex;not null" json:"user_id"`
	Name             string    `gorm:"size:100;not null" json:"name"`
	Education        string    `gorm:"size:200" json:"education"`
	Hospital         string    `gorm:"size:200" json:"hospital"`
	HospitalLocation string    `gorm:"size:200" json:"hospital_location"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

type DoctorProfileInput struct {
	Name             string `json:"name" binding:"required"`
	Education        string `json:"education"`
	Hospital         string `json:"hospital"`
	HospitalLocation string `json:"hospital_location"`
}
