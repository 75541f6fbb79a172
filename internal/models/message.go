package models

import "time"

type Message struct {
	ID         uint64    `gorm:"primaryKey" json:"id"`
	SenderID   uint64    `gorm:"index;not null" json:"sender_id"`
	ReceiverID uint64    `gorm:"index;not null" json:"receiver_id"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	IsRead     bool      `gorm:"not null" json:"is_read"`
	Timestamp  time.Time `gorm:"autoCreateTime" json:"timestamp"`

	Sender   User `gorm:"foreignKey:SenderID" json:"-"`
	Receiver User `gorm:"foreignKey:ReceiverID" json:"-"`
}

// SendMessageInput targets either a user directly or a doctor profile.
type SendMessageInput struct {
	ReceiverID string `json:"receiverId"`
	DoctorID   string `json:"doctorId"`
	Content    string `json:"content" binding:"required"`
}
