package models

import (
	"fmt"
	"time"
)

// ContactMessage is a message submitted through the public contact form.
// Rows are written once and never modified.
type ContactMessage struct {
	ID            uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Name          string    `json:"name" gorm:"size:150;not null"`
	Email         string    `json:"email" gorm:"size:150;not null"`
	ContactNumber string    `json:"contactNumber" gorm:"column:contact_number;size:15;not null"`
	Message       string    `json:"message" gorm:"type:text;not null"`
	CreatedAt     time.Time `json:"createdAt"`
}

// TableName specifies the table name for ContactMessage Model
func (ContactMessage) TableName() string {
	return "contact_messages"
}

// NotificationBody renders the plain text body sent to the administrator
func (m ContactMessage) NotificationBody() string {
	return fmt.Sprintf("Name: %s\nEmail: %s\nContact Number: %s\nMessage: %s",
		m.Name, m.Email, m.ContactNumber, m.Message)
}
