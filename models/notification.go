package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification type constants
const (
	NotificationCaseUpdate      = "case_update"
	NotificationCaseOverdue     = "case_overdue"
	NotificationNeedsAssignment = "needs_assignment"
)

// Notification is a per-user message about case events
type Notification struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	RecipientID string `gorm:"type:uuid;not null;index" json:"recipient_id"`
	Recipient   User   `gorm:"foreignKey:RecipientID" json:"recipient,omitempty"`

	NotificationType string `gorm:"not null" json:"notification_type"`
	Title            string `gorm:"not null" json:"title"`
	Message          string `gorm:"type:text;not null" json:"message"`
	IsRead           bool   `gorm:"not null;default:false;index" json:"is_read"`

	RelatedCaseID *string `gorm:"type:uuid;index" json:"related_case_id,omitempty"`
	RelatedCase   *Case   `gorm:"foreignKey:RelatedCaseID" json:"related_case,omitempty"`
}

// BeforeCreate hook to generate UUID
func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Notification model
func (Notification) TableName() string {
	return "notifications"
}
