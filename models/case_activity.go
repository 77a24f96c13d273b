package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Activity type constants
const (
	ActivityCaseCreated     = "case_created"
	ActivityStatusChange    = "status_change"
	ActivityAssignment      = "assignment"
	ActivityPriorityChanged = "priority_changed"
	ActivityFieldsUpdated   = "fields_updated"
)

// CaseActivity tracks mutations on cases for the audit trail
type CaseActivity struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	CaseID string `gorm:"type:uuid;not null;index" json:"case_id"`
	Case   Case   `gorm:"foreignKey:CaseID" json:"case,omitempty"`

	ActivityType string `gorm:"not null" json:"activity_type"`
	Description  string `gorm:"type:text;not null" json:"description"`

	PerformedByID *string `gorm:"type:uuid" json:"performed_by_id,omitempty"`
	PerformedBy   *User   `gorm:"foreignKey:PerformedByID" json:"performed_by,omitempty"`
}

// BeforeCreate hook to generate UUID
func (a *CaseActivity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for CaseActivity model
func (CaseActivity) TableName() string {
	return "case_activities"
}
