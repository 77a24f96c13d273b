package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Case status constants (workflow states - must remain fixed)
const (
	CaseStatusFiled         = "filed"
	CaseStatusInvestigation = "investigation"
	CaseStatusHearing       = "hearing"
	CaseStatusTrial         = "trial"
	CaseStatusClosed        = "closed" // Terminal - no transitions out
)

// Case type constants
const (
	CaseTypeCriminal       = "criminal"
	CaseTypeCivil          = "civil"
	CaseTypeFamily         = "family"
	CaseTypeCorporate      = "corporate"
	CaseTypeImmigration    = "immigration"
	CaseTypePersonalInjury = "personal_injury"
	CaseTypeProperty       = "property"
	CaseTypeEmployment     = "employment"
	CaseTypeTax            = "tax"
	CaseTypeOther          = "other"
)

// Priority level bounds (1 = critical, 5 = routine)
const (
	PriorityLevelCritical = 1
	PriorityLevelRoutine  = 5
	PriorityLevelDefault  = 3
)

// Case represents a legal case
type Case struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Case identification
	CaseNumber  string `gorm:"not null;uniqueIndex" json:"case_number"`
	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	CaseType    string `gorm:"not null;index" json:"case_type"`

	// Client relationship (User with role 'client')
	ClientID string `gorm:"type:uuid;not null;index" json:"client_id"`
	Client   User   `gorm:"foreignKey:ClientID" json:"client,omitempty"`

	// Assignment (weak reference - lookup only)
	AssignedLawyerID *string `gorm:"type:uuid;index" json:"assigned_lawyer_id,omitempty"`
	AssignedLawyer   *User   `gorm:"foreignKey:AssignedLawyerID" json:"assigned_lawyer,omitempty"`

	// Priority and status
	PriorityLevel int    `gorm:"not null;default:3" json:"priority_level"`
	Status        string `gorm:"not null;default:filed;index" json:"status"`

	// Important dates
	Deadline *time.Time `gorm:"index" json:"deadline,omitempty"`
	ClosedAt *time.Time `json:"closed_at,omitempty"`

	// Scoring inputs
	EvidenceCount int      `gorm:"not null;default:0" json:"evidence_count"`
	EstimatedCost *float64 `json:"estimated_cost,omitempty"`

	// Activity tracking
	LastActivity time.Time `json:"last_activity"`

	// Optimistic concurrency control: updates must CAS on this column
	Version int `gorm:"not null;default:1" json:"-"`

	// Relationships
	Activities []CaseActivity `gorm:"foreignKey:CaseID" json:"activities,omitempty"`
}

// BeforeCreate hook to generate UUID and initialize activity tracking
func (c *Case) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.LastActivity.IsZero() {
		c.LastActivity = time.Now()
	}
	if c.PriorityLevel == 0 {
		c.PriorityLevel = PriorityLevelDefault
	}
	if c.Version == 0 {
		c.Version = 1
	}
	return nil
}

// TableName specifies the table name for Case model
func (Case) TableName() string {
	return "cases"
}

// IsClosed checks if the case has reached its terminal status
func (c *Case) IsClosed() bool {
	return c.Status == CaseStatusClosed
}

// IsAssigned checks if a lawyer is assigned to the case
func (c *Case) IsAssigned() bool {
	return c.AssignedLawyerID != nil && *c.AssignedLawyerID != ""
}

// AssignedLawyerName returns the display name of the assigned lawyer, if loaded
func (c *Case) AssignedLawyerName() string {
	if c.AssignedLawyer != nil {
		return c.AssignedLawyer.Name
	}
	return ""
}

// IsValidCaseStatus checks if the status is valid
func IsValidCaseStatus(status string) bool {
	validStatuses := []string{
		CaseStatusFiled,
		CaseStatusInvestigation,
		CaseStatusHearing,
		CaseStatusTrial,
		CaseStatusClosed,
	}
	for _, s := range validStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// IsValidCaseType checks if the case type is valid
func IsValidCaseType(caseType string) bool {
	validTypes := []string{
		CaseTypeCriminal,
		CaseTypeCivil,
		CaseTypeFamily,
		CaseTypeCorporate,
		CaseTypeImmigration,
		CaseTypePersonalInjury,
		CaseTypeProperty,
		CaseTypeEmployment,
		CaseTypeTax,
		CaseTypeOther,
	}
	for _, t := range validTypes {
		if t == caseType {
			return true
		}
	}
	return false
}

// IsValidPriorityLevel checks if the priority level is within bounds
func IsValidPriorityLevel(level int) bool {
	return level >= PriorityLevelCritical && level <= PriorityLevelRoutine
}

// GetCaseStatusDisplayName returns human-readable status name
func GetCaseStatusDisplayName(status string) string {
	names := map[string]string{
		CaseStatusFiled:         "Filed",
		CaseStatusInvestigation: "Investigation",
		CaseStatusHearing:       "Hearing",
		CaseStatusTrial:         "Trial",
		CaseStatusClosed:        "Closed",
	}
	if name, ok := names[status]; ok {
		return name
	}
	return status
}

// GetPriorityLevelDisplayName returns human-readable priority level name
func GetPriorityLevelDisplayName(level int) string {
	names := map[int]string{
		1: "Critical - Immediate Action Required",
		2: "High - Within 24 hours",
		3: "Medium - Within 3 days",
		4: "Low - Within a week",
		5: "Routine - No rush",
	}
	if name, ok := names[level]; ok {
		return name
	}
	return "Medium - Within 3 days"
}
