package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Lawyer availability constants
const (
	AvailabilityAvailable = "available"
	AvailabilityBusy      = "busy"
	AvailabilityOffline   = "offline"
)

// LawyerProfile holds additional profile information for lawyer users
type LawyerProfile struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID string `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	User   User   `gorm:"foreignKey:UserID" json:"user,omitempty"`

	LicenseNumber   string  `gorm:"not null;uniqueIndex" json:"license_number"`
	Specializations string  `json:"specializations"` // Comma-separated, e.g. "criminal,civil"
	ExperienceYears int     `gorm:"not null;default:0" json:"experience_years"`
	BarAssociation  string  `json:"bar_association"`
	HourlyRate      *float64 `json:"hourly_rate,omitempty"`

	AvailabilityStatus string  `gorm:"not null;default:available" json:"availability_status"`
	Rating             float64 `gorm:"not null;default:0" json:"rating"`
	TotalCases         int     `gorm:"not null;default:0" json:"total_cases"`
}

// BeforeCreate hook to generate UUID
func (p *LawyerProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for LawyerProfile model
func (LawyerProfile) TableName() string {
	return "lawyer_profiles"
}

// SpecializationList returns specializations as a slice
func (p *LawyerProfile) SpecializationList() []string {
	if p.Specializations == "" {
		return nil
	}
	parts := strings.Split(p.Specializations, ",")
	out := make([]string, 0, len(parts))
	for _, s := range parts {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// IsAvailable checks if the lawyer can take new cases
func (p *LawyerProfile) IsAvailable() bool {
	return p.AvailabilityStatus == AvailabilityAvailable
}
