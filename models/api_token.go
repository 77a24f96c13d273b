package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// APIToken is an opaque bearer credential for API clients.
// The wire form is "<id>.<secret>"; only a bcrypt hash of the secret is stored.
type APIToken struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	UserID string `gorm:"type:uuid;not null;index" json:"user_id"`
	User   User   `gorm:"foreignKey:UserID" json:"user,omitempty"`

	SecretHash string     `gorm:"not null" json:"-"`
	Label      string     `json:"label"` // e.g. "dashboard", "reporting"
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty"`
}

// BeforeCreate hook to generate UUID
func (t *APIToken) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for APIToken model
func (APIToken) TableName() string {
	return "api_tokens"
}

// IsRevoked checks if the token has been revoked
func (t *APIToken) IsRevoked() bool {
	return t.RevokedAt != nil
}
