package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User role constants
const (
	RoleAdmin  = "admin"
	RoleLawyer = "lawyer"
	RoleClient = "client"
)

type User struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name     string `gorm:"not null" json:"name"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Role     string `gorm:"not null;default:client" json:"role"` // admin, lawyer, client
	Phone    string `json:"phone,omitempty"`
	IsActive bool   `gorm:"not null;default:true" json:"is_active"`

	// Relationships
	LawyerProfile *LawyerProfile `gorm:"foreignKey:UserID" json:"lawyer_profile,omitempty"`
}

// BeforeCreate hook to generate UUID
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}

// IsLawyer checks if the user is a lawyer
func (u *User) IsLawyer() bool {
	return u.Role == RoleLawyer
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}

// IsValidRole checks if the role is valid
func IsValidRole(role string) bool {
	return role == RoleAdmin || role == RoleLawyer || role == RoleClient
}
