package services

import (
	"legal_nexus_go/models"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupServiceTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.LawyerProfile{},
		&models.APIToken{},
		&models.Case{},
		&models.CaseActivity{},
		&models.Notification{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func newTestUser(t *testing.T, db *gorm.DB, name, role string) *models.User {
	user := &models.User{
		Name:     name,
		Email:    name + "-" + uuid.New().String()[:8] + "@example.com",
		Role:     role,
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func newTestCase(t *testing.T, db *gorm.DB, clientID, caseNumber string, priorityLevel int, deadline *time.Time) *models.Case {
	c := &models.Case{
		CaseNumber:    caseNumber,
		Title:         "Test case " + caseNumber,
		CaseType:      models.CaseTypeCivil,
		ClientID:      clientID,
		PriorityLevel: priorityLevel,
		Status:        models.CaseStatusFiled,
		Deadline:      deadline,
	}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("failed to create case: %v", err)
	}
	return c
}

func datePtr(ts time.Time) *time.Time {
	return &ts
}

func stringPtr(s string) *string {
	return &s
}
