package jobs

import (
	"legal_nexus_go/config"
	"legal_nexus_go/models"
	"legal_nexus_go/services"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupJobTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Case{},
		&models.CaseActivity{},
		&models.Notification{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func createJobUser(t *testing.T, db *gorm.DB, name, role string) *models.User {
	user := &models.User{
		Name:     name,
		Email:    name + "-" + uuid.New().String()[:8] + "@example.com",
		Role:     role,
		IsActive: true,
	}
	assert.NoError(t, db.Create(user).Error)
	return user
}

func newQuery(db *gorm.DB) *services.PriorityQueryService {
	return services.NewPriorityQueryService(
		services.NewCaseStore(db),
		services.NewScorer(services.DefaultPriorityPolicy()),
	)
}

func TestRunUrgentActionsSweepOverdueReminder(t *testing.T) {
	db := setupJobTestDB(t)
	cfg := &config.Config{EmailTestMode: true, AppURL: "http://localhost:8080"}

	lawyer := createJobUser(t, db, "Lawyer", models.RoleLawyer)
	client := createJobUser(t, db, "Client", models.RoleClient)

	past := time.Now().AddDate(0, 0, -5)
	kase := &models.Case{
		CaseNumber:       "LN-2026-00001",
		Title:            "Overdue case",
		CaseType:         models.CaseTypeCivil,
		ClientID:         client.ID,
		AssignedLawyerID: &lawyer.ID,
		PriorityLevel:    2,
		Status:           models.CaseStatusHearing,
		Deadline:         &past,
	}
	assert.NoError(t, db.Create(kase).Error)

	RunUrgentActionsSweep(db, cfg, newQuery(db))

	var notifications []models.Notification
	db.Where("recipient_id = ?", lawyer.ID).Find(&notifications)
	assert.Len(t, notifications, 1)
	assert.Equal(t, models.NotificationCaseOverdue, notifications[0].NotificationType)

	// A second sweep within the reminder window does not duplicate
	RunUrgentActionsSweep(db, cfg, newQuery(db))
	db.Where("recipient_id = ?", lawyer.ID).Find(&notifications)
	assert.Len(t, notifications, 1)
}

func TestRunUrgentActionsSweepUnassignedUrgent(t *testing.T) {
	db := setupJobTestDB(t)
	cfg := &config.Config{EmailTestMode: true}

	admin := createJobUser(t, db, "Admin", models.RoleAdmin)
	client := createJobUser(t, db, "Client", models.RoleClient)

	// Priority 1 criminal case due tomorrow: 80 + 15 + 10 = 100, unassigned
	soon := time.Now().AddDate(0, 0, 1)
	kase := &models.Case{
		CaseNumber:    "LN-2026-00002",
		Title:         "Urgent unassigned",
		CaseType:      models.CaseTypeCriminal,
		ClientID:      client.ID,
		PriorityLevel: 1,
		Status:        models.CaseStatusFiled,
		Deadline:      &soon,
	}
	assert.NoError(t, db.Create(kase).Error)

	RunUrgentActionsSweep(db, cfg, newQuery(db))

	var notifications []models.Notification
	db.Where("recipient_id = ?", admin.ID).Find(&notifications)
	assert.Len(t, notifications, 1)
	assert.Equal(t, models.NotificationNeedsAssignment, notifications[0].NotificationType)

	// Pending alert suppresses duplicates until it is read
	RunUrgentActionsSweep(db, cfg, newQuery(db))
	db.Where("recipient_id = ?", admin.ID).Find(&notifications)
	assert.Len(t, notifications, 1)
}

func TestRunUrgentActionsSweepQuietWhenNothingUrgent(t *testing.T) {
	db := setupJobTestDB(t)
	cfg := &config.Config{EmailTestMode: true}

	createJobUser(t, db, "Admin", models.RoleAdmin)
	client := createJobUser(t, db, "Client", models.RoleClient)

	kase := &models.Case{
		CaseNumber:    "LN-2026-00003",
		Title:         "Routine case",
		CaseType:      models.CaseTypeCivil,
		ClientID:      client.ID,
		PriorityLevel: 5,
		Status:        models.CaseStatusFiled,
	}
	assert.NoError(t, db.Create(kase).Error)

	RunUrgentActionsSweep(db, cfg, newQuery(db))

	var count int64
	db.Model(&models.Notification{}).Count(&count)
	assert.Equal(t, int64(0), count)
}
