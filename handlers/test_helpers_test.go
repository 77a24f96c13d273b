package handlers

import (
	"io"
	"legal_nexus_go/config"
	"legal_nexus_go/db"
	"legal_nexus_go/middleware"
	"legal_nexus_go/models"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	// Use unique shared memory name to isolate tests while allowing shared cache for async tasks
	dbName := "mem_" + uuid.New().String()
	testDB, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared&_busy_timeout=5000"), &gorm.Config{})
	assert.NoError(t, err)

	err = testDB.Exec("PRAGMA journal_mode=WAL;").Error
	assert.NoError(t, err)

	err = testDB.AutoMigrate(
		&models.User{},
		&models.LawyerProfile{},
		&models.APIToken{},
		&models.Case{},
		&models.CaseActivity{},
		&models.Notification{},
	)
	assert.NoError(t, err)

	// Set global DB
	db.DB = testDB

	return testDB
}

func setupEcho(method, path string, body io.Reader) (*echo.Echo, echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	// Add config to context
	c.Set("config", &config.Config{
		Environment:   "test",
		EmailTestMode: true,
	})

	return e, c, rec
}

func createTestUser(t *testing.T, database *gorm.DB, name, role string) *models.User {
	user := &models.User{
		Name:     name,
		Email:    name + "-" + uuid.New().String()[:8] + "@example.com",
		Role:     role,
		IsActive: true,
	}
	assert.NoError(t, database.Create(user).Error)
	return user
}

func createTestCase(t *testing.T, database *gorm.DB, clientID string, priorityLevel int, deadline *time.Time) *models.Case {
	kase := &models.Case{
		CaseNumber:    "LN-2026-" + uuid.New().String()[:5],
		Title:         "Test case",
		CaseType:      models.CaseTypeCivil,
		ClientID:      clientID,
		PriorityLevel: priorityLevel,
		Status:        models.CaseStatusFiled,
		Deadline:      deadline,
	}
	assert.NoError(t, database.Create(kase).Error)
	return kase
}

func asUser(c echo.Context, user *models.User) {
	c.Set(middleware.ContextKeyUser, user)
}

func timePtr(ts time.Time) *time.Time {
	return &ts
}
