package handlers

import (
	"encoding/json"
	"legal_nexus_go/models"
	"legal_nexus_go/services"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestListNotificationsHandler(t *testing.T) {
	database := setupTestDB(t)

	lawyer := createTestUser(t, database, "Lawyer", models.RoleLawyer)
	other := createTestUser(t, database, "Other", models.RoleLawyer)

	assert.NoError(t, services.CreateNotification(database, lawyer.ID, models.NotificationCaseUpdate, "Update", "Case moved to hearing", nil))
	assert.NoError(t, services.CreateNotification(database, lawyer.ID, models.NotificationCaseOverdue, "Overdue", "Case is overdue", nil))
	assert.NoError(t, services.CreateNotification(database, other.ID, models.NotificationCaseUpdate, "Update", "Not yours", nil))

	t.Run("Lists own only", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/api/notifications", nil)
		asUser(c, lawyer)

		assert.NoError(t, ListNotificationsHandler(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Notifications []models.Notification `json:"notifications"`
			UnreadCount   int64                 `json:"unread_count"`
		}
		json.Unmarshal(rec.Body.Bytes(), &resp)
		assert.Len(t, resp.Notifications, 2)
		assert.Equal(t, int64(2), resp.UnreadCount)
	})

	t.Run("Unread filter after marking read", func(t *testing.T) {
		var first models.Notification
		database.Where("recipient_id = ?", lawyer.ID).First(&first)

		_, c, rec := setupEcho(http.MethodPost, "/api/notifications/"+first.ID+"/read", nil)
		c.SetParamNames("id")
		c.SetParamValues(first.ID)
		asUser(c, lawyer)

		assert.NoError(t, MarkNotificationReadHandler(c))
		assert.Equal(t, http.StatusNoContent, rec.Code)

		_, c, rec = setupEcho(http.MethodGet, "/api/notifications?unread=true", nil)
		asUser(c, lawyer)

		assert.NoError(t, ListNotificationsHandler(c))

		var resp struct {
			Notifications []models.Notification `json:"notifications"`
		}
		json.Unmarshal(rec.Body.Bytes(), &resp)
		assert.Len(t, resp.Notifications, 1)
	})

	t.Run("Cannot mark another user's notification", func(t *testing.T) {
		var foreign models.Notification
		database.Where("recipient_id = ?", other.ID).First(&foreign)

		_, c, _ := setupEcho(http.MethodPost, "/api/notifications/"+foreign.ID+"/read", nil)
		c.SetParamNames("id")
		c.SetParamValues(foreign.ID)
		asUser(c, lawyer)

		err := MarkNotificationReadHandler(c)
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusNotFound, httpErr.Code)
	})
}
