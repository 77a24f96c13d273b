package handlers

import (
	"legal_nexus_go/db"
	"legal_nexus_go/middleware"
	"legal_nexus_go/services"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ListNotificationsHandler returns the current user's notifications, newest
// first. ?unread=true narrows to unread ones.
func ListNotificationsHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	notifications, err := services.GetUserNotifications(db.DB, user.ID, c.QueryParam("unread") == "true")
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error loading notifications")
	}

	unread, err := services.UnreadNotificationCount(db.DB, user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error counting notifications")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"notifications": notifications,
		"unread_count":  unread,
	})
}

// MarkNotificationReadHandler marks one of the user's notifications as read
func MarkNotificationReadHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	notificationID := c.Param("id")

	if err := services.MarkNotificationRead(db.DB, user.ID, notificationID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Notification not found")
	}

	return c.NoContent(http.StatusNoContent)
}
