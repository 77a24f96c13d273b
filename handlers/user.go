package handlers

import (
	"legal_nexus_go/db"
	"legal_nexus_go/middleware"
	"net/http"

	"github.com/labstack/echo/v4"
)

// GetCurrentUserHandler returns the authenticated user's profile
func GetCurrentUserHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	if user.IsLawyer() {
		db.DB.Preload("LawyerProfile").First(user, "id = ?", user.ID)
	}

	return c.JSON(http.StatusOK, user)
}
