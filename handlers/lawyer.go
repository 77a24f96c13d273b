package handlers

import (
	"legal_nexus_go/db"
	"legal_nexus_go/models"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ListLawyersHandler returns active lawyers with their profiles, for the
// assignment picker. ?available=true narrows to lawyers accepting cases.
func ListLawyersHandler(c echo.Context) error {
	query := db.DB.Preload("LawyerProfile").
		Where("role = ? AND is_active = ?", models.RoleLawyer, true)

	var lawyers []models.User
	if err := query.Order("name ASC").Find(&lawyers).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error loading lawyers")
	}

	if c.QueryParam("available") == "true" {
		available := make([]models.User, 0, len(lawyers))
		for _, l := range lawyers {
			if l.LawyerProfile != nil && l.LawyerProfile.IsAvailable() {
				available = append(available, l)
			}
		}
		lawyers = available
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"lawyers": lawyers,
		"count":   len(lawyers),
	})
}

// GetLawyerCaseloadHandler returns a lawyer's open case count, used to spread
// assignments evenly
func GetLawyerCaseloadHandler(c echo.Context) error {
	lawyerID := c.Param("id")

	var lawyer models.User
	if err := db.DB.Preload("LawyerProfile").
		First(&lawyer, "id = ? AND role = ?", lawyerID, models.RoleLawyer).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Lawyer not found")
	}

	var openCases int64
	db.DB.Model(&models.Case{}).
		Where("assigned_lawyer_id = ? AND status <> ?", lawyer.ID, models.CaseStatusClosed).
		Count(&openCases)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"lawyer":     lawyer,
		"open_cases": openCases,
	})
}
