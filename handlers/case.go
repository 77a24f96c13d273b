package handlers

import (
	"errors"
	"legal_nexus_go/config"
	"legal_nexus_go/db"
	"legal_nexus_go/middleware"
	"legal_nexus_go/models"
	"legal_nexus_go/services"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

const defaultPageSize = 25

// ListCasesHandler returns the cases visible to the current user, newest
// activity first, with optional status/type filters and pagination.
func ListCasesHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	scope := middleware.CaseScopeFor(user)

	if status := c.QueryParam("status"); status != "" {
		if !models.IsValidCaseStatus(status) {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid status filter")
		}
		scope.Status = status
	}
	if caseType := c.QueryParam("case_type"); caseType != "" {
		if !models.IsValidCaseType(caseType) {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid case type filter")
		}
		scope.CaseType = caseType
	}
	if c.QueryParam("unassigned") == "true" {
		scope.Unassigned = true
	}

	store := services.NewCaseStore(db.DB)
	cases, err := store.List(scope)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error loading cases")
	}

	page := 1
	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil && p > 0 {
		page = p
	}
	pageSize := defaultPageSize
	if ps, err := strconv.Atoi(c.QueryParam("page_size")); err == nil && ps > 0 && ps <= 100 {
		pageSize = ps
	}

	total := len(cases)
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"cases":     cases[start:end],
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// CreateCaseRequest is the JSON body for case registration
type CreateCaseRequest struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	CaseType      string   `json:"case_type"`
	ClientID      string   `json:"client_id"`
	PriorityLevel int      `json:"priority_level"`
	Deadline      string   `json:"deadline"` // YYYY-MM-DD, optional
	EvidenceCount int      `json:"evidence_count"`
	EstimatedCost *float64 `json:"estimated_cost"`
}

// CreateCaseHandler registers a new case
func CreateCaseHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	var req CreateCaseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.Title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Title is required")
	}

	// Clients may only open cases for themselves
	clientID := req.ClientID
	if user.Role == models.RoleClient {
		clientID = user.ID
	}
	if clientID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Client is required")
	}

	input := services.CreateCaseInput{
		Title:         req.Title,
		Description:   req.Description,
		CaseType:      req.CaseType,
		ClientID:      clientID,
		PriorityLevel: req.PriorityLevel,
		EvidenceCount: req.EvidenceCount,
		EstimatedCost: req.EstimatedCost,
	}
	if req.Deadline != "" {
		deadline, err := services.ParseDeadline(req.Deadline)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid deadline, expected YYYY-MM-DD")
		}
		input.Deadline = &deadline
	}

	created, err := services.CreateCase(db.DB, input, user)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCaseData) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Error creating case")
	}

	return c.JSON(http.StatusCreated, created)
}

// GetCaseHandler returns a single case with its activity log
func GetCaseHandler(c echo.Context) error {
	kase, httpErr := fetchScopedCase(c)
	if httpErr != nil {
		return httpErr
	}

	var activities []models.CaseActivity
	db.DB.Where("case_id = ?", kase.ID).Order("created_at DESC").Limit(50).Find(&activities)
	kase.Activities = activities

	return c.JSON(http.StatusOK, kase)
}

// UpdateCaseRequest is the JSON body for descriptive field updates
type UpdateCaseRequest struct {
	Title         *string  `json:"title"`
	Description   *string  `json:"description"`
	Deadline      *string  `json:"deadline"` // YYYY-MM-DD, empty string clears
	EvidenceCount *int     `json:"evidence_count"`
	EstimatedCost *float64 `json:"estimated_cost"`
}

// UpdateCaseHandler updates the mutable descriptive fields of a case
func UpdateCaseHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	kase, httpErr := fetchScopedCase(c)
	if httpErr != nil {
		return httpErr
	}

	var req UpdateCaseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	input := services.UpdateCaseInput{
		Title:         req.Title,
		Description:   req.Description,
		EvidenceCount: req.EvidenceCount,
		EstimatedCost: req.EstimatedCost,
	}
	if req.Deadline != nil {
		if *req.Deadline == "" {
			input.ClearDeadline = true
		} else {
			deadline, err := services.ParseDeadline(*req.Deadline)
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "Invalid deadline, expected YYYY-MM-DD")
			}
			input.Deadline = &deadline
		}
	}

	store := services.NewCaseStore(db.DB)
	updated, err := services.UpdateCaseFields(store, db.DB, kase.ID, input, user)
	if err != nil {
		return caseWriteError(err)
	}

	return c.JSON(http.StatusOK, updated)
}

// ChangeCaseStatusHandler transitions a case to a new status
func ChangeCaseStatusHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	kase, httpErr := fetchScopedCase(c)
	if httpErr != nil {
		return httpErr
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil || req.Status == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Status is required")
	}

	store := services.NewCaseStore(db.DB)
	updated, err := services.ChangeCaseStatus(store, db.DB, kase.ID, req.Status, user)
	if err != nil {
		return caseWriteError(err)
	}

	return c.JSON(http.StatusOK, updated)
}

// AssignLawyerHandler assigns a lawyer to a case
func AssignLawyerHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	kase, httpErr := fetchScopedCase(c)
	if httpErr != nil {
		return httpErr
	}

	var req struct {
		LawyerID string `json:"lawyer_id"`
	}
	if err := c.Bind(&req); err != nil || req.LawyerID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Lawyer is required")
	}

	store := services.NewCaseStore(db.DB)
	updated, err := services.AssignLawyer(store, db.DB, kase.ID, req.LawyerID, user)
	if err != nil {
		return caseWriteError(err)
	}

	if cfg, ok := c.Get("config").(*config.Config); ok && updated.AssignedLawyer != nil {
		lawyer := updated.AssignedLawyer
		email := services.BuildAssignmentEmail(lawyer.Email, services.AssignmentEmailData{
			LawyerName: lawyer.Name,
			CaseNumber: updated.CaseNumber,
			Title:      updated.Title,
			CaseURL:    cfg.AppURL + "/api/cases/" + updated.ID,
		})
		services.SendEmailAsync(cfg, email)
	}

	return c.JSON(http.StatusOK, updated)
}

// OverridePriorityHandler sets a staff-chosen priority level on a case
func OverridePriorityHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	kase, httpErr := fetchScopedCase(c)
	if httpErr != nil {
		return httpErr
	}

	var req struct {
		PriorityLevel int `json:"priority_level"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	store := services.NewCaseStore(db.DB)
	updated, err := services.OverridePriority(store, db.DB, kase.ID, req.PriorityLevel, user)
	if err != nil {
		return caseWriteError(err)
	}

	return c.JSON(http.StatusOK, updated)
}

// fetchScopedCase loads the case from the :id path param and enforces the
// caller's visibility: lawyers see assigned cases, clients their own.
func fetchScopedCase(c echo.Context) (*models.Case, *echo.HTTPError) {
	user := middleware.GetCurrentUser(c)
	caseID := c.Param("id")

	store := services.NewCaseStore(db.DB)
	kase, err := store.Get(caseID)
	if err != nil {
		if errors.Is(err, services.ErrCaseNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "Case not found")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "Error loading case")
	}

	switch user.Role {
	case models.RoleLawyer:
		if kase.AssignedLawyerID == nil || *kase.AssignedLawyerID != user.ID {
			return nil, echo.NewHTTPError(http.StatusNotFound, "Case not found")
		}
	case models.RoleClient:
		if kase.ClientID != user.ID {
			return nil, echo.NewHTTPError(http.StatusNotFound, "Case not found")
		}
	}

	return kase, nil
}

// caseWriteError maps service errors from case mutations to HTTP responses
func caseWriteError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, services.ErrCaseNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Case not found")
	case errors.Is(err, services.ErrInvalidCaseData):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrVersionConflict):
		return echo.NewHTTPError(http.StatusConflict, "Case was modified concurrently, retry")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "Error updating case")
	}
}
