package handlers

import (
	"context"
	"errors"
	"fmt"
	"legal_nexus_go/config"
	"legal_nexus_go/db"
	"legal_nexus_go/middleware"
	"legal_nexus_go/services"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Upper bound on prioritized query time before callers get a timeout error
const priorityQueryTimeout = 30 * time.Second

// scoringPolicy is the default policy plus any deployment overrides from config
func scoringPolicy(c echo.Context) services.PriorityPolicy {
	policy := services.DefaultPriorityPolicy()
	if cfg, ok := c.Get("config").(*config.Config); ok && len(cfg.UrgentCaseTypes) > 0 {
		policy.UrgentCaseTypes = cfg.UrgentCaseTypes
	}
	return policy
}

func newPriorityQueryService(c echo.Context) *services.PriorityQueryService {
	store := services.NewCaseStore(db.DB)
	scorer := services.NewScorer(scoringPolicy(c))
	return services.NewPriorityQueryService(store, scorer)
}

// GetPrioritizedCasesHandler returns the caller's visible cases ordered by
// descending urgency. Supports ?filter=all|overdue|critical|unassigned|due_soon
// and an optional ?as_of=YYYY-MM-DD reference date for reporting.
func GetPrioritizedCasesHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	scope := middleware.CaseScopeFor(user)
	scope.ActiveOnly = c.QueryParam("include_closed") != "true"

	now, err := referenceTime(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid as_of date, expected YYYY-MM-DD")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), priorityQueryTimeout)
	defer cancel()

	query := newPriorityQueryService(c)
	scored, err := query.ListPrioritized(ctx, scope, c.QueryParam("filter"), now)
	if err != nil {
		return priorityQueryError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"cases": scored,
		"count": len(scored),
		"as_of": now.Format(time.RFC3339),
	})
}

// GetCasePriorityHandler returns the live urgency breakdown for one case
func GetCasePriorityHandler(c echo.Context) error {
	kase, httpErr := fetchScopedCase(c)
	if httpErr != nil {
		return httpErr
	}

	now, err := referenceTime(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid as_of date, expected YYYY-MM-DD")
	}

	scorer := services.NewScorer(scoringPolicy(c))
	scored, err := scorer.Score(kase, now)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCaseData) {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Error scoring case")
	}

	return c.JSON(http.StatusOK, scored)
}

// GetPriorityStatsHandler returns urgency statistics over the caller's
// visible active cases
func GetPriorityStatsHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	scope := middleware.CaseScopeFor(user)
	scope.ActiveOnly = true

	now, err := referenceTime(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid as_of date, expected YYYY-MM-DD")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), priorityQueryTimeout)
	defer cancel()

	stats, err := newPriorityQueryService(c).StatsFor(ctx, scope, now)
	if err != nil {
		return priorityQueryError(err)
	}

	return c.JSON(http.StatusOK, stats)
}

// ExportPrioritizedCasesHandler streams the prioritized case list as an XLSX
// workbook. Admin and lawyer only; the export respects the same scope and
// filter semantics as the JSON listing.
func ExportPrioritizedCasesHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	scope := middleware.CaseScopeFor(user)
	scope.ActiveOnly = true

	now, err := referenceTime(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid as_of date, expected YYYY-MM-DD")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), priorityQueryTimeout)
	defer cancel()

	query := newPriorityQueryService(c)
	scored, err := query.ListPrioritized(ctx, scope, c.QueryParam("filter"), now)
	if err != nil {
		return priorityQueryError(err)
	}
	stats := query.AggregateStats(scored)

	buf, err := services.ExportPrioritizedCases(scored, stats, now)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error generating export")
	}

	filename := fmt.Sprintf("priority_report_%s.xlsx", now.Format("20060102_150405"))
	c.Response().Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	return c.Blob(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// referenceTime resolves the optional ?as_of=YYYY-MM-DD query param.
// Defaults to the current time.
func referenceTime(c echo.Context) (time.Time, error) {
	asOf := c.QueryParam("as_of")
	if asOf == "" {
		return time.Now(), nil
	}
	return services.ParseDeadline(asOf)
}

func priorityQueryError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, services.ErrTimeout):
		return echo.NewHTTPError(http.StatusGatewayTimeout, "Priority query timed out")
	case errors.Is(err, services.ErrInvalidCaseData):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "Error computing priorities")
	}
}
