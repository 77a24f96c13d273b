package middleware

import (
	"legal_nexus_go/db"
	"legal_nexus_go/models"
	"legal_nexus_go/services"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	// ContextKeyUser is the context key for the authenticated user
	ContextKeyUser = "user"
)

// RequireAuth resolves the opaque bearer token from the Authorization header
// to a user. Identity establishment (login, token issuance) happens outside
// the API surface; this middleware only resolves an already-issued token.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing bearer token")
			}

			user, err := services.ValidateAPIToken(db.DB, token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid bearer token")
			}

			c.Set(ContextKeyUser, user)
			return next(c)
		}
	}
}

// RequireRole is middleware that requires specific roles
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := GetCurrentUser(c)
			if user == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
			}

			for _, role := range roles {
				if user.Role == role {
					return next(c)
				}
			}

			return echo.NewHTTPError(http.StatusForbidden, "Insufficient permissions")
		}
	}
}

// GetCurrentUser retrieves the current user from context
func GetCurrentUser(c echo.Context) *models.User {
	user, ok := c.Get(ContextKeyUser).(*models.User)
	if !ok {
		return nil
	}
	return user
}

// CaseScopeFor returns the store filter matching what the user may see:
// lawyers see their assigned cases, clients their own, admins everything.
func CaseScopeFor(user *models.User) services.CaseFilter {
	switch user.Role {
	case models.RoleLawyer:
		return services.CaseFilter{LawyerID: user.ID}
	case models.RoleClient:
		return services.CaseFilter{ClientID: user.ID}
	default: // admin
		return services.CaseFilter{}
	}
}
