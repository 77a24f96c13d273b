package handlers

import (
	"encoding/json"
	"legal_nexus_go/models"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestListCasesHandler(t *testing.T) {
	database := setupTestDB(t)

	admin := createTestUser(t, database, "Admin", models.RoleAdmin)
	lawyer := createTestUser(t, database, "Lawyer", models.RoleLawyer)
	clientA := createTestUser(t, database, "Client A", models.RoleClient)
	clientB := createTestUser(t, database, "Client B", models.RoleClient)

	caseA := createTestCase(t, database, clientA.ID, 3, nil)
	database.Model(caseA).Update("assigned_lawyer_id", lawyer.ID)
	createTestCase(t, database, clientB.ID, 2, nil)

	t.Run("Admin sees all", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/api/cases", nil)
		asUser(c, admin)

		assert.NoError(t, ListCasesHandler(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp map[string]interface{}
		json.Unmarshal(rec.Body.Bytes(), &resp)
		assert.Equal(t, float64(2), resp["total"])
	})

	t.Run("Lawyer sees assigned only", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/api/cases", nil)
		asUser(c, lawyer)

		assert.NoError(t, ListCasesHandler(c))

		var resp map[string]interface{}
		json.Unmarshal(rec.Body.Bytes(), &resp)
		assert.Equal(t, float64(1), resp["total"])
	})

	t.Run("Client sees own only", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/api/cases", nil)
		asUser(c, clientB)

		assert.NoError(t, ListCasesHandler(c))

		var resp map[string]interface{}
		json.Unmarshal(rec.Body.Bytes(), &resp)
		assert.Equal(t, float64(1), resp["total"])
	})

	t.Run("Invalid status filter rejected", func(t *testing.T) {
		_, c, _ := setupEcho(http.MethodGet, "/api/cases?status=bogus", nil)
		asUser(c, admin)

		err := ListCasesHandler(c)
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	})
}

func TestCreateCaseHandler(t *testing.T) {
	database := setupTestDB(t)

	admin := createTestUser(t, database, "Admin", models.RoleAdmin)
	client := createTestUser(t, database, "Client", models.RoleClient)

	t.Run("Success", func(t *testing.T) {
		body := `{"title":"Contract dispute","description":"Breach of contract","case_type":"civil","client_id":"` + client.ID + `","priority_level":2,"deadline":"2026-12-01"}`
		_, c, rec := setupEcho(http.MethodPost, "/api/cases", strings.NewReader(body))
		asUser(c, admin)

		assert.NoError(t, CreateCaseHandler(c))
		assert.Equal(t, http.StatusCreated, rec.Code)

		var created models.Case
		json.Unmarshal(rec.Body.Bytes(), &created)
		assert.Contains(t, created.CaseNumber, "LN-")
		assert.Equal(t, models.CaseStatusFiled, created.Status)
		assert.Equal(t, 2, created.PriorityLevel)
		assert.NotNil(t, created.Deadline)
	})

	t.Run("Client forced to own ID", func(t *testing.T) {
		body := `{"title":"My case","case_type":"family","client_id":"someone-else"}`
		_, c, rec := setupEcho(http.MethodPost, "/api/cases", strings.NewReader(body))
		asUser(c, client)

		assert.NoError(t, CreateCaseHandler(c))
		assert.Equal(t, http.StatusCreated, rec.Code)

		var created models.Case
		json.Unmarshal(rec.Body.Bytes(), &created)
		assert.Equal(t, client.ID, created.ClientID)
	})

	t.Run("Unknown case type rejected", func(t *testing.T) {
		body := `{"title":"Bad","case_type":"maritime","client_id":"` + client.ID + `"}`
		_, c, _ := setupEcho(http.MethodPost, "/api/cases", strings.NewReader(body))
		asUser(c, admin)

		err := CreateCaseHandler(c)
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	})

	t.Run("Malformed deadline rejected", func(t *testing.T) {
		body := `{"title":"Bad date","case_type":"civil","client_id":"` + client.ID + `","deadline":"12/01/2026"}`
		_, c, _ := setupEcho(http.MethodPost, "/api/cases", strings.NewReader(body))
		asUser(c, admin)

		err := CreateCaseHandler(c)
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	})
}

func TestGetCaseHandler(t *testing.T) {
	database := setupTestDB(t)

	admin := createTestUser(t, database, "Admin", models.RoleAdmin)
	clientA := createTestUser(t, database, "Client A", models.RoleClient)
	clientB := createTestUser(t, database, "Client B", models.RoleClient)
	kase := createTestCase(t, database, clientA.ID, 3, nil)

	t.Run("Owner sees case", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/api/cases/"+kase.ID, nil)
		c.SetParamNames("id")
		c.SetParamValues(kase.ID)
		asUser(c, clientA)

		assert.NoError(t, GetCaseHandler(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Other client gets 404", func(t *testing.T) {
		_, c, _ := setupEcho(http.MethodGet, "/api/cases/"+kase.ID, nil)
		c.SetParamNames("id")
		c.SetParamValues(kase.ID)
		asUser(c, clientB)

		err := GetCaseHandler(c)
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusNotFound, httpErr.Code)
	})

	t.Run("Missing case gets 404", func(t *testing.T) {
		_, c, _ := setupEcho(http.MethodGet, "/api/cases/nope", nil)
		c.SetParamNames("id")
		c.SetParamValues("nope")
		asUser(c, admin)

		err := GetCaseHandler(c)
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusNotFound, httpErr.Code)
	})
}

func TestChangeCaseStatusHandler(t *testing.T) {
	database := setupTestDB(t)

	admin := createTestUser(t, database, "Admin", models.RoleAdmin)
	client := createTestUser(t, database, "Client", models.RoleClient)
	kase := createTestCase(t, database, client.ID, 3, nil)

	t.Run("Valid transition", func(t *testing.T) {
		body := `{"status":"investigation"}`
		_, c, rec := setupEcho(http.MethodPut, "/api/cases/"+kase.ID+"/status", strings.NewReader(body))
		c.SetParamNames("id")
		c.SetParamValues(kase.ID)
		asUser(c, admin)

		assert.NoError(t, ChangeCaseStatusHandler(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var updated models.Case
		json.Unmarshal(rec.Body.Bytes(), &updated)
		assert.Equal(t, models.CaseStatusInvestigation, updated.Status)
	})

	t.Run("Closed is terminal", func(t *testing.T) {
		closed := createTestCase(t, database, client.ID, 3, nil)
		now := time.Now()
		database.Model(closed).Updates(map[string]interface{}{"status": models.CaseStatusClosed, "closed_at": now})

		body := `{"status":"trial"}`
		_, c, _ := setupEcho(http.MethodPut, "/api/cases/"+closed.ID+"/status", strings.NewReader(body))
		c.SetParamNames("id")
		c.SetParamValues(closed.ID)
		asUser(c, admin)

		err := ChangeCaseStatusHandler(c)
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	})
}

func TestAssignLawyerHandler(t *testing.T) {
	database := setupTestDB(t)

	admin := createTestUser(t, database, "Admin", models.RoleAdmin)
	lawyer := createTestUser(t, database, "Lawyer", models.RoleLawyer)
	client := createTestUser(t, database, "Client", models.RoleClient)
	kase := createTestCase(t, database, client.ID, 3, nil)

	t.Run("Success creates notification", func(t *testing.T) {
		body := `{"lawyer_id":"` + lawyer.ID + `"}`
		_, c, rec := setupEcho(http.MethodPut, "/api/cases/"+kase.ID+"/assign", strings.NewReader(body))
		c.SetParamNames("id")
		c.SetParamValues(kase.ID)
		asUser(c, admin)

		assert.NoError(t, AssignLawyerHandler(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var count int64
		database.Model(&models.Notification{}).
			Where("recipient_id = ?", lawyer.ID).Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("Non-lawyer assignee rejected", func(t *testing.T) {
		body := `{"lawyer_id":"` + client.ID + `"}`
		_, c, _ := setupEcho(http.MethodPut, "/api/cases/"+kase.ID+"/assign", strings.NewReader(body))
		c.SetParamNames("id")
		c.SetParamValues(kase.ID)
		asUser(c, admin)

		err := AssignLawyerHandler(c)
		assert.Error(t, err)
	})
}

func TestOverridePriorityHandler(t *testing.T) {
	database := setupTestDB(t)

	admin := createTestUser(t, database, "Admin", models.RoleAdmin)
	client := createTestUser(t, database, "Client", models.RoleClient)
	kase := createTestCase(t, database, client.ID, 3, nil)

	t.Run("Success", func(t *testing.T) {
		body := `{"priority_level":1}`
		_, c, rec := setupEcho(http.MethodPut, "/api/cases/"+kase.ID+"/priority", strings.NewReader(body))
		c.SetParamNames("id")
		c.SetParamValues(kase.ID)
		asUser(c, admin)

		assert.NoError(t, OverridePriorityHandler(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var updated models.Case
		json.Unmarshal(rec.Body.Bytes(), &updated)
		assert.Equal(t, 1, updated.PriorityLevel)
	})

	t.Run("Out of range rejected", func(t *testing.T) {
		body := `{"priority_level":7}`
		_, c, _ := setupEcho(http.MethodPut, "/api/cases/"+kase.ID+"/priority", strings.NewReader(body))
		c.SetParamNames("id")
		c.SetParamValues(kase.ID)
		asUser(c, admin)

		err := OverridePriorityHandler(c)
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	})
}

func TestUpdateCaseHandler(t *testing.T) {
	database := setupTestDB(t)

	admin := createTestUser(t, database, "Admin", models.RoleAdmin)
	client := createTestUser(t, database, "Client", models.RoleClient)
	deadline := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	kase := createTestCase(t, database, client.ID, 3, timePtr(deadline))

	t.Run("Sanitizes title markup", func(t *testing.T) {
		body := `{"title":"<script>alert(1)</script>Land dispute"}`
		_, c, rec := setupEcho(http.MethodPut, "/api/cases/"+kase.ID, strings.NewReader(body))
		c.SetParamNames("id")
		c.SetParamValues(kase.ID)
		asUser(c, admin)

		assert.NoError(t, UpdateCaseHandler(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var updated models.Case
		json.Unmarshal(rec.Body.Bytes(), &updated)
		assert.Equal(t, "Land dispute", updated.Title)
	})

	t.Run("Empty deadline clears it", func(t *testing.T) {
		body := `{"deadline":""}`
		_, c, rec := setupEcho(http.MethodPut, "/api/cases/"+kase.ID, strings.NewReader(body))
		c.SetParamNames("id")
		c.SetParamValues(kase.ID)
		asUser(c, admin)

		assert.NoError(t, UpdateCaseHandler(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var updated models.Case
		json.Unmarshal(rec.Body.Bytes(), &updated)
		assert.Nil(t, updated.Deadline)
	})
}
