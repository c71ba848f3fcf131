package endpoint

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/ariebrainware/clinic-care/model"
	"github.com/ariebrainware/clinic-care/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserAdministration(t *testing.T) {
	r, db := setupRouter(t)

	created := dataMap(t, mustRequest(t, r, requestSpec{
		method: http.MethodPost,
		path:   "/api/users",
		body:   map[string]interface{}{"fullName": "Root", "email": "root@example.com", "password": "x", "role": "admin"},
	}, http.StatusOK))
	assert.Equal(t, model.RoleAdmin, created["role"])
	path := fmt.Sprintf("/api/users/%d", idOf(t, created, "id"))

	updated := dataMap(t, mustRequest(t, r, requestSpec{
		method: http.MethodPut,
		path:   path,
		body:   `{"phone":"555-0100"}`,
	}, http.StatusOK))
	assert.Equal(t, "555-0100", updated["phone"])
	assert.Equal(t, "Root", updated["fullName"])

	status := dataMap(t, mustRequest(t, r, requestSpec{method: http.MethodPatch, path: path + "/status", body: `{"status":"inactive"}`}, http.StatusOK))
	assert.Equal(t, model.UserStatusInactive, status["status"])
	mustRequest(t, r, requestSpec{method: http.MethodPatch, path: path + "/status", body: `{"status":"asleep"}`}, http.StatusBadRequest)

	role := dataMap(t, mustRequest(t, r, requestSpec{method: http.MethodPatch, path: path + "/role", body: `{"role":"doctor"}`}, http.StatusOK))
	assert.Equal(t, model.RoleDoctor, role["role"])
	mustRequest(t, r, requestSpec{method: http.MethodPatch, path: path + "/role", body: `{"role":"wizard"}`}, http.StatusBadRequest)

	doctors := dataList(t, mustRequest(t, r, requestSpec{method: http.MethodGet, path: "/api/users?role=doctor"}, http.StatusOK))
	assert.Len(t, doctors, 1)

	assert.Equal(t, int64(1), countAudit(t, db, util.EventUserCreated))
	assert.Equal(t, int64(3), countAudit(t, db, util.EventUserUpdated))

	mustRequest(t, r, requestSpec{method: http.MethodDelete, path: path}, http.StatusOK)
	mustRequest(t, r, requestSpec{method: http.MethodGet, path: path}, http.StatusNotFound)
}

func TestDeleteUser_Referenced(t *testing.T) {
	r, db := setupRouter(t)
	patient := createUser(t, db, "Pat", model.RoleUser)
	doctor := createUser(t, db, "Doc", model.RoleDoctor)
	mustRequest(t, r, requestSpec{
		method: http.MethodPost,
		path:   "/api/appointments",
		body:   scheduleBody(patient.ID, doctor.ID, "2025-03-01T10:00:00Z"),
	}, http.StatusOK)

	mustRequest(t, r, requestSpec{method: http.MethodDelete, path: fmt.Sprintf("/api/users/%d", doctor.ID)}, http.StatusConflict)
	mustRequest(t, r, requestSpec{method: http.MethodGet, path: fmt.Sprintf("/api/users/%d", doctor.ID)}, http.StatusOK)
}

func TestHealthData_Endpoint(t *testing.T) {
	r, db := setupRouter(t)
	u := createUser(t, db, "Pat", model.RoleUser)

	created := dataMap(t, mustRequest(t, r, requestSpec{
		method: http.MethodPost,
		path:   "/api/health-data",
		body:   map[string]interface{}{"userId": u.ID, "weight": 70, "height": 175, "activityLevel": "moderate"},
	}, http.StatusOK))
	assert.Equal(t, 22.9, created["bmi"])
	path := fmt.Sprintf("/api/health-data/%d", idOf(t, created, "id"))

	updated := dataMap(t, mustRequest(t, r, requestSpec{
		method: http.MethodPut,
		path:   path,
		body:   map[string]interface{}{"weight": 80, "height": 200},
	}, http.StatusOK))
	assert.Equal(t, 20.0, updated["bmi"])
	assert.Equal(t, u.ID, idOf(t, updated, "userId"))

	list := dataList(t, mustRequest(t, r, requestSpec{method: http.MethodGet, path: fmt.Sprintf("/api/users/%d/health-data", u.ID)}, http.StatusOK))
	require.Len(t, list, 1)
	mustRequest(t, r, requestSpec{method: http.MethodGet, path: "/api/users/999/health-data"}, http.StatusNotFound)

	mustRequest(t, r, requestSpec{
		method: http.MethodPost,
		path:   "/api/health-data",
		body:   map[string]interface{}{"userId": u.ID, "weight": -1},
	}, http.StatusBadRequest)

	all := dataList(t, mustRequest(t, r, requestSpec{method: http.MethodGet, path: "/api/health-data"}, http.StatusOK))
	assert.Len(t, all, 1)

	mustRequest(t, r, requestSpec{method: http.MethodDelete, path: path}, http.StatusOK)
	mustRequest(t, r, requestSpec{method: http.MethodGet, path: path}, http.StatusNotFound)
	assert.Equal(t, int64(3), countAudit(t, db, util.EventHealthDataChanged))
}
