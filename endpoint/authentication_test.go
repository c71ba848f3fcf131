package endpoint

import (
	"net/http"
	"testing"

	"github.com/ariebrainware/clinic-care/model"
	"github.com/ariebrainware/clinic-care/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignupAndLogin(t *testing.T) {
	r, db := setupRouter(t)

	signup := map[string]interface{}{
		"fullName": "Ada Lovelace",
		"email":    "Ada@Example.com",
		"password": "engine",
		"role":     "doctor",
	}
	data := dataMap(t, mustRequest(t, r, requestSpec{method: http.MethodPost, path: "/api/auth/signup", body: signup}, http.StatusOK))
	assert.Equal(t, "ada@example.com", data["email"])
	assert.NotContains(t, data, "password")

	mustRequest(t, r, requestSpec{method: http.MethodPost, path: "/api/auth/signup", body: signup}, http.StatusConflict)

	admin := map[string]interface{}{"fullName": "Root", "email": "root@example.com", "password": "x", "role": "admin"}
	mustRequest(t, r, requestSpec{method: http.MethodPost, path: "/api/auth/signup", body: admin}, http.StatusBadRequest)

	login := dataMap(t, mustRequest(t, r, requestSpec{
		method: http.MethodPost,
		path:   "/api/auth/login",
		body:   map[string]interface{}{"email": "ada@example.com", "password": "engine", "role": "DOCTOR"},
	}, http.StatusOK))
	assert.Equal(t, model.RoleDoctor, login["role"])

	mustRequest(t, r, requestSpec{
		method: http.MethodPost,
		path:   "/api/auth/login",
		body:   map[string]interface{}{"email": "ada@example.com", "password": "wrong"},
	}, http.StatusUnauthorized)
	mustRequest(t, r, requestSpec{
		method: http.MethodPost,
		path:   "/api/auth/login",
		body:   map[string]interface{}{"email": "ada@example.com", "password": "engine", "role": "dietitian"},
	}, http.StatusUnauthorized)

	assert.Equal(t, int64(1), countAudit(t, db, util.EventLoginSuccess))
	assert.Equal(t, int64(2), countAudit(t, db, util.EventLoginFailure))
}

func TestLogin_InactiveAccount(t *testing.T) {
	r, db := setupRouter(t)
	u := createUser(t, db, "Sleepy", model.RoleUser)
	require.NoError(t, db.Model(&u).Update("status", model.UserStatusSuspended).Error)

	mustRequest(t, r, requestSpec{
		method: http.MethodPost,
		path:   "/api/auth/login",
		body:   map[string]interface{}{"email": u.Email, "password": "secret"},
	}, http.StatusForbidden)
}

func TestCheckEmail(t *testing.T) {
	r, db := setupRouter(t)
	u := createUser(t, db, "Pat", model.RoleUser)

	data := dataMap(t, mustRequest(t, r, requestSpec{method: http.MethodGet, path: "/api/auth/check-email?email=" + u.Email}, http.StatusOK))
	assert.Equal(t, true, data["exists"])

	data = dataMap(t, mustRequest(t, r, requestSpec{method: http.MethodGet, path: "/api/auth/check-email?email=nobody@example.com"}, http.StatusOK))
	assert.Equal(t, false, data["exists"])

	mustRequest(t, r, requestSpec{method: http.MethodGet, path: "/api/auth/check-email?email=not-an-email"}, http.StatusBadRequest)
}
