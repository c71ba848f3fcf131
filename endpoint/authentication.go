package endpoint

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/ariebrainware/clinic-care/model"
	"github.com/ariebrainware/clinic-care/repository"
	"github.com/ariebrainware/clinic-care/service"
	"github.com/ariebrainware/clinic-care/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func accounts(db *gorm.DB) *service.Accounts {
	return service.NewAccounts(repository.NewStore(db))
}

// Signup registers a non-admin account.
func Signup(c *gin.Context) {
	var req model.SignupRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}
	db, ok := ensureDB(c)
	if !ok {
		return
	}
	u, err := accounts(db).Signup(c.Request.Context(), req)
	if err != nil {
		respondError(c, "Failed to sign up", err)
		return
	}
	audit(c, util.EventUserCreated, "user", u.ID, "User signed up", map[string]interface{}{"role": u.Role})
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Signup successful", Data: u})
}

// Login checks the credentials and the requested role. No session is
// created; the response carries the account.
func Login(c *gin.Context) {
	var req model.LoginRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}
	db, ok := ensureDB(c)
	if !ok {
		return
	}

	ip, agent := c.ClientIP(), c.Request.UserAgent()
	u, err := accounts(db).Login(c.Request.Context(), req)
	if err != nil {
		util.LogLoginFailure(req.Email, ip, agent, err.Error())
		params := util.APIErrorParams{Msg: "Login failed", Err: err}
		switch {
		case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrInvalidRoleForAccount):
			util.CallUserNotAuthorized(c, params)
		case errors.Is(err, service.ErrAccountInactive):
			util.CallForbidden(c, params)
		default:
			respondError(c, params.Msg, err)
		}
		return
	}

	util.LogLoginSuccess(u.ID, ip, agent)
	util.CallSuccessOK(c, util.APISuccessParams{
		Msg: "Login successful",
		Data: map[string]interface{}{
			"user": u,
			"role": u.Role,
		},
	})
}

// CheckEmail reports whether the email query parameter is taken.
func CheckEmail(c *gin.Context) {
	db, ok := ensureDB(c)
	if !ok {
		return
	}
	email := c.Query("email")
	exists, err := accounts(db).CheckEmail(c.Request.Context(), email)
	if err != nil {
		respondError(c, "Failed to check email", err)
		return
	}
	c.JSON(http.StatusOK, util.APIResponse{
		Success: true,
		Msg:     fmt.Sprintf("Email availability for %s", email),
		Data:    map[string]bool{"exists": exists},
	})
}
