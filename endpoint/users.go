package endpoint

import (
	"github.com/ariebrainware/clinic-care/model"
	"github.com/ariebrainware/clinic-care/util"
	"github.com/gin-gonic/gin"
)

// ListUsers lists every user, or those with the role query parameter.
func ListUsers(c *gin.Context) {
	db, ok := ensureDB(c)
	if !ok {
		return
	}
	users, err := accounts(db).ListUsers(c.Request.Context(), c.Query("role"))
	if err != nil {
		respondError(c, "Failed to list users", err)
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Users retrieved", Data: users})
}

// CreateUser lets staff create accounts of any role, admin included.
func CreateUser(c *gin.Context) {
	var req model.SignupRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}
	db, ok := ensureDB(c)
	if !ok {
		return
	}
	u, err := accounts(db).Register(c.Request.Context(), req, true)
	if err != nil {
		respondError(c, "Failed to create user", err)
		return
	}
	audit(c, util.EventUserCreated, "user", u.ID, "User created", map[string]interface{}{"role": u.Role})
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "User created", Data: u})
}

func GetUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	db, ok := ensureDB(c)
	if !ok {
		return
	}
	u, err := accounts(db).GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, "Failed to get user", err)
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "User retrieved", Data: u})
}

func UpdateUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req model.UpdateUserRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}
	db, ok := ensureDB(c)
	if !ok {
		return
	}
	u, err := accounts(db).UpdateUser(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, "Failed to update user", err)
		return
	}
	audit(c, util.EventUserUpdated, "user", u.ID, "User updated", map[string]interface{}{
		"password_changed": req.Password.Set,
	})
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "User updated", Data: u})
}

func UpdateUserStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req model.UpdateStatusRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}
	db, ok := ensureDB(c)
	if !ok {
		return
	}
	u, err := accounts(db).UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, "Failed to update status", err)
		return
	}
	audit(c, util.EventUserUpdated, "user", u.ID, "User status changed", map[string]interface{}{"status": u.Status})
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "User status updated", Data: u})
}

func UpdateUserRole(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req model.UpdateRoleRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}
	db, ok := ensureDB(c)
	if !ok {
		return
	}
	u, err := accounts(db).UpdateRole(c.Request.Context(), id, req.Role)
	if err != nil {
		respondError(c, "Failed to update role", err)
		return
	}
	audit(c, util.EventUserUpdated, "user", u.ID, "User role changed", map[string]interface{}{"role": u.Role})
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "User role updated", Data: u})
}

func DeleteUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	db, ok := ensureDB(c)
	if !ok {
		return
	}
	if err := accounts(db).DeleteUser(c.Request.Context(), id); err != nil {
		respondError(c, "Failed to delete user", err)
		return
	}
	audit(c, util.EventUserDeleted, "user", id, "User deleted", nil)
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "User deleted", Data: nil})
}
