package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wisnuvb/calmsey/internal/service"
)

// ListUsers returns every account without password hashes.
func (a *API) ListUsers(c *gin.Context) {
	users, err := a.users.List()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load users")
		return
	}

	payload := make([]gin.H, len(users))
	for i, user := range users {
		payload[i] = gin.H{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
			"role":     user.Role,
			"isActive": user.IsActive,
		}
	}
	respondOK(c, gin.H{"users": payload})
}

type userRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	IsActive bool   `json:"isActive"`
}

// CreateUser registers an account.
func (a *API) CreateUser(c *gin.Context) {
	var input userRequest
	if !bindJSON(c, &input, "invalid user payload") {
		return
	}

	user, err := a.users.Create(service.UserInput(input))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameTaken):
			respondError(c, http.StatusConflict, "username already exists")
		case errors.Is(err, service.ErrRoleInvalid):
			respondError(c, http.StatusBadRequest, "unknown role")
		default:
			respondError(c, http.StatusBadRequest, err.Error())
		}
		return
	}
	respondCreated(c, gin.H{"user": gin.H{
		"id":       user.ID,
		"username": user.Username,
		"role":     user.Role,
	}})
}

// UpdateUser edits an account.
func (a *API) UpdateUser(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	var input userRequest
	if !bindJSON(c, &input, "invalid user payload") {
		return
	}

	user, err := a.users.Update(id, service.UserInput(input))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			respondError(c, http.StatusNotFound, "user not found")
		case errors.Is(err, service.ErrRoleInvalid):
			respondError(c, http.StatusBadRequest, "unknown role")
		case errors.Is(err, service.ErrLastSuperAdmin):
			respondError(c, http.StatusConflict, "the last super admin cannot be removed")
		default:
			respondError(c, http.StatusInternalServerError, "failed to update user")
		}
		return
	}
	respondOK(c, gin.H{"user": gin.H{
		"id":       user.ID,
		"username": user.Username,
		"role":     user.Role,
		"isActive": user.IsActive,
	}})
}

// DeleteUser removes an account.
func (a *API) DeleteUser(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.users.Delete(id); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			respondError(c, http.StatusNotFound, "user not found")
		case errors.Is(err, service.ErrLastSuperAdmin):
			respondError(c, http.StatusConflict, "the last super admin cannot be removed")
		default:
			respondError(c, http.StatusInternalServerError, "failed to delete user")
		}
		return
	}
	respondOK(c, nil)
}
