package handler

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/wisnuvb/calmsey/internal/role"
	"github.com/wisnuvb/calmsey/internal/service"
)

const (
	sessionUserIDKey   = "user_id"
	sessionUsernameKey = "username"
	sessionRoleKey     = "role"
)

// Login 校验用户名密码并写入会话。
func (a *API) Login(c *gin.Context) {
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !bindJSON(c, &input, "username and password are required") {
		return
	}

	user, err := a.users.Authenticate(input.Username, input.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondError(c, http.StatusUnauthorized, "invalid username or password")
			return
		}
		respondError(c, http.StatusInternalServerError, "login failed")
		return
	}

	session := sessions.Default(c)
	session.Set(sessionUserIDKey, user.ID)
	session.Set(sessionUsernameKey, user.Username)
	session.Set(sessionRoleKey, user.Role)
	if err := session.Save(); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to save session")
		return
	}

	respondOK(c, gin.H{"user": gin.H{
		"id":       user.ID,
		"username": user.Username,
		"role":     user.Role,
	}})
}

// Logout clears the session.
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()
	respondOK(c, nil)
}

// Me returns the logged-in account.
func (a *API) Me(c *gin.Context) {
	session := sessions.Default(c)
	userID, ok := session.Get(sessionUserIDKey).(uint)
	if !ok {
		respondError(c, http.StatusUnauthorized, "not logged in")
		return
	}

	user, err := a.users.Get(userID)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "not logged in")
		return
	}
	respondOK(c, gin.H{"user": gin.H{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
		"role":     user.Role,
	}})
}

// SetupStatus 告知前端站点是否已完成初始化（存在激活的超级管理员）。
func (a *API) SetupStatus(c *gin.Context) {
	ready, err := a.users.HasSuperAdmin()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to check setup status")
		return
	}
	respondOK(c, gin.H{"initialized": ready})
}

// AuthRequired 是认证中间件，未登录的请求直接返回 401。
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		if session.Get(sessionUserIDKey) == nil {
			respondError(c, http.StatusUnauthorized, "authentication required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireRole rejects sessions whose role grants less than min.
func RequireRole(min role.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		raw, ok := session.Get(sessionRoleKey).(string)
		if !ok {
			respondError(c, http.StatusUnauthorized, "authentication required")
			c.Abort()
			return
		}

		r, err := role.Parse(raw)
		if err != nil || !r.AtLeast(min) {
			respondError(c, http.StatusForbidden, "insufficient permissions")
			c.Abort()
			return
		}
		c.Next()
	}
}

func sessionUserID(c *gin.Context) uint {
	session := sessions.Default(c)
	if id, ok := session.Get(sessionUserIDKey).(uint); ok {
		return id
	}
	return 0
}
