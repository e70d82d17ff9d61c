package handler

import (
	"net/http"

	"packtrack/internal/middleware"
	"packtrack/internal/model"
	"packtrack/internal/service"
	"packtrack/pkg/response"

	"github.com/gin-gonic/gin"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type EmailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type AuthHandler struct {
	sessions service.SessionService
	staff    service.StaffService
	audit    service.AuditService
}

// NewAuthHandler sets up the routing dependencies for session endpoints
func NewAuthHandler(sessions service.SessionService, staff service.StaffService, audit service.AuditService) *AuthHandler {
	return &AuthHandler{sessions: sessions, staff: staff, audit: audit}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/login", h.Login)
	router.POST("/logout", h.Logout)
	router.POST("/refresh", h.Refresh)
	router.POST("/signup", h.SignUp)
	router.POST("/reset-password", h.ResetPassword)
	router.GET("/session", h.SessionState)
	router.GET("/me", h.GetMe)
}

// Login handles POST /login to authenticate against the hosted provider
// @Summary      Login
// @Description  Authenticates against the hosted auth provider and caches the session
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      LoginRequest  true  "Login Credentials"
// @Success      200      {object}  response.Response{data=service.AuthResult}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Router       /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}

	result := h.sessions.SignIn(c.Request.Context(), req.Email, req.Password)
	if !result.Success {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, result.Error))
		return
	}

	if token, ok := h.sessions.AccessToken(); ok {
		refresh, _ := h.sessions.RefreshToken()
		middleware.SetTokenCookies(c, token, refresh)
	}

	// The current profile drives role gating in the dashboard.
	_, _ = h.staff.LoadCurrentProfile(c.Request.Context())

	if result.User != nil {
		h.audit.Record(c.Request.Context(), result.User.ID, result.User.Email, model.ActionSignIn, result.User.ID, result.User.Email, nil)
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// Logout handles POST /logout to revoke the session and clear cookies
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	user := h.sessions.CurrentUser()
	result := h.sessions.SignOut(c.Request.Context())
	middleware.ClearTokenCookies(c)

	if user != nil {
		h.audit.Record(c.Request.Context(), user.ID, user.Email, model.ActionSignOut, user.ID, user.Email, nil)
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// Refresh handles POST /refresh to force a session refresh
// @Summary      Refresh session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	if err := h.sessions.RefreshSession(c.Request.Context()); err != nil {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Session expired"))
		return
	}
	if token, ok := h.sessions.AccessToken(); ok {
		refresh, _ := h.sessions.RefreshToken()
		middleware.SetTokenCookies(c, token, refresh)
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Session refreshed"))
}

// SignUp passes a registration through to the provider
// @Summary      Sign up
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      LoginRequest  true  "Credentials"
// @Success      200      {object}  response.Response{data=service.AuthResult}
// @Failure      400      {object}  response.Response
// @Router       /signup [post]
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}

	result := h.sessions.SignUp(c.Request.Context(), req.Email, req.Password)
	if !result.Success {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, result.Error))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// ResetPassword asks the provider to send a recovery email
// @Summary      Reset password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      EmailRequest  true  "Account email"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Router       /reset-password [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}

	result := h.sessions.ResetPassword(c.Request.Context(), req.Email)
	if !result.Success {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, result.Error))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// SessionState reports the gate state without waiting on it.
func (h *AuthHandler) SessionState(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"state":         h.sessions.State(),
		"authenticated": h.sessions.IsAuthenticated(),
	}))
}

// GetMe handles GET /me to return the signed-in user and their profile
// @Summary      Get current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /me [get]
func (h *AuthHandler) GetMe(c *gin.Context) {
	user := h.sessions.CurrentUser()
	if user == nil {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Not authenticated"))
		return
	}

	profile := h.staff.CurrentProfile()
	if profile == nil {
		profile, _ = h.staff.LoadCurrentProfile(c.Request.Context())
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"id":      user.ID,
		"email":   user.Email,
		"profile": profile,
	}))
}
