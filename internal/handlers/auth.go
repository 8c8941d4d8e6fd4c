package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Gokul-Webzenith/maestro-done/internal/auth"
	"github.com/Gokul-Webzenith/maestro-done/internal/dto"
	"github.com/Gokul-Webzenith/maestro-done/internal/service"
)

// AuthHandler handles login, register, logout and the current-user probe.
type AuthHandler struct {
	sessions     auth.Store
	userSvc      *service.UserService
	ttlSeconds   int
	cookieSecure bool
}

// NewAuthHandler returns a new AuthHandler. ttlSeconds bounds the cookie lifetime.
func NewAuthHandler(sessions auth.Store, userSvc *service.UserService, ttlSeconds int, cookieSecure bool) *AuthHandler {
	if ttlSeconds <= 0 {
		ttlSeconds = 24 * 60 * 60
	}
	return &AuthHandler{sessions: sessions, userSvc: userSvc, ttlSeconds: ttlSeconds, cookieSecure: cookieSecure}
}

// Login godoc
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      dto.LoginRequest  true  "Credentials"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  dto.MessageResponse
// @Failure      401   {object}  dto.MessageResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.MessageResponse{Message: err.Error()})
		return
	}
	user, err := h.userSvc.ValidateCredentials(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, dto.MessageResponse{Message: "invalid email or password"})
			return
		}
		c.JSON(http.StatusInternalServerError, dto.MessageResponse{Message: "login failed"})
		return
	}
	sessionID, err := h.sessions.Create(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.MessageResponse{Message: "failed to create session"})
		return
	}
	h.setSessionCookie(c, sessionID)
	c.JSON(http.StatusOK, gin.H{"ok": true, "user": dto.UserResponse{ID: user.ID, Email: user.Email}})
}

// Register godoc
// @Summary      Register
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      dto.RegisterRequest  true  "Credentials"
// @Success      201   {object}  map[string]interface{}
// @Failure      400   {object}  dto.MessageResponse
// @Failure      409   {object}  dto.MessageResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.MessageResponse{Message: err.Error()})
		return
	}
	user, err := h.userSvc.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusBadRequest, dto.MessageResponse{Message: "email and password required"})
			return
		}
		if errors.Is(err, service.ErrEmailTaken) {
			c.JSON(http.StatusConflict, dto.MessageResponse{Message: "email already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, dto.MessageResponse{Message: "registration failed"})
		return
	}
	sessionID, err := h.sessions.Create(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.MessageResponse{Message: "failed to create session"})
		return
	}
	h.setSessionCookie(c, sessionID)
	c.JSON(http.StatusCreated, gin.H{"ok": true, "user": dto.UserResponse{ID: user.ID, Email: user.Email}})
}

// Logout godoc
// @Summary      Logout
// @Tags         auth
// @Success      204
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	sessionID, err := c.Cookie(auth.SessionCookieName)
	if err == nil && sessionID != "" {
		_ = h.sessions.Delete(c.Request.Context(), sessionID)
	}
	c.SetCookie(auth.SessionCookieName, "", -1, "/", "", h.cookieSecure, true)
	c.Status(http.StatusNoContent)
}

// Me godoc
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  dto.UserResponse
// @Failure      401  {object}  dto.MessageResponse
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, dto.UserResponse{ID: auth.UserIDFromContext(c)})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, sessionID string) {
	c.SetCookie(auth.SessionCookieName, sessionID, h.ttlSeconds, "/", "", h.cookieSecure, true) // httpOnly
}
