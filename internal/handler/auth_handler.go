package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/gtd_portal/internal/auth"
	"github.com/GTDGit/gtd_portal/internal/middleware"
	"github.com/GTDGit/gtd_portal/internal/utils"
	"github.com/GTDGit/gtd_portal/internal/view"
)

// AuthHandler stores and clears the backend credential of a browser session.
// The backend issues the token; the portal only keeps it.
type AuthHandler struct {
	store   *auth.Store
	views   *view.Registry
	limiter *middleware.InvalidAuthRateLimiter
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(store *auth.Store, views *view.Registry, limiter *middleware.InvalidAuthRateLimiter) *AuthHandler {
	return &AuthHandler{store: store, views: views, limiter: limiter}
}

// Login handles POST /v1/session.
func (h *AuthHandler) Login(c *gin.Context) {
	ip := c.ClientIP()
	if h.limiter != nil && h.limiter.Blocked(ip) {
		utils.Error(c, http.StatusTooManyRequests, "TOO_MANY_ATTEMPTS", "Too many invalid attempts, try again later")
		return
	}

	var req struct {
		Token    string `json:"token" binding:"required"`
		Remember bool   `json:"remember"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	ac := middleware.AuthContext(c)
	if err := h.store.Save(c.Request.Context(), ac.SessionID(), req.Token, req.Remember); err != nil {
		switch {
		case errors.Is(err, utils.ErrInvalidToken), errors.Is(err, utils.ErrTokenExpired):
			if h.limiter != nil {
				h.limiter.RecordFailure(ip)
			}
			code := utils.ErrInvalidToken.Error()
			if errors.Is(err, utils.ErrTokenExpired) {
				code = utils.ErrTokenExpired.Error()
			}
			utils.Error(c, http.StatusUnauthorized, code, "Invalid or expired token")
		default:
			log.Error().Err(err).Msg("failed to store session token")
			utils.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to store credentials")
		}
		return
	}

	utils.Success(c, http.StatusOK, "Signed in", gin.H{"remember": req.Remember})
}

// Logout handles DELETE /v1/session.
func (h *AuthHandler) Logout(c *gin.Context) {
	ac := middleware.AuthContext(c)
	if err := h.store.Clear(c.Request.Context(), ac.SessionID()); err != nil {
		log.Error().Err(err).Msg("failed to clear session token")
		utils.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to sign out")
		return
	}
	if h.views != nil {
		h.views.Drop(ac.SessionID())
	}
	utils.Success(c, http.StatusOK, "Signed out", nil)
}

// Status handles GET /v1/session.
func (h *AuthHandler) Status(c *gin.Context) {
	_, ok := middleware.AuthContext(c).Token(c.Request.Context())
	utils.Success(c, http.StatusOK, "Session status", gin.H{"authenticated": ok})
}
