package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/suvam/portfolio/internal/auth"
)

// AuthHandler exposes the admin login endpoints.
type AuthHandler struct {
	manager *auth.Manager
	limiter *auth.LoginLimiter
}

func NewAuthHandler(manager *auth.Manager, limiter *auth.LoginLimiter) *AuthHandler {
	return &AuthHandler{
		manager: manager,
		limiter: limiter,
	}
}

type loginRequest struct {
	AdminKey string `json:"adminKey"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.AdminKey == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "admin key is required"})
		return
	}

	ip := c.ClientIP()
	if !h.limiter.Check(ip) {
		c.JSON(http.StatusTooManyRequests, gin.H{"success": false, "error": "too many login attempts, try again later"})
		return
	}

	if !h.manager.VerifyKey(req.AdminKey) {
		h.limiter.Record(ip)
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid admin key"})
		return
	}

	if err := h.manager.Login(c.Writer, c.Request); err != nil {
		log.Error().Err(err).Msg("Failed to write session cookie")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to process login"})
		return
	}

	h.limiter.Clear(ip)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "login successful"})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.manager.Logout(c.Writer, c.Request); err != nil {
		log.Error().Err(err).Msg("Failed to clear session cookie")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to process logout"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "logged out"})
}

func (h *AuthHandler) Verify(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"authenticated": h.manager.VerifyRequest(c.Request),
	})
}
