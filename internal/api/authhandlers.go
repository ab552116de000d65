package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/alnah/go-folio/internal/auth"
)

type authHandler struct {
	auth         *auth.Authenticator
	secureCookie bool
	logger       *zap.Logger
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *authHandler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, h.logger, fmt.Errorf("%w: %v", auth.ErrMissingCredentials, err), "")
		return
	}
	token, sess, err := h.auth.Login(req.Email, req.Password)
	if err != nil {
		h.logger.Warn("login failed", zap.String("client_ip", c.ClientIP()), zap.Error(err))
		fail(c, h.logger, err, "login failed")
		return
	}
	h.setCookie(c, token, int(h.auth.TTL().Seconds()))
	h.logger.Info("login", zap.String("email", sess.Email))
	ok(c, gin.H{"token": token, "user": sess, "message": "logged in"})
}

func (h *authHandler) logout(c *gin.Context) {
	if err := h.auth.Logout(c.Request.Context(), auth.TokenFromRequest(c.Request)); err != nil {
		fail(c, h.logger, err, "logout failed")
		return
	}
	h.setCookie(c, "", -1)
	ok(c, gin.H{"message": "logged out"})
}

func (h *authHandler) user(c *gin.Context) {
	sess, err := h.auth.Verify(c.Request.Context(), auth.TokenFromRequest(c.Request))
	if err != nil {
		fail(c, h.logger, err, "session check failed")
		return
	}
	ok(c, gin.H{"user": sess})
}

func (h *authHandler) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.CookieName, value, maxAge, "/", "", h.secureCookie, true)
}
