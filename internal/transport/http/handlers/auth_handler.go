package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/example/blog/internal/service"
)

type AuthHandler struct {
	service      *service.AuthService
	logger       *slog.Logger
	cookieMaxAge int
	secure       bool
}

func NewAuthHandler(auth *service.AuthService, sessionTTL time.Duration, secureCookie bool, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		service:      auth,
		logger:       logger,
		cookieMaxAge: int(sessionTTL / time.Second),
		secure:       secureCookie,
	}
}

// safeNext only allows same-site absolute paths as a post-login target.
// Browsers strip tabs and newlines from Location, so control bytes and
// backslashes are refused before parsing.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/"
	}
	for i := 0; i < len(next); i++ {
		if b := next[i]; b < 0x20 || b == 0x7f || b == '\\' {
			return "/"
		}
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "/"
	}
	return next
}

func (h *AuthHandler) Login(c *gin.Context) {
	next := safeNext(c.Query("next"))
	if c.Request.Method != http.MethodPost {
		render(c, http.StatusOK, "login.html", gin.H{"next": next, "username": ""})
		return
	}

	if n := c.PostForm("next"); n != "" {
		next = safeNext(n)
	}
	username := c.PostForm("username")
	token, _, err := h.service.Login(c.Request.Context(), username, c.PostForm("password"))
	if errors.Is(err, service.ErrInvalidCredentials) {
		render(c, http.StatusOK, "login.html", gin.H{
			"next":       next,
			"username":   username,
			"form_error": err.Error(),
		})
		return
	}
	if err != nil {
		renderError(c, h.logger, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, token, h.cookieMaxAge, "/", "", h.secure, true)
	c.Redirect(http.StatusFound, next)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	token, _ := c.Cookie(SessionCookie)
	if err := h.service.Logout(c.Request.Context(), token); err != nil {
		renderError(c, h.logger, err)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, "", -1, "/", "", h.secure, true)
	c.Redirect(http.StatusFound, "/")
}
