package handlers

import (
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/example/blog/internal/service"
)

const (
	SessionCookie = "sessionid"
	requesterKey  = "requester"
)

// Identify resolves the session cookie into a service.Requester stored on
// the gin context. Missing or stale cookies yield the anonymous requester.
func Identify(auth *service.AuthService, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(SessionCookie)
		requester := service.Requester{}
		if token != "" {
			var err error
			requester, err = auth.Resolve(c.Request.Context(), token)
			if err != nil {
				logger.Error("resolve session failed", "error", err)
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
		}
		c.Set(requesterKey, requester)
		c.Next()
	}
}

// RequireLogin sends anonymous requesters to the login page.
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requesterFrom(c).Authenticated() {
			c.Redirect(http.StatusFound, "/login/?next="+url.QueryEscape(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}
		c.Next()
	}
}

func requesterFrom(c *gin.Context) service.Requester {
	if v, ok := c.Get(requesterKey); ok {
		if r, ok := v.(service.Requester); ok {
			return r
		}
	}
	return service.Requester{}
}

// RequestLogger logs one line per request once the handler chain is done.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
