package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/example/blog/internal/service"
)

// render adds the requester to every template context.
func render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["requester"] = requesterFrom(c)
	c.HTML(status, name, data)
}

func renderError(c *gin.Context, logger *slog.Logger, err error) {
	if errors.Is(err, service.ErrNotFound) {
		render(c, http.StatusNotFound, "error.html", gin.H{"status": http.StatusNotFound, "message": "Post not found."})
		return
	}
	logger.Error("request failed", "method", c.Request.Method, "path", c.Request.URL.Path, "error", err)
	render(c, http.StatusInternalServerError, "error.html", gin.H{"status": http.StatusInternalServerError, "message": "Something went wrong."})
}

// postID parses the :id path segment; anything but a positive integer is
// treated as an unknown post.
func postID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, service.ErrNotFound
	}
	return uint(id), nil
}

func postURL(id uint) string { return "/" + strconv.FormatUint(uint64(id), 10) + "/" }

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
