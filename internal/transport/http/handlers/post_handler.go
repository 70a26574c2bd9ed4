package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/example/blog/internal/service"
)

type PostHandler struct {
	service *service.PostService
	logger  *slog.Logger
}

func NewPostHandler(posts *service.PostService, logger *slog.Logger) *PostHandler {
	return &PostHandler{service: posts, logger: logger}
}

type postReq struct {
	Title   string `form:"title" binding:"required,max=200"`
	Content string `form:"content" binding:"required"`
}

// bindForm returns the submitted post form, or the inline message to show
// when binding rejects it.
func bindForm(c *gin.Context) (service.PostForm, string) {
	var req postReq
	if err := c.ShouldBind(&req); err != nil {
		return service.PostForm{}, bindMessage(err)
	}
	return service.PostForm{Title: req.Title, Content: req.Content}, ""
}

func bindMessage(err error) string {
	var verrs validator.ValidationErrors
	errors.As(err, &verrs)
	msg := service.MsgTitleAndContentRequired
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			return service.MsgTitleAndContentRequired
		}
		if fe.Field() == "Title" && fe.Tag() == "max" {
			msg = service.MsgTitleTooLong
		}
	}
	return msg
}

func (h *PostHandler) List(c *gin.Context) {
	posts, err := h.service.ListPosts(c.Request.Context())
	if err != nil {
		renderError(c, h.logger, err)
		return
	}
	render(c, http.StatusOK, "post_list.html", gin.H{"posts": posts})
}

func (h *PostHandler) Detail(c *gin.Context) {
	id, err := postID(c)
	if err != nil {
		renderError(c, h.logger, err)
		return
	}
	post, err := h.service.GetPost(c.Request.Context(), id)
	if err != nil {
		renderError(c, h.logger, err)
		return
	}
	render(c, http.StatusOK, "post_detail.html", gin.H{"post": post})
}

func (h *PostHandler) Add(c *gin.Context) {
	data := gin.H{}
	if c.Request.Method == http.MethodPost {
		form, msg := bindForm(c)
		if msg != "" {
			data["form_error"] = msg
			render(c, http.StatusOK, "post_form.html", data)
			return
		}
		res, err := h.service.CreatePost(c.Request.Context(), requesterFrom(c), form)
		if err != nil {
			renderError(c, h.logger, err)
			return
		}
		if res.Saved() {
			c.Redirect(http.StatusFound, postURL(res.Post.ID))
			return
		}
		data["form_error"] = res.FormError
	}
	render(c, http.StatusOK, "post_form.html", data)
}

func (h *PostHandler) Edit(c *gin.Context) {
	id, err := postID(c)
	if err != nil {
		renderError(c, h.logger, err)
		return
	}
	if c.Request.Method != http.MethodPost {
		post, err := h.service.GetPost(c.Request.Context(), id)
		if err != nil {
			renderError(c, h.logger, err)
			return
		}
		render(c, http.StatusOK, "post_form.html", gin.H{"post": post})
		return
	}

	form, msg := bindForm(c)
	if msg != "" {
		post, err := h.service.GetPost(c.Request.Context(), id)
		if err != nil {
			renderError(c, h.logger, err)
			return
		}
		render(c, http.StatusOK, "post_form.html", gin.H{"post": post, "form_error": msg})
		return
	}
	res, err := h.service.EditPost(c.Request.Context(), requesterFrom(c), id, form)
	if err != nil {
		renderError(c, h.logger, err)
		return
	}
	if res.Saved() {
		c.Redirect(http.StatusFound, postURL(id))
		return
	}
	render(c, http.StatusOK, "post_form.html", gin.H{"post": res.Post, "form_error": res.FormError})
}

func (h *PostHandler) Delete(c *gin.Context) {
	id, err := postID(c)
	if err != nil {
		renderError(c, h.logger, err)
		return
	}
	if c.Request.Method != http.MethodPost {
		post, err := h.service.GetPost(c.Request.Context(), id)
		if err != nil {
			renderError(c, h.logger, err)
			return
		}
		render(c, http.StatusOK, "post_delete.html", gin.H{"post": post})
		return
	}

	res, err := h.service.DeletePost(c.Request.Context(), requesterFrom(c), id)
	if err != nil {
		renderError(c, h.logger, err)
		return
	}
	if res.Deleted {
		c.Redirect(http.StatusFound, "/")
		return
	}
	c.Redirect(http.StatusFound, postURL(id))
}
