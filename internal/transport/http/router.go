package http

import (
	"embed"
	"html/template"
	"log/slog"
	stdhttp "net/http"

	"github.com/gin-gonic/gin"

	"github.com/example/blog/internal/config"
	"github.com/example/blog/internal/db"
	"github.com/example/blog/internal/service"
	"github.com/example/blog/internal/session"
	"github.com/example/blog/internal/transport/http/handlers"
)

//go:embed templates/*.html
var templatesFS embed.FS

type Router = *gin.Engine

type route struct {
	methods []string
	path    string
	handler gin.HandlerFunc
	login   bool
}

var (
	get     = []string{stdhttp.MethodGet}
	post    = []string{stdhttp.MethodPost}
	getPost = []string{stdhttp.MethodGet, stdhttp.MethodPost}
)

// Deps lets callers swap the services the router is built from.
type Deps struct {
	Posts *service.PostService
	Auth  *service.AuthService
}

func NewRouter(cfg *config.Config, database *db.Database, sessions *session.RedisStore, logger *slog.Logger) Router {
	return NewRouterWithDeps(cfg, Deps{
		Posts: service.NewPostService(database, logger),
		Auth:  service.NewAuthService(database, sessions, logger),
	}, logger)
}

func NewRouterWithDeps(cfg *config.Config, deps Deps, logger *slog.Logger) Router {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), handlers.RequestLogger(logger), handlers.Identify(deps.Auth, logger))
	r.SetHTMLTemplate(template.Must(template.ParseFS(templatesFS, "templates/*.html")))

	posts := handlers.NewPostHandler(deps.Posts, logger)
	auth := handlers.NewAuthHandler(deps.Auth, cfg.SessionTTL(), cfg.SessionCookieSecure, logger)

	routes := []route{
		{methods: get, path: "/", handler: posts.List},
		{methods: getPost, path: "/add/", handler: posts.Add, login: true},
		{methods: getPost, path: "/login/", handler: auth.Login},
		{methods: post, path: "/logout/", handler: auth.Logout},
		{methods: get, path: "/healthz", handler: handlers.Health},
		{methods: get, path: "/:id/", handler: posts.Detail},
		{methods: getPost, path: "/:id/edit/", handler: posts.Edit},
		{methods: getPost, path: "/:id/delete/", handler: posts.Delete},
	}
	for _, rt := range routes {
		chain := []gin.HandlerFunc{rt.handler}
		if rt.login {
			chain = []gin.HandlerFunc{handlers.RequireLogin(), rt.handler}
		}
		for _, m := range rt.methods {
			r.Handle(m, rt.path, chain...)
		}
	}
	r.NoRoute(func(c *gin.Context) {
		c.HTML(stdhttp.StatusNotFound, "error.html", gin.H{"status": stdhttp.StatusNotFound, "message": "Page not found."})
	})

	return r
}
