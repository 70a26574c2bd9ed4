package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/blog/internal/config"
	"github.com/example/blog/internal/db"
	"github.com/example/blog/internal/session"
	"github.com/example/blog/internal/transport/http"
)

type Application struct {
	Config   *config.Config
	DB       *db.Database
	Sessions *session.RedisStore
	Router   http.Router
	Logger   *slog.Logger
}

func Initialize(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	database, err := db.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}

	if err := database.Migrate(); err != nil {
		database.Close()
		return nil, fmt.Errorf("db migrate: %w", err)
	}

	sessions := session.NewRedisStore(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := sessions.Ping(ctx); err != nil {
		database.Close()
		sessions.Close()
		return nil, fmt.Errorf("redis: %w", err)
	}

	r := http.NewRouter(cfg, database, sessions, logger)

	return &Application{
		Config:   cfg,
		DB:       database,
		Sessions: sessions,
		Router:   r,
		Logger:   logger,
	}, nil
}

func (a *Application) Close() {
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			a.Logger.Error("db close error", "error", err)
		}
	}
	if a.Sessions != nil {
		_ = a.Sessions.Close()
	}
}
