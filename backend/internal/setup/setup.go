package setup

import (
	"context"
	"fmt"

	"github.com/bacilogs/bacilogs/backend/internal/handler"
	"github.com/bacilogs/bacilogs/backend/internal/push"
	"github.com/bacilogs/bacilogs/backend/internal/service"
	"github.com/bacilogs/bacilogs/backend/internal/storage/memory"
	"github.com/bacilogs/bacilogs/backend/internal/storage/pg"
	"github.com/bacilogs/bacilogs/shared/config"
	"github.com/bacilogs/bacilogs/shared/domain"
	"github.com/bacilogs/bacilogs/shared/jwt"
	"github.com/bacilogs/bacilogs/shared/logger"
	"github.com/bacilogs/bacilogs/shared/middleware"
	"github.com/bacilogs/bacilogs/shared/middleware/ratelimiter"
	"github.com/bacilogs/bacilogs/shared/utils"
)

// Storage is everything the services and probes need from a backing store.
type Storage interface {
	service.PostStorage
	service.AuthStorage
	Ping(ctx context.Context) error
	Cleanup() error
}

// Dependencies struct to hold all initialized dependencies.
type Dependencies struct {
	Config         *config.Config
	Storage        Storage
	Handler        *handler.Handler
	Auth           service.AuthService
	Hub            *push.Hub
	AuthMiddleware *middleware.Auth
	LoginLimiter   *ratelimiter.Limiter
}

func NewStorage(cfg *config.Config) (Storage, error) {
	switch cfg.Public.Storage {
	case config.StoragePostgres:
		return pg.New(cfg.Pg())
	case config.StorageMemory:
		logger.Log.Warn("using in-memory storage, posts are lost on restart")
		return memory.New(), nil
	}
	return nil, fmt.Errorf("unknown storage %q", cfg.Public.Storage)
}

// SetupDependencies wires storage, services and handlers. Background work is
// bound to ctx.
func SetupDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	storage, err := NewStorage(cfg)
	if err != nil {
		return nil, err
	}
	return Wire(ctx, cfg, storage)
}

func Wire(ctx context.Context, cfg *config.Config, storage Storage) (*Dependencies, error) {
	jwtService := jwt.New(cfg.JwtKey(), cfg.JwtTTL())
	hub := push.NewHub()

	auth := service.NewAuth(storage, jwtService)
	if seed := cfg.SeedUsers(); len(seed) > 0 {
		creds := make([]domain.Credentials, 0, len(seed))
		for _, u := range seed {
			creds = append(creds, domain.Credentials{Username: u.Username, Password: u.Password})
		}
		if err := auth.SeedUsers(creds); err != nil {
			return nil, fmt.Errorf("seed users: %w", err)
		}
	}

	post := service.NewPost(storage, hub, utils.SanitizeContent)
	// first snapshot so stream subscribers start with the stored posts
	posts, err := post.List()
	if err != nil {
		return nil, fmt.Errorf("load posts: %w", err)
	}
	hub.Publish(posts)

	limiter := ratelimiter.PerMinute(cfg.Public.LoginRatePerMinute)
	limiter.StartSweeper(ctx)

	return &Dependencies{
		Config:         cfg,
		Storage:        storage,
		Handler:        handler.New(auth, post, hub, storage, cfg),
		Auth:           auth,
		Hub:            hub,
		AuthMiddleware: middleware.NewAuth(jwtService),
		LoginLimiter:   limiter,
	}, nil
}
