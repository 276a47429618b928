package setup

import (
	"context"
	"fmt"

	"github.com/bacilogs/bacilogs/frontend/internal/apiclient"
	"github.com/bacilogs/bacilogs/frontend/internal/firestore"
	"github.com/bacilogs/bacilogs/frontend/internal/handler"
	"github.com/bacilogs/bacilogs/frontend/internal/localstore"
	"github.com/bacilogs/bacilogs/frontend/internal/posts"
	"github.com/bacilogs/bacilogs/frontend/internal/remote"
	"github.com/bacilogs/bacilogs/frontend/internal/session"
	"github.com/bacilogs/bacilogs/shared/config"
	"github.com/bacilogs/bacilogs/shared/domain"
	"github.com/bacilogs/bacilogs/shared/logger"
)

type Dependencies struct {
	Config     *config.Client
	Local      *localstore.Store
	Store      remote.Store      // nil in local mode
	Subscriber remote.Subscriber // nil in local mode
	Posts      *posts.Collection
	Session    *session.State
	Handler    *handler.Handler

	closers []func() error
}

// SetupDependencies wires the client for cfg.Mode. It does not touch the
// network; call Handler.Load for that.
func SetupDependencies(ctx context.Context, cfg *config.Client) (*Dependencies, error) {
	local, err := localstore.Open(cfg.StateFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open local state: %w", err)
	}
	deps := &Dependencies{Config: cfg, Local: local}

	var (
		auth   session.Authenticator
		source posts.Source
	)
	switch cfg.Mode {
	case config.ModeAPI:
		client := apiclient.New(cfg.APIURL)
		auth, source = client, client
		deps.Store, deps.Subscriber = client, client

	case config.ModeFirestore:
		store, err := firestore.New(ctx, cfg.Firebase)
		if err != nil {
			return nil, err
		}
		deps.closers = append(deps.closers, store.Close)
		identity, err := firestore.NewIdentity(ctx, cfg.Firebase.APIKey)
		if err != nil {
			deps.Close()
			return nil, err
		}
		auth, source = identity, store
		deps.Store, deps.Subscriber = store, store

	case config.ModeLocal:
		auth, source = session.NewAllowList(cfg.AllowList), local

	default:
		return nil, fmt.Errorf("unknown client mode %q", cfg.Mode)
	}

	deps.Posts = posts.New(source, deps.Subscriber)
	if cfg.Mode == config.ModeLocal {
		deps.Posts.Observe(func(snapshot []domain.Post) {
			if err := local.SavePosts(snapshot); err != nil {
				logger.Log.Error("failed to save posts", "error", err)
			}
		})
	}
	deps.Session = session.New(auth, local, cfg.DisplayName)
	deps.Handler = handler.New(deps.Store, deps.Posts, deps.Session, local, cfg.DisplayName)

	logger.Log.Debug("client wired", "mode", cfg.Mode, "state_file", cfg.StateFile)
	return deps, nil
}

// Close releases the push channel and backend clients.
func (d *Dependencies) Close() {
	if d.Posts != nil {
		d.Posts.Unsubscribe()
	}
	for _, c := range d.closers {
		if err := c(); err != nil {
			logger.Log.Warn("failed to close client", "error", err)
		}
	}
}
