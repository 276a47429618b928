// Package remote defines what the client needs from a post backend. The
// REST API, Firestore and the local file store all satisfy it.
package remote

import (
	"context"
	"sync"
	"sync/atomic"

	frontend_domain "github.com/bacilogs/bacilogs/frontend/internal/domain"
	"github.com/bacilogs/bacilogs/shared/domain"
)

// Store mutations take the current session; nil means anonymous and is
// rejected with an auth error.
type Store interface {
	ListPosts(ctx context.Context) ([]domain.Post, error)
	CreatePost(ctx context.Context, s *frontend_domain.Session, draft domain.PostDraft) (domain.Post, error)
	UpdatePost(ctx context.Context, s *frontend_domain.Session, id domain.PostId, patch domain.PostPatch) (domain.Post, error)
	DeletePost(ctx context.Context, s *frontend_domain.Session, id domain.PostId) error
}

// Subscriber opens a standing channel that calls onSnapshot with the full,
// newest-first collection after every change.
type Subscriber interface {
	Subscribe(ctx context.Context, onSnapshot func([]domain.Post)) (*Subscription, error)
}

// Subscription is the handle for one standing channel. After Cancel returns
// no further snapshots are delivered.
type Subscription struct {
	stop    func()
	stopped atomic.Bool
	once    sync.Once
	done    chan struct{}
	closed  sync.Once
}

func NewSubscription(stop func()) *Subscription {
	return &Subscription{stop: stop, done: make(chan struct{})}
}

func (s *Subscription) Cancel() {
	s.once.Do(func() {
		s.stopped.Store(true)
		if s.stop != nil {
			s.stop()
		}
	})
}

// Deliver hands a snapshot to fn unless the subscription was cancelled.
func (s *Subscription) Deliver(fn func([]domain.Post), posts []domain.Post) bool {
	if s.stopped.Load() {
		return false
	}
	fn(posts)
	return true
}

// Close marks the channel as finished; adapters call it when their pump
// exits for any reason.
func (s *Subscription) Close() {
	s.closed.Do(func() { close(s.done) })
}

func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

func (s *Subscription) Cancelled() bool {
	return s.stopped.Load()
}
