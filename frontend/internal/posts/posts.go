// Package posts holds the client's in-memory copy of the post collection and
// keeps it in step with the remote store.
package posts

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/bacilogs/bacilogs/frontend/internal/remote"
	"github.com/bacilogs/bacilogs/shared/domain"
	"github.com/bacilogs/bacilogs/shared/logger"
)

type Source interface {
	ListPosts(ctx context.Context) ([]domain.Post, error)
}

type Listener func(posts []domain.Post)

// Collection is the newest-first post snapshot.
//
// Every Refresh takes a ticket when it starts; its result is installed only if
// no later refresh or push has been installed meanwhile. Pushes install
// unconditionally and retire every refresh still in flight.
type Collection struct {
	source     Source
	subscriber remote.Subscriber

	mu        sync.Mutex
	posts     []domain.Post
	loaded    bool
	issued    uint64
	installed uint64
	sub       *remote.Subscription
	subGen    uint64
	listeners map[int]Listener
	nextId    int
}

// New builds a collection over source. subscriber may be nil when the
// backend has no push channel.
func New(source Source, subscriber remote.Subscriber) *Collection {
	return &Collection{source: source, subscriber: subscriber, listeners: map[int]Listener{}}
}

// Refresh reloads the full list. On failure the previous snapshot stays.
func (c *Collection) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.issued++
	ticket := c.issued
	c.mu.Unlock()

	posts, err := c.source.ListPosts(ctx)
	if err != nil {
		return fmt.Errorf("refresh posts: %w", err)
	}

	posts = sorted(posts)
	c.mu.Lock()
	if ticket <= c.installed {
		installed := c.installed
		c.mu.Unlock()
		logger.Log.Debug("dropping stale refresh", "ticket", ticket, "installed", installed)
		return nil
	}
	c.installed = ticket
	listeners := c.commit(posts)
	c.mu.Unlock()

	notify(listeners, posts)
	return nil
}

// Subscribe opens the push channel. A second call while one is open does
// nothing.
func (c *Collection) Subscribe(ctx context.Context) error {
	if c.subscriber == nil {
		return fmt.Errorf("posts: backend has no push channel")
	}
	c.mu.Lock()
	if c.sub != nil {
		c.mu.Unlock()
		return nil
	}
	gen := c.subGen
	c.mu.Unlock()

	sub, err := c.subscriber.Subscribe(ctx, c.push)
	if err != nil {
		return fmt.Errorf("subscribe to posts: %w", err)
	}

	c.mu.Lock()
	// An Unsubscribe during the dial, or a concurrent Subscribe that won,
	// leaves this handle unwanted.
	if c.sub != nil || c.subGen != gen {
		c.mu.Unlock()
		sub.Cancel()
		return nil
	}
	c.sub = sub
	c.mu.Unlock()
	return nil
}

// Unsubscribe releases the push channel, including one still being opened.
// Safe to call when none is open.
func (c *Collection) Unsubscribe() {
	c.mu.Lock()
	sub := c.sub
	c.sub = nil
	c.subGen++
	c.mu.Unlock()

	if sub != nil {
		sub.Cancel()
	}
}

func (c *Collection) push(posts []domain.Post) {
	posts = sorted(posts)
	c.mu.Lock()
	c.issued++
	c.installed = c.issued
	listeners := c.commit(posts)
	c.mu.Unlock()

	notify(listeners, posts)
}

// AddLocal, ReplaceLocal and RemoveLocal edit the snapshot in place, for the
// offline variant and for optimistic updates. The next refresh or push wins.
func (c *Collection) AddLocal(post domain.Post) {
	c.mu.Lock()
	posts := sorted(append([]domain.Post{post}, c.posts...))
	listeners := c.commit(posts)
	c.mu.Unlock()

	notify(listeners, posts)
}

func (c *Collection) ReplaceLocal(post domain.Post) bool {
	c.mu.Lock()
	i := c.index(post.Id)
	if i < 0 {
		c.mu.Unlock()
		return false
	}
	posts := slices.Clone(c.posts)
	posts[i] = post
	listeners := c.commit(posts)
	c.mu.Unlock()

	notify(listeners, posts)
	return true
}

func (c *Collection) RemoveLocal(id domain.PostId) bool {
	c.mu.Lock()
	i := c.index(id)
	if i < 0 {
		c.mu.Unlock()
		return false
	}
	posts := slices.Delete(slices.Clone(c.posts), i, i+1)
	listeners := c.commit(posts)
	c.mu.Unlock()

	notify(listeners, posts)
	return true
}

func (c *Collection) Snapshot() []domain.Post {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.posts)
}

// Loaded reports whether any snapshot has been installed yet.
func (c *Collection) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

func (c *Collection) ByCategory(category domain.Category) []domain.Post {
	return domain.FilterByCategory(c.Snapshot(), category)
}

func (c *Collection) Count(category domain.Category) int {
	return len(c.ByCategory(category))
}

func (c *Collection) Find(id domain.PostId) (domain.Post, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.index(id); i >= 0 {
		return c.posts[i], true
	}
	return domain.Post{}, false
}

// Observe registers fn for every installed snapshot and returns its remover.
func (c *Collection) Observe(fn Listener) func() {
	c.mu.Lock()
	id := c.nextId
	c.nextId++
	c.listeners[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

// index needs mu held.
func (c *Collection) index(id domain.PostId) int {
	return slices.IndexFunc(c.posts, func(p domain.Post) bool { return p.Id == id })
}

// commit installs posts and returns the listeners to notify once mu is
// released. Needs mu held.
func (c *Collection) commit(posts []domain.Post) []Listener {
	c.posts = posts
	c.loaded = true
	listeners := make([]Listener, 0, len(c.listeners))
	for _, l := range c.listeners {
		listeners = append(listeners, l)
	}
	return listeners
}

func notify(listeners []Listener, posts []domain.Post) {
	for _, l := range listeners {
		l(slices.Clone(posts))
	}
}

func sorted(posts []domain.Post) []domain.Post {
	posts = slices.Clone(posts)
	slices.SortStableFunc(posts, func(a, b domain.Post) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return posts
}
