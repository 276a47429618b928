package posts

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bacilogs/bacilogs/frontend/internal/remote"
	"github.com/bacilogs/bacilogs/shared/domain"
	"github.com/bacilogs/bacilogs/shared/errors"
)

type MockSource struct {
	MockListPosts func(ctx context.Context) ([]domain.Post, error)
}

func (m *MockSource) ListPosts(ctx context.Context) ([]domain.Post, error) {
	if m.MockListPosts != nil {
		return m.MockListPosts(ctx)
	}
	return nil, nil
}

type MockSubscriber struct {
	calls   int
	push    func([]domain.Post)
	stopped int

	// dialing and proceed, when set, hold Subscribe open until the test lets it finish.
	dialing chan struct{}
	proceed chan struct{}
}

func (m *MockSubscriber) Subscribe(ctx context.Context, onSnapshot func([]domain.Post)) (*remote.Subscription, error) {
	m.calls++
	if m.dialing != nil {
		close(m.dialing)
		<-m.proceed
	}
	sub := remote.NewSubscription(func() { m.stopped++ })
	m.push = func(posts []domain.Post) { sub.Deliver(onSnapshot, posts) }
	return sub, nil
}

var base = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

func post(id string, category domain.Category, age int) domain.Post {
	return domain.Post{Id: id, Title: "title " + id, Category: category, CreatedAt: base.Add(-time.Duration(age) * time.Hour)}
}

func fixed(posts ...domain.Post) *MockSource {
	return &MockSource{MockListPosts: func(ctx context.Context) ([]domain.Post, error) { return posts, nil }}
}

func TestRefresh(t *testing.T) {
	t.Run("installs newest first", func(t *testing.T) {
		c := New(fixed(post("old", domain.Willow, 5), post("new", domain.Wishes, 1)), nil)
		assert.False(t, c.Loaded())

		require.NoError(t, c.Refresh(context.Background()))
		snap := c.Snapshot()
		require.Len(t, snap, 2)
		assert.Equal(t, "new", snap[0].Id)
		assert.True(t, c.Loaded())
	})

	t.Run("failure keeps the previous snapshot", func(t *testing.T) {
		fail := false
		source := &MockSource{MockListPosts: func(ctx context.Context) ([]domain.Post, error) {
			if fail {
				return nil, fmt.Errorf("%w: timeout", errors.ErrNetwork)
			}
			return []domain.Post{post("a", domain.Willow, 1)}, nil
		}}
		c := New(source, nil)
		require.NoError(t, c.Refresh(context.Background()))

		fail = true
		err := c.Refresh(context.Background())
		assert.ErrorIs(t, err, errors.ErrNetwork)
		assert.Len(t, c.Snapshot(), 1)
	})

	t.Run("slow earlier refresh does not overwrite a newer one", func(t *testing.T) {
		release := make(chan struct{})
		started := make(chan struct{})
		calls := 0
		source := &MockSource{MockListPosts: func(ctx context.Context) ([]domain.Post, error) {
			calls++
			if calls == 1 {
				close(started)
				<-release
				return []domain.Post{post("stale", domain.Willow, 3)}, nil
			}
			return []domain.Post{post("fresh", domain.Willow, 1)}, nil
		}}
		c := New(source, nil)

		done := make(chan error)
		go func() { done <- c.Refresh(context.Background()) }()
		<-started
		require.NoError(t, c.Refresh(context.Background()))
		close(release)
		require.NoError(t, <-done)

		snap := c.Snapshot()
		require.Len(t, snap, 1)
		assert.Equal(t, "fresh", snap[0].Id)
	})
}

func TestPushRetiresInFlightRefresh(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	source := &MockSource{MockListPosts: func(ctx context.Context) ([]domain.Post, error) {
		close(started)
		<-release
		return []domain.Post{post("stale", domain.Willow, 3)}, nil
	}}
	sub := &MockSubscriber{}
	c := New(source, sub)
	require.NoError(t, c.Subscribe(context.Background()))

	done := make(chan error)
	go func() { done <- c.Refresh(context.Background()) }()
	<-started
	sub.push([]domain.Post{post("pushed", domain.Wishes, 1)})
	close(release)
	require.NoError(t, <-done)

	snap := c.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, "pushed", snap[0].Id)
}

func TestSubscribe(t *testing.T) {
	t.Run("one channel at a time", func(t *testing.T) {
		sub := &MockSubscriber{}
		c := New(fixed(), sub)

		require.NoError(t, c.Subscribe(context.Background()))
		require.NoError(t, c.Subscribe(context.Background()))
		assert.Equal(t, 1, sub.calls)

		sub.push([]domain.Post{post("a", domain.Willow, 2), post("b", domain.Wishes, 1)})
		assert.Equal(t, 2, len(c.Snapshot()))

		c.Unsubscribe()
		c.Unsubscribe()
		assert.Equal(t, 1, sub.stopped)

		sub.push(nil)
		assert.Equal(t, 2, len(c.Snapshot()), "no delivery after unsubscribe")
	})

	t.Run("unsubscribe while the channel is opening releases it", func(t *testing.T) {
		sub := &MockSubscriber{dialing: make(chan struct{}), proceed: make(chan struct{})}
		c := New(fixed(), sub)

		done := make(chan error)
		go func() { done <- c.Subscribe(context.Background()) }()
		<-sub.dialing
		c.Unsubscribe()
		close(sub.proceed)
		require.NoError(t, <-done)

		assert.Equal(t, 1, sub.stopped)
		sub.push([]domain.Post{post("late", domain.Willow, 1)})
		assert.Empty(t, c.Snapshot())

		sub.dialing = nil
		require.NoError(t, c.Subscribe(context.Background()))
		assert.Equal(t, 2, sub.calls)
		c.Unsubscribe()
		assert.Equal(t, 2, sub.stopped)
	})

	t.Run("unsubscribe without subscribe", func(t *testing.T) {
		c := New(fixed(), &MockSubscriber{})
		assert.NotPanics(t, c.Unsubscribe)
	})

	t.Run("no push channel", func(t *testing.T) {
		c := New(fixed(), nil)
		assert.Error(t, c.Subscribe(context.Background()))
	})
}

func TestLocalEdits(t *testing.T) {
	c := New(fixed(post("server", domain.Willow, 1)), nil)

	c.AddLocal(post("mine", domain.Wishes, 0))
	assert.Equal(t, "mine", c.Snapshot()[0].Id)

	edited := post("mine", domain.Wishes, 0)
	edited.Title = "edited"
	assert.True(t, c.ReplaceLocal(edited))
	got, ok := c.Find("mine")
	require.True(t, ok)
	assert.Equal(t, "edited", got.Title)
	assert.False(t, c.ReplaceLocal(post("ghost", domain.Willow, 0)))

	assert.True(t, c.RemoveLocal("mine"))
	assert.False(t, c.RemoveLocal("mine"))
	_, ok = c.Find("mine")
	assert.False(t, ok)

	c.AddLocal(post("optimistic", domain.Willow, 0))
	require.NoError(t, c.Refresh(context.Background()))
	snap := c.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, "server", snap[0].Id)
}

func TestByCategoryKeepsOrder(t *testing.T) {
	c := New(fixed(
		post("w1", domain.Willow, 1),
		post("s1", domain.Wishes, 2),
		post("w2", domain.Willow, 3),
		post("s2", domain.Wishes, 4),
		post("w3", domain.Willow, 5),
	), nil)
	require.NoError(t, c.Refresh(context.Background()))

	willow := c.ByCategory(domain.Willow)
	require.Len(t, willow, 3)
	assert.Equal(t, []string{"w1", "w2", "w3"}, []string{willow[0].Id, willow[1].Id, willow[2].Id})
	assert.Equal(t, 2, c.Count(domain.Wishes))
}

func TestObserve(t *testing.T) {
	c := New(fixed(post("a", domain.Willow, 1)), nil)
	var seen [][]domain.Post
	remove := c.Observe(func(posts []domain.Post) { seen = append(seen, posts) })

	require.NoError(t, c.Refresh(context.Background()))
	c.AddLocal(post("b", domain.Wishes, 0))
	remove()
	c.RemoveLocal("b")

	require.Len(t, seen, 2)
	assert.Len(t, seen[0], 1)
	assert.Len(t, seen[1], 2)
}
