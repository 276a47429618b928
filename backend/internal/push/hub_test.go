package push

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bacilogs/bacilogs/shared/domain"
)

func posts(ids ...string) []domain.Post {
	result := make([]domain.Post, 0, len(ids))
	for _, id := range ids {
		result = append(result, domain.Post{Id: id, Category: domain.Willow})
	}
	return result
}

func TestHubDeliversToAllSubscribers(t *testing.T) {
	hub := NewHub()
	a := hub.Subscribe()
	b := hub.Subscribe()
	defer a.Cancel()
	defer b.Cancel()

	hub.Publish(posts("1"))

	for _, sub := range []*Subscription{a, b} {
		ev := <-sub.Events()
		assert.Equal(t, uint64(1), ev.Sequence)
		require.Len(t, ev.Posts, 1)
		assert.Equal(t, "1", ev.Posts[0].Id)
	}
}

func TestHubKeepsOnlyNewestPending(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe()
	defer sub.Cancel()

	hub.Publish(posts("1"))
	hub.Publish(posts("2", "1"))
	hub.Publish(posts("3", "2", "1"))

	ev := <-sub.Events()
	assert.Equal(t, uint64(3), ev.Sequence)
	assert.Len(t, ev.Posts, 3)
	select {
	case extra := <-sub.Events():
		t.Fatalf("unexpected extra snapshot %d", extra.Sequence)
	default:
	}
}

func TestHubLateSubscriberGetsCurrentSnapshot(t *testing.T) {
	hub := NewHub()
	hub.Publish(posts("1", "2"))

	sub := hub.Subscribe()
	defer sub.Cancel()

	ev := <-sub.Events()
	assert.Equal(t, uint64(1), ev.Sequence)
	assert.Len(t, ev.Posts, 2)
}

func TestHubFirstSubscriberBeforePublishWaits(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe()
	defer sub.Cancel()

	select {
	case <-sub.Events():
		t.Fatal("nothing was published yet")
	default:
	}
}

func TestHubCancelClosesAndIsIdempotent(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe()

	sub.Cancel()
	sub.Cancel()
	hub.Publish(posts("1"))

	_, open := <-sub.Events()
	assert.False(t, open)
	assert.Empty(t, hub.subs)
}

func TestHubSnapshotIsCopied(t *testing.T) {
	hub := NewHub()
	src := posts("1")
	hub.Publish(src)

	src[0].Title = "mutated"

	assert.Empty(t, hub.Current().Posts[0].Title)
}
