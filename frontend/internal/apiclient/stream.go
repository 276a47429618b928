package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/bacilogs/bacilogs/frontend/internal/remote"
	"github.com/bacilogs/bacilogs/shared/domain"
	"github.com/bacilogs/bacilogs/shared/errors"
	"github.com/bacilogs/bacilogs/shared/logger"
)

type wireEvent struct {
	Sequence uint64     `json:"sequence"`
	Posts    []wirePost `json:"posts"`
}

func (c *APIClient) streamURL() (string, error) {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid API url: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/api/posts/stream"
	return u.String(), nil
}

func (c *APIClient) dial(ctx context.Context, target string) (*websocket.Conn, error) {
	conn, resp, err := c.Dialer.DialContext(ctx, target, http.Header{})
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("%w: open post stream: %v", errors.ErrNetwork, err)
	}
	return conn, nil
}

// Subscribe opens the post stream. The first connection is made before
// returning so a dead server is reported to the caller; later drops are
// redialled after Reconnect until the subscription is cancelled.
func (c *APIClient) Subscribe(ctx context.Context, onSnapshot func([]domain.Post)) (*remote.Subscription, error) {
	target, err := c.streamURL()
	if err != nil {
		return nil, err
	}
	conn, err := c.dial(ctx, target)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	connCh := make(chan *websocket.Conn, 1)
	connCh <- conn
	sub := remote.NewSubscription(func() {
		cancel()
		select {
		case conn := <-connCh:
			conn.Close()
		default:
		}
	})

	go c.pump(ctx, sub, target, conn, connCh, onSnapshot)
	return sub, nil
}

// pump owns the live connection. connCh holds it while reads are in flight
// so Cancel can close it and unblock ReadJSON.
func (c *APIClient) pump(ctx context.Context, sub *remote.Subscription, target string, conn *websocket.Conn, connCh chan *websocket.Conn, onSnapshot func([]domain.Post)) {
	defer sub.Close()
	log := logger.Log.With("component", "post_stream")
	var last uint64

	for {
		for {
			var ev wireEvent
			if err := conn.ReadJSON(&ev); err != nil {
				if !sub.Cancelled() {
					log.Warn("post stream dropped", "error", err)
				}
				break
			}
			// Sequences only order events within one connection.
			if last != 0 && ev.Sequence != 0 && ev.Sequence < last {
				continue
			}
			last = ev.Sequence
			sub.Deliver(onSnapshot, normalizeAll(ev.Posts))
		}

		select {
		case old := <-connCh:
			old.Close()
		default:
		}
		if sub.Cancelled() || ctx.Err() != nil {
			return
		}

		for {
			select {
			case <-ctx.Done():
				return
			case <-time.After(c.Reconnect):
			}
			next, err := c.dial(ctx, target)
			if err != nil {
				log.Debug("post stream redial failed", "error", err)
				continue
			}
			conn = next
			// The hub numbering restarts with the backend process, and the
			// first event on a new connection is always its current snapshot.
			last = 0
			connCh <- conn
			if sub.Cancelled() {
				select {
				case old := <-connCh:
					old.Close()
				default:
				}
				return
			}
			break
		}
	}
}
