// Package firestore is the realtime remote store: posts live in a Firestore
// collection and changes arrive as query snapshots.
package firestore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	frontend_domain "github.com/bacilogs/bacilogs/frontend/internal/domain"
	"github.com/bacilogs/bacilogs/frontend/internal/remote"
	"github.com/bacilogs/bacilogs/shared/config"
	"github.com/bacilogs/bacilogs/shared/domain"
	"github.com/bacilogs/bacilogs/shared/errors"
	"github.com/bacilogs/bacilogs/shared/logger"
	"github.com/bacilogs/bacilogs/shared/utils"
)

// document is a post as stored in Firestore. Older documents carry
// titlePicture and category instead of titleImage and blogType.
type document struct {
	Title        string    `firestore:"title"`
	Content      string    `firestore:"content"`
	TitleImage   string    `firestore:"titleImage,omitempty"`
	TitlePicture string    `firestore:"titlePicture,omitempty"`
	BlogType     string    `firestore:"blogType,omitempty"`
	Category     string    `firestore:"category,omitempty"`
	Author       string    `firestore:"author"`
	CreatedAt    time.Time `firestore:"createdAt"`
}

func (d document) normalize(id string) domain.Post {
	post := domain.Post{
		Id:         id,
		Title:      d.Title,
		Content:    d.Content,
		TitleImage: d.TitleImage,
		Category:   domain.Category(d.BlogType),
		Author:     d.Author,
		CreatedAt:  d.CreatedAt,
	}
	if post.TitleImage == "" {
		post.TitleImage = d.TitlePicture
	}
	if post.Category == "" {
		post.Category = domain.Category(d.Category)
	}
	return post
}

type Store struct {
	client     *firestore.Client
	collection string
}

func New(ctx context.Context, cfg config.Firebase) (*Store, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	client, err := firestore.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}
	return &Store{client: client, collection: cfg.Collection}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) query() firestore.Query {
	return s.client.Collection(s.collection).OrderBy("createdAt", firestore.Desc)
}

func (s *Store) ListPosts(ctx context.Context) ([]domain.Post, error) {
	docs, err := s.query().Documents(ctx).GetAll()
	if err != nil {
		return nil, classify(err)
	}
	return normalizeDocs(docs), nil
}

func (s *Store) CreatePost(ctx context.Context, session *frontend_domain.Session, draft domain.PostDraft) (domain.Post, error) {
	if session == nil {
		return domain.Post{}, errors.Unauthorized("Please sign-in")
	}
	draft.Title = strings.TrimSpace(draft.Title)
	draft.Content = utils.SanitizeContent(draft.Content)
	if draft.Title == "" || strings.TrimSpace(draft.Content) == "" {
		return domain.Post{}, errors.BadRequest("Title and content are required")
	}
	if !draft.Category.Valid() {
		return domain.Post{}, errors.BadRequest("Unknown blog type")
	}

	fields := map[string]any{
		"title":     draft.Title,
		"content":   draft.Content,
		"blogType":  string(draft.Category),
		"author":    session.Identity,
		"createdAt": firestore.ServerTimestamp,
	}
	if draft.TitleImage != "" {
		fields["titleImage"] = draft.TitleImage
	}
	ref, _, err := s.client.Collection(s.collection).Add(ctx, fields)
	if err != nil {
		return domain.Post{}, classify(err)
	}
	return s.get(ctx, ref)
}

func (s *Store) UpdatePost(ctx context.Context, session *frontend_domain.Session, id domain.PostId, patch domain.PostPatch) (domain.Post, error) {
	ref, current, err := s.owned(ctx, session, id, "edit")
	if err != nil {
		return domain.Post{}, err
	}

	var updates []firestore.Update
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return domain.Post{}, errors.BadRequest("Title cannot be empty")
		}
		updates = append(updates, firestore.Update{Path: "title", Value: title})
	}
	if patch.Content != nil {
		content := utils.SanitizeContent(*patch.Content)
		if strings.TrimSpace(content) == "" {
			return domain.Post{}, errors.BadRequest("Content cannot be empty")
		}
		updates = append(updates, firestore.Update{Path: "content", Value: content})
	}
	if patch.TitleImage != nil {
		updates = append(updates, firestore.Update{Path: "titleImage", Value: *patch.TitleImage})
	}
	if len(updates) == 0 {
		return current, nil
	}

	if _, err := ref.Update(ctx, updates); err != nil {
		return domain.Post{}, classify(err)
	}
	return s.get(ctx, ref)
}

func (s *Store) DeletePost(ctx context.Context, session *frontend_domain.Session, id domain.PostId) error {
	ref, _, err := s.owned(ctx, session, id, "delete")
	if err != nil {
		return err
	}
	if _, err := ref.Delete(ctx); err != nil {
		return classify(err)
	}
	return nil
}

// Subscribe listens to the ordered collection. Firestore delivers snapshots
// in write order; each one replaces the whole list.
func (s *Store) Subscribe(ctx context.Context, onSnapshot func([]domain.Post)) (*remote.Subscription, error) {
	ctx, cancel := context.WithCancel(ctx)
	it := s.query().Snapshots(ctx)
	sub := remote.NewSubscription(func() {
		cancel()
		it.Stop()
	})

	go func() {
		defer sub.Close()
		for {
			qs, err := it.Next()
			if err != nil {
				if !sub.Cancelled() && status.Code(err) != codes.Canceled && err != iterator.Done {
					logger.Log.Warn("firestore listener stopped", "error", err)
				}
				return
			}
			docs, err := qs.Documents.GetAll()
			if err != nil {
				logger.Log.Warn("failed to read firestore snapshot", "error", err)
				continue
			}
			sub.Deliver(onSnapshot, normalizeDocs(docs))
		}
	}()
	return sub, nil
}

// owned loads the post and checks that the session's author wrote it.
func (s *Store) owned(ctx context.Context, session *frontend_domain.Session, id domain.PostId, action string) (*firestore.DocumentRef, domain.Post, error) {
	if session == nil {
		return nil, domain.Post{}, errors.Unauthorized("Please sign-in")
	}
	if id == "" || strings.Contains(id, "/") {
		return nil, domain.Post{}, errors.NotFound("Post not found")
	}
	ref := s.client.Collection(s.collection).Doc(id)
	post, err := s.get(ctx, ref)
	if err != nil {
		return nil, domain.Post{}, err
	}
	if post.Author != session.Identity {
		return nil, domain.Post{}, errors.Forbidden(fmt.Sprintf("Only the author can %s this post", action))
	}
	return ref, post, nil
}

func (s *Store) get(ctx context.Context, ref *firestore.DocumentRef) (domain.Post, error) {
	snap, err := ref.Get(ctx)
	if err != nil {
		return domain.Post{}, classify(err)
	}
	var d document
	if err := snap.DataTo(&d); err != nil {
		return domain.Post{}, fmt.Errorf("decode post %s: %w", ref.ID, err)
	}
	return d.normalize(ref.ID), nil
}

func normalizeDocs(docs []*firestore.DocumentSnapshot) []domain.Post {
	posts := make([]domain.Post, 0, len(docs))
	for _, snap := range docs {
		var d document
		if err := snap.DataTo(&d); err != nil {
			logger.Log.Warn("skipping malformed post", "id", snap.Ref.ID, "error", err)
			continue
		}
		posts = append(posts, d.normalize(snap.Ref.ID))
	}
	return posts
}

// classify maps gRPC status codes onto the shared error kinds.
func classify(err error) error {
	switch status.Code(err) {
	case codes.NotFound:
		return errors.NotFound("Post not found")
	case codes.PermissionDenied:
		return errors.Forbidden("Permission denied")
	case codes.Unauthenticated:
		return errors.Unauthorized("Please sign-in")
	case codes.InvalidArgument:
		return errors.BadRequest(status.Convert(err).Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return fmt.Errorf("%w: %v", errors.ErrNetwork, err)
	}
	return err
}
