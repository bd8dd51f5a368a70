package post

import (
	"blog_api/internal/cache"
	"blog_api/internal/queue"
	"blog_api/internal/utils"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

var (
	ErrMissingFields = errors.New("please fill in all fields.")
	ErrNotFound      = errors.New("there are no posts.")
)

const cacheTimeout = 2 * time.Second

type PostServiceInterface interface {
	ListAll(ctx context.Context) ([]*Summary, error)
	GetByID(ctx context.Context, id string) (*Post, error)
	Create(ctx context.Context, callerID, title, content string) (*Post, error)
	Update(ctx context.Context, callerID, id, title, content string) (bool, *Post, error)
	Delete(ctx context.Context, callerID, id string) (bool, error)
}

type PostService struct {
	repo  PostRepositoryInterface
	db    *sql.DB
	conn  *amqp.Connection
	cache *cache.PostCache
}

func NewPostService(repo PostRepositoryInterface, db *sql.DB, conn *amqp.Connection, redisClient *redis.Client) PostServiceInterface {
	s := &PostService{
		repo: repo,
		db:   db,
		conn: conn,
	}
	if redisClient != nil {
		s.cache = cache.NewPostCache(redisClient)
	}
	return s
}

// ListAll returns the public summary of every post, served from cache when
// warm.
func (s *PostService) ListAll(ctx context.Context) ([]*Summary, error) {
	cacheCtx, cancel := context.WithTimeout(ctx, cacheTimeout)
	defer cancel()

	cacheKey := cache.PostListKey()
	if s.cache != nil {
		cachedData, err := s.cache.Get(cacheCtx, cacheKey)
		if err == nil && cachedData != nil {
			var posts []*Summary
			if json.Unmarshal(cachedData, &posts) == nil {
				logrus.Debug("cache hit for post list")
				return posts, nil
			}
		}
	}

	posts, err := s.repo.ListSummaries(ctx, s.db)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(cacheCtx, cacheKey, posts); err != nil {
			logrus.WithError(err).Warn("Failed to cache post list")
		}
	}

	return posts, nil
}

// GetByID returns the full post, or ErrNotFound.
func (s *PostService) GetByID(ctx context.Context, id string) (*Post, error) {
	cacheCtx, cancel := context.WithTimeout(ctx, cacheTimeout)
	defer cancel()

	cacheKey := cache.PostKey(id)
	if s.cache != nil {
		cachedData, err := s.cache.Get(cacheCtx, cacheKey)
		if err == nil && cachedData != nil {
			var p Post
			if json.Unmarshal(cachedData, &p) == nil {
				logrus.Debug("cache hit for post ", id)
				return &p, nil
			}
		}
	}

	p, err := s.repo.GetByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}

	if s.cache != nil {
		if err := s.cache.Set(cacheCtx, cacheKey, p); err != nil {
			logrus.WithError(err).Warn("Failed to cache post")
		}
	}

	return p, nil
}

// Create inserts a new post owned by the caller. Title and content are both
// required.
func (s *PostService) Create(ctx context.Context, callerID, title, content string) (*Post, error) {
	if title == "" || content == "" {
		return nil, ErrMissingFields
	}

	newPost := &Post{
		ID:      uuid.NewString(),
		Title:   title,
		Content: content,
		UserID:  callerID,
	}

	if err := utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		return s.repo.Create(ctx, tx, newPost)
	}); err != nil {
		return nil, err
	}

	s.invalidate(ctx, cache.PostListKey())
	s.publishEvent(ctx, newPost.ID, callerID, "created")

	return newPost, nil
}

// Update performs a scoped update matching both id and owner. Returns
// (false, nil, nil) when zero rows matched, covering both "does not exist"
// and "not owner".
func (s *PostService) Update(ctx context.Context, callerID, id, title, content string) (bool, *Post, error) {
	if id == "" || title == "" || content == "" {
		return false, nil, ErrMissingFields
	}

	count, err := s.repo.UpdateOwned(ctx, s.db, id, callerID, title, content)
	if err != nil {
		return false, nil, err
	}
	if count == 0 {
		return false, nil, nil
	}

	s.invalidate(ctx, cache.PostListKey(), cache.PostKey(id))
	s.publishEvent(ctx, id, callerID, "updated")

	updated, err := s.repo.GetByID(ctx, s.db, id)
	if err != nil {
		return true, nil, err
	}

	return true, updated, nil
}

// Delete performs a scoped delete matching both id and owner. Returns false
// when zero rows matched.
func (s *PostService) Delete(ctx context.Context, callerID, id string) (bool, error) {
	count, err := s.repo.DeleteOwned(ctx, s.db, id, callerID)
	if err != nil {
		return false, err
	}
	if count == 0 {
		return false, nil
	}

	s.invalidate(ctx, cache.PostListKey(), cache.PostKey(id))
	s.publishEvent(ctx, id, callerID, "deleted")

	return true, nil
}

func (s *PostService) invalidate(ctx context.Context, keys ...string) {
	if s.cache == nil {
		return
	}

	cacheCtx, cancel := context.WithTimeout(ctx, cacheTimeout)
	defer cancel()

	if err := s.cache.Delete(cacheCtx, keys...); err != nil {
		logrus.WithError(err).Warn("Failed to invalidate post cache")
	}
}

// publishEvent is best effort: a queue outage must not fail the mutation
// that already committed.
func (s *PostService) publishEvent(ctx context.Context, postID, userID, action string) {
	if s.conn == nil {
		return
	}

	event := &queue.PostEvent{
		PostID: postID,
		UserID: userID,
		Action: action,
	}

	if err := queue.PublishPostEvent(ctx, s.conn, event); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"post_id": postID,
			"action":  action,
		}).Warn("Failed to publish post event")
	}
}
