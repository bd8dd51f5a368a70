package post

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sirupsen/logrus"
)

type PostRepository struct{}

type PostRepositoryInterface interface {
	Create(ctx context.Context, tx *sql.Tx, post *Post) error
	GetByID(ctx context.Context, db *sql.DB, id string) (*Post, error)
	ListSummaries(ctx context.Context, db *sql.DB) ([]*Summary, error)
	UpdateOwned(ctx context.Context, db *sql.DB, id, userID, title, content string) (int64, error)
	DeleteOwned(ctx context.Context, db *sql.DB, id, userID string) (int64, error)
	RecordEvent(ctx context.Context, db *sql.DB, postID, userID, action string) error
}

func NewPostRepository() PostRepositoryInterface {
	return &PostRepository{}
}

// Create inserts a new post owned by post.UserID.
func (r *PostRepository) Create(
	ctx context.Context,
	tx *sql.Tx,
	post *Post,
) error {
	query := `
		INSERT INTO posts (
			id, title, content, user_id, updated, created_at
		)
		VALUES ($1, $2, $3, $4, FALSE, NOW())
	`

	_, err := tx.ExecContext(
		ctx,
		query,
		post.ID,
		post.Title,
		post.Content,
		post.UserID,
	)

	if err != nil {
		logrus.WithError(err).Error("Failed to create post")
		return err
	}

	logrus.WithFields(logrus.Fields{
		"post_id": post.ID,
		"user_id": post.UserID,
	}).Info("Post created successfully")

	return nil
}

// GetByID retrieves a post by id. Absent is (nil, nil).
func (r *PostRepository) GetByID(ctx context.Context, db *sql.DB, id string) (*Post, error) {
	query := `
		SELECT id, title, content, user_id, updated, created_at
		FROM posts
		WHERE id = $1
	`

	var p Post
	err := db.QueryRowContext(ctx, query, id).Scan(
		&p.ID,
		&p.Title,
		&p.Content,
		&p.UserID,
		&p.Updated,
		&p.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logrus.WithError(err).Error("Failed to get post by ID")
		return nil, err
	}

	return &p, nil
}

// ListSummaries returns id, title and content for every post.
func (r *PostRepository) ListSummaries(ctx context.Context, db *sql.DB) ([]*Summary, error) {
	query := `
		SELECT id, title, content
		FROM posts
	`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []*Summary
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.ID, &s.Title, &s.Content); err != nil {
			logrus.Error("Error scanning post row: ", err)
			continue
		}
		posts = append(posts, &s)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return posts, nil
}

// UpdateOwned overwrites title and content for the post matching both id
// and owner, flags it as updated, and returns the affected row count.
// Ownership is enforced entirely by the compound predicate: zero rows means
// either the post does not exist or it belongs to someone else, and the two
// are indistinguishable on purpose.
func (r *PostRepository) UpdateOwned(
	ctx context.Context,
	db *sql.DB,
	id, userID, title, content string,
) (int64, error) {
	query := `
		UPDATE posts
		SET title = $1, content = $2, updated = TRUE
		WHERE id = $3 AND user_id = $4
	`

	result, err := db.ExecContext(ctx, query, title, content, id, userID)
	if err != nil {
		logrus.WithError(err).Error("Failed to update post")
		return 0, err
	}

	return result.RowsAffected()
}

// DeleteOwned removes the post matching both id and owner. Same scoped
// semantics as UpdateOwned.
func (r *PostRepository) DeleteOwned(ctx context.Context, db *sql.DB, id, userID string) (int64, error) {
	query := `
		DELETE FROM posts
		WHERE id = $1 AND user_id = $2
	`

	result, err := db.ExecContext(ctx, query, id, userID)
	if err != nil {
		logrus.WithError(err).Error("Failed to delete post")
		return 0, err
	}

	return result.RowsAffected()
}

// RecordEvent appends a post lifecycle event to the audit table. Used by
// the event consumer, not by request handlers.
func (r *PostRepository) RecordEvent(ctx context.Context, db *sql.DB, postID, userID, action string) error {
	query := `
		INSERT INTO post_events (post_id, user_id, action, occurred_at)
		VALUES ($1, $2, $3, NOW())
	`

	_, err := db.ExecContext(ctx, query, postID, userID, action)
	if err != nil {
		logrus.WithError(err).Error("Failed to record post event")
		return err
	}

	return nil
}
