package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/maheshrc27/contentflow/internal/models"
	"github.com/maheshrc27/contentflow/internal/transfer"
)

type PublishedPostRepository interface {
	Create(ctx context.Context, pp *models.PublishedPost) (int64, error)
	ListByUserID(ctx context.Context, userID int64) ([]*models.PublishedPost, error)
	CountByPlatform(ctx context.Context, userID int64, since time.Time) ([]*transfer.PlatformCount, error)
}

type publishedPostRepository struct {
	db *sql.DB
}

func NewPublishedPostRepository(db *sql.DB) PublishedPostRepository {
	return &publishedPostRepository{db: db}
}

func (r *publishedPostRepository) Create(ctx context.Context, pp *models.PublishedPost) (int64, error) {
	query := `
		INSERT INTO published_posts (user_id, content_id, platform, post_id, post_url, content, status, error_message)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		pp.UserID, pp.ContentID, pp.Platform, pp.PostID, pp.PostURL, pp.Content, pp.Status, pp.ErrorMessage,
	).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *publishedPostRepository) ListByUserID(ctx context.Context, userID int64) ([]*models.PublishedPost, error) {
	query := `
		SELECT id, user_id, content_id, platform, post_id, post_url, content, status, error_message, created_at
		FROM published_posts
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var posts []*models.PublishedPost
	for rows.Next() {
		var pp models.PublishedPost
		err := rows.Scan(&pp.ID, &pp.UserID, &pp.ContentID, &pp.Platform, &pp.PostID, &pp.PostURL,
			&pp.Content, &pp.Status, &pp.ErrorMessage, &pp.CreatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		posts = append(posts, &pp)
	}
	return posts, rows.Err()
}

func (r *publishedPostRepository) CountByPlatform(ctx context.Context, userID int64, since time.Time) ([]*transfer.PlatformCount, error) {
	query := `
		SELECT platform,
			COUNT(*) FILTER (WHERE status = 'published'),
			COUNT(*) FILTER (WHERE status = 'failed')
		FROM published_posts
		WHERE user_id = $1 AND created_at >= $2
		GROUP BY platform
	`
	rows, err := r.db.QueryContext(ctx, query, userID, since)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var counts []*transfer.PlatformCount
	for rows.Next() {
		var pc transfer.PlatformCount
		if err := rows.Scan(&pc.Platform, &pc.Published, &pc.Failed); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		counts = append(counts, &pc)
	}
	return counts, rows.Err()
}
