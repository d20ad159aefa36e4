package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/maheshrc27/contentflow/internal/models"
)

type BookmarkRepository interface {
	Create(ctx context.Context, userID, articleID int64) error
	Remove(ctx context.Context, userID, articleID int64) error
	ListByUserID(ctx context.Context, userID int64) ([]*models.Article, error)
}

type bookmarkRepository struct {
	db *sql.DB
}

func NewBookmarkRepository(db *sql.DB) BookmarkRepository {
	return &bookmarkRepository{db: db}
}

func (r *bookmarkRepository) Create(ctx context.Context, userID, articleID int64) error {
	query := `
		INSERT INTO bookmarks (user_id, article_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, article_id) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, query, userID, articleID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *bookmarkRepository) Remove(ctx context.Context, userID, articleID int64) error {
	query := `DELETE FROM bookmarks WHERE user_id = $1 AND article_id = $2`
	_, err := r.db.ExecContext(ctx, query, userID, articleID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *bookmarkRepository) ListByUserID(ctx context.Context, userID int64) ([]*models.Article, error) {
	query := `
		SELECT a.id, a.title, a.description, a.url, a.source, a.image_url, a.category, a.published_at, a.created_at
		FROM bookmarks b
		JOIN articles a ON a.id = b.article_id
		WHERE b.user_id = $1
		ORDER BY b.created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var articles []*models.Article
	for rows.Next() {
		var a models.Article
		err := rows.Scan(&a.ID, &a.Title, &a.Description, &a.URL, &a.Source, &a.ImageURL, &a.Category, &a.PublishedAt, &a.CreatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		articles = append(articles, &a)
	}
	return articles, rows.Err()
}
