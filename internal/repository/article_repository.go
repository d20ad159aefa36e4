package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/maheshrc27/contentflow/internal/models"
)

type ArticleRepository interface {
	UpsertByURL(ctx context.Context, a *models.Article) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Article, error)
	List(ctx context.Context, category string, limit int) ([]*models.Article, error)
}

type articleRepository struct {
	db *sql.DB
}

func NewArticleRepository(db *sql.DB) ArticleRepository {
	return &articleRepository{db: db}
}

func (r *articleRepository) UpsertByURL(ctx context.Context, a *models.Article) (int64, error) {
	query := `
		INSERT INTO articles (title, description, url, source, image_url, category, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (url) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			image_url = EXCLUDED.image_url
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		a.Title, a.Description, a.URL, a.Source, a.ImageURL, a.Category, a.PublishedAt).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *articleRepository) GetByID(ctx context.Context, id int64) (*models.Article, error) {
	query := `SELECT id, title, description, url, source, image_url, category, published_at, created_at FROM articles WHERE id = $1`
	row := r.db.QueryRowContext(ctx, query, id)

	var a models.Article
	err := row.Scan(&a.ID, &a.Title, &a.Description, &a.URL, &a.Source, &a.ImageURL, &a.Category, &a.PublishedAt, &a.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return &a, nil
}

func (r *articleRepository) List(ctx context.Context, category string, limit int) ([]*models.Article, error) {
	query := `
		SELECT id, title, description, url, source, image_url, category, published_at, created_at
		FROM articles
		WHERE ($1 = '' OR category = $1)
		ORDER BY published_at DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, category, limit)
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
