package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/maheshrc27/contentflow/internal/models"
)

type GeneratedPostRepository interface {
	Create(ctx context.Context, gp *models.GeneratedPost) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.GeneratedPost, error)
	ListByUserID(ctx context.Context, userID int64) ([]*models.GeneratedPost, error)
	CheckByUserID(ctx context.Context, postID, userID int64) (bool, error)
	Remove(ctx context.Context, id int64) error
}

type generatedPostRepository struct {
	db *sql.DB
}

func NewGeneratedPostRepository(db *sql.DB) GeneratedPostRepository {
	return &generatedPostRepository{db: db}
}

func (r *generatedPostRepository) Create(ctx context.Context, gp *models.GeneratedPost) (int64, error) {
	query := `
		INSERT INTO generated_posts (user_id, article_id, platform, tone, content)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query, gp.UserID, gp.ArticleID, gp.Platform, gp.Tone, gp.Content).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *generatedPostRepository) GetByID(ctx context.Context, id int64) (*models.GeneratedPost, error) {
	query := `SELECT id, user_id, article_id, platform, tone, content, created_at FROM generated_posts WHERE id = $1`
	row := r.db.QueryRowContext(ctx, query, id)

	var gp models.GeneratedPost
	err := row.Scan(&gp.ID, &gp.UserID, &gp.ArticleID, &gp.Platform, &gp.Tone, &gp.Content, &gp.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return &gp, nil
}

func (r *generatedPostRepository) ListByUserID(ctx context.Context, userID int64) ([]*models.GeneratedPost, error) {
	query := `SELECT id, user_id, article_id, platform, tone, content, created_at FROM generated_posts WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var posts []*models.GeneratedPost
	for rows.Next() {
		var gp models.GeneratedPost
		err := rows.Scan(&gp.ID, &gp.UserID, &gp.ArticleID, &gp.Platform, &gp.Tone, &gp.Content, &gp.CreatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		posts = append(posts, &gp)
	}
	return posts, rows.Err()
}

func (r *generatedPostRepository) CheckByUserID(ctx context.Context, postID, userID int64) (bool, error) {
	query := "SELECT 1 FROM generated_posts WHERE id = $1 AND user_id = $2"

	var result int
	err := r.db.QueryRowContext(ctx, query, postID, userID).Scan(&result)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		slog.Info(err.Error())
		return false, err
	}

	return result == 1, nil
}

func (r *generatedPostRepository) Remove(ctx context.Context, id int64) error {
	query := `DELETE FROM generated_posts WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
