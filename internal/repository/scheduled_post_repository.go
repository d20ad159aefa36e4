package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/maheshrc27/contentflow/internal/models"
)

type ScheduledPostRepository interface {
	Create(ctx context.Context, sp *models.ScheduledPost) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.ScheduledPost, error)
	ListByUserID(ctx context.Context, userID int64) ([]*models.ScheduledPost, error)
	CheckByUserID(ctx context.Context, postID, userID int64) (bool, error)
	UpdateStatus(ctx context.Context, id int64, status, errorMessage string) error
	Remove(ctx context.Context, id int64) error
}

type scheduledPostRepository struct {
	db *sql.DB
}

func NewScheduledPostRepository(db *sql.DB) ScheduledPostRepository {
	return &scheduledPostRepository{db: db}
}

func (r *scheduledPostRepository) Create(ctx context.Context, sp *models.ScheduledPost) (int64, error) {
	query := `
		INSERT INTO scheduled_posts (user_id, content_id, content, image_url, platforms, scheduled_time, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		sp.UserID, sp.ContentID, sp.Content, sp.ImageURL, sp.Platforms, sp.ScheduledTime, sp.Status,
	).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *scheduledPostRepository) GetByID(ctx context.Context, id int64) (*models.ScheduledPost, error) {
	query := `
		SELECT id, user_id, content_id, content, image_url, platforms, scheduled_time, status, error_message, created_at, updated_at
		FROM scheduled_posts
		WHERE id = $1
	`
	row := r.db.QueryRowContext(ctx, query, id)

	var sp models.ScheduledPost
	err := row.Scan(&sp.ID, &sp.UserID, &sp.ContentID, &sp.Content, &sp.ImageURL, &sp.Platforms,
		&sp.ScheduledTime, &sp.Status, &sp.ErrorMessage, &sp.CreatedAt, &sp.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return &sp, nil
}

func (r *scheduledPostRepository) ListByUserID(ctx context.Context, userID int64) ([]*models.ScheduledPost, error) {
	query := `
		SELECT id, user_id, content_id, content, image_url, platforms, scheduled_time, status, error_message, created_at, updated_at
		FROM scheduled_posts
		WHERE user_id = $1
		ORDER BY scheduled_time
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var posts []*models.ScheduledPost
	for rows.Next() {
		var sp models.ScheduledPost
		err := rows.Scan(&sp.ID, &sp.UserID, &sp.ContentID, &sp.Content, &sp.ImageURL, &sp.Platforms,
			&sp.ScheduledTime, &sp.Status, &sp.ErrorMessage, &sp.CreatedAt, &sp.UpdatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		posts = append(posts, &sp)
	}
	return posts, rows.Err()
}

func (r *scheduledPostRepository) CheckByUserID(ctx context.Context, postID, userID int64) (bool, error) {
	query := "SELECT 1 FROM scheduled_posts WHERE id = $1 AND user_id = $2"

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

func (r *scheduledPostRepository) UpdateStatus(ctx context.Context, id int64, status, errorMessage string) error {
	query := `
		UPDATE scheduled_posts
		SET status = $2,
			error_message = $3,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query, id, status, errorMessage)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *scheduledPostRepository) Remove(ctx context.Context, id int64) error {
	query := `DELETE FROM scheduled_posts WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
