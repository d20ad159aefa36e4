package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/maheshrc27/contentflow/internal/models"
)

type SettingsRepository interface {
	Upsert(ctx context.Context, s *models.Settings) error
	GetByUserID(ctx context.Context, userID int64) (*models.Settings, bool, error)
	ListCategories(ctx context.Context) ([]string, error)
}

type settingsRepository struct {
	db *sql.DB
}

func NewSettingsRepository(db *sql.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) Upsert(ctx context.Context, s *models.Settings) error {
	query := `
		INSERT INTO settings (user_id, categories, posting_time)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET
			categories = EXCLUDED.categories,
			posting_time = EXCLUDED.posting_time,
			updated_at = NOW()
	`
	_, err := r.db.ExecContext(ctx, query, s.UserID, s.Categories, s.PostingTime)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *settingsRepository) GetByUserID(ctx context.Context, userID int64) (*models.Settings, bool, error) {
	query := `SELECT user_id, categories, posting_time FROM settings WHERE user_id = $1`
	row := r.db.QueryRowContext(ctx, query, userID)

	var s models.Settings
	err := row.Scan(&s.UserID, &s.Categories, &s.PostingTime)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}

	return &s, true, nil
}

func (r *settingsRepository) ListCategories(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT categories FROM settings WHERE categories <> ''`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}
