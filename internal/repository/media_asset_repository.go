package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/maheshrc27/contentflow/internal/models"
)

type MediaAssetRepository interface {
	Create(ctx context.Context, m *models.MediaAsset) (int64, error)
	ListByUserID(ctx context.Context, userID int64) ([]*models.MediaAsset, error)
	GetByUserID(ctx context.Context, assetID, userID int64) (*models.MediaAsset, bool, error)
	Remove(ctx context.Context, id int64) error
}

type mediaAssetRepository struct {
	db *sql.DB
}

func NewMediaAssetRepository(db *sql.DB) MediaAssetRepository {
	return &mediaAssetRepository{db: db}
}

func (r *mediaAssetRepository) Create(ctx context.Context, m *models.MediaAsset) (int64, error) {
	query := `
		INSERT INTO media_assets (user_id, file_name, file_type, file_size, file_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query, m.UserID, m.FileName, m.FileType, m.FileSize, m.FileURL).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *mediaAssetRepository) ListByUserID(ctx context.Context, userID int64) ([]*models.MediaAsset, error) {
	query := `SELECT id, user_id, file_name, file_type, file_size, file_url, created_at FROM media_assets WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var assets []*models.MediaAsset
	for rows.Next() {
		var m models.MediaAsset
		err := rows.Scan(&m.ID, &m.UserID, &m.FileName, &m.FileType, &m.FileSize, &m.FileURL, &m.CreatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		assets = append(assets, &m)
	}
	return assets, rows.Err()
}

func (r *mediaAssetRepository) GetByUserID(ctx context.Context, assetID, userID int64) (*models.MediaAsset, bool, error) {
	query := `
		SELECT id, user_id, file_name, file_type, file_size, file_url
		FROM media_assets
		WHERE id = $1 AND user_id = $2
	`

	var m models.MediaAsset
	err := r.db.QueryRowContext(ctx, query, assetID, userID).Scan(&m.ID, &m.UserID, &m.FileName, &m.FileType, &m.FileSize, &m.FileURL)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}

	return &m, true, nil
}

func (r *mediaAssetRepository) Remove(ctx context.Context, id int64) error {
	query := `DELETE FROM media_assets WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
