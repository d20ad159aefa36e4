package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/maheshrc27/contentflow/internal/models"
)

type ConnectionRepository interface {
	Upsert(ctx context.Context, sc *models.SocialConnection) (int64, error)
	GetByUserAndPlatform(ctx context.Context, userID int64, platform string) (*models.SocialConnection, bool, error)
	ListByUserID(ctx context.Context, userID int64) ([]*models.SocialConnection, error)
	ListInfoByUserID(ctx context.Context, userID int64) ([]*models.SocialConnection, error)
	ListExpiring(ctx context.Context, initialTime, finalTime time.Time) ([]*models.SocialConnection, error)
	UpdateTokens(ctx context.Context, id int64, accessToken, refreshToken string, expiresAt time.Time) error
	Remove(ctx context.Context, userID int64, platform string) error
}

type connectionRepository struct {
	db *sql.DB
}

func NewConnectionRepository(db *sql.DB) ConnectionRepository {
	return &connectionRepository{db: db}
}

// nullableTime maps the zero time to NULL. Connections whose provider sent
// no TTL carry a NULL token_expires_at and never match ListExpiring.
func nullableTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

// Upsert keys on (user_id, platform): reconnecting a platform replaces the
// prior row. Concurrent callbacks resolve last-write-wins at the database.
func (r *connectionRepository) Upsert(ctx context.Context, sc *models.SocialConnection) (int64, error) {
	query := `
		INSERT INTO social_connections(
			user_id,
			platform,
			platform_user_id,
			platform_username,
			access_token,
			refresh_token,
			token_expires_at,
			connected_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, CURRENT_TIMESTAMP)
		ON CONFLICT (user_id, platform) DO UPDATE SET
			platform_user_id = EXCLUDED.platform_user_id,
			platform_username = EXCLUDED.platform_username,
			access_token = EXCLUDED.access_token,
			refresh_token = EXCLUDED.refresh_token,
			token_expires_at = EXCLUDED.token_expires_at,
			connected_at = CURRENT_TIMESTAMP,
			updated_at = CURRENT_TIMESTAMP
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		sc.UserID,
		sc.Platform,
		sc.PlatformUserID,
		sc.PlatformUsername,
		sc.AccessToken,
		sc.RefreshToken,
		nullableTime(sc.TokenExpiresAt),
	).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *connectionRepository) GetByUserAndPlatform(ctx context.Context, userID int64, platform string) (*models.SocialConnection, bool, error) {
	query := `
		SELECT id, user_id, platform, platform_user_id, platform_username,
			access_token, refresh_token, token_expires_at, connected_at
		FROM social_connections
		WHERE user_id = $1 AND platform = $2
	`
	row := r.db.QueryRowContext(ctx, query, userID, platform)

	var sc models.SocialConnection
	var expiresAt sql.NullTime
	err := row.Scan(&sc.ID, &sc.UserID, &sc.Platform, &sc.PlatformUserID, &sc.PlatformUsername,
		&sc.AccessToken, &sc.RefreshToken, &expiresAt, &sc.ConnectedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}
	sc.TokenExpiresAt = expiresAt.Time

	return &sc, true, nil
}

func (r *connectionRepository) ListByUserID(ctx context.Context, userID int64) ([]*models.SocialConnection, error) {
	query := `
		SELECT id, user_id, platform, platform_user_id, platform_username,
			access_token, refresh_token, token_expires_at, connected_at
		FROM social_connections
		WHERE user_id = $1
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var connections []*models.SocialConnection
	for rows.Next() {
		var sc models.SocialConnection
		var expiresAt sql.NullTime
		err := rows.Scan(&sc.ID, &sc.UserID, &sc.Platform, &sc.PlatformUserID, &sc.PlatformUsername,
			&sc.AccessToken, &sc.RefreshToken, &expiresAt, &sc.ConnectedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		sc.TokenExpiresAt = expiresAt.Time
		connections = append(connections, &sc)
	}
	return connections, rows.Err()
}

// ListInfoByUserID excludes token columns; the result is safe to serialize.
func (r *connectionRepository) ListInfoByUserID(ctx context.Context, userID int64) ([]*models.SocialConnection, error) {
	query := `SELECT id, platform, platform_user_id, platform_username, connected_at FROM social_connections WHERE user_id = $1`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var connections []*models.SocialConnection
	for rows.Next() {
		var sc models.SocialConnection
		err := rows.Scan(&sc.ID, &sc.Platform, &sc.PlatformUserID, &sc.PlatformUsername, &sc.ConnectedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		connections = append(connections, &sc)
	}
	return connections, rows.Err()
}

func (r *connectionRepository) ListExpiring(ctx context.Context, initialTime, finalTime time.Time) ([]*models.SocialConnection, error) {
	query := `
		SELECT id, user_id, platform, access_token, refresh_token, token_expires_at
		FROM social_connections
		WHERE (token_expires_at BETWEEN $1 AND $2)
		OR (token_expires_at < $1)
	`
	rows, err := r.db.QueryContext(ctx, query, initialTime, finalTime)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var connections []*models.SocialConnection
	for rows.Next() {
		var sc models.SocialConnection
		var expiresAt sql.NullTime
		err := rows.Scan(&sc.ID, &sc.UserID, &sc.Platform, &sc.AccessToken, &sc.RefreshToken, &expiresAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		sc.TokenExpiresAt = expiresAt.Time
		connections = append(connections, &sc)
	}

	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return connections, nil
}

func (r *connectionRepository) UpdateTokens(ctx context.Context, id int64, accessToken, refreshToken string, expiresAt time.Time) error {
	query := `
		UPDATE social_connections
		SET
			access_token = COALESCE(NULLIF($2, ''), access_token),
			refresh_token = COALESCE(NULLIF($3, ''), refresh_token),
			token_expires_at = $4,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query, id, accessToken, refreshToken, nullableTime(expiresAt))
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

// Remove is idempotent: deleting a connection that does not exist is a
// no-op success.
func (r *connectionRepository) Remove(ctx context.Context, userID int64, platform string) error {
	query := `DELETE FROM social_connections WHERE user_id = $1 AND platform = $2`
	_, err := r.db.ExecContext(ctx, query, userID, platform)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
