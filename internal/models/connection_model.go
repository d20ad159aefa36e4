package models

import "time"

// SocialConnection holds one connected account per (user, platform). The
// access and refresh tokens are stored encrypted and must never be written
// to logs or responses in plaintext.
type SocialConnection struct {
	ID               int64     `db:"id" json:"id"`
	UserID           int64     `db:"user_id" json:"user_id"`
	Platform         string    `db:"platform" json:"platform"`
	PlatformUserID   string    `db:"platform_user_id" json:"platform_user_id"`
	PlatformUsername string    `db:"platform_username" json:"platform_username"`
	AccessToken      string    `db:"access_token" json:"-"`
	RefreshToken     string    `db:"refresh_token" json:"-"`
	TokenExpiresAt   time.Time `db:"token_expires_at" json:"token_expires_at"`
	ConnectedAt      time.Time `db:"connected_at" json:"connected_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

const (
	PlatformTwitter   = "twitter"
	PlatformFacebook  = "facebook"
	PlatformInstagram = "instagram"
	PlatformThreads   = "threads"
)
