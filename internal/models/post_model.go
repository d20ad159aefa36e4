package models

import "time"

type GeneratedPost struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	ArticleID int64     `db:"article_id" json:"article_id"`
	Platform  string    `db:"platform" json:"platform"`
	Tone      string    `db:"tone" json:"tone"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type PublishedPost struct {
	ID           int64     `db:"id" json:"id"`
	UserID       int64     `db:"user_id" json:"user_id"`
	ContentID    int64     `db:"content_id" json:"content_id"`
	Platform     string    `db:"platform" json:"platform"`
	PostID       string    `db:"post_id" json:"post_id"`
	PostURL      string    `db:"post_url" json:"post_url"`
	Content      string    `db:"content" json:"content"`
	Status       string    `db:"status" json:"status"`
	ErrorMessage string    `db:"error_message" json:"error_message"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type ScheduledPost struct {
	ID            int64     `db:"id" json:"id"`
	UserID        int64     `db:"user_id" json:"user_id"`
	ContentID     int64     `db:"content_id" json:"content_id"`
	Content       string    `db:"content" json:"content"`
	ImageURL      string    `db:"image_url" json:"image_url"`
	Platforms     string    `db:"platforms" json:"platforms"` // JSON-encoded list
	ScheduledTime time.Time `db:"scheduled_time" json:"scheduled_time"`
	Status        string    `db:"status" json:"status"`
	ErrorMessage  string    `db:"error_message" json:"error_message"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

type MediaAsset struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	FileName  string    `db:"file_name" json:"file_name"`
	FileType  string    `db:"file_type" json:"file_type"`
	FileSize  int64     `db:"file_size" json:"file_size"`
	FileURL   string    `db:"file_url" json:"file_url"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

const (
	PublishStatusPublished = "published"
	PublishStatusFailed    = "failed"

	ScheduleStatusPending   = "pending"
	ScheduleStatusPublished = "published"
	ScheduleStatusFailed    = "failed"
)
