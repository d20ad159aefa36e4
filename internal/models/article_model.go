package models

import "time"

type Article struct {
	ID          int64     `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	URL         string    `db:"url" json:"url"`
	Source      string    `db:"source" json:"source"`
	ImageURL    string    `db:"image_url" json:"image_url"`
	Category    string    `db:"category" json:"category"`
	PublishedAt time.Time `db:"published_at" json:"published_at"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type Bookmark struct {
	UserID    int64     `db:"user_id" json:"user_id"`
	ArticleID int64     `db:"article_id" json:"article_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
