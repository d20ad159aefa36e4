package service

import (
	"context"
	"errors"

	"github.com/maheshrc27/contentflow/internal/models"
	"github.com/maheshrc27/contentflow/internal/repository"
)

const articleListLimit = 50

type ArticleService interface {
	ListArticles(ctx context.Context, category string) ([]*models.Article, error)
	AddBookmark(ctx context.Context, userID, articleID int64) error
	RemoveBookmark(ctx context.Context, userID, articleID int64) error
	ListBookmarks(ctx context.Context, userID int64) ([]*models.Article, error)
}

type articleService struct {
	ar repository.ArticleRepository
	bm repository.BookmarkRepository
}

func NewArticleService(ar repository.ArticleRepository, bm repository.BookmarkRepository) ArticleService {
	return &articleService{
		ar: ar,
		bm: bm,
	}
}

func (s *articleService) ListArticles(ctx context.Context, category string) ([]*models.Article, error) {
	return s.ar.List(ctx, category, articleListLimit)
}

func (s *articleService) AddBookmark(ctx context.Context, userID, articleID int64) error {
	article, err := s.ar.GetByID(ctx, articleID)
	if err != nil {
		return err
	}
	if article == nil {
		return errors.New("Article not found")
	}
	return s.bm.Create(ctx, userID, articleID)
}

func (s *articleService) RemoveBookmark(ctx context.Context, userID, articleID int64) error {
	return s.bm.Remove(ctx, userID, articleID)
}

func (s *articleService) ListBookmarks(ctx context.Context, userID int64) ([]*models.Article, error) {
	return s.bm.ListByUserID(ctx, userID)
}
