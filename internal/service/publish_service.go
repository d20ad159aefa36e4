package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	config "github.com/maheshrc27/contentflow/configs"
	"github.com/maheshrc27/contentflow/internal/models"
	"github.com/maheshrc27/contentflow/internal/platform"
	"github.com/maheshrc27/contentflow/internal/repository"
	"github.com/maheshrc27/contentflow/internal/transfer"
	"github.com/maheshrc27/contentflow/pkg/utils"
)

const maxConcurrentPublishes = 4

// MissingPlatformsError reports which requested platforms have no stored
// connection. Nothing is published when it is returned.
type MissingPlatformsError struct {
	Platforms []string
}

func (e *MissingPlatformsError) Error() string {
	return fmt.Sprintf("Not connected to: %s", strings.Join(e.Platforms, ", "))
}

type PublishService interface {
	Publish(ctx context.Context, userID int64, r *transfer.PublishRequest) (*transfer.PublishResponse, error)
	ListPublished(ctx context.Context, userID int64) ([]*models.PublishedPost, error)
}

type publishService struct {
	cfg     config.Config
	clients map[string]platform.Client
	sc      repository.ConnectionRepository
	pp      repository.PublishedPostRepository
}

func NewPublishService(cfg config.Config, clients map[string]platform.Client, sc repository.ConnectionRepository, pp repository.PublishedPostRepository) PublishService {
	return &publishService{
		cfg:     cfg,
		clients: clients,
		sc:      sc,
		pp:      pp,
	}
}

func (s *publishService) Publish(ctx context.Context, userID int64, r *transfer.PublishRequest) (*transfer.PublishResponse, error) {
	connections := make(map[string]*models.SocialConnection, len(r.Platforms))
	var missing []string
	for _, p := range r.Platforms {
		if _, ok := s.clients[p]; !ok {
			missing = append(missing, p)
			continue
		}
		conn, isExist, err := s.sc.GetByUserAndPlatform(ctx, userID, p)
		if err != nil {
			return nil, err
		}
		if !isExist {
			missing = append(missing, p)
			continue
		}
		connections[p] = conn
	}

	if len(missing) > 0 {
		return nil, &MissingPlatformsError{Platforms: missing}
	}

	results := make([]transfer.PublishResult, len(r.Platforms))
	content := &platform.Content{Text: r.Content, ImageURL: r.ImageURL}

	var wg sync.WaitGroup
	sem := make(chan struct{}, maxConcurrentPublishes)

	for i, p := range r.Platforms {
		wg.Add(1)
		go func(i int, platformName string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			results[i] = s.publishOne(ctx, s.clients[platformName], connections[platformName], content)
		}(i, p)
	}
	wg.Wait()

	summary := transfer.PublishSummary{Total: len(results)}
	for i := range results {
		if results[i].Success {
			summary.Successful++
		} else {
			summary.Failed++
		}
	}

	for i := range results {
		post := &models.PublishedPost{
			UserID:    userID,
			ContentID: r.ContentID,
			Platform:  results[i].Platform,
			PostID:    results[i].PostID,
			PostURL:   results[i].PostURL,
			Content:   r.Content,
			Status:    models.PublishStatusPublished,
		}
		if !results[i].Success {
			post.Status = models.PublishStatusFailed
			post.ErrorMessage = results[i].Error
		}
		if _, err := s.pp.Create(ctx, post); err != nil {
			slog.Info(err.Error())
		}
	}

	return &transfer.PublishResponse{
		Success: summary.Successful > 0,
		Results: results,
		Summary: summary,
	}, nil
}

func (s *publishService) publishOne(ctx context.Context, client platform.Client, conn *models.SocialConnection, content *platform.Content) transfer.PublishResult {
	result := transfer.PublishResult{Platform: client.Name()}

	if err := client.ValidateContent(content.Text); err != nil {
		result.Error = err.Error()
		return result
	}

	accessToken, err := utils.Decrypt(conn.AccessToken, []byte(s.cfg.SecretKey))
	if err != nil {
		slog.Info(err.Error())
		result.Error = "Unable to decrypt access token"
		return result
	}

	ref, err := client.Publish(ctx, content, accessToken)
	if err != nil {
		slog.Info(err.Error())
		result.Error = err.Error()
		return result
	}

	result.Success = true
	result.PostID = ref.PostID
	result.PostURL = ref.PostURL
	return result
}

func (s *publishService) ListPublished(ctx context.Context, userID int64) ([]*models.PublishedPost, error) {
	return s.pp.ListByUserID(ctx, userID)
}
