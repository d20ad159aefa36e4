package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/maheshrc27/contentflow/internal/models"
	"github.com/maheshrc27/contentflow/internal/platform"
	"github.com/maheshrc27/contentflow/internal/repository"
	"github.com/maheshrc27/contentflow/internal/transfer"
)

type ScheduleService interface {
	Schedule(ctx context.Context, userID int64, r *transfer.ScheduleRequest) (postID int64, delay time.Duration, err error)
	ListScheduled(ctx context.Context, userID int64) ([]*models.ScheduledPost, error)
	RemoveScheduled(ctx context.Context, userID, postID int64) error
}

type scheduleService struct {
	clients map[string]platform.Client
	sc      repository.ConnectionRepository
	sp      repository.ScheduledPostRepository
}

func NewScheduleService(clients map[string]platform.Client, sc repository.ConnectionRepository, sp repository.ScheduledPostRepository) ScheduleService {
	return &scheduleService{
		clients: clients,
		sc:      sc,
		sp:      sp,
	}
}

func (s *scheduleService) Schedule(ctx context.Context, userID int64, r *transfer.ScheduleRequest) (int64, time.Duration, error) {
	scheduledTime, err := time.Parse(time.RFC3339, r.ScheduledTime)
	if err != nil {
		return 0, 0, errors.New("Invalid scheduled time")
	}

	delay := time.Until(scheduledTime)
	if delay <= 0 {
		return 0, 0, errors.New("Scheduled time must be in the future")
	}

	var missing []string
	for _, p := range r.Platforms {
		client, ok := s.clients[p]
		if !ok {
			missing = append(missing, p)
			continue
		}
		if err := client.ValidateContent(r.Content); err != nil {
			return 0, 0, err
		}
		_, isExist, err := s.sc.GetByUserAndPlatform(ctx, userID, p)
		if err != nil {
			return 0, 0, err
		}
		if !isExist {
			missing = append(missing, p)
		}
	}
	if len(missing) > 0 {
		return 0, 0, &MissingPlatformsError{Platforms: missing}
	}

	platforms, err := json.Marshal(r.Platforms)
	if err != nil {
		return 0, 0, err
	}

	postID, err := s.sp.Create(ctx, &models.ScheduledPost{
		UserID:        userID,
		ContentID:     r.ContentID,
		Content:       r.Content,
		ImageURL:      r.ImageURL,
		Platforms:     string(platforms),
		ScheduledTime: scheduledTime,
		Status:        models.ScheduleStatusPending,
	})
	if err != nil {
		return 0, 0, err
	}

	return postID, delay, nil
}

func (s *scheduleService) ListScheduled(ctx context.Context, userID int64) ([]*models.ScheduledPost, error) {
	return s.sp.ListByUserID(ctx, userID)
}

func (s *scheduleService) RemoveScheduled(ctx context.Context, userID, postID int64) error {
	isExist, err := s.sp.CheckByUserID(ctx, postID, userID)
	if err != nil {
		return err
	}
	if !isExist {
		return errors.New("Post not found")
	}
	return s.sp.Remove(ctx, postID)
}
