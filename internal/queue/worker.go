package queue

import (
	"context"
	"encoding/json"
	"log"
	"log/slog"
	"strings"
	"sync"

	"github.com/hibiken/asynq"
	"github.com/maheshrc27/contentflow/internal/models"
	"github.com/maheshrc27/contentflow/internal/platform"
	"github.com/maheshrc27/contentflow/pkg/utils"
)

func (j *Queue) HandlePublishPostTask(ctx context.Context, task *asynq.Task) error {
	var payload PublishPostPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return err
	}

	return j.PublishPost(ctx, payload.ScheduledPostID)
}

func (j *Queue) PublishPost(ctx context.Context, postID int64) error {
	post, err := j.sp.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		log.Printf("Scheduled post %d no longer exists, skipping", postID)
		return nil
	}
	if post.Status != models.ScheduleStatusPending {
		log.Printf("Scheduled post %d already %s, skipping", postID, post.Status)
		return nil
	}

	var platforms []string
	if err := json.Unmarshal([]byte(post.Platforms), &platforms); err != nil {
		slog.Info(err.Error())
		return j.sp.UpdateStatus(ctx, postID, models.ScheduleStatusFailed, "invalid platform list")
	}

	content := &platform.Content{Text: post.Content, ImageURL: post.ImageURL}

	errMessages := make([]string, len(platforms))
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, 4)

	for i, p := range platforms {
		wg.Add(1)
		semaphore <- struct{}{}
		go func(i int, platformName string) {
			defer wg.Done()
			defer func() { <-semaphore }()

			errMessages[i] = j.publishToPlatform(ctx, post, platformName, content)
		}(i, p)
	}
	wg.Wait()

	var failures []string
	for i := range errMessages {
		if errMessages[i] != "" {
			failures = append(failures, errMessages[i])
		}
	}

	if len(failures) == len(platforms) {
		return j.sp.UpdateStatus(ctx, postID, models.ScheduleStatusFailed, strings.Join(failures, "; "))
	}
	return j.sp.UpdateStatus(ctx, postID, models.ScheduleStatusPublished, strings.Join(failures, "; "))
}

func (j *Queue) publishToPlatform(ctx context.Context, post *models.ScheduledPost, platformName string, content *platform.Content) string {
	client, ok := j.clients[platformName]
	if !ok {
		return "unsupported platform: " + platformName
	}

	record := &models.PublishedPost{
		UserID:    post.UserID,
		ContentID: post.ContentID,
		Platform:  platformName,
		Content:   post.Content,
		Status:    models.PublishStatusPublished,
	}

	errMsg := func() string {
		conn, isExist, err := j.sc.GetByUserAndPlatform(ctx, post.UserID, platformName)
		if err != nil {
			return err.Error()
		}
		if !isExist {
			return "Not connected to: " + platformName
		}

		if err := client.ValidateContent(content.Text); err != nil {
			return err.Error()
		}

		accessToken, err := utils.Decrypt(conn.AccessToken, []byte(j.cfg.SecretKey))
		if err != nil {
			slog.Info(err.Error())
			return "Unable to decrypt access token"
		}

		ref, err := client.Publish(ctx, content, accessToken)
		if err != nil {
			slog.Info(err.Error())
			return err.Error()
		}

		record.PostID = ref.PostID
		record.PostURL = ref.PostURL
		return ""
	}()

	if errMsg != "" {
		record.Status = models.PublishStatusFailed
		record.ErrorMessage = errMsg
		log.Printf("Error posting to %s for scheduled post %d: %s", platformName, post.ID, errMsg)
	}
	if _, err := j.pp.Create(ctx, record); err != nil {
		log.Printf("Error saving publish record for scheduled post %d: %v", post.ID, err)
	}

	return errMsg
}
