package queue

import (
	config "github.com/maheshrc27/contentflow/configs"
	"github.com/maheshrc27/contentflow/internal/platform"
	"github.com/maheshrc27/contentflow/internal/repository"
)

type Queue struct {
	cfg     config.Config
	clients map[string]platform.Client
	sp      repository.ScheduledPostRepository
	sc      repository.ConnectionRepository
	pp      repository.PublishedPostRepository
}

func NewQueue(
	cfg config.Config,
	clients map[string]platform.Client,
	sp repository.ScheduledPostRepository,
	sc repository.ConnectionRepository,
	pp repository.PublishedPostRepository) *Queue {
	return &Queue{
		cfg:     cfg,
		clients: clients,
		sp:      sp,
		sc:      sc,
		pp:      pp,
	}
}

const TaskTypePublishPost = "publish:post"

type PublishPostPayload struct {
	ScheduledPostID int64 `json:"scheduled_post_id"`
}
