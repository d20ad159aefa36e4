package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/maheshrc27/contentflow/internal/queue"
	"github.com/maheshrc27/contentflow/internal/service"
	"github.com/maheshrc27/contentflow/internal/transfer"
)

type PostHandler struct {
	gs          service.GenerateService
	ss          service.ScheduleService
	AsynqClient *asynq.Client
}

func NewPostHandler(gs service.GenerateService, ss service.ScheduleService, asynqClient *asynq.Client) *PostHandler {
	return &PostHandler{
		gs:          gs,
		ss:          ss,
		AsynqClient: asynqClient,
	}
}

func (h *PostHandler) Generate(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var req transfer.GenerateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Platform == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Platform is required",
		})
	}

	post, err := h.gs.Generate(c.Context(), userID, &req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(post)
}

func (h *PostHandler) ListGenerated(c *fiber.Ctx) error {
	userID := GetUserID(c)

	posts, err := h.gs.ListGenerated(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch posts",
		})
	}

	return c.Status(fiber.StatusOK).JSON(posts)
}

func (h *PostHandler) RemoveGenerated(c *fiber.Ctx) error {
	userID := GetUserID(c)
	postID := c.QueryInt("id", 0)

	err := h.gs.RemoveGenerated(c.Context(), userID, int64(postID))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.SendStatus(fiber.StatusOK)
}

func (h *PostHandler) Schedule(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var req transfer.ScheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Content == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Content is required",
		})
	}
	if len(req.Platforms) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "At least one platform is required",
		})
	}

	postID, delay, err := h.ss.Schedule(c.Context(), userID, &req)
	if err != nil {
		var missing *service.MissingPlatformsError
		if errors.As(err, &missing) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": missing.Error(),
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	err = queue.EnqueuePost(h.AsynqClient, queue.PublishPostPayload{ScheduledPostID: postID}, delay)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Error scheduling post",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"id":      postID,
	})
}

func (h *PostHandler) ListScheduled(c *fiber.Ctx) error {
	userID := GetUserID(c)

	posts, err := h.ss.ListScheduled(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch scheduled posts",
		})
	}

	return c.Status(fiber.StatusOK).JSON(posts)
}

func (h *PostHandler) RemoveScheduled(c *fiber.Ctx) error {
	userID := GetUserID(c)
	postID := c.QueryInt("id", 0)

	err := h.ss.RemoveScheduled(c.Context(), userID, int64(postID))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.SendStatus(fiber.StatusOK)
}
