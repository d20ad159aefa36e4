package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/contentflow/internal/service"
	"github.com/maheshrc27/contentflow/internal/transfer"
)

type PublishHandler struct {
	s service.PublishService
}

func NewPublishHandler(service service.PublishService) *PublishHandler {
	return &PublishHandler{s: service}
}

func (h *PublishHandler) Publish(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var req transfer.PublishRequest
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

	resp, err := h.s.Publish(c.Context(), userID, &req)
	if err != nil {
		var missing *service.MissingPlatformsError
		if errors.As(err, &missing) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": missing.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to publish post",
		})
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

func (h *PublishHandler) ListPublished(c *fiber.Ctx) error {
	userID := GetUserID(c)

	posts, err := h.s.ListPublished(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch published posts",
		})
	}

	return c.Status(fiber.StatusOK).JSON(posts)
}
