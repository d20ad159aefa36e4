package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/contentflow/internal/service"
)

type MediaHandler struct {
	s service.MediaService
}

func NewMediaHandler(service service.MediaService) *MediaHandler {
	return &MediaHandler{s: service}
}

func (h *MediaHandler) Upload(c *fiber.Ctx) error {
	userID := GetUserID(c)

	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "File is required",
		})
	}

	asset, err := h.s.Upload(c.Context(), userID, fh)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(asset)
}

func (h *MediaHandler) ListAssets(c *fiber.Ctx) error {
	userID := GetUserID(c)

	assets, err := h.s.ListAssets(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch media assets",
		})
	}

	return c.Status(fiber.StatusOK).JSON(assets)
}

func (h *MediaHandler) RemoveAsset(c *fiber.Ctx) error {
	userID := GetUserID(c)
	assetID := c.QueryInt("id", 0)

	err := h.s.RemoveAsset(c.Context(), userID, int64(assetID))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.SendStatus(fiber.StatusOK)
}
