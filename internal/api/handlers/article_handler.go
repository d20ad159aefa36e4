package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/contentflow/internal/service"
	"github.com/maheshrc27/contentflow/internal/transfer"
)

type ArticleHandler struct {
	s service.ArticleService
}

func NewArticleHandler(service service.ArticleService) *ArticleHandler {
	return &ArticleHandler{s: service}
}

func (h *ArticleHandler) ListArticles(c *fiber.Ctx) error {
	category := c.Query("category")

	articles, err := h.s.ListArticles(c.Context(), category)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch articles",
		})
	}

	return c.Status(fiber.StatusOK).JSON(articles)
}

func (h *ArticleHandler) AddBookmark(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var req transfer.BookmarkRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	err := h.s.AddBookmark(c.Context(), userID, req.ArticleID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{"success": true})
}

func (h *ArticleHandler) RemoveBookmark(c *fiber.Ctx) error {
	userID := GetUserID(c)
	articleID := c.QueryInt("id", 0)

	err := h.s.RemoveBookmark(c.Context(), userID, int64(articleID))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to remove bookmark",
		})
	}

	return c.JSON(fiber.Map{"success": true})
}

func (h *ArticleHandler) ListBookmarks(c *fiber.Ctx) error {
	userID := GetUserID(c)

	articles, err := h.s.ListBookmarks(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch bookmarks",
		})
	}

	return c.Status(fiber.StatusOK).JSON(articles)
}
