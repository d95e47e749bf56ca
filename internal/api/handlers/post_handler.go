package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/valleops/postpilot/internal/service"
	"github.com/valleops/postpilot/internal/transfer"
)

type PostHandler struct {
	intake service.IntakeService
	posts  service.PostService
}

func NewPostHandler(intake service.IntakeService, posts service.PostService) *PostHandler {
	return &PostHandler{intake: intake, posts: posts}
}

func (h *PostHandler) CreatePost(c *fiber.Ctx) error {
	actorID := GetActorID(c)

	var sub transfer.PostSubmission
	if err := c.BodyParser(&sub); err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	result, err := h.intake.SubmitPost(c.Context(), actorID, &sub)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

func (h *PostHandler) ListPosts(c *fiber.Ctx) error {
	actorID := GetActorID(c)
	postID := c.Query("id")

	if postID != "" {
		post, err := h.posts.GetPost(c.Context(), actorID, postID)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusOK).JSON(post)
	}

	clientID := c.Query("client_id")
	posts, err := h.posts.ListPosts(c.Context(), actorID, clientID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(posts)
}

func (h *PostHandler) RemovePost(c *fiber.Ctx) error {
	actorID := GetActorID(c)
	postID := c.Query("id")

	if err := h.posts.RemovePost(c.Context(), actorID, postID); err != nil {
		return serviceError(c, err)
	}

	return c.SendStatus(fiber.StatusOK)
}
