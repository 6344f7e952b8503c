package handlers

import (
	"errors"
	"log"

	"visaconsult/internal/core/services"
	"visaconsult/internal/pkg/pagination"
	"visaconsult/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// FeedbackHandler handles feedback endpoints
type FeedbackHandler struct {
	feedbackService *services.FeedbackService
}

// NewFeedbackHandler creates a new feedback handler
func NewFeedbackHandler(feedbackService *services.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{
		feedbackService: feedbackService,
	}
}

// Create handles submitting feedback
// @Summary Submit feedback
// @Tags Feedback
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateFeedbackInput true "Feedback"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /feedback [post]
func (h *FeedbackHandler) Create(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.CreateFeedbackInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	feedback, err := h.feedbackService.Create(c.Context(), &input, a)
	if err != nil {
		if errors.Is(err, services.ErrFeedbackEmpty) || errors.Is(err, services.ErrFeedbackRating) {
			return response.BadRequest(c, err.Error())
		}
		log.Printf("❌ Feedback error: %v", err)
		return response.InternalServerError(c, "Failed to submit feedback")
	}

	return response.Created(c, "Thank you for your feedback", feedback)
}

// ListMine handles listing own feedback
// @Summary List own feedback
// @Tags Feedback
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /feedback/my [get]
func (h *FeedbackHandler) ListMine(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	items, err := h.feedbackService.ListMine(c.Context(), a)
	if err != nil {
		return response.InternalServerError(c, "Failed to list feedback")
	}

	return response.Success(c, "Feedback retrieved successfully", items)
}

// List handles listing all feedback (Admin only)
// @Summary List all feedback
// @Tags Feedback
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Router /admin/feedback [get]
func (h *FeedbackHandler) List(c *fiber.Ctx) error {
	result, err := h.feedbackService.List(c.Context(), pagination.GetParams(c))
	if err != nil {
		return response.InternalServerError(c, "Failed to list feedback")
	}

	return response.Success(c, "Feedback retrieved successfully", result)
}
