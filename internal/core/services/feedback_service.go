package services

import (
	"context"
	"errors"
	"strings"

	"visaconsult/internal/adapters/persistence/models"
	"visaconsult/internal/adapters/persistence/repositories"
	"visaconsult/internal/core/domain"
	"visaconsult/internal/pkg/pagination"
)

// Feedback errors
var (
	ErrFeedbackEmpty  = errors.New("feedback message is required")
	ErrFeedbackRating = errors.New("rating must be between 1 and 5")
)

// FeedbackService records and lists user feedback
type FeedbackService struct {
	store *repositories.Store
}

// NewFeedbackService creates a new feedback service
func NewFeedbackService(store *repositories.Store) *FeedbackService {
	return &FeedbackService{store: store}
}

// CreateFeedbackInput represents feedback input
type CreateFeedbackInput struct {
	Message string `json:"message"`
	Rating  *int   `json:"rating"`
}

// Create stores feedback from actor
func (s *FeedbackService) Create(ctx context.Context, input *CreateFeedbackInput, actor domain.Actor) (*models.Feedback, error) {
	message := strings.TrimSpace(input.Message)
	if message == "" {
		return nil, ErrFeedbackEmpty
	}
	if input.Rating != nil && (*input.Rating < 1 || *input.Rating > 5) {
		return nil, ErrFeedbackRating
	}

	feedback := &models.Feedback{UserID: actor.ID, Message: message, Rating: input.Rating}
	if err := s.store.Feedback.Create(ctx, feedback); err != nil {
		return nil, err
	}
	return feedback, nil
}

// ListMine lists the actor's feedback
func (s *FeedbackService) ListMine(ctx context.Context, actor domain.Actor) ([]*models.Feedback, error) {
	return s.store.Feedback.ListByUser(ctx, actor.ID)
}

// List pages through all feedback
func (s *FeedbackService) List(ctx context.Context, params *pagination.Params) (*pagination.Response[*models.Feedback], error) {
	items, total, err := s.store.Feedback.List(ctx, params.Offset, params.Limit)
	if err != nil {
		return nil, err
	}
	return pagination.NewResponse(items, params, total), nil
}
