package services

import (
	"context"

	"github.com/joshua-takyi/ticketing/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReviewService struct {
	reviewsRepo models.ReviewsRepo
	eventsRepo  models.EventsRepo
}

func NewReviewService(reviewsRepo models.ReviewsRepo, eventsRepo models.EventsRepo) *ReviewService {
	return &ReviewService{
		reviewsRepo: reviewsRepo,
		eventsRepo:  eventsRepo,
	}
}

func (rs *ReviewService) CreateReview(ctx context.Context, eventID, userID primitive.ObjectID, review *models.Review) (*models.Review, error) {
	review.ID = primitive.NilObjectID
	review.EventID = eventID
	review.UserID = userID
	review.Sanitize()
	if err := review.ValidateReview(); err != nil {
		return nil, err
	}
	if _, err := rs.eventsRepo.GetEventByID(ctx, eventID); err != nil {
		return nil, err
	}
	review.BeforeCreate()
	return rs.reviewsRepo.CreateReview(ctx, review)
}

func (rs *ReviewService) ListByEvent(ctx context.Context, eventID primitive.ObjectID) ([]*models.Review, error) {
	return rs.reviewsRepo.GetReviewsByEvent(ctx, eventID)
}

func (rs *ReviewService) DeleteReview(ctx context.Context, reviewID, userID primitive.ObjectID) error {
	return rs.reviewsRepo.DeleteReview(ctx, userID, reviewID)
}
